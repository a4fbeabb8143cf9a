package platform

import (
	"testing"
	"time"
)

func TestPostsInput(t *testing.T) {
	r := NewRegistry(t.TempDir())
	if err := r.Run(); err != nil {
		t.Fatal(err)
	}

	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 3, 8, 0, 0, 0, 0, time.UTC)

	twitter, _ := r.Get("twitter")
	in := twitter.PostsInput("acme", start, end, 50)
	urls, ok := in["startUrls"].([]string)
	if !ok || len(urls) != 1 || urls[0] != "https://x.com/acme" {
		t.Errorf("Unexpected twitter startUrls: %v", in["startUrls"])
	}
	if in["start"] != "2025-03-01" || in["end"] != "2025-03-08" {
		t.Errorf("Unexpected twitter date range: %v / %v", in["start"], in["end"])
	}
	if in["maxItems"] != 50 {
		t.Errorf("Unexpected twitter limit: %v", in["maxItems"])
	}

	instagram, _ := r.Get("instagram")
	in = instagram.PostsInput("acme", start, end, 50)
	if in["resultsType"] != "posts" {
		t.Errorf("Unexpected instagram results type: %v", in["resultsType"])
	}
	if in["onlyPostsNewerThan"] != "2025-03-01" {
		t.Errorf("Unexpected instagram start: %v", in["onlyPostsNewerThan"])
	}

	facebook, _ := r.Get("facebook")
	in = facebook.PostsInput("acme", start, end, 50)
	wrapped, ok := in["startUrls"].([]map[string]any)
	if !ok || len(wrapped) != 1 || wrapped[0]["url"] != "https://www.facebook.com/acme" {
		t.Errorf("Unexpected facebook startUrls: %v", in["startUrls"])
	}
}

func TestCommentsInput(t *testing.T) {
	r := NewRegistry(t.TempDir())
	if err := r.Run(); err != nil {
		t.Fatal(err)
	}

	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	twitter, _ := r.Get("twitter")
	in := twitter.CommentsInput("https://x.com/acme/status/1", start, 200)
	urls, ok := in["startUrls"].([]string)
	if !ok || len(urls) != 1 || urls[0] != "https://x.com/acme/status/1" {
		t.Errorf("Unexpected twitter startUrls: %v", in["startUrls"])
	}

	instagram, _ := r.Get("instagram")
	in = instagram.CommentsInput("https://www.instagram.com/p/abc/", start, 200)
	if in["resultsType"] != "comments" {
		t.Errorf("Unexpected instagram results type: %v", in["resultsType"])
	}

	facebook, _ := r.Get("facebook")
	in = facebook.CommentsInput("https://www.facebook.com/acme/posts/1", start, 200)
	if in["post_url"] != "https://www.facebook.com/acme/posts/1" {
		t.Errorf("Unexpected facebook post_url: %v", in["post_url"])
	}
	if in["count"] != 200 {
		t.Errorf("Unexpected facebook count: %v", in["count"])
	}
}
