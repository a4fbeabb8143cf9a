package platform

// Actor identifiers of the scraping backend's published actors.
const (
	twitterActor          = "61RPP7dywgiy0JPD0"
	facebookPostsActor    = "KoJrdxJCTtpon81KY"
	facebookCommentsActor = "thDyWzaBBQxt4VOfW"
	instagramActor        = "shu8hvrXbJbY3Eb9W"
)

func defaults() map[string]*Config {
	return map[string]*Config{
		"twitter": {
			Name:             "twitter",
			PostsActor:       twitterActor,
			CommentsActor:    twitterActor,
			ProfileURL:       "https://x.com/%s",
			PostIDColumn:     "id",
			CommentIDColumn:  "id",
			PostRefColumn:    "url",
			CommentRefColumn: "post_url",
			PostTextColumn:   "text",
			PostAuthorColumn: "author",
			ReplyCountColumn: "replyCount",
			Enabled:          true,
		},
		"facebook": {
			Name:             "facebook",
			PostsActor:       facebookPostsActor,
			CommentsActor:    facebookCommentsActor,
			ProfileURL:       "https://www.facebook.com/%s",
			PostIDColumn:     "postId",
			CommentIDColumn:  "id",
			PostRefColumn:    "url",
			CommentRefColumn: "post_url",
			PostTextColumn:   "text",
			PostAuthorColumn: "user",
			ReplyCountColumn: "commentsCount",
			Enabled:          true,
		},
		"instagram": {
			Name:             "instagram",
			PostsActor:       instagramActor,
			CommentsActor:    instagramActor,
			ProfileURL:       "https://www.instagram.com/%s/",
			PostIDColumn:     "id",
			CommentIDColumn:  "id",
			PostRefColumn:    "url",
			CommentRefColumn: "post_url",
			PostTextColumn:   "caption",
			PostAuthorColumn: "ownerUsername",
			ReplyCountColumn: "commentsCount",
			Enabled:          true,
		},
	}
}
