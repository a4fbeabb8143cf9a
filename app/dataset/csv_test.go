package dataset

import (
	"bytes"
	"strings"
	"testing"
)

func TestCSV_RoundTrip(t *testing.T) {
	d := New()
	d.Append(Record{"id": "p1", "text": "hello, world", "url": "https://example.com/p1"})
	d.Append(Record{"id": "p2", "text": "line\nbreak", "url": ""})

	var buf bytes.Buffer
	if err := d.WriteCSV(&buf); err != nil {
		t.Fatalf("WriteCSV failed: %v", err)
	}

	loaded, skipped, err := ReadCSV(&buf)
	if err != nil {
		t.Fatalf("ReadCSV failed: %v", err)
	}
	if skipped != 0 {
		t.Errorf("Expected 0 skipped rows, got %d", skipped)
	}
	if loaded.Len() != 2 {
		t.Fatalf("Expected 2 rows, got %d", loaded.Len())
	}
	if loaded.Rows()[0]["text"] != "hello, world" {
		t.Errorf("Expected quoted comma preserved, got '%s'", loaded.Rows()[0]["text"])
	}
	if loaded.Rows()[1]["text"] != "line\nbreak" {
		t.Errorf("Expected embedded newline preserved, got '%s'", loaded.Rows()[1]["text"])
	}
}

func TestReadCSV_SkipsMalformedRows(t *testing.T) {
	input := "id,text\n" +
		"p1,first\n" +
		"p2,second,extra-field\n" +
		"p3,third\n"

	d, skipped, err := ReadCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadCSV failed: %v", err)
	}
	if skipped != 1 {
		t.Errorf("Expected 1 skipped row, got %d", skipped)
	}
	if d.Len() != 2 {
		t.Fatalf("Expected 2 rows, got %d", d.Len())
	}
	if d.Rows()[1]["id"] != "p3" {
		t.Errorf("Expected parsing to continue after a bad row, got '%s'", d.Rows()[1]["id"])
	}
}

func TestReadCSV_Empty(t *testing.T) {
	d, skipped, err := ReadCSV(strings.NewReader(""))
	if err != nil {
		t.Fatalf("ReadCSV failed on empty input: %v", err)
	}
	if skipped != 0 || d.Len() != 0 {
		t.Errorf("Expected empty dataset, got %d rows, %d skipped", d.Len(), skipped)
	}
}
