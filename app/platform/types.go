package platform

// Config describes one platform to the scrape engine: which fetch service
// actors to run, how to build their inputs, and which columns of the
// returned records carry identifiers. The engine is generic; everything
// platform specific lives here.
type Config struct {
	Name string

	// Fetch service actor identifiers
	PostsActor    string
	CommentsActor string

	// ProfileURL is a format string turning a handle into the profile URL
	// submitted to the posts actor.
	ProfileURL string

	// Identifier columns in the returned records
	PostIDColumn    string
	CommentIDColumn string

	// PostRefColumn is the post record column whose value is submitted to
	// the comments actor (the fetch service addresses posts by URL, not id).
	PostRefColumn string

	// CommentRefColumn is stamped onto every fetched comment record with the
	// originating post reference, since the fetch service response has no
	// memory of which post it was answering.
	CommentRefColumn string

	// Post context columns joined onto fetched comments. Optional: when a
	// column is unset or the originating post is absent from the current
	// fetch, the joined context stays empty instead of dropping the batch.
	PostTextColumn   string
	PostAuthorColumn string

	// ReplyCountColumn names the post column holding the reported reply
	// count. When ReplyCountFilter is set, posts reporting zero replies are
	// not scheduled for comment fetching. Off by default: the reported
	// counts are not reliable on every platform.
	ReplyCountColumn string
	ReplyCountFilter bool

	Enabled bool
}

type overrideFile struct {
	Actors struct {
		Posts    string `yaml:"posts"`
		Comments string `yaml:"comments"`
	} `yaml:"actors"`
	Columns struct {
		PostID     string `yaml:"post_id"`
		CommentID  string `yaml:"comment_id"`
		PostRef    string `yaml:"post_ref"`
		CommentRef string `yaml:"comment_ref"`
		PostText   string `yaml:"post_text"`
		PostAuthor string `yaml:"post_author"`
		ReplyCount string `yaml:"reply_count"`
	} `yaml:"columns"`
	Settings struct {
		Enabled          *bool  `yaml:"enabled"`
		ReplyCountFilter *bool  `yaml:"reply_count_filter"`
		ProfileURL       string `yaml:"profile_url"`
	} `yaml:"settings"`
}
