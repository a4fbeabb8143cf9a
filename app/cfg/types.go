package cfg

type Cfg struct {
	// Storage configuration
	DataDir      string
	PlatformsDir string
	SettingsDB   string

	// Fetch service configuration
	ApifyToken   string
	ApifyBaseURL string

	// Scrape defaults
	PostLimit    int
	CommentLimit int
	Concurrency  int
	SkipComments bool

	// Application configuration
	Port           string
	WorkerCount    int
	ScrapeInterval int
	APIAccessKey   string

	// Application metadata
	UserAgent string
	Timezone  string
	Debug     bool
	Version   string
}
