package platform

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"
)

// Registry holds the platform configurations: built-in defaults, optionally
// adjusted by per-platform YAML override files.
type Registry struct {
	platformsDir string
	cache        map[string]*Config
	mu           sync.RWMutex
}

func NewRegistry(platformsDir string) *Registry {
	return &Registry{
		platformsDir: platformsDir,
		cache:        make(map[string]*Config),
	}
}

// Run populates the registry with the built-in platform configurations and
// applies any *.yml override files found in the platforms directory.
func (r *Registry) Run() error {
	r.mu.Lock()
	for name, cfg := range defaults() {
		r.cache[name] = cfg
	}
	r.mu.Unlock()

	if _, err := os.Stat(r.platformsDir); os.IsNotExist(err) {
		return nil
	}

	files, err := filepath.Glob(filepath.Join(r.platformsDir, "*.yml"))
	if err != nil {
		return fmt.Errorf("failed to find YML files: %w", err)
	}

	for _, file := range files {
		fileName := filepath.Base(file)
		name := fileName[:len(fileName)-4]

		if err := r.applyOverride(name, file); err != nil {
			return fmt.Errorf("error loading %s: %w", file, err)
		}

		slog.Debug("Platform override loaded", "platform", name)
	}

	return nil
}

func (r *Registry) applyOverride(name, file string) error {
	data, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	var o overrideFile
	if err := yaml.Unmarshal(data, &o); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	cfg, ok := r.cache[name]
	if !ok {
		return fmt.Errorf("unknown platform '%s' (overrides only adjust built-in platforms)", name)
	}

	if o.Actors.Posts != "" {
		cfg.PostsActor = o.Actors.Posts
	}
	if o.Actors.Comments != "" {
		cfg.CommentsActor = o.Actors.Comments
	}
	if o.Columns.PostID != "" {
		cfg.PostIDColumn = o.Columns.PostID
	}
	if o.Columns.CommentID != "" {
		cfg.CommentIDColumn = o.Columns.CommentID
	}
	if o.Columns.PostRef != "" {
		cfg.PostRefColumn = o.Columns.PostRef
	}
	if o.Columns.CommentRef != "" {
		cfg.CommentRefColumn = o.Columns.CommentRef
	}
	if o.Columns.PostText != "" {
		cfg.PostTextColumn = o.Columns.PostText
	}
	if o.Columns.PostAuthor != "" {
		cfg.PostAuthorColumn = o.Columns.PostAuthor
	}
	if o.Columns.ReplyCount != "" {
		cfg.ReplyCountColumn = o.Columns.ReplyCount
	}
	if o.Settings.ProfileURL != "" {
		cfg.ProfileURL = o.Settings.ProfileURL
	}
	if o.Settings.Enabled != nil {
		cfg.Enabled = *o.Settings.Enabled
	}
	if o.Settings.ReplyCountFilter != nil {
		cfg.ReplyCountFilter = *o.Settings.ReplyCountFilter
	}

	return r.validate(cfg)
}

func (r *Registry) validate(cfg *Config) error {
	required := map[string]string{
		"posts actor":        cfg.PostsActor,
		"comments actor":     cfg.CommentsActor,
		"post id column":     cfg.PostIDColumn,
		"comment id column":  cfg.CommentIDColumn,
		"post ref column":    cfg.PostRefColumn,
		"comment ref column": cfg.CommentRefColumn,
	}
	for fieldName, fieldValue := range required {
		if fieldValue == "" {
			return fmt.Errorf("%s is required for platform '%s'", fieldName, cfg.Name)
		}
	}
	if cfg.ReplyCountFilter && cfg.ReplyCountColumn == "" {
		return fmt.Errorf("reply count filter enabled without a reply count column for platform '%s'", cfg.Name)
	}
	return nil
}

func (r *Registry) Get(name string) (*Config, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cfg, ok := r.cache[name]
	if !ok {
		return nil, fmt.Errorf("platform '%s' not found", name)
	}
	return cfg, nil
}

func (r *Registry) GetEnabled() []*Config {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*Config
	for _, cfg := range r.cache {
		if cfg.Enabled {
			out = append(out, cfg)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.cache))
	for name := range r.cache {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.cache)
}
