// Package templates holds the catalog of bot templates: the built-in YAML
// bundles compiled into the binary plus an optional directory of extra ones
// that is reloaded when its files change.
package templates

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/goccy/go-yaml"

	"wa_botflow/internal/entities"
	"wa_botflow/internal/interfaces"
)

//go:embed builtin/*.yaml
var builtinFS embed.FS

var _ interfaces.TemplateCatalog = (*Registry)(nil)

type Registry struct {
	dir    string
	logger *slog.Logger

	mu        sync.RWMutex
	builtin   map[string]entities.Template
	templates map[string]entities.Template
}

// NewRegistry loads the built-in templates and, when dir is not empty, every
// *.yaml / *.yml file in dir. A file in dir overrides a built-in with the same id.
func NewRegistry(dir string, logger *slog.Logger) (*Registry, error) {
	if logger == nil {
		logger = slog.Default()
	}
	builtin, err := loadFS(builtinFS, "builtin")
	if err != nil {
		return nil, fmt.Errorf("load builtin templates: %w", err)
	}
	r := &Registry{dir: dir, logger: logger, builtin: builtin}
	if err := r.Reload(); err != nil {
		return nil, err
	}
	return r, nil
}

// Reload re-reads the template directory. On error the previous catalog stays.
func (r *Registry) Reload() error {
	merged := make(map[string]entities.Template, len(r.builtin))
	for id, t := range r.builtin {
		merged[id] = t
	}
	if r.dir != "" {
		extra, err := loadFS(os.DirFS(r.dir), ".")
		if err != nil {
			return fmt.Errorf("load templates from %s: %w", r.dir, err)
		}
		for id, t := range extra {
			merged[id] = t
		}
	}

	r.mu.Lock()
	r.templates = merged
	r.mu.Unlock()
	r.logger.Info("templates loaded", "count", len(merged), "dir", r.dir)
	return nil
}

func (r *Registry) Get(id string) (entities.Template, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.templates[id]
	if !ok {
		return entities.Template{}, fmt.Errorf("%w: %s", entities.ErrTemplateNotFound, id)
	}
	return t, nil
}

func (r *Registry) List() []entities.TemplateSummary {
	r.mu.RLock()
	out := make([]entities.TemplateSummary, 0, len(r.templates))
	for _, t := range r.templates {
		out = append(out, t.Summary())
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Watch reloads the catalog whenever a file in the template directory is
// written, created, renamed or removed. It blocks until ctx is done.
func (r *Registry) Watch(ctx context.Context) error {
	if r.dir == "" {
		return nil
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()
	if err := watcher.Add(r.dir); err != nil {
		return fmt.Errorf("watch %s: %w", r.dir, err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !isTemplateFile(event.Name) {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) || event.Has(fsnotify.Remove) {
				if err := r.Reload(); err != nil {
					r.logger.Warn("template reload failed, keeping previous catalog", "file", event.Name, "error", err)
				}
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			r.logger.Warn("template watcher error", "error", err)
		}
	}
}

func loadFS(fsys fs.FS, root string) (map[string]entities.Template, error) {
	entries, err := fs.ReadDir(fsys, root)
	if err != nil {
		return nil, err
	}
	out := make(map[string]entities.Template, len(entries))
	for _, e := range entries {
		if e.IsDir() || !isTemplateFile(e.Name()) {
			continue
		}
		data, err := fs.ReadFile(fsys, filepath.ToSlash(filepath.Join(root, e.Name())))
		if err != nil {
			return nil, err
		}
		t, err := Parse(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", e.Name(), err)
		}
		if _, dup := out[t.ID]; dup {
			return nil, fmt.Errorf("%s: duplicate template id %q", e.Name(), t.ID)
		}
		out[t.ID] = t
	}
	return out, nil
}

// Parse decodes and validates one YAML template. Unknown fields are rejected
// so a typo in a key does not silently drop configuration.
func Parse(data []byte) (entities.Template, error) {
	var t entities.Template
	if err := yaml.UnmarshalWithOptions(data, &t, yaml.DisallowUnknownField()); err != nil {
		return entities.Template{}, fmt.Errorf("%w: %v", entities.ErrInvalidTemplate, err)
	}
	if err := t.Validate(); err != nil {
		return entities.Template{}, err
	}
	return t, nil
}

func isTemplateFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".yaml" || ext == ".yml"
}
