// Package workspace serves the dashboard of linked external applications.
// The list comes from a YAML file and can be hot-reloaded when the file
// changes, so adding an app does not need a redeploy.
package workspace

import (
	"fmt"
	"os"
	"sync"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"

	"github.com/Hotate516/kiga-workspace/internal/observability"
)

// AppLink is one card on the workspace dashboard.
type AppLink struct {
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description" json:"description"`
	Kind        string `yaml:"kind" json:"kind"`
	URL         string `yaml:"url" json:"url"`
	Icon        string `yaml:"icon" json:"icon,omitempty"`
}

type appsFile struct {
	Apps []AppLink `yaml:"apps"`
}

// DefaultApps mirror the built-in workspace cards.
func DefaultApps() []AppLink {
	return []AppLink{
		{Name: "KigaNote", Description: "rich-text notes", Kind: "page", URL: "/dashboard/KigaNote"},
		{Name: "KigaSheet", Description: "spreadsheets", Kind: "spreadsheet", URL: "/dashboard/KigaSheet"},
		{Name: "KigaCalendar", Description: "schedule", Kind: "calendar", URL: "/dashboard/KigaCalendar"},
	}
}

type Service struct {
	mu   sync.RWMutex
	apps []AppLink
	path string

	watcher *fsnotify.Watcher
	done    chan struct{}
}

// NewService loads apps from path; an empty path serves the defaults.
func NewService(path string) (*Service, error) {
	s := &Service{path: path, apps: DefaultApps()}
	if path != "" {
		if err := s.reload(); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Apps returns the current dashboard entries.
func (s *Service) Apps() []AppLink {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]AppLink, len(s.apps))
	copy(out, s.apps)
	return out
}

func (s *Service) reload() error {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return fmt.Errorf("read apps file: %w", err)
	}

	var f appsFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return fmt.Errorf("parse apps file: %w", err)
	}

	s.mu.Lock()
	s.apps = f.Apps
	s.mu.Unlock()
	return nil
}

// Watch reloads the apps file whenever it is rewritten. Errors during a
// reload keep the previous list.
func (s *Service) Watch() error {
	if s.path == "" {
		return fmt.Errorf("no apps file configured to watch")
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := w.Add(s.path); err != nil {
		w.Close()
		return fmt.Errorf("watch apps file: %w", err)
	}

	s.watcher = w
	s.done = make(chan struct{})

	go func() {
		log := observability.Logger().With("apps_file", s.path)
		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				if err := s.reload(); err != nil {
					log.Warn("apps file reload failed", "error", err)
					continue
				}
				log.Info("apps file reloaded", "apps", len(s.Apps()))
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				log.Warn("apps file watcher error", "error", err)
			case <-s.done:
				return
			}
		}
	}()
	return nil
}

// Close stops the watcher if one is running.
func (s *Service) Close() error {
	if s.watcher == nil {
		return nil
	}
	close(s.done)
	return s.watcher.Close()
}
