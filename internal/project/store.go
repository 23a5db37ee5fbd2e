// Package project persists editing sessions: the full editable
// aggregate plus captions and any AI results obtained so far, keyed by
// project id, so reopening restores edits without recomputation.
package project

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/kikiluvv/clipforge/internal/ai"
	"github.com/kikiluvv/clipforge/internal/editor"
	"github.com/kikiluvv/clipforge/internal/subtitles"
)

const schemaVersion = "1"

// ErrNotFound is returned when no project exists for an id
var ErrNotFound = errors.New("project not found")

// Project is one persisted editing session
type Project struct {
	Version    string              `json:"version"`
	ID         string              `json:"id"`
	Name       string              `json:"name"`
	SourcePath string              `json:"source_path"`
	Duration   time.Duration       `json:"duration"`
	State      editor.State        `json:"state"`
	Subtitles  []subtitles.Segment `json:"subtitles,omitempty"`
	Analyses   ai.Analyses         `json:"analyses"`
	CreatedAt  time.Time           `json:"created_at"`
	UpdatedAt  time.Time           `json:"updated_at"`
}

// New creates a project around a source video
func New(name, sourcePath string, duration time.Duration) *Project {
	now := time.Now()
	return &Project{
		Version:    schemaVersion,
		ID:         uuid.NewString(),
		Name:       name,
		SourcePath: sourcePath,
		Duration:   duration,
		State:      editor.NewState(duration),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// Store keeps one JSON file per project in a directory
type Store struct {
	logger zerolog.Logger
	dir    string
}

// NewStore creates the store, making the directory if needed
func NewStore(logger zerolog.Logger, dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create project dir: %w", err)
	}
	return &Store{
		logger: logger.With().Str("component", "projects").Logger(),
		dir:    dir,
	}, nil
}

func (s *Store) path(id string) string {
	return filepath.Join(s.dir, id+".json")
}

// Save writes the project atomically: temp file in the same directory,
// then rename over the target.
func (s *Store) Save(p *Project) error {
	p.Version = schemaVersion
	p.UpdatedAt = time.Now()

	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode project: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, p.ID+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write project: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to sync project: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}

	if err := os.Rename(tmpName, s.path(p.ID)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace project file: %w", err)
	}

	s.logger.Debug().Str("project", p.ID).Msg("project saved")
	return nil
}

// Load reads a project by id
func (s *Store) Load(id string) (*Project, error) {
	data, err := os.ReadFile(s.path(id))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read project: %w", err)
	}

	p := &Project{}
	if err := json.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("failed to decode project %s: %w", id, err)
	}
	return p, nil
}

// List returns all stored projects, newest first
func (s *Store) List() ([]*Project, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}

	var projects []*Project
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		id := strings.TrimSuffix(entry.Name(), ".json")
		p, err := s.Load(id)
		if err != nil {
			s.logger.Warn().Err(err).Str("file", entry.Name()).Msg("skipping unreadable project")
			continue
		}
		projects = append(projects, p)
	}

	sort.Slice(projects, func(i, j int) bool {
		return projects[i].UpdatedAt.After(projects[j].UpdatedAt)
	})
	return projects, nil
}

// Delete removes a project
func (s *Store) Delete(id string) error {
	if err := os.Remove(s.path(id)); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete project: %w", err)
	}
	return nil
}
