package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hal/pulse/internal/log"
)

// ErrNotFound is returned when a requested snapshot does not exist. Callers
// can distinguish a missing snapshot from a corrupt or unreadable one.
var ErrNotFound = errors.New("snapshot not found")

// Store persists aggregates as JSON files in a directory, one file per
// snapshot. Names are date plus label, so saving again on the same day with
// the same label replaces that day's snapshot.
type Store struct {
	dir string
}

// NewStore creates a store under the user cache dir (~/.cache/pulse/snapshots).
func NewStore() (*Store, error) {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return nil, err
	}
	return NewStoreWithDir(filepath.Join(cacheDir, "pulse", "snapshots"))
}

// NewStoreWithDir creates a store at the given directory, creating it if needed.
func NewStoreWithDir(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create snapshot directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

// name builds the snapshot file name: YYYY-MM-DD-label.json.
func name(a Aggregate) string {
	label := strings.ToLower(a.Label)
	if label == "" {
		label = "snapshot"
	}
	return a.TakenAt.Format("2006-01-02") + "-" + label
}

// Save writes the aggregate and refreshes the latest-<label> marker.
// Returns the snapshot name the aggregate was stored under.
func (s *Store) Save(a Aggregate) (string, error) {
	data, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	n := name(a)
	path := filepath.Join(s.dir, n+".json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write snapshot: %w", err)
	}

	label := strings.ToLower(a.Label)
	if label == "" {
		label = "snapshot"
	}
	latest := filepath.Join(s.dir, "latest-"+label+".json")
	if err := os.WriteFile(latest, data, 0644); err != nil {
		// The snapshot itself is stored; the convenience marker is best effort.
		log.Warn("failed to update latest marker", "path", latest, "error", err)
	}

	log.Debug("snapshot saved", "name", n, "total", a.Total)
	return n, nil
}

// Load reads a snapshot by name (with or without the .json suffix).
func (s *Store) Load(n string) (Aggregate, error) {
	n = strings.TrimSuffix(n, ".json")
	path := filepath.Join(s.dir, n+".json")

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Aggregate{}, fmt.Errorf("%w: %s", ErrNotFound, n)
		}
		return Aggregate{}, fmt.Errorf("failed to read snapshot %s: %w", n, err)
	}

	var a Aggregate
	if err := json.Unmarshal(data, &a); err != nil {
		return Aggregate{}, fmt.Errorf("failed to parse snapshot %s: %w", n, err)
	}
	return a, nil
}

// List returns the stored snapshot names, sorted ascending. The
// latest-<label> convenience markers are excluded.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		n := strings.TrimSuffix(e.Name(), ".json")
		if strings.HasPrefix(n, "latest-") {
			continue
		}
		names = append(names, n)
	}
	sort.Strings(names)
	return names, nil
}
