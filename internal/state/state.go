package state

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"time"
)

const (
	Dir                 = ".crumbtrail"
	StateFile           = "state.json"
	CurrentStateVersion = "1"
)

// FileState records what the last saved scan saw in one file.
type FileState struct {
	Hash        string    `json:"hash"`
	Breadcrumbs int       `json:"breadcrumbs"`
	Skipped     bool      `json:"skipped,omitempty"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// State is the snapshot written by "scan --save" and read by "status".
type State struct {
	Version   string               `json:"version"`
	UpdatedAt time.Time            `json:"updated_at"`
	Files     map[string]FileState `json:"files"`
}

// NewState creates an empty snapshot.
func NewState() *State {
	return &State{
		Version: CurrentStateVersion,
		Files:   make(map[string]FileState),
	}
}

// Load reads the snapshot under root. A missing file yields an empty state.
func Load(root string) (*State, error) {
	data, err := os.ReadFile(filepath.Join(root, Dir, StateFile))
	if err != nil {
		if os.IsNotExist(err) {
			return NewState(), nil
		}
		return nil, err
	}

	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, err
	}
	if st.Files == nil {
		st.Files = make(map[string]FileState)
	}
	if st.Version == "" {
		st.Version = CurrentStateVersion
	}
	return &st, nil
}

// Save writes the snapshot under root, creating the state directory.
func (s *State) Save(root string) error {
	if s.Files == nil {
		s.Files = make(map[string]FileState)
	}
	s.Version = CurrentStateVersion
	s.UpdatedAt = time.Now()

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	dir := filepath.Join(root, Dir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, StateFile), data, 0644)
}

// SetFile records the scan outcome for one file.
func (s *State) SetFile(path, hash string, breadcrumbs int, skipped bool) {
	s.Files[path] = FileState{
		Hash:        hash,
		Breadcrumbs: breadcrumbs,
		Skipped:     skipped,
		UpdatedAt:   time.Now(),
	}
}

// HasChanged reports whether path is new or its hash differs.
func (s *State) HasChanged(path, currentHash string) bool {
	fs, ok := s.Files[path]
	if !ok {
		return true
	}
	return fs.Hash != currentHash
}

// ChangedFiles returns new or modified files, sorted.
func (s *State) ChangedFiles(currentHashes map[string]string) []string {
	changed := make([]string, 0)
	for path, hash := range currentHashes {
		if s.HasChanged(path, hash) {
			changed = append(changed, path)
		}
	}
	sort.Strings(changed)
	return changed
}

// DeletedFiles returns tracked files missing from current, sorted.
func (s *State) DeletedFiles(current map[string]string) []string {
	deleted := make([]string, 0)
	for path := range s.Files {
		if _, ok := current[path]; !ok {
			deleted = append(deleted, path)
		}
	}
	sort.Strings(deleted)
	return deleted
}

// TotalBreadcrumbs sums the recorded breadcrumb counts.
func (s *State) TotalBreadcrumbs() int {
	total := 0
	for _, fs := range s.Files {
		total += fs.Breadcrumbs
	}
	return total
}
