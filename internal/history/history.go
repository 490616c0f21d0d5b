// Package history persists query history and saved queries as JSON files
// under the user config directory.
package history

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
	"unicode"
)

// historyLimit caps how many statements one database target remembers.
const historyLimit = 200

const savedQueriesFile = "saved_queries.json"

// QueryEntry is one executed statement with the time it ran.
type QueryEntry struct {
	SQL string    `json:"sql"`
	TS  time.Time `json:"ts"`
}

// QueryHistory holds the executed statements for one database target, most
// recent first. Each target gets its own file so histories don't bleed
// between databases.
type QueryHistory struct {
	mu      sync.Mutex
	path    string
	entries []QueryEntry
}

// LoadQueryHistory reads the history for one database target. A missing or
// corrupt file yields an empty history.
func LoadQueryHistory(dir, namespace, pod, database string) *QueryHistory {
	name := fmt.Sprintf("%s__%s__%s.json", sanitize(namespace), sanitize(pod), sanitize(database))
	h := &QueryHistory{path: filepath.Join(dir, "query_history", name)}
	if data, err := os.ReadFile(h.path); err == nil {
		_ = json.Unmarshal(data, &h.entries)
	}
	return h
}

// Entries returns a copy of the history, most recent first.
func (h *QueryHistory) Entries() []QueryEntry {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]QueryEntry(nil), h.entries...)
}

// Append records sql at the front unless it repeats the most recent entry,
// trims the history to its cap and writes the file.
func (h *QueryHistory) Append(sql string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.entries) > 0 && h.entries[0].SQL == sql {
		return nil
	}
	h.entries = append([]QueryEntry{{SQL: sql, TS: time.Now().UTC()}}, h.entries...)
	if len(h.entries) > historyLimit {
		h.entries = h.entries[:historyLimit]
	}
	return writeJSON(h.path, h.entries)
}

// Delete removes the entry at index. Out-of-range indexes are ignored.
func (h *QueryHistory) Delete(index int) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if index < 0 || index >= len(h.entries) {
		return nil
	}
	h.entries = append(h.entries[:index], h.entries[index+1:]...)
	return writeJSON(h.path, h.entries)
}

// SavedQuery is a named statement kept for reuse.
type SavedQuery struct {
	Name string    `json:"name"`
	SQL  string    `json:"sql"`
	TS   time.Time `json:"ts"`
}

// SavedQueries is the user's collection of named statements, shared across
// database targets.
type SavedQueries struct {
	mu      sync.Mutex
	path    string
	entries []SavedQuery
}

// LoadSavedQueries reads the saved-query collection. A missing or corrupt
// file yields an empty collection.
func LoadSavedQueries(dir string) *SavedQueries {
	s := &SavedQueries{path: filepath.Join(dir, savedQueriesFile)}
	if data, err := os.ReadFile(s.path); err == nil {
		_ = json.Unmarshal(data, &s.entries)
	}
	return s
}

// Entries returns a copy of the collection in insertion order.
func (s *SavedQueries) Entries() []SavedQuery {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]SavedQuery(nil), s.entries...)
}

// Add upserts a named statement and writes the file. Saving under an
// existing name replaces that entry in place.
func (s *SavedQueries) Add(name, sql string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.entries {
		if s.entries[i].Name == name {
			s.entries[i].SQL = sql
			s.entries[i].TS = time.Now().UTC()
			return writeJSON(s.path, s.entries)
		}
	}
	s.entries = append(s.entries, SavedQuery{Name: name, SQL: sql, TS: time.Now().UTC()})
	return writeJSON(s.path, s.entries)
}

// Rename changes the name of the entry at index. Out-of-range indexes are
// ignored.
func (s *SavedQueries) Rename(index int, newName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.entries) {
		return nil
	}
	s.entries[index].Name = newName
	return writeJSON(s.path, s.entries)
}

// Delete removes the entry at index. Out-of-range indexes are ignored.
func (s *SavedQueries) Delete(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.entries) {
		return nil
	}
	s.entries = append(s.entries[:index], s.entries[index+1:]...)
	return writeJSON(s.path, s.entries)
}

// writeJSON writes atomically via a temp file so a crash mid-write
// cannot corrupt the history.
func writeJSON(path string, v interface{}) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create history directory: %w", err)
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal history: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write history file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("write history file: %w", err)
	}
	return nil
}

// sanitize keeps filename-safe characters so target names can form file
// names.
func sanitize(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_' || r == '.' {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	return b.String()
}
