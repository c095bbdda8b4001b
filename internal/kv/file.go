package kv

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// FileStore keeps every key in one JSON object file and rewrites the whole
// file on each Set.
type FileStore struct {
	path string
	mu   sync.Mutex
}

func NewFileStore(path string) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE, 0o644)
	if err != nil {
		return nil, fmt.Errorf("touch file: %w", err)
	}
	_ = f.Close()
	s := &FileStore{path: path}
	if err := s.quarantineMalformed(); err != nil {
		return nil, err
	}
	return s, nil
}

// quarantineMalformed moves an undecodable file aside to
// "<path>.corrupt-<unix ms>" and starts over with an empty one. It only runs
// at open; a file that goes bad later makes Get and Set fail instead.
func (s *FileStore) quarantineMalformed() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return fmt.Errorf("read %s: %w", s.path, err)
	}
	if len(data) == 0 || json.Unmarshal(data, &map[string]string{}) == nil {
		return nil
	}
	backup := fmt.Sprintf("%s.corrupt-%d", s.path, time.Now().UnixMilli())
	if err := os.Rename(s.path, backup); err != nil {
		return fmt.Errorf("move malformed %s aside: %w", s.path, err)
	}
	log.Printf("⚠️ %s was not valid JSON, moved to %s", s.path, backup)
	if err := os.WriteFile(s.path, nil, 0o644); err != nil {
		return fmt.Errorf("recreate %s: %w", s.path, err)
	}
	return nil
}

func (s *FileStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	m, err := s.loadUnlocked()
	if err != nil {
		return nil, false, err
	}
	v, ok := m[key]
	if !ok {
		return nil, false, nil
	}
	return []byte(v), true, nil
}

func (s *FileStore) Set(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	m, err := s.loadUnlocked()
	if err != nil {
		return err
	}
	m[key] = string(value)
	return s.saveUnlocked(m)
}

func (s *FileStore) Close() error { return nil }

func (s *FileStore) loadUnlocked() (map[string]string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}
	m := make(map[string]string)
	if len(data) == 0 {
		return m, nil
	}
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.path, err)
	}
	return m, nil
}

// saveUnlocked writes through a temp file and renames it over the target so
// a failed write never truncates existing data.
func (s *FileStore) saveUnlocked(m map[string]string) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("rename %s: %w", tmp, err)
	}
	return nil
}
