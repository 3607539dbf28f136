package session

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// FileStore keeps the sessions of a command line user in a YAML file,
// together with the id of the current one.
type FileStore struct {
	path string
	mu   sync.Mutex
}

type fileState struct {
	Current  string              `yaml:"current,omitempty"`
	Sessions map[string]*Session `yaml:"sessions,omitempty"`
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (f *FileStore) Path() string { return f.path }

func (f *FileStore) load() (*fileState, error) {
	state := &fileState{Sessions: map[string]*Session{}}
	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return state, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading session file: %w", err)
	}
	if err := yaml.Unmarshal(data, state); err != nil {
		return nil, fmt.Errorf("parsing session file %s: %w", f.path, err)
	}
	if state.Sessions == nil {
		state.Sessions = map[string]*Session{}
	}
	return state, nil
}

func (f *FileStore) write(state *fileState) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("creating session directory: %w", err)
	}
	data, err := yaml.Marshal(state)
	if err != nil {
		return fmt.Errorf("encoding session file: %w", err)
	}
	if err := os.WriteFile(f.path, data, 0o600); err != nil {
		return fmt.Errorf("writing session file: %w", err)
	}
	return nil
}

func (f *FileStore) Get(_ context.Context, id string) (*Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	state, err := f.load()
	if err != nil {
		return nil, err
	}
	s, ok := state.Sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return s, nil
}

// Save stores s and makes it the current session.
func (f *FileStore) Save(_ context.Context, s *Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	state, err := f.load()
	if err != nil {
		return err
	}
	cp := *s
	state.Sessions[s.ID] = &cp
	state.Current = s.ID
	return f.write(state)
}

func (f *FileStore) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	state, err := f.load()
	if err != nil {
		return err
	}
	delete(state.Sessions, id)
	if state.Current == id {
		state.Current = ""
	}
	return f.write(state)
}

// Current returns the session saved last, or ErrNotFound.
func (f *FileStore) Current(ctx context.Context) (*Session, error) {
	f.mu.Lock()
	state, err := f.load()
	f.mu.Unlock()
	if err != nil {
		return nil, err
	}
	if state.Current == "" {
		return nil, ErrNotFound
	}
	return f.Get(ctx, state.Current)
}
