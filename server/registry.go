package server

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"fretnote/trainer"
)

var ErrSessionNotFound = errors.New("session not found")

// Registry holds independent training sessions keyed by id
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*trainer.Manager
	opts     []trainer.Option
}

// NewRegistry creates an empty registry; opts apply to every new session
func NewRegistry(opts ...trainer.Option) *Registry {
	return &Registry{
		sessions: make(map[string]*trainer.Manager),
		opts:     opts,
	}
}

// Create starts a session with its first round dealt
func (r *Registry) Create(cfg trainer.Config) (string, *trainer.Manager, error) {
	m, err := trainer.NewManager(cfg, r.opts...)
	if err != nil {
		return "", nil, err
	}
	m.Start()

	id := uuid.New().String()
	r.mu.Lock()
	r.sessions[id] = m
	r.mu.Unlock()
	return id, m, nil
}

func (r *Registry) Get(id string) (*trainer.Manager, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return m, nil
}

func (r *Registry) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[id]; !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	delete(r.sessions, id)
	return nil
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
