// Package filestorage keeps the whole event/user collection in a single JSON
// document on disk, the shape of db.json used by small deployments.
package filestorage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/louro2023/agendaflow/internal/storage"
)

type Config struct {
	Path string
}

type document struct {
	Events []storage.Event `json:"events"`
	Users  []storage.User  `json:"users"`
}

type Storage struct {
	mu   sync.RWMutex
	path string
	doc  document
}

func New(config Config) *Storage {
	return &Storage{path: config.Path}
}

func (s *Storage) Connect(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		s.doc = document{Events: []storage.Event{}, Users: []storage.User{}}
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read %q: %w", s.path, err)
	}
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to parse %q: %w", s.path, err)
	}
	s.doc = doc
	return nil
}

func (s *Storage) Close(_ context.Context) error {
	return nil
}

// Write to a temp file first, then rename over the target, so a crash
// mid-write never leaves a truncated document.
func (s *Storage) flushLocked() error {
	data, err := json.MarshalIndent(s.doc, "", "  ")
	if err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

func (s *Storage) AddEvent(_ context.Context, e *storage.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.doc.Events {
		if existing.ID == e.ID {
			return fmt.Errorf("duplicate ID %q: %w", e.ID, storage.ErrDuplicateEventID)
		}
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	s.doc.Events = append(s.doc.Events, *e)
	return s.flushLocked()
}

func (s *Storage) UpdateEventDetails(_ context.Context, id string, title string, description string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.doc.Events {
		if s.doc.Events[i].ID == id {
			s.doc.Events[i].Title = title
			s.doc.Events[i].Description = description
			return s.flushLocked()
		}
	}
	return fmt.Errorf("failed to update event with id %q: %w", id, storage.ErrNotFoundEvent)
}

func (s *Storage) UpdateEventStatus(_ context.Context, id string, status storage.Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.doc.Events {
		if s.doc.Events[i].ID == id {
			s.doc.Events[i].Status = status
			return s.flushLocked()
		}
	}
	return fmt.Errorf("failed to update event with id %q: %w", id, storage.ErrNotFoundEvent)
}

func (s *Storage) RemoveEvent(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.doc.Events {
		if s.doc.Events[i].ID == id {
			s.doc.Events = append(s.doc.Events[:i], s.doc.Events[i+1:]...)
			return s.flushLocked()
		}
	}
	return fmt.Errorf("failed to remove event with id %q: %w", id, storage.ErrNotFoundEvent)
}

func (s *Storage) GetEvent(_ context.Context, id string) (storage.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, e := range s.doc.Events {
		if e.ID == id {
			return e, nil
		}
	}
	return storage.Event{}, fmt.Errorf("failed to get event with id %q: %w", id, storage.ErrNotFoundEvent)
}

func (s *Storage) ListEvents(_ context.Context) ([]storage.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	events := make([]storage.Event, len(s.doc.Events))
	copy(events, s.doc.Events)
	return events, nil
}

func (s *Storage) GetEventsForDay(_ context.Context, date storage.Date) ([]storage.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	events := make([]storage.Event, 0)
	for _, e := range s.doc.Events {
		if e.Date == date {
			events = append(events, e)
		}
	}
	return events, nil
}

func (s *Storage) GetEventsForMonth(_ context.Context, year int, month time.Month) ([]storage.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	events := make([]storage.Event, 0)
	for _, e := range s.doc.Events {
		if e.Date.Year == year && e.Date.Month == month {
			events = append(events, e)
		}
	}
	return events, nil
}

func (s *Storage) AddUser(_ context.Context, u *storage.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.doc.Users {
		if existing.ID == u.ID {
			return fmt.Errorf("duplicate ID %q: %w", u.ID, storage.ErrDuplicateUserID)
		}
		if existing.Email == u.Email {
			return fmt.Errorf("duplicate email %q: %w", u.Email, storage.ErrDuplicateEmail)
		}
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	s.doc.Users = append(s.doc.Users, *u)
	return s.flushLocked()
}

func (s *Storage) GetUser(_ context.Context, id string) (storage.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.doc.Users {
		if u.ID == id {
			return u, nil
		}
	}
	return storage.User{}, fmt.Errorf("failed to get user with id %q: %w", id, storage.ErrNotFoundUser)
}

func (s *Storage) UpdateUser(_ context.Context, id string, u storage.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.doc.Users {
		if s.doc.Users[i].ID == id {
			u.ID = id
			s.doc.Users[i] = u
			return s.flushLocked()
		}
	}
	return fmt.Errorf("failed to update user with id %q: %w", id, storage.ErrNotFoundUser)
}

func (s *Storage) RemoveUser(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.doc.Users {
		if s.doc.Users[i].ID == id {
			s.doc.Users = append(s.doc.Users[:i], s.doc.Users[i+1:]...)
			return s.flushLocked()
		}
	}
	return fmt.Errorf("failed to remove user with id %q: %w", id, storage.ErrNotFoundUser)
}

func (s *Storage) GetUserByEmail(_ context.Context, email string) (storage.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.doc.Users {
		if u.Email == email {
			return u, nil
		}
	}
	return storage.User{}, fmt.Errorf("failed to get user with email %q: %w", email, storage.ErrNotFoundUser)
}

func (s *Storage) ListUsers(_ context.Context) ([]storage.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	users := make([]storage.User, len(s.doc.Users))
	copy(users, s.doc.Users)
	return users, nil
}
