package memorystorage

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/louro2023/agendaflow/internal/storage"
)

type Storage struct {
	mu     sync.RWMutex
	events map[string]storage.Event
	order  []string
	users  map[string]storage.User
}

func New() *Storage {
	return &Storage{
		events: make(map[string]storage.Event),
		users:  make(map[string]storage.User),
	}
}

func (s *Storage) Connect(_ context.Context) error {
	return nil
}

func (s *Storage) Close(_ context.Context) error {
	return nil
}

func (s *Storage) AddEvent(_ context.Context, e *storage.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.events[e.ID]; ok {
		return fmt.Errorf("duplicate ID %q: %w", e.ID, storage.ErrDuplicateEventID)
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	s.events[e.ID] = *e
	s.order = append(s.order, e.ID)
	return nil
}

func (s *Storage) UpdateEventDetails(_ context.Context, id string, title string, description string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.events[id]
	if !ok {
		return fmt.Errorf("failed to update event with id %q: %w", id, storage.ErrNotFoundEvent)
	}
	e.Title = title
	e.Description = description
	s.events[id] = e
	return nil
}

func (s *Storage) UpdateEventStatus(_ context.Context, id string, status storage.Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.events[id]
	if !ok {
		return fmt.Errorf("failed to update event with id %q: %w", id, storage.ErrNotFoundEvent)
	}
	e.Status = status
	s.events[id] = e
	return nil
}

func (s *Storage) RemoveEvent(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.events[id]; !ok {
		return fmt.Errorf("failed to remove event with id %q: %w", id, storage.ErrNotFoundEvent)
	}
	delete(s.events, id)
	for i, eid := range s.order {
		if eid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

func (s *Storage) GetEvent(_ context.Context, id string) (storage.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.events[id]
	if !ok {
		return storage.Event{}, fmt.Errorf("failed to get event with id %q: %w", id, storage.ErrNotFoundEvent)
	}
	return e, nil
}

func (s *Storage) ListEvents(_ context.Context) ([]storage.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selectInOrder(func(storage.Event) bool { return true }), nil
}

func (s *Storage) GetEventsForDay(_ context.Context, date storage.Date) ([]storage.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selectInOrder(func(e storage.Event) bool { return e.Date == date }), nil
}

func (s *Storage) GetEventsForMonth(_ context.Context, year int, month time.Month) ([]storage.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selectInOrder(func(e storage.Event) bool {
		return e.Date.Year == year && e.Date.Month == month
	}), nil
}

// Creation order, callers rely on it.
func (s *Storage) selectInOrder(match func(storage.Event) bool) []storage.Event {
	events := make([]storage.Event, 0)
	for _, id := range s.order {
		if e := s.events[id]; match(e) {
			events = append(events, e)
		}
	}
	return events
}

func (s *Storage) AddUser(_ context.Context, u *storage.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[u.ID]; ok {
		return fmt.Errorf("duplicate ID %q: %w", u.ID, storage.ErrDuplicateUserID)
	}
	for _, existing := range s.users {
		if existing.Email == u.Email {
			return fmt.Errorf("duplicate email %q: %w", u.Email, storage.ErrDuplicateEmail)
		}
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	s.users[u.ID] = *u
	return nil
}

func (s *Storage) GetUser(_ context.Context, id string) (storage.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return storage.User{}, fmt.Errorf("failed to get user with id %q: %w", id, storage.ErrNotFoundUser)
	}
	return u, nil
}

func (s *Storage) UpdateUser(_ context.Context, id string, u storage.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return fmt.Errorf("failed to update user with id %q: %w", id, storage.ErrNotFoundUser)
	}
	u.ID = id
	s.users[id] = u
	return nil
}

func (s *Storage) RemoveUser(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return fmt.Errorf("failed to remove user with id %q: %w", id, storage.ErrNotFoundUser)
	}
	delete(s.users, id)
	return nil
}

func (s *Storage) GetUserByEmail(_ context.Context, email string) (storage.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return storage.User{}, fmt.Errorf("failed to get user with email %q: %w", email, storage.ErrNotFoundUser)
}

func (s *Storage) ListUsers(_ context.Context) ([]storage.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	users := make([]storage.User, 0, len(s.users))
	for _, u := range s.users {
		users = append(users, u)
	}
	// Same ordering as the sql backend.
	sort.Slice(users, func(i, j int) bool { return users[i].Name < users[j].Name })
	return users, nil
}
