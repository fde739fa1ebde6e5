package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/louro2023/agendaflow/internal/rabbit"
	"github.com/louro2023/agendaflow/internal/schedule"
	"github.com/louro2023/agendaflow/internal/storage"
	log "github.com/sirupsen/logrus"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserInactive       = errors.New("user is deactivated")
)

// ConflictError reports that a requested time is too close to an already
// scheduled event. It is an expected outcome of event creation, not a fault.
type ConflictError struct {
	Result schedule.Result
}

func (e *ConflictError) Error() string {
	return e.Result.Message
}

// Notifier delivers decision notifications. Publishing is best effort: a
// broker outage must not block the admin's decision.
type Notifier interface {
	Publish(body []byte) error
}

type App struct {
	Storage   storage.Storage
	Validator schedule.Validator
	Notifier  Notifier

	mu       sync.Mutex
	dayLocks map[storage.Date]*dayLock
}

type dayLock struct {
	mu   sync.Mutex
	refs int
}

func New(stor storage.Storage, validator schedule.Validator, notifier Notifier) *App {
	return &App{
		Storage:   stor,
		Validator: validator,
		Notifier:  notifier,
		dayLocks:  make(map[storage.Date]*dayLock),
	}
}

// Validation and append are two steps, so two concurrent requests for the
// same day could both pass against the same snapshot. Creation is serialized
// per calendar day to close that window. Entries are reference counted and
// removed on last release, the map only holds days with creation in flight.
func (a *App) lockDay(date storage.Date) func() {
	a.mu.Lock()
	l, ok := a.dayLocks[date]
	if !ok {
		l = &dayLock{}
		a.dayLocks[date] = l
	}
	l.refs++
	a.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		a.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(a.dayLocks, date)
		}
		a.mu.Unlock()
	}
}

// CreateEvent checks the requested slot against every known event and, when
// the day is free enough, persists the request as Pending. A too-close slot
// comes back as *ConflictError.
func (a *App) CreateEvent(ctx context.Context, e storage.Event) (storage.Event, error) {
	unlock := a.lockDay(e.Date)
	defer unlock()

	existing, err := a.Storage.ListEvents(ctx)
	if err != nil {
		return storage.Event{}, fmt.Errorf("failed to load events: %w", err)
	}
	if result := a.Validator.Validate(e.Date, e.Clock, existing); !result.Accepted() {
		return storage.Event{}, &ConflictError{Result: result}
	}

	e.ID = ""
	e.Status = storage.Pending
	if err := a.Storage.AddEvent(ctx, &e); err != nil {
		return storage.Event{}, err
	}
	return e, nil
}

func (a *App) ApproveEvent(ctx context.Context, id string) error {
	return a.decide(ctx, id, storage.Approved)
}

func (a *App) RejectEvent(ctx context.Context, id string) error {
	return a.decide(ctx, id, storage.Rejected)
}

// Status transitions do not re-run conflict validation; the slot was checked
// once, at creation.
func (a *App) decide(ctx context.Context, id string, status storage.Status) error {
	if err := a.Storage.UpdateEventStatus(ctx, id, status); err != nil {
		return err
	}
	a.notifyDecision(ctx, id, status)
	return nil
}

func (a *App) notifyDecision(ctx context.Context, id string, status storage.Status) {
	if a.Notifier == nil {
		return
	}
	e, err := a.Storage.GetEvent(ctx, id)
	if err != nil {
		log.Errorf("failed to load event %q for notification: %v", id, err)
		return
	}
	body, err := json.Marshal(rabbit.Notification{
		EventID:     e.ID,
		Title:       e.Title,
		Date:        e.Date,
		Time:        e.Clock,
		Status:      status,
		RequesterID: e.RequesterID,
	})
	if err != nil {
		log.Errorf("failed to marshal notification for event %q: %v", id, err)
		return
	}
	if err := a.Notifier.Publish(body); err != nil {
		log.Errorf("failed to publish notification for event %q: %v", id, err)
	}
}

func (a *App) UpdateEventDetails(ctx context.Context, id string, title string, description string) error {
	return a.Storage.UpdateEventDetails(ctx, id, title, description)
}

func (a *App) RemoveEvent(ctx context.Context, id string) error {
	return a.Storage.RemoveEvent(ctx, id)
}

func (a *App) GetEvent(ctx context.Context, id string) (storage.Event, error) {
	return a.Storage.GetEvent(ctx, id)
}

func (a *App) ListEvents(ctx context.Context) ([]storage.Event, error) {
	return a.Storage.ListEvents(ctx)
}

func (a *App) GetEventsForDay(ctx context.Context, date storage.Date) ([]storage.Event, error) {
	return a.Storage.GetEventsForDay(ctx, date)
}

func (a *App) GetEventsForMonth(ctx context.Context, year int, month time.Month) ([]storage.Event, error) {
	return a.Storage.GetEventsForMonth(ctx, year, month)
}

// Login looks the user up by email and compares the stored password. Inactive
// accounts are refused even with correct credentials.
func (a *App) Login(ctx context.Context, email string, password string) (storage.User, error) {
	u, err := a.Storage.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFoundUser) {
			return storage.User{}, ErrInvalidCredentials
		}
		return storage.User{}, err
	}
	if u.Password != password {
		return storage.User{}, ErrInvalidCredentials
	}
	if !u.Active {
		return storage.User{}, ErrUserInactive
	}
	return u, nil
}

func (a *App) CreateUser(ctx context.Context, u storage.User) (storage.User, error) {
	u.ID = ""
	if err := a.Storage.AddUser(ctx, &u); err != nil {
		return storage.User{}, err
	}
	return u, nil
}

func (a *App) UpdateUser(ctx context.Context, id string, u storage.User) error {
	return a.Storage.UpdateUser(ctx, id, u)
}

func (a *App) SetUserActive(ctx context.Context, id string, active bool) error {
	u, err := a.Storage.GetUser(ctx, id)
	if err != nil {
		return err
	}
	u.Active = active
	return a.Storage.UpdateUser(ctx, id, u)
}

func (a *App) RemoveUser(ctx context.Context, id string) error {
	return a.Storage.RemoveUser(ctx, id)
}

func (a *App) ListUsers(ctx context.Context) ([]storage.User, error) {
	return a.Storage.ListUsers(ctx)
}
