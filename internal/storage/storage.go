package storage

import (
	"context"
	"errors"
	"time"
)

var (
	ErrDuplicateEventID = errors.New("event with same ID exists")
	ErrNotFoundEvent    = errors.New("event not found")
	ErrDuplicateUserID  = errors.New("user with same ID exists")
	ErrDuplicateEmail   = errors.New("user with same email exists")
	ErrNotFoundUser     = errors.New("user not found")
)

// Storage is the durable event/user collection. Listing operations return
// events in creation order; the conflict check's first-match rule is defined
// over that order.
type Storage interface {
	Connect(ctx context.Context) error
	Close(ctx context.Context) error

	AddEvent(ctx context.Context, e *Event) error
	UpdateEventDetails(ctx context.Context, id string, title string, description string) error
	UpdateEventStatus(ctx context.Context, id string, status Status) error
	RemoveEvent(ctx context.Context, id string) error
	GetEvent(ctx context.Context, id string) (Event, error)
	ListEvents(ctx context.Context) ([]Event, error)
	GetEventsForDay(ctx context.Context, date Date) ([]Event, error)
	GetEventsForMonth(ctx context.Context, year int, month time.Month) ([]Event, error)

	AddUser(ctx context.Context, u *User) error
	GetUser(ctx context.Context, id string) (User, error)
	UpdateUser(ctx context.Context, id string, u User) error
	RemoveUser(ctx context.Context, id string) error
	GetUserByEmail(ctx context.Context, email string) (User, error)
	ListUsers(ctx context.Context) ([]User, error)
}
