package sqlstorage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/louro2023/agendaflow/internal/storage"
	log "github.com/sirupsen/logrus"
)

var ErrConnectionFailed = errors.New("failed to connect")

const dbErrUniqueViolation = "23505"

const eventColumns = "id, title, description, event_date, event_time, status, requester_id, requester_name"

type Config struct {
	Host     string
	Port     int
	Database string
	Username string
	Password string
}

type Storage struct {
	host     string
	port     int
	database string
	username string
	password string
	db       *sqlx.DB
}

func New(config Config) *Storage {
	return &Storage{
		host:     config.Host,
		port:     config.Port,
		database: config.Database,
		username: config.Username,
		password: config.Password,
	}
}

func (s *Storage) Connect(ctx context.Context) error {
	db, err := sqlx.ConnectContext(
		ctx,
		"postgres",
		fmt.Sprintf(
			"sslmode=disable host=%s port=%d dbname=%s user=%s password=%s",
			s.host, s.port, s.database, s.username, s.password),
	)
	if err != nil {
		log.Errorf("failed to connect: %v", err)
		return ErrConnectionFailed
	}
	s.db = db
	return nil
}

func (s *Storage) Close(_ context.Context) error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("failed to close connection: %w", err)
	}
	return nil
}

func (s *Storage) AddEvent(ctx context.Context, e *storage.Event) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	_, err := s.db.ExecContext(
		ctx,
		"INSERT INTO events(id, title, description, event_date, event_time, status, requester_id, requester_name) "+
			"VALUES($1, $2, $3, $4, $5, $6, $7, $8)",
		e.ID, e.Title, e.Description, e.Date, e.Clock, e.Status, e.RequesterID, e.RequesterName)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == dbErrUniqueViolation {
		return fmt.Errorf("duplicate ID %q: %w", e.ID, storage.ErrDuplicateEventID)
	}
	return err
}

func (s *Storage) UpdateEventDetails(ctx context.Context, id string, title string, description string) error {
	var found bool
	err := s.db.GetContext(
		ctx,
		&found,
		"UPDATE events SET title=$2, description=$3 WHERE id=$1 RETURNING TRUE",
		id, title, description,
	)
	if errors.Is(err, sql.ErrNoRows) || !found {
		return fmt.Errorf("failed to update event with id %q: %w", id, storage.ErrNotFoundEvent)
	}
	return err
}

func (s *Storage) UpdateEventStatus(ctx context.Context, id string, status storage.Status) error {
	var found bool
	err := s.db.GetContext(
		ctx,
		&found,
		"UPDATE events SET status=$2 WHERE id=$1 RETURNING TRUE",
		id, status,
	)
	if errors.Is(err, sql.ErrNoRows) || !found {
		return fmt.Errorf("failed to update event with id %q: %w", id, storage.ErrNotFoundEvent)
	}
	return err
}

func (s *Storage) RemoveEvent(ctx context.Context, id string) error {
	var found bool
	err := s.db.GetContext(ctx, &found, "DELETE FROM events WHERE id=$1 RETURNING TRUE", id)
	if errors.Is(err, sql.ErrNoRows) || !found {
		return fmt.Errorf("failed to remove event with id %q: %w", id, storage.ErrNotFoundEvent)
	}
	return err
}

func (s *Storage) GetEvent(ctx context.Context, id string) (storage.Event, error) {
	var e storage.Event
	err := s.db.GetContext(ctx, &e, "SELECT "+eventColumns+" FROM events WHERE id=$1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return storage.Event{}, fmt.Errorf("failed to get event with id %q: %w", id, storage.ErrNotFoundEvent)
	}
	return e, err
}

func (s *Storage) ListEvents(ctx context.Context) ([]storage.Event, error) {
	var events []storage.Event
	err := s.db.SelectContext(
		ctx,
		&events,
		"SELECT "+eventColumns+" FROM events ORDER BY seq",
	)
	return events, err
}

func (s *Storage) GetEventsForDay(ctx context.Context, date storage.Date) ([]storage.Event, error) {
	var events []storage.Event
	err := s.db.SelectContext(
		ctx,
		&events,
		"SELECT "+eventColumns+" FROM events WHERE event_date=$1 ORDER BY seq",
		date,
	)
	return events, err
}

func (s *Storage) GetEventsForMonth(ctx context.Context, year int, month time.Month) ([]storage.Event, error) {
	// Dates are stored as ISO text, range compare works.
	first := storage.Date{Year: year, Month: month, Day: 1}
	next := first.At(0, time.UTC).AddDate(0, 1, 0)
	var events []storage.Event
	err := s.db.SelectContext(
		ctx,
		&events,
		"SELECT "+eventColumns+" FROM events WHERE event_date>=$1 AND event_date<$2 ORDER BY seq",
		first,
		storage.Date{Year: next.Year(), Month: next.Month(), Day: next.Day()},
	)
	return events, err
}

func (s *Storage) AddUser(ctx context.Context, u *storage.User) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	_, err := s.db.ExecContext(
		ctx,
		"INSERT INTO users(id, name, email, password, role, active) VALUES($1, $2, $3, $4, $5, $6)",
		u.ID, u.Name, u.Email, u.Password, u.Role, u.Active)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == dbErrUniqueViolation {
		return fmt.Errorf("duplicate user %q: %w", u.Email, storage.ErrDuplicateEmail)
	}
	return err
}

func (s *Storage) GetUser(ctx context.Context, id string) (storage.User, error) {
	var u storage.User
	err := s.db.GetContext(ctx, &u, "SELECT id, name, email, password, role, active FROM users WHERE id=$1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return storage.User{}, fmt.Errorf("failed to get user with id %q: %w", id, storage.ErrNotFoundUser)
	}
	return u, err
}

func (s *Storage) UpdateUser(ctx context.Context, id string, u storage.User) error {
	var found bool
	err := s.db.GetContext(
		ctx,
		&found,
		"UPDATE users SET name=$2, email=$3, password=$4, role=$5, active=$6 WHERE id=$1 RETURNING TRUE",
		id, u.Name, u.Email, u.Password, u.Role, u.Active,
	)
	if errors.Is(err, sql.ErrNoRows) || !found {
		return fmt.Errorf("failed to update user with id %q: %w", id, storage.ErrNotFoundUser)
	}
	return err
}

func (s *Storage) RemoveUser(ctx context.Context, id string) error {
	var found bool
	err := s.db.GetContext(ctx, &found, "DELETE FROM users WHERE id=$1 RETURNING TRUE", id)
	if errors.Is(err, sql.ErrNoRows) || !found {
		return fmt.Errorf("failed to remove user with id %q: %w", id, storage.ErrNotFoundUser)
	}
	return err
}

func (s *Storage) GetUserByEmail(ctx context.Context, email string) (storage.User, error) {
	var u storage.User
	err := s.db.GetContext(
		ctx,
		&u,
		"SELECT id, name, email, password, role, active FROM users WHERE email=$1",
		email,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return storage.User{}, fmt.Errorf("failed to get user with email %q: %w", email, storage.ErrNotFoundUser)
	}
	return u, err
}

func (s *Storage) ListUsers(ctx context.Context) ([]storage.User, error) {
	var users []storage.User
	err := s.db.SelectContext(ctx, &users, "SELECT id, name, email, password, role, active FROM users ORDER BY name")
	return users, err
}
