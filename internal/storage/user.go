package storage

import (
	"database/sql/driver"
	"fmt"
)

// Role of a user. Admins decide on event requests, common users propose them,
// viewers only read the calendar.
type Role int

const (
	Admin Role = iota
	Common
	Viewer
)

func ParseRole(s string) (Role, error) {
	switch s {
	case "ADMIN":
		return Admin, nil
	case "COMMON":
		return Common, nil
	case "VIEWER":
		return Viewer, nil
	}
	return 0, fmt.Errorf("unknown role %q", s)
}

func (r Role) String() string {
	switch r {
	case Admin:
		return "ADMIN"
	case Common:
		return "COMMON"
	case Viewer:
		return "VIEWER"
	}
	return fmt.Sprintf("Role(%d)", int(r))
}

func (r Role) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

func (r *Role) UnmarshalText(data []byte) error {
	parsed, err := ParseRole(string(data))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

func (r Role) Value() (driver.Value, error) {
	return r.String(), nil
}

func (r *Role) Scan(src interface{}) error {
	switch v := src.(type) {
	case string:
		return r.UnmarshalText([]byte(v))
	case []byte:
		return r.UnmarshalText(v)
	default:
		return fmt.Errorf("cannot scan %T into Role", src)
	}
}

type User struct {
	ID       string `json:"id" db:"id"`
	Name     string `json:"name" db:"name"`
	Email    string `json:"email" db:"email"`
	Password string `json:"password,omitempty" db:"password"`
	Role     Role   `json:"role" db:"role"`
	Active   bool   `json:"active" db:"active"`
}
