package storage

import (
	"database/sql/driver"
	"fmt"
)

// Status of an event request. The zero value is Pending: a request enters the
// calendar as Pending and is moved to Approved or Rejected by an admin.
type Status int

const (
	Pending Status = iota
	Approved
	Rejected
)

func ParseStatus(s string) (Status, error) {
	switch s {
	case "PENDING":
		return Pending, nil
	case "APPROVED":
		return Approved, nil
	case "REJECTED":
		return Rejected, nil
	}
	return 0, fmt.Errorf("unknown event status %q", s)
}

func (s Status) String() string {
	switch s {
	case Pending:
		return "PENDING"
	case Approved:
		return "APPROVED"
	case Rejected:
		return "REJECTED"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Status) UnmarshalText(data []byte) error {
	parsed, err := ParseStatus(string(data))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

func (s Status) Value() (driver.Value, error) {
	return s.String(), nil
}

func (s *Status) Scan(src interface{}) error {
	switch v := src.(type) {
	case string:
		return s.UnmarshalText([]byte(v))
	case []byte:
		return s.UnmarshalText(v)
	default:
		return fmt.Errorf("cannot scan %T into Status", src)
	}
}

// Event is a dated event request. Date and Clock carry no timezone; they are
// the venue's local civil time.
type Event struct {
	ID            string `json:"id" db:"id"`
	Title         string `json:"title" db:"title"`
	Description   string `json:"description" db:"description"`
	Date          Date   `json:"date" db:"event_date"`
	Clock         Clock  `json:"time" db:"event_time"`
	Status        Status `json:"status" db:"status"`
	RequesterID   string `json:"requesterId" db:"requester_id"`
	RequesterName string `json:"requesterName" db:"requester_name"`
}
