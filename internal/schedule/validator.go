// Package schedule decides whether a requested event time may coexist with
// the events already scheduled on the same calendar day.
package schedule

import (
	"fmt"

	"github.com/louro2023/agendaflow/internal/storage"
)

// DefaultMinGapMinutes is the minimum separation between the start times of
// two events on the same day unless configured otherwise.
const DefaultMinGapMinutes = 120

// Validator checks a candidate (date, time) against an existing event set.
// The check is day-scoped: events on different calendar dates never conflict,
// even 23:50 against 00:05 of the next day. A zero MinGapMinutes means
// DefaultMinGapMinutes.
type Validator struct {
	MinGapMinutes int
}

// Result of a validation. Conflicting is nil when the candidate is accepted;
// otherwise it is the first same-day event in input order whose start time is
// strictly closer than the minimum gap, GapMinutes the actual distance and
// Message the user-facing explanation.
type Result struct {
	Conflicting *storage.Event
	GapMinutes  int
	Message     string
}

func (r Result) Accepted() bool {
	return r.Conflicting == nil
}

// Validate scans events in the order given and reports the first one on the
// candidate's day closer than the minimum gap. Events with any status count:
// a rejected request still occupies its slot. A gap exactly equal to the
// minimum is acceptable.
func (v Validator) Validate(date storage.Date, clock storage.Clock, events []storage.Event) Result {
	minGap := v.MinGapMinutes
	if minGap == 0 {
		minGap = DefaultMinGapMinutes
	}

	for i := range events {
		e := &events[i]
		if e.Date != date {
			continue
		}
		diff := e.Clock.Minutes() - clock.Minutes()
		if diff < 0 {
			diff = -diff
		}
		if diff < minGap {
			conflicting := *e
			return Result{
				Conflicting: &conflicting,
				GapMinutes:  diff,
				Message:     conflictMessage(conflicting, clock, diff, minGap),
			}
		}
	}
	return Result{}
}

// FormatGap renders a minute count the way the calendar UI shows it:
// "45 minutos", "2 horas", "1h 30min".
func FormatGap(minutes int) string {
	hours := minutes / 60
	rest := minutes % 60
	switch {
	case hours == 0:
		return fmt.Sprintf("%d minutos", rest)
	case rest == 0:
		if hours == 1 {
			return "1 hora"
		}
		return fmt.Sprintf("%d horas", hours)
	default:
		return fmt.Sprintf("%dh %dmin", hours, rest)
	}
}

func conflictMessage(e storage.Event, attempted storage.Clock, gap int, minGap int) string {
	return fmt.Sprintf(
		"Conflito detectado! Já existe um evento %q às %s. "+
			"Você tentou agendar às %s, o que resulta em apenas %s de diferença. "+
			"Mínimo obrigatório: %s de espaço entre eventos no mesmo dia.",
		e.Title, e.Clock, attempted, FormatGap(gap), FormatGap(minGap),
	)
}
