package internalhttp

import (
	"net/http"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/labstack/echo/v4"
	"github.com/louro2023/agendaflow/internal/storage"
	log "github.com/sirupsen/logrus"
)

// Events carry no duration of their own; the export reserves the two-hour
// slot that the scheduling gap keeps free around each start time.
const exportSlot = 2 * time.Hour

func (s *Server) exportICS(c echo.Context) error {
	events, err := s.app.ListEvents(c.Request().Context())
	if err != nil {
		log.Errorf("failed to list events: %v", err)
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: errInternalServerError})
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	for _, e := range events {
		if e.Status != storage.Approved {
			continue
		}
		start := e.Date.At(e.Clock, time.Local)
		ev := cal.AddEvent(e.ID)
		ev.SetSummary(e.Title)
		ev.SetDescription(e.Description)
		ev.SetStartAt(start)
		ev.SetEndAt(start.Add(exportSlot))
	}

	c.Response().Header().Set("Content-Disposition", `attachment; filename="agenda.ics"`)
	return c.Blob(http.StatusOK, "text/calendar", []byte(cal.Serialize()))
}
