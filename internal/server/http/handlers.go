package internalhttp

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/louro2023/agendaflow/internal/app"
	"github.com/louro2023/agendaflow/internal/storage"
	log "github.com/sirupsen/logrus"
)

const (
	errInternalServerError = "internal server error"
	errEventNotFound       = "event not found"
	errUserNotFound        = "user not found"
)

type errorResponse struct {
	Error string `json:"error"`
}

type conflictResponse struct {
	Error            string        `json:"error"`
	GapMinutes       int           `json:"gapMinutes"`
	ConflictingEvent storage.Event `json:"conflictingEvent"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}
	u, err := s.app.Login(c.Request().Context(), req.Email, req.Password)
	switch {
	case errors.Is(err, app.ErrInvalidCredentials):
		return c.JSON(http.StatusUnauthorized, errorResponse{Error: err.Error()})
	case errors.Is(err, app.ErrUserInactive):
		return c.JSON(http.StatusForbidden, errorResponse{Error: err.Error()})
	case err != nil:
		log.Errorf("login failed: %v", err)
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: errInternalServerError})
	}
	u.Password = ""
	return c.JSON(http.StatusOK, u)
}

// Date and time arrive as text and are parsed here, before the scheduling
// logic ever sees them. The conflict check assumes well-formed values.
type createEventRequest struct {
	Title         string `json:"title"`
	Description   string `json:"description"`
	Date          string `json:"date"`
	Time          string `json:"time"`
	RequesterID   string `json:"requesterId"`
	RequesterName string `json:"requesterName"`
}

func (s *Server) createEvent(c echo.Context) error {
	var req createEventRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}
	date, err := storage.ParseDate(req.Date)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}
	clock, err := storage.ParseClock(req.Time)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	created, err := s.app.CreateEvent(c.Request().Context(), storage.Event{
		Title:         req.Title,
		Description:   req.Description,
		Date:          date,
		Clock:         clock,
		RequesterID:   req.RequesterID,
		RequesterName: req.RequesterName,
	})
	var conflict *app.ConflictError
	if errors.As(err, &conflict) {
		return c.JSON(http.StatusConflict, conflictResponse{
			Error:            conflict.Result.Message,
			GapMinutes:       conflict.Result.GapMinutes,
			ConflictingEvent: *conflict.Result.Conflicting,
		})
	}
	if err != nil {
		log.Errorf("failed to create event: %v", err)
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: errInternalServerError})
	}
	return c.JSON(http.StatusCreated, created)
}

func (s *Server) listEvents(c echo.Context) error {
	events, err := s.app.ListEvents(c.Request().Context())
	if err != nil {
		log.Errorf("failed to list events: %v", err)
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: errInternalServerError})
	}
	return c.JSON(http.StatusOK, events)
}

func (s *Server) eventsForDay(c echo.Context) error {
	date, err := storage.ParseDate(c.QueryParam("date"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}
	events, err := s.app.GetEventsForDay(c.Request().Context(), date)
	if err != nil {
		log.Errorf("failed to list events: %v", err)
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: errInternalServerError})
	}
	return c.JSON(http.StatusOK, events)
}

func (s *Server) eventsForMonth(c echo.Context) error {
	month, err := time.Parse("2006-01", c.QueryParam("month"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid month, expected YYYY-MM"})
	}
	events, err := s.app.GetEventsForMonth(c.Request().Context(), month.Year(), month.Month())
	if err != nil {
		log.Errorf("failed to list events: %v", err)
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: errInternalServerError})
	}
	return c.JSON(http.StatusOK, events)
}

type updateEventRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

func (s *Server) updateEvent(c echo.Context) error {
	var req updateEventRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}
	err := s.app.UpdateEventDetails(c.Request().Context(), c.Param("id"), req.Title, req.Description)
	if errors.Is(err, storage.ErrNotFoundEvent) {
		return c.JSON(http.StatusNotFound, errorResponse{Error: errEventNotFound})
	}
	if err != nil {
		log.Errorf("failed to update event: %v", err)
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: errInternalServerError})
	}
	event, err := s.app.GetEvent(c.Request().Context(), c.Param("id"))
	if err != nil {
		log.Errorf("failed to get event: %v", err)
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: errInternalServerError})
	}
	return c.JSON(http.StatusOK, event)
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

func (s *Server) updateEventStatus(c echo.Context) error {
	var req updateStatusRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}
	status, err := storage.ParseStatus(req.Status)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	ctx := c.Request().Context()
	id := c.Param("id")
	switch status {
	case storage.Approved:
		err = s.app.ApproveEvent(ctx, id)
	case storage.Rejected:
		err = s.app.RejectEvent(ctx, id)
	default:
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "status must be APPROVED or REJECTED"})
	}
	if errors.Is(err, storage.ErrNotFoundEvent) {
		return c.JSON(http.StatusNotFound, errorResponse{Error: errEventNotFound})
	}
	if err != nil {
		log.Errorf("failed to update event status: %v", err)
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: errInternalServerError})
	}
	event, err := s.app.GetEvent(ctx, id)
	if err != nil {
		log.Errorf("failed to get event: %v", err)
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: errInternalServerError})
	}
	return c.JSON(http.StatusOK, event)
}

func (s *Server) removeEvent(c echo.Context) error {
	err := s.app.RemoveEvent(c.Request().Context(), c.Param("id"))
	if errors.Is(err, storage.ErrNotFoundEvent) {
		return c.JSON(http.StatusNotFound, errorResponse{Error: errEventNotFound})
	}
	if err != nil {
		log.Errorf("failed to remove event: %v", err)
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: errInternalServerError})
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) listUsers(c echo.Context) error {
	users, err := s.app.ListUsers(c.Request().Context())
	if err != nil {
		log.Errorf("failed to list users: %v", err)
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: errInternalServerError})
	}
	for i := range users {
		users[i].Password = ""
	}
	return c.JSON(http.StatusOK, users)
}

func (s *Server) createUser(c echo.Context) error {
	var u storage.User
	if err := c.Bind(&u); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}
	created, err := s.app.CreateUser(c.Request().Context(), u)
	if errors.Is(err, storage.ErrDuplicateEmail) {
		return c.JSON(http.StatusConflict, errorResponse{Error: err.Error()})
	}
	if err != nil {
		log.Errorf("failed to create user: %v", err)
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: errInternalServerError})
	}
	created.Password = ""
	return c.JSON(http.StatusCreated, created)
}

func (s *Server) updateUser(c echo.Context) error {
	var u storage.User
	if err := c.Bind(&u); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}
	err := s.app.UpdateUser(c.Request().Context(), c.Param("id"), u)
	if errors.Is(err, storage.ErrNotFoundUser) {
		return c.JSON(http.StatusNotFound, errorResponse{Error: errUserNotFound})
	}
	if err != nil {
		log.Errorf("failed to update user: %v", err)
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: errInternalServerError})
	}
	u.ID = c.Param("id")
	u.Password = ""
	return c.JSON(http.StatusOK, u)
}

type setActiveRequest struct {
	Active bool `json:"active"`
}

func (s *Server) setUserActive(c echo.Context) error {
	var req setActiveRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}
	err := s.app.SetUserActive(c.Request().Context(), c.Param("id"), req.Active)
	if errors.Is(err, storage.ErrNotFoundUser) {
		return c.JSON(http.StatusNotFound, errorResponse{Error: errUserNotFound})
	}
	if err != nil {
		log.Errorf("failed to update user: %v", err)
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: errInternalServerError})
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) removeUser(c echo.Context) error {
	err := s.app.RemoveUser(c.Request().Context(), c.Param("id"))
	if errors.Is(err, storage.ErrNotFoundUser) {
		return c.JSON(http.StatusNotFound, errorResponse{Error: errUserNotFound})
	}
	if err != nil {
		log.Errorf("failed to remove user: %v", err)
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: errInternalServerError})
	}
	return c.NoContent(http.StatusNoContent)
}

type syncResponse struct {
	Events []storage.Event `json:"events"`
	Users  []storage.User  `json:"users"`
}

func (s *Server) sync(c echo.Context) error {
	ctx := c.Request().Context()
	events, err := s.app.ListEvents(ctx)
	if err != nil {
		log.Errorf("failed to list events: %v", err)
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: errInternalServerError})
	}
	users, err := s.app.ListUsers(ctx)
	if err != nil {
		log.Errorf("failed to list users: %v", err)
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: errInternalServerError})
	}
	for i := range users {
		users[i].Password = ""
	}
	return c.JSON(http.StatusOK, syncResponse{Events: events, Users: users})
}

func (s *Server) health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}
