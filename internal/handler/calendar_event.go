package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/dukerupert/pairhouse/internal/auth"
	"github.com/dukerupert/pairhouse/internal/model"
	"github.com/dukerupert/pairhouse/internal/store"
)

const defaultEventColor = "#f472b6"

type CalendarEventHandler struct {
	store  *store.EventStore
	pub    Publisher
	logger *slog.Logger
}

func NewCalendarEventHandler(s *store.EventStore, pub Publisher, logger *slog.Logger) *CalendarEventHandler {
	return &CalendarEventHandler{store: s, pub: pub, logger: logger}
}

type eventRequest struct {
	Title     string  `json:"title"`
	EventDate string  `json:"event_date"`
	EventTime *string `json:"event_time"`
	Color     string  `json:"color"`
}

func (req *eventRequest) validate() string {
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		return "title is required"
	}
	if !validDate(req.EventDate) {
		return "event_date must be YYYY-MM-DD"
	}
	req.EventTime = cleanOptional(req.EventTime)
	if req.EventTime != nil && !validTime(*req.EventTime) {
		return "event_time must be HH:MM"
	}
	if req.Color == "" {
		req.Color = defaultEventColor
	}
	if !hexColorRegexp.MatchString(req.Color) {
		return "color must be a hex color (e.g. #FF0000)"
	}
	return ""
}

// List accepts optional inclusive ?from= and ?to= dates.
func (h *CalendarEventHandler) List(w http.ResponseWriter, r *http.Request) {
	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")
	if (from != "" && !validDate(from)) || (to != "" && !validDate(to)) {
		writeError(w, http.StatusBadRequest, "from and to must be YYYY-MM-DD")
		return
	}

	events, err := h.store.List(r.Context(), auth.Owners(r.Context()), from, to)
	if err != nil {
		h.logger.Error("list events", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list events")
		return
	}
	if events == nil {
		events = []model.CalendarEvent{}
	}
	writeJSON(w, http.StatusOK, events)
}

func (h *CalendarEventHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req eventRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	event, err := h.store.Create(r.Context(), auth.UserID(r.Context()), req.Title, req.EventDate, req.EventTime, req.Color)
	if err != nil {
		h.logger.Error("create event", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create event")
		return
	}

	broadcast(h.pub, r, "event", "created", event.ID)
	writeJSON(w, http.StatusCreated, event)
}

func (h *CalendarEventHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req eventRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	event, err := h.store.Update(r.Context(), id, auth.UserID(r.Context()), req.Title, req.EventDate, req.EventTime, req.Color)
	if err != nil {
		h.logger.Error("update event", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update event")
		return
	}
	if event == nil {
		writeError(w, http.StatusNotFound, "event not found")
		return
	}

	broadcast(h.pub, r, "event", "updated", id)
	writeJSON(w, http.StatusOK, event)
}

func (h *CalendarEventHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	deleted, err := h.store.Delete(r.Context(), id, auth.UserID(r.Context()))
	if err != nil {
		h.logger.Error("delete event", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete event")
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "event not found")
		return
	}

	broadcast(h.pub, r, "event", "deleted", id)
	w.WriteHeader(http.StatusNoContent)
}
