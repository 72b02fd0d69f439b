package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/focusroom/focusroom/internal/store"
)

// IntervalHandlers provides HTTP handlers for interval CRUD. These cover
// single-row edits outside a live room session; in-room transitions go
// through the WebSocket endpoint so peers get notified.
type IntervalHandlers struct {
	store store.Store
	log   *zerolog.Logger
}

// NewIntervalHandlers creates a new interval handlers instance.
func NewIntervalHandlers(st store.Store, logger *zerolog.Logger) *IntervalHandlers {
	return &IntervalHandlers{
		store: st,
		log:   logger,
	}
}

// StartIntervalRequest represents the start interval request body.
type StartIntervalRequest struct {
	UserID    string `json:"user_id" binding:"required"`
	Name      string `json:"name" binding:"required"`
	ProjectID *int64 `json:"project_id"`
}

// StartInterval handles starting an interval outside a room.
// POST /api/interval
func (h *IntervalHandlers) StartInterval(c *gin.Context) {
	var req StartIntervalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Debug().Err(err).Msg("invalid start interval request")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	userID, err := strconv.ParseInt(req.UserID, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid user id"})
		return
	}

	interval, err := h.store.CreateInterval(c.Request.Context(), userID, req.ProjectID, req.Name, time.Now().UTC())
	if err != nil {
		h.log.Error().Err(err).Int64("user_id", userID).Msg("failed to start interval")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	h.log.Info().Int64("interval_id", interval.ID).Int64("user_id", userID).Msg("interval started")
	c.JSON(http.StatusCreated, gin.H{"id": strconv.FormatInt(interval.ID, 10)})
}

// EndInterval handles ending an interval.
// POST /api/interval/:id/end
func (h *IntervalHandlers) EndInterval(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	end := time.Now().UTC()
	if err := h.store.EndInterval(c.Request.Context(), id, end); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "interval not found"})
			return
		}
		h.log.Error().Err(err).Int64("interval_id", id).Msg("failed to end interval")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":      strconv.FormatInt(id, 10),
		"endTime": end.Format(time.RFC3339),
	})
}

// EditIntervalRequest represents the edit interval request body. Times are
// RFC 3339 strings; a missing end_time leaves the interval running.
type EditIntervalRequest struct {
	Name      string  `json:"name" binding:"required"`
	ProjectID *int64  `json:"project_id"`
	StartTime string  `json:"start_time" binding:"required"`
	EndTime   *string `json:"end_time"`
}

// EditInterval handles rewriting an interval.
// PATCH /api/interval/:id
func (h *IntervalHandlers) EditInterval(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req EditIntervalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Debug().Err(err).Msg("invalid edit interval request")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	start, err := time.Parse(time.RFC3339, req.StartTime)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid start_time"})
		return
	}
	var end *time.Time
	if req.EndTime != nil {
		parsed, err := time.Parse(time.RFC3339, *req.EndTime)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid end_time"})
			return
		}
		end = &parsed
	}

	if err := h.store.UpdateInterval(c.Request.Context(), id, req.Name, req.ProjectID, start, end); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "interval not found"})
			return
		}
		h.log.Error().Err(err).Int64("interval_id", id).Msg("failed to edit interval")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": strconv.FormatInt(id, 10)})
}

// DeleteInterval handles interval deletion.
// DELETE /api/interval/:id
func (h *IntervalHandlers) DeleteInterval(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.store.DeleteInterval(c.Request.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "interval not found"})
			return
		}
		h.log.Error().Err(err).Int64("interval_id", id).Msg("failed to delete interval")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	h.log.Info().Int64("interval_id", id).Msg("interval deleted")
	c.JSON(http.StatusOK, gin.H{"id": strconv.FormatInt(id, 10)})
}
