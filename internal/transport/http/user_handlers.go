package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/focusroom/focusroom/internal/store"
)

// ErrorResponse represents an error response body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// UserHandlers provides HTTP handlers for user operations.
type UserHandlers struct {
	store store.Store
	log   *zerolog.Logger
}

// NewUserHandlers creates a new user handlers instance.
func NewUserHandlers(st store.Store, logger *zerolog.Logger) *UserHandlers {
	return &UserHandlers{
		store: st,
		log:   logger,
	}
}

// CreateUserRequest represents the create user request body.
type CreateUserRequest struct {
	Username       string  `json:"username" binding:"required,min=1,max=64"`
	Email          string  `json:"email" binding:"required,email"`
	Timezone       string  `json:"timezone" binding:"required"`
	ProfilePicture *string `json:"profile_picture"`
}

// UserResponse represents a user in API responses. Ids travel as strings so
// clients can treat them as opaque.
type UserResponse struct {
	ID             string  `json:"id"`
	Username       string  `json:"username"`
	Email          string  `json:"email"`
	Timezone       string  `json:"timezone"`
	ProfilePicture *string `json:"profile_picture"`
}

// IntervalResponse represents an interval in API responses.
type IntervalResponse struct {
	ID        string  `json:"interval_id"`
	UserID    string  `json:"user_id"`
	ProjectID *int64  `json:"project_id"`
	Name      string  `json:"name"`
	StartTime string  `json:"start_time"`
	EndTime   *string `json:"end_time"`
}

// UserDetailResponse bundles a user with their interval history.
type UserDetailResponse struct {
	UserInfo       UserResponse       `json:"userInfo"`
	Intervals      []IntervalResponse `json:"intervals"`
	ActiveInterval *IntervalResponse  `json:"activeInterval"`
}

// CreateUser handles user creation.
// POST /api/user
func (h *UserHandlers) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Debug().Err(err).Msg("invalid create user request")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	user, err := h.store.CreateUser(c.Request.Context(), req.Username, req.Email, req.Timezone, req.ProfilePicture)
	if err != nil {
		h.log.Error().Err(err).Str("username", req.Username).Msg("failed to create user")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	h.log.Info().Int64("user_id", user.ID).Str("username", user.Username).Msg("user created")
	c.JSON(http.StatusCreated, gin.H{"id": strconv.FormatInt(user.ID, 10)})
}

// GetUser handles fetching a user with their interval history.
// GET /api/user/:id
func (h *UserHandlers) GetUser(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	user, err := h.store.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "user not found"})
			return
		}
		h.log.Error().Err(err).Int64("user_id", id).Msg("failed to get user")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	finished, err := h.store.ListFinishedIntervals(ctx, id)
	if err != nil {
		h.log.Error().Err(err).Int64("user_id", id).Msg("failed to list intervals")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	intervals := make([]IntervalResponse, 0, len(finished))
	for _, interval := range finished {
		intervals = append(intervals, intervalResponse(interval))
	}

	var active *IntervalResponse
	if current, err := h.store.GetActiveInterval(ctx, id); err == nil {
		resp := intervalResponse(current)
		active = &resp
	} else if !errors.Is(err, store.ErrNotFound) {
		h.log.Error().Err(err).Int64("user_id", id).Msg("failed to get active interval")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	c.JSON(http.StatusOK, UserDetailResponse{
		UserInfo:       userResponse(user),
		Intervals:      intervals,
		ActiveInterval: active,
	})
}

// GetUsers handles batch fetching users by comma-separated ids.
// GET /api/users/:ids
func (h *UserHandlers) GetUsers(c *gin.Context) {
	parts := strings.Split(c.Param("ids"), ",")
	ids := make([]int64, 0, len(parts))
	for _, part := range parts {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid user id"})
			return
		}
		ids = append(ids, id)
	}

	users, err := h.store.GetUsersByIDs(c.Request.Context(), ids)
	if err != nil {
		h.log.Error().Err(err).Msg("failed to get users")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	responses := make([]UserResponse, 0, len(users))
	for _, user := range users {
		responses = append(responses, userResponse(user))
	}
	c.JSON(http.StatusOK, gin.H{"users": responses})
}

// DeleteUser handles user deletion.
// DELETE /api/user/:id
func (h *UserHandlers) DeleteUser(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.store.DeleteUser(c.Request.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "user not found"})
			return
		}
		h.log.Error().Err(err).Int64("user_id", id).Msg("failed to delete user")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	h.log.Info().Int64("user_id", id).Msg("user deleted")
	c.JSON(http.StatusOK, gin.H{"id": strconv.FormatInt(id, 10)})
}

// EditSettingsRequest represents the settings update body.
type EditSettingsRequest struct {
	Timezone string `json:"timezone" binding:"required"`
}

// EditSettings handles updating a user's settings.
// PATCH /api/user/:id/settings
func (h *UserHandlers) EditSettings(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req EditSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Debug().Err(err).Msg("invalid settings request")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	if err := h.store.UpdateUserTimezone(c.Request.Context(), id, req.Timezone); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "user not found"})
			return
		}
		h.log.Error().Err(err).Int64("user_id", id).Msg("failed to update settings")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": strconv.FormatInt(id, 10), "timezone": req.Timezone})
}

// ==== helpers ====

func parseID(c *gin.Context, param string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(param), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
		return 0, false
	}
	return id, true
}

func userResponse(user *store.User) UserResponse {
	return UserResponse{
		ID:             strconv.FormatInt(user.ID, 10),
		Username:       user.Username,
		Email:          user.Email,
		Timezone:       user.Timezone,
		ProfilePicture: user.ProfilePicture,
	}
}

func intervalResponse(interval *store.Interval) IntervalResponse {
	resp := IntervalResponse{
		ID:        strconv.FormatInt(interval.ID, 10),
		UserID:    strconv.FormatInt(interval.UserID, 10),
		ProjectID: interval.ProjectID,
		Name:      interval.Name,
		StartTime: interval.StartTime.Format(time.RFC3339),
	}
	if interval.EndTime != nil {
		end := interval.EndTime.Format(time.RFC3339)
		resp.EndTime = &end
	}
	return resp
}
