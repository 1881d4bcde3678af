// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/gatednet/server/auth"
	"github.com/gatednet/server/cliparse"
	"github.com/gatednet/server/middleware"
	"github.com/gatednet/server/models"
	"github.com/gatednet/server/voting"
)

type PollHandler struct {
	store *voting.Store
	cfg   cliparse.Config
}

func NewPollHandler(db *sql.DB, cfg cliparse.Config) *PollHandler {
	return &PollHandler{store: voting.NewStore(db), cfg: cfg}
}

// CreatePoll handles POST /polls
func (h *PollHandler) CreatePoll(w http.ResponseWriter, r *http.Request) {
	var req models.CreatePollRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	poll, err := h.store.CreatePoll(r.Context(), req)
	if err != nil {
		storeError(w, err, "failed to create poll")
		return
	}

	slog.Info("poll created", "poll_id", poll.ID, "options", len(poll.Options))

	middleware.JSONResponse(w, http.StatusCreated, models.CreatePollResponse{
		PollID:   poll.ID,
		AdminKey: auth.GenerateAdminKey(poll.ID, h.cfg.AdminKeySalt),
	})
}

// ListPolls handles GET /polls
// Defaults to active polls; ?status=closed or ?status=all widen the list
func (h *PollHandler) ListPolls(w http.ResponseWriter, r *http.Request) {
	polls, err := h.store.ListPolls(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		storeError(w, err, "failed to list polls")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.ListPollsResponse{Polls: polls})
}

// GetPoll handles GET /polls/:id
func (h *PollHandler) GetPoll(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("id")
	if !auth.ValidID(pollID) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Poll not found")
		return
	}

	poll, err := h.store.GetPoll(r.Context(), pollID)
	if err != nil {
		storeError(w, err, "failed to query poll", "poll_id", pollID)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, poll)
}

// ClosePoll handles POST /polls/:id/close
func (h *PollHandler) ClosePoll(w http.ResponseWriter, r *http.Request) {
	pollID, ok := h.requireAdmin(w, r)
	if !ok {
		return
	}

	poll, err := h.store.ClosePoll(r.Context(), pollID)
	if err != nil {
		storeError(w, err, "failed to close poll", "poll_id", pollID)
		return
	}

	slog.Info("poll closed", "poll_id", pollID, "total_votes", poll.Tally.TotalVotes)

	middleware.JSONResponse(w, http.StatusOK, poll)
}

// DeletePoll handles DELETE /polls/:id
func (h *PollHandler) DeletePoll(w http.ResponseWriter, r *http.Request) {
	pollID, ok := h.requireAdmin(w, r)
	if !ok {
		return
	}

	if err := h.store.DeletePoll(r.Context(), pollID); err != nil {
		storeError(w, err, "failed to delete poll", "poll_id", pollID)
		return
	}

	slog.Info("poll deleted", "poll_id", pollID)

	middleware.JSONResponse(w, http.StatusOK, models.MessageResponse{Message: "Poll deleted"})
}

// requireAdmin validates X-Admin-Key against the poll in the path
func (h *PollHandler) requireAdmin(w http.ResponseWriter, r *http.Request) (string, bool) {
	pollID := r.PathValue("id")
	if pollID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "poll_id is required")
		return "", false
	}

	adminKey := r.Header.Get(middleware.HeaderAdminKey)
	if err := auth.ValidateAdminKey(pollID, adminKey, h.cfg.AdminKeySalt); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid admin key")
		return "", false
	}

	return pollID, true
}
