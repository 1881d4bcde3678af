// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/gatednet/server/cliparse"
	"github.com/gatednet/server/middleware"
	"github.com/gatednet/server/models"
	"github.com/gatednet/server/voting"
)

type VotingHandler struct {
	store *voting.Store
	cfg   cliparse.Config
}

func NewVotingHandler(db *sql.DB, cfg cliparse.Config) *VotingHandler {
	return &VotingHandler{store: voting.NewStore(db), cfg: cfg}
}

// CastVote handles POST /vote and POST /polls/:id/votes
// Must be wrapped in middleware.RequireMember
func (h *VotingHandler) CastVote(w http.ResponseWriter, r *http.Request) {
	memberID, ok := middleware.MemberID(r.Context())
	if !ok {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Member authentication required")
		return
	}

	var req models.CastVoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	// Path wins over body on /polls/{id}/votes
	if id := r.PathValue("id"); id != "" {
		req.PollID = id
	}
	if req.PollID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "poll_id is required")
		return
	}
	if req.OptionIndex == nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "option_index is required")
		return
	}

	// A member may only vote as themselves
	if req.MemberID != "" && req.MemberID != memberID {
		middleware.ErrorResponse(w, http.StatusForbidden, "member_id does not match the authenticated member")
		return
	}

	poll, err := h.store.CastVote(r.Context(), req.PollID, *req.OptionIndex, memberID)
	if err != nil {
		storeError(w, err, "failed to cast vote", "poll_id", req.PollID, "member_id", memberID)
		return
	}

	slog.Info("vote cast", "poll_id", req.PollID, "member_id", memberID, "option_index", *req.OptionIndex)

	middleware.JSONResponse(w, http.StatusOK, models.CastVoteResponse{
		Message: "Vote recorded successfully",
		Poll:    poll,
	})
}

// GetMyVote handles GET /polls/:id/my-vote
func (h *VotingHandler) GetMyVote(w http.ResponseWriter, r *http.Request) {
	memberID, ok := middleware.MemberID(r.Context())
	if !ok {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Member authentication required")
		return
	}

	pollID := r.PathValue("id")
	vote, err := h.store.GetVote(r.Context(), pollID, memberID)
	if err != nil {
		storeError(w, err, "failed to query vote", "poll_id", pollID)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, vote)
}
