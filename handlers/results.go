// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"net/http"

	"github.com/gatednet/server/auth"
	"github.com/gatednet/server/cliparse"
	"github.com/gatednet/server/middleware"
	"github.com/gatednet/server/models"
	"github.com/gatednet/server/voting"
)

type ResultsHandler struct {
	store *voting.Store
	cfg   cliparse.Config
}

func NewResultsHandler(db *sql.DB, cfg cliparse.Config) *ResultsHandler {
	return &ResultsHandler{store: voting.NewStore(db), cfg: cfg}
}

// GetResults handles GET /polls/:id/results
// Percentages are recomputed from the stored counts on every call
func (h *ResultsHandler) GetResults(w http.ResponseWriter, r *http.Request) {
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

	voters, err := h.store.CountVotes(r.Context(), pollID)
	if err != nil {
		storeError(w, err, "failed to count votes", "poll_id", pollID)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.ResultsResponse{
		Title:      poll.Title,
		Status:     poll.Status,
		VoterCount: voters,
		Tally:      voting.ComputeTally(poll.ID, poll.Options),
	})
}
