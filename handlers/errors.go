// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gatednet/server/middleware"
	"github.com/gatednet/server/voting"
)

// storeError maps store errors onto HTTP statuses. Unrecognised errors are
// logged and reported as 500.
func storeError(w http.ResponseWriter, err error, msg string, attrs ...any) {
	switch {
	case errors.Is(err, voting.ErrPollNotFound):
		middleware.ErrorResponse(w, http.StatusNotFound, "Poll not found")
	case errors.Is(err, voting.ErrMemberNotFound):
		middleware.ErrorResponse(w, http.StatusNotFound, "Member not found")
	case errors.Is(err, voting.ErrVoteNotFound):
		middleware.ErrorResponse(w, http.StatusNotFound, "No vote recorded for this member")
	case errors.Is(err, voting.ErrInvalidOption),
		errors.Is(err, voting.ErrInvalidPoll),
		errors.Is(err, voting.ErrInvalidMember):
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, voting.ErrAlreadyVoted):
		middleware.ErrorResponse(w, http.StatusConflict, "Member has already voted on this poll")
	case errors.Is(err, voting.ErrPollClosed):
		middleware.ErrorResponse(w, http.StatusConflict, "Poll is closed")
	default:
		slog.Error(msg, append(attrs, "error", err)...)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
	}
}
