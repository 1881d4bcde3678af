// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"

	"github.com/gatednet/server/cliparse"
	"github.com/gatednet/server/handlers"
	"github.com/gatednet/server/middleware"
)

func NewRouter(db *sql.DB, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	pollHandler := handlers.NewPollHandler(db, cfg)
	votingHandler := handlers.NewVotingHandler(db, cfg)
	resultsHandler := handlers.NewResultsHandler(db, cfg)
	memberHandler := handlers.NewMemberHandler(db, cfg)

	member := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.WithLogging(middleware.RequireMember(cfg.MemberTokenSalt, h))
	}

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Members
	mux.HandleFunc("POST /members", middleware.WithLogging(memberHandler.Register))
	mux.HandleFunc("GET /members/{id}", member(memberHandler.GetMember))

	// Polls
	mux.HandleFunc("POST /polls", middleware.WithLogging(pollHandler.CreatePoll))
	mux.HandleFunc("GET /polls", middleware.WithLogging(pollHandler.ListPolls))
	mux.HandleFunc("GET /polls/{id}", middleware.WithLogging(pollHandler.GetPoll))
	mux.HandleFunc("POST /polls/{id}/close", middleware.WithLogging(pollHandler.ClosePoll))
	mux.HandleFunc("DELETE /polls/{id}", middleware.WithLogging(pollHandler.DeletePoll))

	// Voting
	mux.HandleFunc("POST /vote", member(votingHandler.CastVote))
	mux.HandleFunc("POST /polls/{id}/votes", member(votingHandler.CastVote))
	mux.HandleFunc("GET /polls/{id}/my-vote", member(votingHandler.GetMyVote))

	// Results
	mux.HandleFunc("GET /polls/{id}/results", middleware.WithLogging(resultsHandler.GetResults))

	// Root endpoint
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("gatednet polls API v1"))
	})

	return mux
}
