// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gatednet/server/auth"
	"github.com/gatednet/server/models"
	"github.com/gatednet/server/testutil"
)

func TestCreatePoll(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	handler := NewPollHandler(db, cfg)

	future := time.Now().Add(72 * time.Hour)
	past := time.Now().Add(-time.Hour)

	tests := []struct {
		name           string
		body           interface{}
		expectedStatus int
	}{
		{
			name: "valid poll",
			body: models.CreatePollRequest{
				Title:       "Repaint the lobby?",
				Description: "Vote before the AGM",
				Options:     []string{"Yes", "No", "Abstain"},
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "valid poll with end date",
			body: models.CreatePollRequest{
				Title:   "Pool hours",
				Options: []string{"6-20", "8-22"},
				EndsAt:  &future,
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "missing title",
			body:           models.CreatePollRequest{Options: []string{"Yes", "No"}},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "single option",
			body:           models.CreatePollRequest{Title: "Only one", Options: []string{"Yes"}},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "blank option",
			body:           models.CreatePollRequest{Title: "Blank", Options: []string{"Yes", "  "}},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "end date in the past",
			body: models.CreatePollRequest{
				Title:   "Too late",
				Options: []string{"Yes", "No"},
				EndsAt:  &past,
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "invalid JSON",
			body:           "not a poll",
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.MakeRequest("POST", "/polls", tt.body, nil)
			w := httptest.NewRecorder()

			handler.CreatePoll(w, req)

			testutil.AssertStatus(t, w, tt.expectedStatus)

			if tt.expectedStatus == http.StatusCreated {
				var resp models.CreatePollResponse
				testutil.AssertJSON(t, w, &resp)

				if !auth.ValidID(resp.PollID) {
					t.Errorf("Expected a UUID poll_id, got %q", resp.PollID)
				}
				if err := auth.ValidateAdminKey(resp.PollID, resp.AdminKey, cfg.AdminKeySalt); err != nil {
					t.Errorf("Returned admin key does not validate: %v", err)
				}
			}
		})
	}
}

func TestListPolls(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	handler := NewPollHandler(db, cfg)

	openID, _ := testutil.CreateTestPoll(t, db, cfg, models.StatusOpen, "A", "B")
	closedID, _ := testutil.CreateTestPoll(t, db, cfg, models.StatusClosed, "A", "B")
	expiredID, _ := testutil.CreateTestPoll(t, db, cfg, models.StatusOpen, "A", "B")
	testutil.SetPollEndsAt(t, db, expiredID, time.Now().Add(-time.Minute))

	tests := []struct {
		name           string
		query          string
		expectedStatus int
		want           []string
	}{
		{"default is active", "", http.StatusOK, []string{openID}},
		{"active", "?status=active", http.StatusOK, []string{openID}},
		{"closed includes expired", "?status=closed", http.StatusOK, []string{closedID, expiredID}},
		{"all", "?status=all", http.StatusOK, []string{openID, closedID, expiredID}},
		{"unknown filter", "?status=draft", http.StatusBadRequest, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.MakeRequest("GET", "/polls"+tt.query, nil, nil)
			w := httptest.NewRecorder()

			handler.ListPolls(w, req)

			testutil.AssertStatus(t, w, tt.expectedStatus)
			if tt.expectedStatus != http.StatusOK {
				return
			}

			var resp models.ListPollsResponse
			testutil.AssertJSON(t, w, &resp)

			got := make(map[string]bool)
			for _, p := range resp.Polls {
				got[p.ID] = true
				if len(p.Options) != 2 {
					t.Errorf("Poll %s has %d options, want 2", p.ID, len(p.Options))
				}
				if p.Tally == nil {
					t.Errorf("Poll %s has no tally", p.ID)
				}
			}
			if len(got) != len(tt.want) {
				t.Errorf("Got %d polls, want %d", len(got), len(tt.want))
			}
			for _, id := range tt.want {
				if !got[id] {
					t.Errorf("Expected poll %s in list", id)
				}
			}
		})
	}
}

func TestGetPoll(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	handler := NewPollHandler(db, cfg)

	pollID, _ := testutil.CreateTestPoll(t, db, cfg, models.StatusOpen, "Pool", "Gym", "Garden")

	tests := []struct {
		name           string
		pollID         string
		expectedStatus int
	}{
		{"existing poll", pollID, http.StatusOK},
		{"unknown poll", auth.NewID(), http.StatusNotFound},
		{"malformed id", "not-a-uuid", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.MakeRequest("GET", "/polls/"+tt.pollID, nil, nil)
			req.SetPathValue("id", tt.pollID)
			w := httptest.NewRecorder()

			handler.GetPoll(w, req)

			testutil.AssertStatus(t, w, tt.expectedStatus)

			if tt.expectedStatus == http.StatusOK {
				var poll models.Poll
				testutil.AssertJSON(t, w, &poll)

				if poll.Status != models.StatusOpen {
					t.Errorf("Expected status open, got %s", poll.Status)
				}
				for i, want := range []string{"Pool", "Gym", "Garden"} {
					if poll.Options[i].Index != i || poll.Options[i].Label != want {
						t.Errorf("Option %d = %+v, want %q", i, poll.Options[i], want)
					}
				}
			}
		})
	}
}

func TestClosePoll(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	handler := NewPollHandler(db, cfg)

	pollID, adminKey := testutil.CreateTestPoll(t, db, cfg, models.StatusOpen, "Yes", "No")

	tests := []struct {
		name           string
		adminKey       string
		expectedStatus int
	}{
		{"wrong admin key", "invalid-key", http.StatusUnauthorized},
		{"missing admin key", "", http.StatusUnauthorized},
		{"valid close", adminKey, http.StatusOK},
		{"already closed", adminKey, http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			headers := map[string]string{}
			if tt.adminKey != "" {
				headers["X-Admin-Key"] = tt.adminKey
			}
			req := testutil.MakeRequest("POST", "/polls/"+pollID+"/close", nil, headers)
			req.SetPathValue("id", pollID)
			w := httptest.NewRecorder()

			handler.ClosePoll(w, req)

			testutil.AssertStatus(t, w, tt.expectedStatus)

			if tt.expectedStatus == http.StatusOK {
				var poll models.Poll
				testutil.AssertJSON(t, w, &poll)
				if poll.Status != models.StatusClosed {
					t.Errorf("Expected status closed, got %s", poll.Status)
				}
				if poll.ClosedAt == nil {
					t.Error("Expected closed_at to be set")
				}
			}
		})
	}
}

func TestDeletePoll(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	handler := NewPollHandler(db, cfg)
	votes := NewVotingHandler(db, cfg)

	pollID, adminKey := testutil.CreateTestPoll(t, db, cfg, models.StatusOpen, "Yes", "No")
	memberID, token := testutil.CreateTestMember(t, db, cfg, "Ola", "F-2")

	req := testutil.MakeRequest("POST", "/vote",
		models.CastVoteRequest{PollID: pollID, OptionIndex: intPtr(0)},
		testutil.MemberHeaders(memberID, token))
	testutil.AssertStatus(t, serveVote(votes, req), http.StatusOK)

	deletePoll := func(key string) *httptest.ResponseRecorder {
		req := testutil.MakeRequest("DELETE", "/polls/"+pollID, nil, map[string]string{"X-Admin-Key": key})
		req.SetPathValue("id", pollID)
		w := httptest.NewRecorder()
		handler.DeletePoll(w, req)
		return w
	}

	testutil.AssertStatus(t, deletePoll("wrong"), http.StatusUnauthorized)
	testutil.AssertStatus(t, deletePoll(adminKey), http.StatusOK)
	testutil.AssertStatus(t, deletePoll(adminKey), http.StatusNotFound)

	var remaining int
	if err := db.QueryRow(`SELECT COUNT(*) FROM vote WHERE poll_id = $1`, pollID).Scan(&remaining); err != nil {
		t.Fatalf("Failed to count votes: %v", err)
	}
	if remaining != 0 {
		t.Errorf("Expected ledger rows to be deleted, %d remain", remaining)
	}
	if counts := testutil.OptionCounts(t, db, pollID); len(counts) != 0 {
		t.Errorf("Expected options to be deleted, got %v", counts)
	}
}
