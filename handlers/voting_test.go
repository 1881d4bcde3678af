// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/gatednet/server/auth"
	"github.com/gatednet/server/middleware"
	"github.com/gatednet/server/models"
	"github.com/gatednet/server/testutil"
)

func intPtr(i int) *int { return &i }

// serveVote runs CastVote behind RequireMember, as the router does
func serveVote(h *VotingHandler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	middleware.RequireMember(h.cfg.MemberTokenSalt, h.CastVote)(w, req)
	return w
}

func TestCastVote(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	handler := NewVotingHandler(db, cfg)

	pollID, _ := testutil.CreateTestPoll(t, db, cfg, models.StatusOpen, "Pool", "Gym")
	closedID, _ := testutil.CreateTestPoll(t, db, cfg, models.StatusClosed, "Yes", "No")
	alice, aliceToken := testutil.CreateTestMember(t, db, cfg, "Alice", "A-101")
	bob, bobToken := testutil.CreateTestMember(t, db, cfg, "Bob", "A-102")

	// Tokens for a member that was never stored still authenticate
	ghost := auth.NewID()
	ghostToken := auth.GenerateMemberToken(ghost, cfg.MemberTokenSalt)

	tests := []struct {
		name           string
		body           interface{}
		headers        map[string]string
		expectedStatus int
		wantCounts     []int
	}{
		{
			name:           "valid vote",
			body:           models.CastVoteRequest{PollID: pollID, OptionIndex: intPtr(0), MemberID: alice},
			headers:        testutil.MemberHeaders(alice, aliceToken),
			expectedStatus: http.StatusOK,
			wantCounts:     []int{1, 0},
		},
		{
			name:           "duplicate vote",
			body:           models.CastVoteRequest{PollID: pollID, OptionIndex: intPtr(1), MemberID: alice},
			headers:        testutil.MemberHeaders(alice, aliceToken),
			expectedStatus: http.StatusConflict,
			wantCounts:     []int{1, 0},
		},
		{
			name:           "member id taken from token",
			body:           models.CastVoteRequest{PollID: pollID, OptionIndex: intPtr(1)},
			headers:        testutil.MemberHeaders(bob, bobToken),
			expectedStatus: http.StatusOK,
			wantCounts:     []int{1, 1},
		},
		{
			name:           "unregistered member",
			body:           models.CastVoteRequest{PollID: pollID, OptionIndex: intPtr(0)},
			headers:        testutil.MemberHeaders(ghost, ghostToken),
			expectedStatus: http.StatusNotFound,
			wantCounts:     []int{1, 1},
		},
		{
			name:           "missing option index",
			body:           map[string]string{"poll_id": pollID},
			headers:        testutil.MemberHeaders(alice, aliceToken),
			expectedStatus: http.StatusBadRequest,
			wantCounts:     []int{1, 1},
		},
		{
			name:           "missing poll id",
			body:           models.CastVoteRequest{OptionIndex: intPtr(0)},
			headers:        testutil.MemberHeaders(alice, aliceToken),
			expectedStatus: http.StatusBadRequest,
			wantCounts:     []int{1, 1},
		},
		{
			name:           "voting as someone else",
			body:           models.CastVoteRequest{PollID: pollID, OptionIndex: intPtr(0), MemberID: bob},
			headers:        testutil.MemberHeaders(alice, aliceToken),
			expectedStatus: http.StatusForbidden,
			wantCounts:     []int{1, 1},
		},
		{
			name:           "no credentials",
			body:           models.CastVoteRequest{PollID: pollID, OptionIndex: intPtr(0), MemberID: alice},
			headers:        nil,
			expectedStatus: http.StatusUnauthorized,
			wantCounts:     []int{1, 1},
		},
		{
			name:           "poll not found",
			body:           models.CastVoteRequest{PollID: auth.NewID(), OptionIndex: intPtr(0)},
			headers:        testutil.MemberHeaders(alice, aliceToken),
			expectedStatus: http.StatusNotFound,
			wantCounts:     []int{1, 1},
		},
		{
			name:           "closed poll",
			body:           models.CastVoteRequest{PollID: closedID, OptionIndex: intPtr(0)},
			headers:        testutil.MemberHeaders(alice, aliceToken),
			expectedStatus: http.StatusConflict,
			wantCounts:     []int{1, 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.MakeRequest("POST", "/vote", tt.body, tt.headers)
			w := serveVote(handler, req)

			testutil.AssertStatus(t, w, tt.expectedStatus)

			if tt.expectedStatus == http.StatusOK {
				var resp models.CastVoteResponse
				testutil.AssertJSON(t, w, &resp)
				if resp.Message == "" {
					t.Error("Expected non-empty message")
				}
				if resp.Poll.ID != pollID {
					t.Errorf("Expected poll %s in response, got %s", pollID, resp.Poll.ID)
				}
				got := []int{resp.Poll.Options[0].VoteCount, resp.Poll.Options[1].VoteCount}
				if !reflect.DeepEqual(got, tt.wantCounts) {
					t.Errorf("Response counts = %v, want %v", got, tt.wantCounts)
				}
			}

			if got := testutil.OptionCounts(t, db, pollID); !reflect.DeepEqual(got, tt.wantCounts) {
				t.Errorf("Stored counts = %v, want %v", got, tt.wantCounts)
			}
		})
	}
}

func TestCastVote_InvalidOption(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	handler := NewVotingHandler(db, cfg)

	pollID, _ := testutil.CreateTestPoll(t, db, cfg, models.StatusOpen, "A", "B", "C")
	memberID, token := testutil.CreateTestMember(t, db, cfg, "Dev", "B-7")

	for _, idx := range []int{-1, 3, 100} {
		req := testutil.MakeRequest("POST", "/vote",
			models.CastVoteRequest{PollID: pollID, OptionIndex: intPtr(idx)},
			testutil.MemberHeaders(memberID, token))
		w := serveVote(handler, req)

		testutil.AssertStatus(t, w, http.StatusBadRequest)
	}

	if got := testutil.OptionCounts(t, db, pollID); !reflect.DeepEqual(got, []int{0, 0, 0}) {
		t.Errorf("Counts changed after invalid votes: %v", got)
	}

	// The member can still vote properly afterwards
	req := testutil.MakeRequest("POST", "/vote",
		models.CastVoteRequest{PollID: pollID, OptionIndex: intPtr(2)},
		testutil.MemberHeaders(memberID, token))
	testutil.AssertStatus(t, serveVote(handler, req), http.StatusOK)
}

func TestCastVote_PathPollID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	handler := NewVotingHandler(db, cfg)

	pollID, _ := testutil.CreateTestPoll(t, db, cfg, models.StatusOpen, "A", "B")
	memberID, token := testutil.CreateTestMember(t, db, cfg, "Nia", "C-3")

	req := testutil.MakeRequest("POST", "/polls/"+pollID+"/votes",
		map[string]int{"option_index": 1},
		testutil.MemberHeaders(memberID, token))
	req.SetPathValue("id", pollID)
	w := serveVote(handler, req)

	testutil.AssertStatus(t, w, http.StatusOK)
	if got := testutil.OptionCounts(t, db, pollID); !reflect.DeepEqual(got, []int{0, 1}) {
		t.Errorf("Counts = %v, want [0 1]", got)
	}
}

func TestCastVote_InvalidJSON(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	handler := NewVotingHandler(db, cfg)
	memberID, token := testutil.CreateTestMember(t, db, cfg, "Kai", "D-1")

	req := httptest.NewRequest("POST", "/vote", nil)
	for k, v := range testutil.MemberHeaders(memberID, token) {
		req.Header.Set(k, v)
	}
	w := serveVote(handler, req)

	testutil.AssertStatus(t, w, http.StatusBadRequest)
}

func TestGetMyVote(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	handler := NewVotingHandler(db, cfg)

	pollID, _ := testutil.CreateTestPoll(t, db, cfg, models.StatusOpen, "A", "B")
	memberID, token := testutil.CreateTestMember(t, db, cfg, "Ivy", "E-5")

	getMyVote := func() *httptest.ResponseRecorder {
		req := testutil.MakeRequest("GET", "/polls/"+pollID+"/my-vote", nil, testutil.MemberHeaders(memberID, token))
		req.SetPathValue("id", pollID)
		w := httptest.NewRecorder()
		middleware.RequireMember(cfg.MemberTokenSalt, handler.GetMyVote)(w, req)
		return w
	}

	testutil.AssertStatus(t, getMyVote(), http.StatusNotFound)

	req := testutil.MakeRequest("POST", "/vote",
		models.CastVoteRequest{PollID: pollID, OptionIndex: intPtr(1)},
		testutil.MemberHeaders(memberID, token))
	testutil.AssertStatus(t, serveVote(handler, req), http.StatusOK)

	w := getMyVote()
	testutil.AssertStatus(t, w, http.StatusOK)

	var vote models.Vote
	testutil.AssertJSON(t, w, &vote)
	if vote.OptionIndex != 1 || vote.MemberID != memberID {
		t.Errorf("Unexpected vote: %+v", vote)
	}
}
