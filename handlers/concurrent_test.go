// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/gatednet/server/models"
	"github.com/gatednet/server/testutil"
)

// TestConcurrentVotes verifies that simultaneous votes from different
// members are all counted exactly once
func TestConcurrentVotes(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	votingHandler := NewVotingHandler(db, cfg)

	pollID, _ := testutil.CreateTestPoll(t, db, cfg, models.StatusOpen, "Option A", "Option B", "Option C")

	numVoters := 12
	memberIDs := make([]string, numVoters)
	tokens := make([]string, numVoters)

	// Pre-create all members
	for i := 0; i < numVoters; i++ {
		memberIDs[i], tokens[i] = testutil.CreateTestMember(t, db, cfg, fmt.Sprintf("Voter %d", i), fmt.Sprintf("H-%d", i))
	}

	var successCount atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < numVoters; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			req := testutil.MakeRequest("POST", "/vote",
				models.CastVoteRequest{PollID: pollID, OptionIndex: intPtr(idx % 3)},
				testutil.MemberHeaders(memberIDs[idx], tokens[idx]))
			w := serveVote(votingHandler, req)

			if w.Code == http.StatusOK {
				successCount.Add(1)
			} else {
				t.Errorf("Voter %d got status %d: %s", idx, w.Code, w.Body.String())
			}
		}(i)
	}

	wg.Wait()

	if int(successCount.Load()) != numVoters {
		t.Errorf("Expected %d successful votes, got %d", numVoters, successCount.Load())
	}

	counts := testutil.OptionCounts(t, db, pollID)
	total := 0
	for i, c := range counts {
		if c != numVoters/3 {
			t.Errorf("Option %d has %d votes, want %d", i, c, numVoters/3)
		}
		total += c
	}
	if total != numVoters {
		t.Errorf("Expected total %d, got %d", numVoters, total)
	}
}

// TestConcurrentDuplicateVotes verifies that a member racing against
// themselves gets exactly one vote recorded
func TestConcurrentDuplicateVotes(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	votingHandler := NewVotingHandler(db, cfg)

	pollID, _ := testutil.CreateTestPoll(t, db, cfg, models.StatusOpen, "Yes", "No")
	memberID, token := testutil.CreateTestMember(t, db, cfg, "Racer", "J-9")

	attempts := 8
	var okCount, conflictCount atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			req := testutil.MakeRequest("POST", "/vote",
				models.CastVoteRequest{PollID: pollID, OptionIndex: intPtr(idx % 2)},
				testutil.MemberHeaders(memberID, token))
			w := serveVote(votingHandler, req)

			switch w.Code {
			case http.StatusOK:
				okCount.Add(1)
			case http.StatusConflict:
				conflictCount.Add(1)
			default:
				t.Errorf("Unexpected status %d: %s", w.Code, w.Body.String())
			}
		}(i)
	}

	wg.Wait()

	if okCount.Load() != 1 {
		t.Errorf("Expected exactly 1 successful vote, got %d", okCount.Load())
	}
	if int(conflictCount.Load()) != attempts-1 {
		t.Errorf("Expected %d conflicts, got %d", attempts-1, conflictCount.Load())
	}

	total := 0
	for _, c := range testutil.OptionCounts(t, db, pollID) {
		total += c
	}
	if total != 1 {
		t.Errorf("Expected a single counted vote, got %d", total)
	}
}
