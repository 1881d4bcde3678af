// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the GatedNet poll API.

# Handler Types

Each handler is a struct built from the database and config:

  - PollHandler: create, list, read, close and delete polls
  - VotingHandler: vote casting and the caller's own vote
  - ResultsHandler: tallies with percentages
  - MemberHandler: resident registration and profile

	pollHandler := handlers.NewPollHandler(db, cfg)

Storage and the vote invariants live in package voting; handlers parse
requests, check credentials and map voting errors onto statuses.

# Poll Lifecycle

Polls are created open and end either by an admin close, by passing their
ends_at, or by deletion:

	POST   /polls            → CreatePoll (returns admin_key)
	POST   /polls/{id}/close → ClosePoll
	DELETE /polls/{id}       → DeletePoll

Admin operations require the X-Admin-Key header.

# Voting

	POST /vote              → CastVote {poll_id, option_index, member_id}
	POST /polls/{id}/votes  → CastVote {option_index}
	GET  /polls/{id}/my-vote → GetMyVote

Voting requires X-Member-ID and X-Member-Token. Status codes:

	200  vote recorded, body {message, poll}
	400  option_index out of range or missing
	404  poll or member not found
	409  duplicate vote or poll closed

# Reads

	GET /polls              → ListPolls (active by default, ?status=closed|all)
	GET /polls/{id}         → GetPoll
	GET /polls/{id}/results → GetResults
*/
package handlers
