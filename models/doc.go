// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

  - RegisterMemberRequest: name, unit, phone, email
  - CreatePollRequest: title, description, options, ends_at
  - CastVoteRequest: poll_id, option_index, member_id

# Response Types

  - RegisterMemberResponse: member_id, member_token
  - CreatePollResponse: poll_id, admin_key
  - CastVoteResponse: message, poll
  - ListPollsResponse: polls
  - ResultsResponse: title, status, voter_count, tally
  - ErrorResponse: error, message

# Domain Types

  - Member: resident with unit and contact info
  - Poll: poll metadata, options with counts, optional tally
  - Option: label and vote_count at a 0-based index
  - Vote: one ledger entry (poll, member, option index)
  - Tally, OptionTally: counts with percentages

# Constants

Status values:

	StatusOpen   = "open"
	StatusClosed = "closed"

ListPolls filters:

	FilterActive = "active"
	FilterClosed = "closed"
	FilterAll    = "all"
*/
package models
