// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package voting

import "errors"

var (
	ErrPollNotFound   = errors.New("poll not found")
	ErrMemberNotFound = errors.New("member not found")
	ErrVoteNotFound   = errors.New("vote not found")
	ErrInvalidOption  = errors.New("invalid option index")
	ErrAlreadyVoted   = errors.New("member has already voted on this poll")
	ErrPollClosed     = errors.New("poll is closed")

	// Validation failures; wrapped with the offending field
	ErrInvalidPoll   = errors.New("invalid poll")
	ErrInvalidMember = errors.New("invalid member")
)
