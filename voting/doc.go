// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package voting implements poll storage, vote casting and tallying.

# Casting a Vote

	store := voting.NewStore(conn)
	poll, err := store.CastVote(ctx, pollID, optionIndex, memberID)

Checks run in this order, each mapped to a sentinel error:

  - poll missing          → ErrPollNotFound
  - member missing        → ErrMemberNotFound
  - poll closed or expired → ErrPollClosed
  - index out of range    → ErrInvalidOption
  - member already voted  → ErrAlreadyVoted

A successful cast inserts one row into the vote ledger and increments the
chosen option's vote_count in the same transaction. The ledger's
(poll_id, member_id) primary key is the only duplicate check, so two
concurrent requests from one member cannot both succeed.

# Tally

	tally := voting.ComputeTally(pollID, poll.Options)

Percentages are count/total*100 rounded to two decimals. With no votes every
option reports 0.

# Expiry

Polls with an end date stop accepting votes at that instant. RunSweeper
periodically rewrites their status to closed:

	go voting.RunSweeper(ctx, store, cfg.SweepInterval)
*/
package voting
