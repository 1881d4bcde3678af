// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package voting

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/gatednet/server/auth"
	"github.com/gatednet/server/db"
	"github.com/gatednet/server/models"
)

const (
	MinOptions = 2
	MaxOptions = 20
)

// Store runs poll, member and vote queries against the database.
// Every multi-statement mutation runs in a single transaction.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

func NewStore(conn *sql.DB) *Store {
	return &Store{db: conn, now: func() time.Time { return time.Now().UTC() }}
}

// WithClock returns a copy of the store that reads time from now.
func (s *Store) WithClock(now func() time.Time) *Store {
	return &Store{db: s.db, now: func() time.Time { return now().UTC() }}
}

// CreateMember validates and inserts a resident.
func (s *Store) CreateMember(ctx context.Context, req models.RegisterMemberRequest) (models.Member, error) {
	name := strings.TrimSpace(req.Name)
	unit := strings.TrimSpace(req.Unit)
	if name == "" {
		return models.Member{}, fmt.Errorf("%w: name is required", ErrInvalidMember)
	}
	if unit == "" {
		return models.Member{}, fmt.Errorf("%w: unit is required", ErrInvalidMember)
	}

	member := models.Member{
		ID:        auth.NewID(),
		Name:      name,
		Unit:      unit,
		CreatedAt: s.now(),
	}
	if phone := strings.TrimSpace(req.Phone); phone != "" {
		member.Phone = &phone
	}
	if email := strings.TrimSpace(req.Email); email != "" {
		addr, err := mail.ParseAddress(email)
		if err != nil {
			return models.Member{}, fmt.Errorf("%w: email is not a valid address", ErrInvalidMember)
		}
		member.Email = &addr.Address
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO member (id, name, unit, phone, email, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, member.ID, member.Name, member.Unit, member.Phone, member.Email, member.CreatedAt)
	if err != nil {
		return models.Member{}, fmt.Errorf("failed to insert member: %w", err)
	}

	return member, nil
}

// GetMember loads a resident by ID.
func (s *Store) GetMember(ctx context.Context, memberID string) (models.Member, error) {
	var m models.Member
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, unit, phone, email, created_at
		FROM member
		WHERE id = $1
	`, memberID).Scan(&m.ID, &m.Name, &m.Unit, &m.Phone, &m.Email, &m.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Member{}, ErrMemberNotFound
	}
	if err != nil {
		return models.Member{}, fmt.Errorf("failed to query member: %w", err)
	}
	return m, nil
}

// CreatePoll inserts an open poll with its options in order.
func (s *Store) CreatePoll(ctx context.Context, req models.CreatePollRequest) (models.Poll, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return models.Poll{}, fmt.Errorf("%w: title is required", ErrInvalidPoll)
	}
	if len(req.Options) < MinOptions {
		return models.Poll{}, fmt.Errorf("%w: at least %d options are required", ErrInvalidPoll, MinOptions)
	}
	if len(req.Options) > MaxOptions {
		return models.Poll{}, fmt.Errorf("%w: at most %d options are allowed", ErrInvalidPoll, MaxOptions)
	}

	now := s.now()
	labels := make([]string, len(req.Options))
	for i, label := range req.Options {
		labels[i] = strings.TrimSpace(label)
		if labels[i] == "" {
			return models.Poll{}, fmt.Errorf("%w: option %d is empty", ErrInvalidPoll, i)
		}
	}

	var endsAt *time.Time
	if req.EndsAt != nil {
		t := req.EndsAt.UTC()
		if !t.After(now) {
			return models.Poll{}, fmt.Errorf("%w: ends_at must be in the future", ErrInvalidPoll)
		}
		endsAt = &t
	}

	var description *string
	if d := strings.TrimSpace(req.Description); d != "" {
		description = &d
	}

	pollID := auth.NewID()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.Poll{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO poll (id, title, description, status, ends_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, pollID, title, description, models.StatusOpen, endsAt, now)
	if err != nil {
		return models.Poll{}, fmt.Errorf("failed to insert poll: %w", err)
	}

	for i, label := range labels {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO poll_option (poll_id, option_index, label, vote_count)
			VALUES ($1, $2, $3, 0)
		`, pollID, i, label)
		if err != nil {
			return models.Poll{}, fmt.Errorf("failed to insert option: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return models.Poll{}, fmt.Errorf("failed to commit poll: %w", err)
	}

	return s.GetPoll(ctx, pollID)
}

// GetPoll loads a poll with its options, counts and tally.
func (s *Store) GetPoll(ctx context.Context, pollID string) (models.Poll, error) {
	var p models.Poll
	err := s.db.QueryRowContext(ctx, `
		SELECT id, title, description, status, ends_at, closed_at, created_at
		FROM poll
		WHERE id = $1
	`, pollID).Scan(&p.ID, &p.Title, &p.Description, &p.Status, &p.EndsAt, &p.ClosedAt, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Poll{}, ErrPollNotFound
	}
	if err != nil {
		return models.Poll{}, fmt.Errorf("failed to query poll: %w", err)
	}

	if err := s.loadOptions(ctx, &p); err != nil {
		return models.Poll{}, err
	}
	return p, nil
}

// ListPolls returns polls matching filter, newest first. Active means open
// and not past its end date.
func (s *Store) ListPolls(ctx context.Context, filter string) ([]models.Poll, error) {
	query := `
		SELECT id, title, description, status, ends_at, closed_at, created_at
		FROM poll`
	var args []any
	switch filter {
	case "", models.FilterActive:
		query += ` WHERE status = $1`
		args = append(args, models.StatusOpen)
	case models.FilterClosed, models.FilterAll:
		// closed also covers polls whose end date passed before the sweep ran
	default:
		return nil, fmt.Errorf("%w: unknown status filter %q", ErrInvalidPoll, filter)
	}
	query += ` ORDER BY created_at DESC, id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query polls: %w", err)
	}

	now := s.now()
	polls := []models.Poll{}
	for rows.Next() {
		var p models.Poll
		if err := rows.Scan(&p.ID, &p.Title, &p.Description, &p.Status, &p.EndsAt, &p.ClosedAt, &p.CreatedAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan poll: %w", err)
		}
		switch filter {
		case "", models.FilterActive:
			if !p.Open(now) {
				continue
			}
		case models.FilterClosed:
			if p.Open(now) {
				continue
			}
		}
		polls = append(polls, p)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("failed to iterate polls: %w", err)
	}
	// Release the connection before loading options
	rows.Close()

	for i := range polls {
		if err := s.loadOptions(ctx, &polls[i]); err != nil {
			return nil, err
		}
	}
	return polls, nil
}

// loadOptions fills Options, Tally and EndsIn on p.
func (s *Store) loadOptions(ctx context.Context, p *models.Poll) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT option_index, label, vote_count
		FROM poll_option
		WHERE poll_id = $1
		ORDER BY option_index
	`, p.ID)
	if err != nil {
		return fmt.Errorf("failed to query options: %w", err)
	}
	defer rows.Close()

	p.Options = []models.Option{}
	for rows.Next() {
		var opt models.Option
		if err := rows.Scan(&opt.Index, &opt.Label, &opt.VoteCount); err != nil {
			return fmt.Errorf("failed to scan option: %w", err)
		}
		p.Options = append(p.Options, opt)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate options: %w", err)
	}

	tally := ComputeTally(p.ID, p.Options)
	p.Tally = &tally
	if p.EndsAt != nil && p.Status == models.StatusOpen {
		p.EndsIn = humanize.RelTime(*p.EndsAt, s.now(), "ago", "from now")
	}
	return nil
}

// CastVote records memberID's vote for the option at optionIndex and
// returns the updated poll.
//
// The ledger insert and the count increment share one transaction. The
// ledger primary key rejects a second vote by the same member even when two
// requests race past the earlier checks, and the increment only applies
// while the poll is still open.
func (s *Store) CastVote(ctx context.Context, pollID string, optionIndex int, memberID string) (models.Poll, error) {
	now := s.now()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.Poll{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var status string
	var endsAt *time.Time
	err = tx.QueryRowContext(ctx, `
		SELECT status, ends_at FROM poll WHERE id = $1
	`, pollID).Scan(&status, &endsAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Poll{}, ErrPollNotFound
	}
	if err != nil {
		return models.Poll{}, fmt.Errorf("failed to query poll: %w", err)
	}

	var memberExists bool
	err = tx.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM member WHERE id = $1)
	`, memberID).Scan(&memberExists)
	if err != nil {
		return models.Poll{}, fmt.Errorf("failed to query member: %w", err)
	}
	if !memberExists {
		return models.Poll{}, ErrMemberNotFound
	}

	if status != models.StatusOpen || (endsAt != nil && !now.Before(*endsAt)) {
		return models.Poll{}, ErrPollClosed
	}

	var optionCount int
	err = tx.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM poll_option WHERE poll_id = $1
	`, pollID).Scan(&optionCount)
	if err != nil {
		return models.Poll{}, fmt.Errorf("failed to count options: %w", err)
	}
	if optionIndex < 0 || optionIndex >= optionCount {
		return models.Poll{}, fmt.Errorf("%w: %d not in [0, %d)", ErrInvalidOption, optionIndex, optionCount)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO vote (poll_id, member_id, option_index, cast_at)
		VALUES ($1, $2, $3, $4)
	`, pollID, memberID, optionIndex, now)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return models.Poll{}, ErrAlreadyVoted
		}
		return models.Poll{}, fmt.Errorf("failed to insert vote: %w", err)
	}

	res, err := tx.ExecContext(ctx, `
		UPDATE poll_option
		SET vote_count = vote_count + 1
		WHERE poll_id = $1 AND option_index = $2
		  AND EXISTS (SELECT 1 FROM poll WHERE id = $1 AND status = $3)
	`, pollID, optionIndex, models.StatusOpen)
	if err != nil {
		return models.Poll{}, fmt.Errorf("failed to increment option: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return models.Poll{}, fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected != 1 {
		// closed between the status read and the increment
		return models.Poll{}, ErrPollClosed
	}

	if err := tx.Commit(); err != nil {
		if db.IsUniqueViolation(err) {
			return models.Poll{}, ErrAlreadyVoted
		}
		return models.Poll{}, fmt.Errorf("failed to commit vote: %w", err)
	}

	return s.GetPoll(ctx, pollID)
}

// GetVote returns memberID's ledger entry for pollID.
func (s *Store) GetVote(ctx context.Context, pollID, memberID string) (models.Vote, error) {
	var v models.Vote
	err := s.db.QueryRowContext(ctx, `
		SELECT poll_id, member_id, option_index, cast_at
		FROM vote
		WHERE poll_id = $1 AND member_id = $2
	`, pollID, memberID).Scan(&v.PollID, &v.MemberID, &v.OptionIndex, &v.CastAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Vote{}, ErrVoteNotFound
	}
	if err != nil {
		return models.Vote{}, fmt.Errorf("failed to query vote: %w", err)
	}
	return v, nil
}

// CountVotes counts ledger rows for a poll. It always equals the sum of the
// option counts.
func (s *Store) CountVotes(ctx context.Context, pollID string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM vote WHERE poll_id = $1
	`, pollID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count votes: %w", err)
	}
	return count, nil
}

// ClosePoll marks an open poll closed.
func (s *Store) ClosePoll(ctx context.Context, pollID string) (models.Poll, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE poll
		SET status = $1, closed_at = $2
		WHERE id = $3 AND status = $4
	`, models.StatusClosed, s.now(), pollID, models.StatusOpen)
	if err != nil {
		return models.Poll{}, fmt.Errorf("failed to close poll: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return models.Poll{}, fmt.Errorf("failed to read rows affected: %w", err)
	}

	poll, err := s.GetPoll(ctx, pollID)
	if err != nil {
		return models.Poll{}, err
	}
	if affected == 0 {
		return models.Poll{}, ErrPollClosed
	}
	return poll, nil
}

// DeletePoll removes a poll, its options and its ledger rows.
func (s *Store) DeletePoll(ctx context.Context, pollID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range []string{
		`DELETE FROM vote WHERE poll_id = $1`,
		`DELETE FROM poll_option WHERE poll_id = $1`,
	} {
		if _, err := tx.ExecContext(ctx, stmt, pollID); err != nil {
			return fmt.Errorf("failed to delete poll rows: %w", err)
		}
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM poll WHERE id = $1`, pollID)
	if err != nil {
		return fmt.Errorf("failed to delete poll: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return ErrPollNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit delete: %w", err)
	}
	return nil
}

// CloseExpired closes every open poll whose end date has passed and
// returns the IDs it closed.
func (s *Store) CloseExpired(ctx context.Context) ([]string, error) {
	now := s.now()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, ends_at FROM poll
		WHERE status = $1 AND ends_at IS NOT NULL
	`, models.StatusOpen)
	if err != nil {
		return nil, fmt.Errorf("failed to query open polls: %w", err)
	}

	var expired []string
	for rows.Next() {
		var id string
		var endsAt time.Time
		if err := rows.Scan(&id, &endsAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan poll: %w", err)
		}
		if !now.Before(endsAt) {
			expired = append(expired, id)
		}
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("failed to iterate polls: %w", err)
	}
	rows.Close()

	closed := make([]string, 0, len(expired))
	for _, id := range expired {
		res, err := s.db.ExecContext(ctx, `
			UPDATE poll
			SET status = $1, closed_at = ends_at
			WHERE id = $2 AND status = $3
		`, models.StatusClosed, id, models.StatusOpen)
		if err != nil {
			return closed, fmt.Errorf("failed to close poll %s: %w", id, err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			closed = append(closed, id)
		}
	}
	return closed, nil
}
