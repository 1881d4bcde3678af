// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gatednet/server/middleware"
	"github.com/gatednet/server/models"
)

const defaultTimeout = 10 * time.Second

// APIError is a non-2xx response from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("gatednet: %d %s: %s", e.StatusCode, http.StatusText(e.StatusCode), e.Message)
}

// StatusCode returns the HTTP status carried by err, or 0 if err did not
// come from the server.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// Session holds everything a resident front-end needs to talk to the
// server. Pass it by pointer; RegisterMember fills in the credentials.
type Session struct {
	BaseURL     string
	HTTP        *http.Client
	MemberID    string
	MemberToken string
}

// NewSession returns a session for baseURL with a default HTTP client.
func NewSession(baseURL string) *Session {
	return &Session{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: defaultTimeout},
	}
}

// Authenticated reports whether the session carries member credentials.
func (s *Session) Authenticated() bool {
	return s.MemberID != "" && s.MemberToken != ""
}

// RegisterMember creates a member and stores its credentials on s.
func (s *Session) RegisterMember(ctx context.Context, req models.RegisterMemberRequest) (models.RegisterMemberResponse, error) {
	var resp models.RegisterMemberResponse
	if err := s.do(ctx, http.MethodPost, "/members", req, false, &resp); err != nil {
		return models.RegisterMemberResponse{}, err
	}
	s.MemberID = resp.MemberID
	s.MemberToken = resp.MemberToken
	return resp, nil
}

// ListPolls lists polls; status is "", "active", "closed" or "all".
func (s *Session) ListPolls(ctx context.Context, status string) ([]models.Poll, error) {
	path := "/polls"
	if status != "" {
		path += "?" + url.Values{"status": {status}}.Encode()
	}

	var resp models.ListPollsResponse
	if err := s.do(ctx, http.MethodGet, path, nil, false, &resp); err != nil {
		return nil, err
	}
	return resp.Polls, nil
}

func (s *Session) GetPoll(ctx context.Context, pollID string) (models.Poll, error) {
	var poll models.Poll
	if err := s.do(ctx, http.MethodGet, "/polls/"+url.PathEscape(pollID), nil, false, &poll); err != nil {
		return models.Poll{}, err
	}
	return poll, nil
}

// CastVote votes as the session's member and returns the updated poll.
func (s *Session) CastVote(ctx context.Context, pollID string, optionIndex int) (models.Poll, error) {
	if !s.Authenticated() {
		return models.Poll{}, errors.New("gatednet: session has no member credentials")
	}

	req := models.CastVoteRequest{
		PollID:      pollID,
		OptionIndex: &optionIndex,
		MemberID:    s.MemberID,
	}
	var resp models.CastVoteResponse
	if err := s.do(ctx, http.MethodPost, "/vote", req, true, &resp); err != nil {
		return models.Poll{}, err
	}
	return resp.Poll, nil
}

// Results fetches the current tally for a poll.
func (s *Session) Results(ctx context.Context, pollID string) (models.ResultsResponse, error) {
	var resp models.ResultsResponse
	if err := s.do(ctx, http.MethodGet, "/polls/"+url.PathEscape(pollID)+"/results", nil, false, &resp); err != nil {
		return models.ResultsResponse{}, err
	}
	return resp, nil
}

func (s *Session) do(ctx context.Context, method, path string, body any, member bool, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.BaseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if member {
		req.Header.Set(middleware.HeaderMemberID, s.MemberID)
		req.Header.Set(middleware.HeaderMemberToken, s.MemberToken)
	}

	httpClient := s.HTTP
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var errResp models.ErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err != nil || errResp.Message == "" {
			errResp.Message = http.StatusText(resp.StatusCode)
		}
		return &APIError{StatusCode: resp.StatusCode, Message: errResp.Message}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s %s response: %w", method, path, err)
	}
	return nil
}
