// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package client is a typed Go client for the poll API.

A Session bundles the server address, the HTTP client and the member
credentials returned by registration. There is no package-level state; each
caller owns its Session and passes it by pointer.

	s := client.NewSession("http://localhost:3318")
	if _, err := s.RegisterMember(ctx, models.RegisterMemberRequest{Name: "Priya", Unit: "B-204"}); err != nil {
		return err
	}
	poll, err := s.CastVote(ctx, pollID, 0)
	if client.StatusCode(err) == http.StatusConflict {
		// already voted or poll closed
	}

Server errors are returned as *APIError carrying the HTTP status and the
message from the JSON error body.
*/
package client
