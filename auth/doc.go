// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides key derivation and ID generation.

# Admin Keys

Admin keys use HMAC-SHA256 to create deterministic, verifiable keys:

	adminKey := auth.GenerateAdminKey(pollID, salt)
	err := auth.ValidateAdminKey(pollID, adminKey, salt)

The key is URL-safe base64 encoded without padding. Since it's deterministic,
the same poll ID and salt always produce the same key. This allows validation
without storing the key in the database.

# Member Tokens

Member tokens are derived the same way from the member ID under a separate
salt and scope, so an admin key can never pass as a member token:

	token := auth.GenerateMemberToken(memberID, salt)
	err := auth.ValidateMemberToken(memberID, token, salt)

Clients send the pair as X-Member-ID and X-Member-Token.

# ID Generation

Polls and members are keyed by UUIDv4 strings:

	id := auth.NewID()
	ok := auth.ValidID(id)
*/
package auth
