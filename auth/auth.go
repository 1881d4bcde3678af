// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrInvalidAdminKey    = errors.New("invalid admin key")
	ErrInvalidMemberToken = errors.New("invalid member token")
)

// NewID returns a random UUIDv4 string for database records
func NewID() string {
	return uuid.NewString()
}

// ValidID reports whether s is a well-formed UUID
func ValidID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}

// sign computes a URL-safe, unpadded HMAC-SHA256 of scope:subject
func sign(scope, subject, salt string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(scope))
	h.Write([]byte{':'})
	h.Write([]byte(subject))
	return strings.TrimRight(base64.URLEncoding.EncodeToString(h.Sum(nil)), "=")
}

// GenerateAdminKey creates an HMAC-based admin key for a poll
// This is deterministic and verifiable
func GenerateAdminKey(pollID, salt string) string {
	return sign("poll", pollID, salt)
}

// ValidateAdminKey checks if the provided admin key is valid for the poll
func ValidateAdminKey(pollID, adminKey, salt string) error {
	expected := GenerateAdminKey(pollID, salt)
	if adminKey == "" || !hmac.Equal([]byte(adminKey), []byte(expected)) {
		return ErrInvalidAdminKey
	}
	return nil
}

// GenerateMemberToken creates the bearer token handed to a resident on
// registration. Like admin keys it is derived, never stored.
func GenerateMemberToken(memberID, salt string) string {
	return sign("member", memberID, salt)
}

// ValidateMemberToken checks a member token against the member ID
func ValidateMemberToken(memberID, token, salt string) error {
	if memberID == "" || token == "" {
		return ErrInvalidMemberToken
	}
	expected := GenerateMemberToken(memberID, salt)
	if !hmac.Equal([]byte(token), []byte(expected)) {
		return ErrInvalidMemberToken
	}
	return nil
}
