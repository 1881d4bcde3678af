// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/gatednet/server/auth"
	"github.com/gatednet/server/cliparse"
	"github.com/gatednet/server/middleware"
	"github.com/gatednet/server/models"
	"github.com/gatednet/server/voting"
)

type MemberHandler struct {
	store *voting.Store
	cfg   cliparse.Config
}

func NewMemberHandler(db *sql.DB, cfg cliparse.Config) *MemberHandler {
	return &MemberHandler{store: voting.NewStore(db), cfg: cfg}
}

// Register handles POST /members
// Returns the member token the resident uses for every later request
func (h *MemberHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterMemberRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	member, err := h.store.CreateMember(r.Context(), req)
	if err != nil {
		storeError(w, err, "failed to register member")
		return
	}

	slog.Info("member registered", "member_id", member.ID, "unit", member.Unit)

	middleware.JSONResponse(w, http.StatusCreated, models.RegisterMemberResponse{
		MemberID:    member.ID,
		MemberToken: auth.GenerateMemberToken(member.ID, h.cfg.MemberTokenSalt),
	})
}

// GetMember handles GET /members/:id
// Members can only read their own record
func (h *MemberHandler) GetMember(w http.ResponseWriter, r *http.Request) {
	memberID, ok := middleware.MemberID(r.Context())
	if !ok {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Member authentication required")
		return
	}
	if r.PathValue("id") != memberID {
		middleware.ErrorResponse(w, http.StatusForbidden, "Cannot read another member")
		return
	}

	member, err := h.store.GetMember(r.Context(), memberID)
	if err != nil {
		storeError(w, err, "failed to query member", "member_id", memberID)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, member)
}
