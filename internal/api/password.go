package api

import (
	"context"
	"encoding/json"
	"log"
	"net"
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"github.com/vaultline/passguard/internal/checker"
	"github.com/vaultline/passguard/internal/directory"
	apierrors "github.com/vaultline/passguard/internal/errors"
	"github.com/vaultline/passguard/internal/store"
)

const bcryptCost = 12

// Evaluator runs the password gate chain. Implemented by checker.Checker.
type Evaluator interface {
	Evaluate(password string, entry *directory.Entry) checker.Result
}

// AuditStoreForAPI is the interface handlers need for recording decisions.
type AuditStoreForAPI interface {
	Insert(ctx context.Context, entry *store.AuditEntry) error
}

// PasswordHandler provides the password evaluation endpoints.
type PasswordHandler struct {
	checker Evaluator
	audit   AuditStoreForAPI
}

// NewPasswordHandler creates a new PasswordHandler.
func NewPasswordHandler(c Evaluator, audit AuditStoreForAPI) *PasswordHandler {
	return &PasswordHandler{checker: c, audit: audit}
}

// checkRequest is the body of both password endpoints. Identity hints come
// either as plain strings or as a directory entry whose uid/gecos
// attributes are extracted; the entry form wins when both are present.
type checkRequest struct {
	Password    string           `json:"password"`
	Login       string           `json:"login,omitempty"`
	DisplayName string           `json:"display_name,omitempty"`
	Entry       *directory.Entry `json:"entry,omitempty"`
}

type checkResponse struct {
	Valid  bool   `json:"valid"`
	Kind   string `json:"kind,omitempty"`
	Reason string `json:"reason,omitempty"`
}

type hashResponse struct {
	Hash string `json:"hash"`
	Cost int    `json:"cost"`
}

// entry builds the directory entry for the evaluation, synthesizing one
// from the plain-string hints when no entry was supplied.
func (req *checkRequest) entry() *directory.Entry {
	if req.Entry != nil {
		return req.Entry
	}
	if req.Login == "" && req.DisplayName == "" {
		return nil
	}

	e := &directory.Entry{}
	if req.Login != "" {
		e.Attributes = append(e.Attributes, directory.Attribute{
			Name: directory.AttrLogin, Values: []string{req.Login},
		})
	}
	if req.DisplayName != "" {
		e.Attributes = append(e.Attributes, directory.Attribute{
			Name: directory.AttrDisplay, Values: []string{req.DisplayName},
		})
	}
	return e
}

// Check handles POST /api/v1/password/check.
//
// A policy rejection is a successful evaluation, not an HTTP error: the
// response is 200 with valid=false and the reason.
func (h *PasswordHandler) Check(w http.ResponseWriter, r *http.Request) {
	var req checkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondError(w, r, apierrors.Validation("invalid request body"))
		return
	}

	res := h.checker.Evaluate(req.Password, req.entry())
	h.auditLog(r, "password_check", res)

	if res.Verdict.OK {
		RespondJSON(w, r, http.StatusOK, checkResponse{Valid: true})
		return
	}

	RespondJSON(w, r, http.StatusOK, checkResponse{
		Valid:  false,
		Kind:   res.Verdict.Kind.String(),
		Reason: res.Verdict.Reason,
	})
}

// Hash handles POST /api/v1/password/hash: evaluate, then bcrypt-hash on
// acceptance so callers get policy enforcement and hashing in one step.
// Rejections surface as 422 with the reason.
func (h *PasswordHandler) Hash(w http.ResponseWriter, r *http.Request) {
	var req checkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondError(w, r, apierrors.Validation("invalid request body"))
		return
	}

	res := h.checker.Evaluate(req.Password, req.entry())
	h.auditLog(r, "password_hash", res)

	if !res.Verdict.OK {
		RespondError(w, r, apierrors.PolicyViolation(res.Verdict.Reason))
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		// bcrypt only fails on passwords over 72 bytes or a bad cost.
		RespondError(w, r, apierrors.Validation("password cannot be hashed: "+err.Error()))
		return
	}

	RespondJSON(w, r, http.StatusOK, hashResponse{Hash: string(hash), Cost: bcryptCost})
}

// auditLog records one decision. Failures are logged, never surfaced: the
// evaluation result stands on its own.
func (h *PasswordHandler) auditLog(r *http.Request, action string, res checker.Result) {
	if h.audit == nil {
		return
	}

	actor := res.Login
	if actor == "" {
		actor = "unknown"
	}

	outcome := "accepted"
	if !res.Verdict.OK {
		outcome = "rejected"
	}

	entry := &store.AuditEntry{
		Actor:     actor,
		Action:    action,
		Outcome:   outcome,
		Kind:      res.Verdict.Kind.String(),
		Reason:    res.Verdict.Reason,
		IPAddress: clientIP(r),
	}

	if err := h.audit.Insert(r.Context(), entry); err != nil {
		log.Printf("audit insert failed: %v", err)
	}
}

// clientIP strips the port from RemoteAddr; chi's RealIP middleware has
// already substituted the forwarded address when present.
func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
