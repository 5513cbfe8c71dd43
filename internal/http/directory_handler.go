package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/example/room-lending/internal/auth"
	"github.com/example/room-lending/internal/directory"
)

// DirectoryHandler serves registration for the three identity directories.
type DirectoryHandler struct {
	owners        *directory.Owners
	organizations *directory.Organizations
	members       *directory.Members
	responder     responder
	logger        *slog.Logger
}

// NewDirectoryHandler constructs the registration handler.
func NewDirectoryHandler(owners *directory.Owners, organizations *directory.Organizations, members *directory.Members, logger *slog.Logger) *DirectoryHandler {
	base := defaultLogger(logger)
	return &DirectoryHandler{
		owners:        owners,
		organizations: organizations,
		members:       members,
		responder:     newResponder(base),
		logger:        base,
	}
}

func (h *DirectoryHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "DirectoryHandler", operation, attrs...)
}

type registerRequest struct {
	Name           string `json:"name" validate:"required"`
	Email          string `json:"email" validate:"required,email"`
	Password       string `json:"password" validate:"required,min=8"`
	OrganizationID string `json:"organization_id,omitempty"`
}

type registeredResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	CreatedAt string `json:"created_at"`
}

// RegisterOwner creates a resource owner account.
func (h *DirectoryHandler) RegisterOwner(w http.ResponseWriter, r *http.Request) {
	h.register(w, r, "RegisterOwner", func(ctx context.Context, req registerRequest, hash string) (registeredResponse, error) {
		owner, err := h.owners.Register(ctx, directory.RegisterOwnerParams{
			Name:         req.Name,
			Email:        req.Email,
			PasswordHash: hash,
		})
		if err != nil {
			return registeredResponse{}, err
		}
		return registeredResponse{
			ID:        owner.ID,
			Name:      owner.Name,
			Email:     owner.Email,
			CreatedAt: owner.CreatedAt.UTC().Format(time.RFC3339Nano),
		}, nil
	})
}

// RegisterOrganization creates an organization account.
func (h *DirectoryHandler) RegisterOrganization(w http.ResponseWriter, r *http.Request) {
	h.register(w, r, "RegisterOrganization", func(ctx context.Context, req registerRequest, hash string) (registeredResponse, error) {
		org, err := h.organizations.Register(ctx, directory.RegisterOrganizationParams{
			Name:         req.Name,
			Email:        req.Email,
			PasswordHash: hash,
		})
		if err != nil {
			return registeredResponse{}, err
		}
		return registeredResponse{
			ID:        org.ID,
			Name:      org.Name,
			Email:     org.Email,
			CreatedAt: org.CreatedAt.UTC().Format(time.RFC3339Nano),
		}, nil
	})
}

// RegisterMember creates an individual member account, optionally attached
// to an organization.
func (h *DirectoryHandler) RegisterMember(w http.ResponseWriter, r *http.Request) {
	h.register(w, r, "RegisterMember", func(ctx context.Context, req registerRequest, hash string) (registeredResponse, error) {
		member, err := h.members.Register(ctx, directory.RegisterMemberParams{
			Name:           req.Name,
			Email:          req.Email,
			OrganizationID: req.OrganizationID,
			PasswordHash:   hash,
		})
		if err != nil {
			return registeredResponse{}, err
		}
		return registeredResponse{
			ID:        member.ID,
			Name:      member.Name,
			Email:     member.Email,
			CreatedAt: member.CreatedAt.UTC().Format(time.RFC3339Nano),
		}, nil
	})
}

func (h *DirectoryHandler) register(w http.ResponseWriter, r *http.Request, operation string, create func(context.Context, registerRequest, string) (registeredResponse, error)) {
	if h == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req registerRequest
	if err := decodeAndValidate(r, &req); err != nil {
		h.log(r.Context(), operation, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode registration", "error", err)
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger := h.log(r.Context(), operation, "email", req.Email)

	hash, err := auth.CreatePasswordHash(req.Password, auth.DefaultArgon2idParams)
	if err != nil {
		logger.ErrorContext(r.Context(), "failed to hash password", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusInternalServerError, nil)
		return
	}

	created, err := create(r.Context(), req, hash)
	if err != nil {
		logger.ErrorContext(r.Context(), "registration failed", "error", err)
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("id", created.ID).InfoContext(r.Context(), "registration succeeded")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, created)
}
