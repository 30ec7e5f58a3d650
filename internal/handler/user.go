package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/medicare/medicare-api/internal/handler/dto"
	"github.com/medicare/medicare-api/internal/service"
)

// UserHandler handles registration and login.
type UserHandler struct {
	svc    *service.UserService
	logger *slog.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(svc *service.UserService, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		svc:    svc,
		logger: logger,
	}
}

// Register handles POST /api/register.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.CredentialsRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.svc.Register(r.Context(), service.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
	})
	if err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}

	h.logger.Info("user_registered", "user_id", user.ID)

	writeJSON(w, http.StatusCreated, dto.OK(dto.ToUserResponse(user)))
}

// Login handles POST /api/login.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.CredentialsRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			h.logger.Warn("login_failed")
		}
		handleServiceError(w, r, h.logger, err)
		return
	}

	h.logger.Info("login_succeeded", "user_id", user.ID)

	writeJSON(w, http.StatusOK, dto.OK(dto.ToUserResponse(user)))
}
