package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"golang.org/x/exp/slog"

	"github.com/serviceseeker/serviceseeker/pkg/authlink"
	"github.com/serviceseeker/serviceseeker/pkg/credential"
	"github.com/serviceseeker/serviceseeker/pkg/externalprovider"
	"github.com/serviceseeker/serviceseeker/pkg/signin"
	"github.com/serviceseeker/serviceseeker/pkg/signup"
	"github.com/serviceseeker/serviceseeker/pkg/token"
	"github.com/serviceseeker/serviceseeker/pkg/user"
)

// Handler exposes the sign-in, registration and confirmation endpoints.
type Handler struct {
	signinService   *signin.SignInService
	signupService   *signup.SignupService
	providerService *externalprovider.ExternalProviderService
	cookieSetter    token.CookieSetter
}

// NewHandler creates a new auth handler
func NewHandler(signinService *signin.SignInService, signupService *signup.SignupService, providerService *externalprovider.ExternalProviderService, cookieSetter token.CookieSetter) *Handler {
	return &Handler{
		signinService:   signinService,
		signupService:   signupService,
		providerService: providerService,
		cookieSetter:    cookieSetter,
	}
}

// RegisterRoutes registers the public auth routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/login", h.Login)
	r.Post("/logout", h.Logout)
	r.Post("/register", h.Register)
	r.Get("/confirm-email", h.ConfirmEmail)
	r.Post("/resend-confirmation", h.ResendConfirmation)
	r.Get("/providers", h.ListProviders)
	r.Get("/external/{provider}", h.BeginExternal)
	r.Get("/external/{provider}/callback", h.ExternalCallback)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Password  string `json:"password"`
	UserType  string `json:"user_type,omitempty"`
}

type userResponse struct {
	ID                string `json:"id"`
	Email             string `json:"email"`
	Name              string `json:"name"`
	UserType          string `json:"user_type"`
	PrimaryAuthMethod string `json:"primary_auth_method"`
	EmailConfirmed    bool   `json:"email_confirmed"`
}

func toUserResponse(u user.User) userResponse {
	return userResponse{
		ID:                u.ID.String(),
		Email:             u.Email,
		Name:              u.FullName(),
		UserType:          string(u.UserType),
		PrimaryAuthMethod: string(u.PrimaryAuthMethod),
		EmailConfirmed:    u.InitialEmailConfirmed || u.IsExternalPrimary(),
	}
}

func renderError(w http.ResponseWriter, r *http.Request, status int, message string) {
	render.Status(r, status)
	render.JSON(w, r, map[string]string{"error": message})
}

// Login handles POST /auth/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		renderError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.signinService.SignInLocal(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, signin.ErrInvalidCredentials):
			renderError(w, r, http.StatusUnauthorized, "invalid email or password")
		case errors.Is(err, signin.ErrAccountDisabled):
			renderError(w, r, http.StatusForbidden, "account is disabled")
		case errors.Is(err, authlink.ErrNotConfirmed):
			renderError(w, r, http.StatusForbidden, "email address not confirmed")
		default:
			slog.Error("Login failed", "err", err)
			renderError(w, r, http.StatusInternalServerError, "login failed")
		}
		return
	}

	token.SetTokensCookie(h.cookieSetter, w, result.Tokens)
	render.JSON(w, r, toUserResponse(result.User))
}

// Logout handles POST /auth/logout
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	token.ClearTokensCookie(h.cookieSetter, w)
	render.NoContent(w, r)
}

// Register handles POST /auth/register
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		renderError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	userType := user.UserTypeNotSet
	if req.UserType != "" {
		userType = user.UserType(req.UserType)
	}

	u, err := h.signupService.RegisterLocal(r.Context(), signup.RegisterLocalParams{
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  req.Password,
		UserType:  userType,
	})
	if err != nil {
		switch {
		case errors.Is(err, user.ErrEmailExists):
			renderError(w, r, http.StatusConflict, "email already registered")
		case errors.Is(err, credential.ErrPasswordComplexity), errors.Is(err, user.ErrInvalidUserParams):
			renderError(w, r, http.StatusBadRequest, err.Error())
		default:
			slog.Error("Registration failed", "err", err)
			renderError(w, r, http.StatusInternalServerError, "registration failed")
		}
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, toUserResponse(u))
}

// ConfirmEmail handles GET /auth/confirm-email?token=...
func (h *Handler) ConfirmEmail(w http.ResponseWriter, r *http.Request) {
	tokenValue := r.URL.Query().Get("token")
	if tokenValue == "" {
		renderError(w, r, http.StatusBadRequest, "missing token")
		return
	}

	if _, err := h.signupService.ConfirmEmail(r.Context(), tokenValue); err != nil {
		renderError(w, r, http.StatusBadRequest, "invalid or expired confirmation token")
		return
	}
	render.JSON(w, r, map[string]string{"status": "confirmed"})
}

// ResendConfirmation handles POST /auth/resend-confirmation
func (h *Handler) ResendConfirmation(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		renderError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.signupService.ResendConfirmation(r.Context(), req.Email); err != nil {
		// do not reveal whether the email exists
		slog.Info("Resend confirmation failed", "err", err)
	}
	render.JSON(w, r, map[string]string{"status": "ok"})
}

// ListProviders handles GET /auth/providers
func (h *Handler) ListProviders(w http.ResponseWriter, r *http.Request) {
	providers, err := h.providerService.EnabledProviders()
	if err != nil {
		renderError(w, r, http.StatusInternalServerError, "failed to list providers")
		return
	}

	var out []map[string]string
	for _, p := range providers {
		out = append(out, map[string]string{
			"name":         p.Name,
			"display_name": p.DisplayName,
		})
	}
	render.JSON(w, r, out)
}

// BeginExternal handles GET /auth/external/{provider}
func (h *Handler) BeginExternal(w http.ResponseWriter, r *http.Request) {
	provider := chi.URLParam(r, "provider")
	returnURL := r.URL.Query().Get("return_url")

	authURL, err := h.providerService.BeginAuth(provider, returnURL)
	if err != nil {
		renderError(w, r, http.StatusBadRequest, "unknown or disabled provider")
		return
	}
	http.Redirect(w, r, authURL, http.StatusFound)
}

// ExternalCallback handles GET /auth/external/{provider}/callback
func (h *Handler) ExternalCallback(w http.ResponseWriter, r *http.Request) {
	provider := chi.URLParam(r, "provider")
	state := r.URL.Query().Get("state")
	code := r.URL.Query().Get("code")
	if state == "" || code == "" {
		renderError(w, r, http.StatusBadRequest, "missing state or code")
		return
	}

	info, err := h.providerService.CompleteAuth(r.Context(), provider, state, code)
	if err != nil {
		slog.Error("External auth failed", "provider", provider, "err", err)
		renderError(w, r, http.StatusUnauthorized, "external authentication failed")
		return
	}

	result, err := h.signinService.SignInExternal(r.Context(), info)
	if errors.Is(err, signin.ErrNoLinkedAccount) {
		// first visit: register, then sign in
		if _, err := h.signupService.RegisterExternal(r.Context(), info, user.UserTypeNotSet); err != nil {
			slog.Error("External registration failed", "provider", provider, "err", err)
			renderError(w, r, http.StatusConflict, "could not create account for external login")
			return
		}
		result, err = h.signinService.SignInExternal(r.Context(), info)
		if err != nil {
			slog.Error("Sign-in after external registration failed", "provider", provider, "err", err)
			renderError(w, r, http.StatusInternalServerError, "sign-in failed")
			return
		}
	} else if err != nil {
		switch {
		case errors.Is(err, signin.ErrAccountDisabled):
			renderError(w, r, http.StatusForbidden, "account is disabled")
		default:
			slog.Error("External sign-in failed", "provider", provider, "err", err)
			renderError(w, r, http.StatusInternalServerError, "sign-in failed")
		}
		return
	}

	token.SetTokensCookie(h.cookieSetter, w, result.Tokens)
	render.JSON(w, r, toUserResponse(result.User))
}
