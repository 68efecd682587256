package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"
	"golang.org/x/exp/slog"

	"github.com/serviceseeker/serviceseeker/pkg/authlink"
	"github.com/serviceseeker/serviceseeker/pkg/credential"
	"github.com/serviceseeker/serviceseeker/pkg/externalprovider"
	"github.com/serviceseeker/serviceseeker/pkg/user"
)

// Handler exposes the authenticated account-management endpoints for
// authentication methods. Mount under a jwtauth-protected route group.
type Handler struct {
	linkingService  *authlink.LinkingService
	userService     *user.UserService
	credService     *credential.CredentialService
	providerService *externalprovider.ExternalProviderService
}

// NewHandler creates a new account-management handler
func NewHandler(linkingService *authlink.LinkingService, userService *user.UserService, credService *credential.CredentialService, providerService *externalprovider.ExternalProviderService) *Handler {
	return &Handler{
		linkingService:  linkingService,
		userService:     userService,
		credService:     credService,
		providerService: providerService,
	}
}

// RegisterRoutes registers the account-management routes. The caller is
// responsible for wrapping them with jwtauth.Verifier/Authenticator.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/methods", h.ListAuthMethods)
	r.Post("/password", h.AddPassword)
	r.Post("/external", h.LinkExternal)
	r.Delete("/external/{provider}/{key}", h.UnlinkExternal)
	r.Get("/history", h.AuthHistory)
}

func renderError(w http.ResponseWriter, r *http.Request, status int, message string) {
	render.Status(r, status)
	render.JSON(w, r, map[string]string{"error": message})
}

// currentUser resolves the authenticated user from the JWT subject claim.
func (h *Handler) currentUser(w http.ResponseWriter, r *http.Request) (user.User, bool) {
	_, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		renderError(w, r, http.StatusUnauthorized, "unauthorized")
		return user.User{}, false
	}
	sub, _ := claims["sub"].(string)
	userID, err := uuid.Parse(sub)
	if err != nil {
		renderError(w, r, http.StatusUnauthorized, "unauthorized")
		return user.User{}, false
	}
	u, err := h.userService.GetUser(r.Context(), userID)
	if err != nil {
		renderError(w, r, http.StatusUnauthorized, "unauthorized")
		return user.User{}, false
	}
	return u, true
}

type authMethodsResponse struct {
	HasLocalPassword bool                    `json:"has_local_password"`
	ExternalLogins   []externalLoginResponse `json:"external_logins"`
	MultipleMethods  bool                    `json:"multiple_methods"`
}

type externalLoginResponse struct {
	Provider    string `json:"provider"`
	ProviderKey string `json:"provider_key"`
	DisplayName string `json:"display_name"`
}

// ListAuthMethods handles GET /account/methods
func (h *Handler) ListAuthMethods(w http.ResponseWriter, r *http.Request) {
	u, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	logins, err := h.credService.ListExternalLogins(r.Context(), u.ID)
	if err != nil {
		slog.Error("Failed to list external logins", "userId", u.ID, "err", err)
		renderError(w, r, http.StatusInternalServerError, "failed to list auth methods")
		return
	}
	multiple, err := h.linkingService.HasMultipleAuthMethods(r.Context(), u.ID, u.HasLocalPassword)
	if err != nil {
		slog.Error("Failed to check auth methods", "userId", u.ID, "err", err)
		renderError(w, r, http.StatusInternalServerError, "failed to list auth methods")
		return
	}

	resp := authMethodsResponse{
		HasLocalPassword: u.HasLocalPassword,
		MultipleMethods:  multiple,
	}
	for _, login := range logins {
		resp.ExternalLogins = append(resp.ExternalLogins, externalLoginResponse{
			Provider:    login.Provider,
			ProviderKey: login.ProviderKey,
			DisplayName: login.DisplayName,
		})
	}
	render.JSON(w, r, resp)
}

// AddPassword handles POST /account/password
func (h *Handler) AddPassword(w http.ResponseWriter, r *http.Request) {
	u, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	var req struct {
		Password string `json:"password"`
	}
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		renderError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	updated, err := h.linkingService.AddLocalPassword(r.Context(), u, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, authlink.ErrDuplicatePassword):
			renderError(w, r, http.StatusConflict, "a password is already set for this account")
		case errors.Is(err, credential.ErrPasswordComplexity):
			renderError(w, r, http.StatusBadRequest, err.Error())
		default:
			slog.Error("Failed to set password", "userId", u.ID, "err", err)
			renderError(w, r, http.StatusInternalServerError, "failed to set password")
		}
		return
	}

	render.JSON(w, r, map[string]any{
		"has_local_password": updated.HasLocalPassword,
	})
}

// LinkExternal handles POST /account/external. The client has finished
// the provider redirect and posts the callback state and code here.
func (h *Handler) LinkExternal(w http.ResponseWriter, r *http.Request) {
	u, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	var req struct {
		Provider string `json:"provider"`
		State    string `json:"state"`
		Code     string `json:"code"`
	}
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		renderError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	info, err := h.providerService.CompleteAuth(r.Context(), req.Provider, req.State, req.Code)
	if err != nil {
		slog.Error("External auth failed during linking", "provider", req.Provider, "err", err)
		renderError(w, r, http.StatusUnauthorized, "external authentication failed")
		return
	}

	err = h.linkingService.LinkExternalAccount(r.Context(), u, info.Provider, info.ExternalID, info.Name)
	if err != nil {
		var linkErr authlink.ErrExternalAccountAlreadyLinked
		if errors.As(err, &linkErr) {
			renderError(w, r, http.StatusConflict, linkErr.Error())
			return
		}
		slog.Error("Failed to link external account", "userId", u.ID, "err", err)
		renderError(w, r, http.StatusInternalServerError, "failed to link external account")
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, map[string]string{"provider": info.Provider})
}

// UnlinkExternal handles DELETE /account/external/{provider}/{key}
func (h *Handler) UnlinkExternal(w http.ResponseWriter, r *http.Request) {
	u, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	provider := chi.URLParam(r, "provider")
	key := chi.URLParam(r, "key")

	err := h.linkingService.UnlinkExternalAccount(r.Context(), u, provider, key)
	if err != nil {
		switch {
		case errors.Is(err, authlink.ErrCannotRemoveLastAuthMethod):
			renderError(w, r, http.StatusConflict, "cannot remove the last sign-in method")
		case errors.Is(err, credential.ErrExternalLoginNotFound):
			renderError(w, r, http.StatusNotFound, "external login not found")
		default:
			slog.Error("Failed to unlink external account", "userId", u.ID, "err", err)
			renderError(w, r, http.StatusInternalServerError, "failed to unlink external account")
		}
		return
	}
	render.NoContent(w, r)
}

// AuthHistory handles GET /account/history
func (h *Handler) AuthHistory(w http.ResponseWriter, r *http.Request) {
	u, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	history, err := h.userService.AuthHistory(r.Context(), u.ID)
	if err != nil {
		slog.Error("Failed to load auth history", "userId", u.ID, "err", err)
		renderError(w, r, http.StatusInternalServerError, "failed to load history")
		return
	}
	render.JSON(w, r, history)
}
