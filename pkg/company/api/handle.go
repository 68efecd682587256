package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"
	"golang.org/x/exp/slog"

	"github.com/serviceseeker/serviceseeker/pkg/company"
)

// Handler exposes the provider-company endpoints. Mount under a
// jwtauth-protected route group.
type Handler struct {
	companyService *company.CompanyService
}

// NewHandler creates a new company handler
func NewHandler(companyService *company.CompanyService) *Handler {
	return &Handler{companyService: companyService}
}

// RegisterRoutes registers the company routes. The caller is responsible
// for wrapping them with jwtauth.Verifier/Authenticator.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/", h.CreateCompany)
	r.Get("/mine", h.MyCompanies)
	r.Get("/categories", h.ListCategories)
	r.Route("/{companyID}", func(r chi.Router) {
		r.Get("/", h.GetCompany)
		r.Get("/members", h.ListMembers)
		r.Post("/members", h.AddMember)
		r.Delete("/members/{userID}", h.RemoveMember)
		r.Put("/members/{userID}/role", h.ChangeMemberRole)
		r.Get("/areas", h.ListServiceAreas)
		r.Post("/areas", h.AddServiceArea)
		r.Delete("/areas/{areaID}", h.RemoveServiceArea)
	})
}

func renderError(w http.ResponseWriter, r *http.Request, status int, message string) {
	render.Status(r, status)
	render.JSON(w, r, map[string]string{"error": message})
}

// currentUserID resolves the authenticated user ID from the JWT subject
// claim.
func currentUserID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	_, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		renderError(w, r, http.StatusUnauthorized, "unauthorized")
		return uuid.Nil, false
	}
	sub, _ := claims["sub"].(string)
	userID, err := uuid.Parse(sub)
	if err != nil {
		renderError(w, r, http.StatusUnauthorized, "unauthorized")
		return uuid.Nil, false
	}
	return userID, true
}

// companyParam parses the {companyID} route parameter.
func companyParam(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "companyID"))
	if err != nil {
		renderError(w, r, http.StatusBadRequest, "invalid company id")
		return uuid.Nil, false
	}
	return id, true
}

// requireMember rejects callers who do not belong to the company. Company
// data and membership changes are visible to members only.
func (h *Handler) requireMember(w http.ResponseWriter, r *http.Request, companyID, userID uuid.UUID) bool {
	member, err := h.companyService.IsMember(r.Context(), companyID, userID)
	if err != nil {
		slog.Error("Failed to check company membership", "companyId", companyID, "err", err)
		renderError(w, r, http.StatusInternalServerError, "failed to check membership")
		return false
	}
	if !member {
		renderError(w, r, http.StatusForbidden, "not a member of this company")
		return false
	}
	return true
}

type companyResponse struct {
	ID          uuid.UUID `json:"id"`
	CompanyName string    `json:"company_name"`
	Website     string    `json:"website,omitempty"`
	Description string    `json:"description,omitempty"`
	DUNSNumber  string    `json:"duns_number,omitempty"`
	IsVerified  bool      `json:"is_verified"`
}

func toCompanyResponse(c company.ProviderCompany) companyResponse {
	return companyResponse{
		ID:          c.ID,
		CompanyName: c.CompanyName,
		Website:     c.Website,
		Description: c.Description,
		DUNSNumber:  c.DUNSNumber,
		IsVerified:  c.IsVerified,
	}
}

type membershipResponse struct {
	UserID    uuid.UUID `json:"user_id"`
	CompanyID uuid.UUID `json:"company_id"`
	Role      string    `json:"role"`
}

// CreateCompany handles POST /companies. The caller becomes the owner.
func (h *Handler) CreateCompany(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	var req struct {
		CompanyName string `json:"company_name"`
		Website     string `json:"website"`
		Description string `json:"description"`
		DUNSNumber  string `json:"duns_number"`
	}
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		renderError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.CompanyName == "" {
		renderError(w, r, http.StatusBadRequest, "company name is required")
		return
	}

	c, err := h.companyService.CreateCompany(r.Context(), company.CreateCompanyParams{
		CompanyName: req.CompanyName,
		Website:     req.Website,
		Description: req.Description,
		DUNSNumber:  req.DUNSNumber,
		OwnerUserID: userID,
	})
	if err != nil {
		slog.Error("Failed to create company", "userId", userID, "err", err)
		renderError(w, r, http.StatusInternalServerError, "failed to create company")
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, toCompanyResponse(c))
}

// MyCompanies handles GET /companies/mine
func (h *Handler) MyCompanies(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	memberships, err := h.companyService.CompaniesForUser(r.Context(), userID)
	if err != nil {
		slog.Error("Failed to list companies", "userId", userID, "err", err)
		renderError(w, r, http.StatusInternalServerError, "failed to list companies")
		return
	}

	resp := []membershipResponse{}
	for _, m := range memberships {
		resp = append(resp, membershipResponse{
			UserID:    m.UserID,
			CompanyID: m.CompanyID,
			Role:      string(m.Role),
		})
	}
	render.JSON(w, r, resp)
}

// GetCompany handles GET /companies/{companyID}
func (h *Handler) GetCompany(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	companyID, ok := companyParam(w, r)
	if !ok {
		return
	}
	if !h.requireMember(w, r, companyID, userID) {
		return
	}

	c, err := h.companyService.GetCompany(r.Context(), companyID)
	if err != nil {
		if errors.Is(err, company.ErrCompanyNotFound) {
			renderError(w, r, http.StatusNotFound, "company not found")
			return
		}
		slog.Error("Failed to load company", "companyId", companyID, "err", err)
		renderError(w, r, http.StatusInternalServerError, "failed to load company")
		return
	}
	render.JSON(w, r, toCompanyResponse(c))
}

// ListMembers handles GET /companies/{companyID}/members
func (h *Handler) ListMembers(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	companyID, ok := companyParam(w, r)
	if !ok {
		return
	}
	if !h.requireMember(w, r, companyID, userID) {
		return
	}

	members, err := h.companyService.ListMembers(r.Context(), companyID)
	if err != nil {
		slog.Error("Failed to list members", "companyId", companyID, "err", err)
		renderError(w, r, http.StatusInternalServerError, "failed to list members")
		return
	}

	resp := []membershipResponse{}
	for _, m := range members {
		resp = append(resp, membershipResponse{
			UserID:    m.UserID,
			CompanyID: m.CompanyID,
			Role:      string(m.Role),
		})
	}
	render.JSON(w, r, resp)
}

// AddMember handles POST /companies/{companyID}/members
func (h *Handler) AddMember(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	companyID, ok := companyParam(w, r)
	if !ok {
		return
	}
	if !h.requireMember(w, r, companyID, userID) {
		return
	}

	var req struct {
		UserID string `json:"user_id"`
		Role   string `json:"role"`
	}
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		renderError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	newMemberID, err := uuid.Parse(req.UserID)
	if err != nil {
		renderError(w, r, http.StatusBadRequest, "invalid user id")
		return
	}
	role, err := company.ParseMembershipRole(req.Role)
	if err != nil {
		renderError(w, r, http.StatusBadRequest, "invalid role")
		return
	}

	m, err := h.companyService.AddMember(r.Context(), companyID, newMemberID, role)
	if err != nil {
		switch {
		case errors.Is(err, company.ErrMemberExists):
			renderError(w, r, http.StatusConflict, "user is already a member")
		case errors.Is(err, company.ErrCompanyNotFound):
			renderError(w, r, http.StatusNotFound, "company not found")
		default:
			slog.Error("Failed to add member", "companyId", companyID, "err", err)
			renderError(w, r, http.StatusInternalServerError, "failed to add member")
		}
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, membershipResponse{
		UserID:    m.UserID,
		CompanyID: m.CompanyID,
		Role:      string(m.Role),
	})
}

// RemoveMember handles DELETE /companies/{companyID}/members/{userID}
func (h *Handler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	callerID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	companyID, ok := companyParam(w, r)
	if !ok {
		return
	}
	if !h.requireMember(w, r, companyID, callerID) {
		return
	}
	memberID, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		renderError(w, r, http.StatusBadRequest, "invalid user id")
		return
	}

	err = h.companyService.RemoveMember(r.Context(), companyID, memberID)
	if err != nil {
		switch {
		case errors.Is(err, company.ErrLastOwner):
			renderError(w, r, http.StatusConflict, "cannot remove the last owner")
		case errors.Is(err, company.ErrMembershipNotFound):
			renderError(w, r, http.StatusNotFound, "membership not found")
		default:
			slog.Error("Failed to remove member", "companyId", companyID, "err", err)
			renderError(w, r, http.StatusInternalServerError, "failed to remove member")
		}
		return
	}
	render.NoContent(w, r)
}

// ChangeMemberRole handles PUT /companies/{companyID}/members/{userID}/role
func (h *Handler) ChangeMemberRole(w http.ResponseWriter, r *http.Request) {
	callerID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	companyID, ok := companyParam(w, r)
	if !ok {
		return
	}
	if !h.requireMember(w, r, companyID, callerID) {
		return
	}
	memberID, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		renderError(w, r, http.StatusBadRequest, "invalid user id")
		return
	}

	var req struct {
		Role string `json:"role"`
	}
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		renderError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	role, err := company.ParseMembershipRole(req.Role)
	if err != nil {
		renderError(w, r, http.StatusBadRequest, "invalid role")
		return
	}

	err = h.companyService.ChangeMemberRole(r.Context(), companyID, memberID, role)
	if err != nil {
		switch {
		case errors.Is(err, company.ErrLastOwner):
			renderError(w, r, http.StatusConflict, "cannot demote the last owner")
		case errors.Is(err, company.ErrMembershipNotFound):
			renderError(w, r, http.StatusNotFound, "membership not found")
		default:
			slog.Error("Failed to change member role", "companyId", companyID, "err", err)
			renderError(w, r, http.StatusInternalServerError, "failed to change role")
		}
		return
	}
	render.NoContent(w, r)
}

type serviceAreaResponse struct {
	ID                uuid.UUID `json:"id"`
	ServiceCategoryID int32     `json:"service_category_id"`
	AreaType          string    `json:"area_type"`
	IsActive          bool      `json:"is_active"`
}

// ListServiceAreas handles GET /companies/{companyID}/areas
func (h *Handler) ListServiceAreas(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	companyID, ok := companyParam(w, r)
	if !ok {
		return
	}
	if !h.requireMember(w, r, companyID, userID) {
		return
	}

	areas, err := h.companyService.ServiceAreas(r.Context(), companyID)
	if err != nil {
		slog.Error("Failed to list service areas", "companyId", companyID, "err", err)
		renderError(w, r, http.StatusInternalServerError, "failed to list service areas")
		return
	}

	resp := []serviceAreaResponse{}
	for _, a := range areas {
		resp = append(resp, serviceAreaResponse{
			ID:                a.ID,
			ServiceCategoryID: a.ServiceCategoryID,
			AreaType:          string(a.AreaType),
			IsActive:          a.IsActive,
		})
	}
	render.JSON(w, r, resp)
}

// AddServiceArea handles POST /companies/{companyID}/areas
func (h *Handler) AddServiceArea(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	companyID, ok := companyParam(w, r)
	if !ok {
		return
	}
	if !h.requireMember(w, r, companyID, userID) {
		return
	}

	var req struct {
		ServiceCategoryID int32  `json:"service_category_id"`
		AreaType          string `json:"area_type"`
	}
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		renderError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	a, err := h.companyService.AddServiceArea(r.Context(), companyID, req.ServiceCategoryID, company.ServiceAreaType(req.AreaType))
	if err != nil {
		switch {
		case errors.Is(err, company.ErrCategoryNotFound):
			renderError(w, r, http.StatusNotFound, "service category not found")
		default:
			renderError(w, r, http.StatusBadRequest, "failed to add service area")
		}
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, serviceAreaResponse{
		ID:                a.ID,
		ServiceCategoryID: a.ServiceCategoryID,
		AreaType:          string(a.AreaType),
		IsActive:          a.IsActive,
	})
}

// RemoveServiceArea handles DELETE /companies/{companyID}/areas/{areaID}
func (h *Handler) RemoveServiceArea(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	companyID, ok := companyParam(w, r)
	if !ok {
		return
	}
	if !h.requireMember(w, r, companyID, userID) {
		return
	}
	areaID, err := uuid.Parse(chi.URLParam(r, "areaID"))
	if err != nil {
		renderError(w, r, http.StatusBadRequest, "invalid area id")
		return
	}

	if err := h.companyService.RemoveServiceArea(r.Context(), areaID); err != nil {
		if errors.Is(err, company.ErrServiceAreaNotFound) {
			renderError(w, r, http.StatusNotFound, "service area not found")
			return
		}
		slog.Error("Failed to remove service area", "areaId", areaID, "err", err)
		renderError(w, r, http.StatusInternalServerError, "failed to remove service area")
		return
	}
	render.NoContent(w, r)
}

type categoryResponse struct {
	ID          int32  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	UNSPSCCode  string `json:"unspsc_code,omitempty"`
	IsActive    bool   `json:"is_active"`
}

// ListCategories handles GET /companies/categories. Pass all=true to
// include inactive entries.
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	all, _ := strconv.ParseBool(r.URL.Query().Get("all"))

	cats, err := h.companyService.Categories(r.Context(), !all)
	if err != nil {
		slog.Error("Failed to list service categories", "err", err)
		renderError(w, r, http.StatusInternalServerError, "failed to list categories")
		return
	}

	resp := []categoryResponse{}
	for _, c := range cats {
		resp = append(resp, categoryResponse{
			ID:          c.ID,
			Name:        c.Name,
			Description: c.Description,
			UNSPSCCode:  c.UNSPSCCode,
			IsActive:    c.IsActive,
		})
	}
	render.JSON(w, r, resp)
}
