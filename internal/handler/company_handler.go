package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"rivalwatch/internal/access"
	"rivalwatch/internal/model"

	"github.com/gin-gonic/gin"
)

type CompanyResolver interface {
	ResolveCompany(rawID string, user *model.User) (*model.Company, error)
	ComputeFilterSet(user *model.User, explicitIDs []string, trackedOnly bool) (access.FilterSet, error)
	InvalidateOwned(userID int64)
}

type CompanyStore interface {
	ListCompaniesByIDs(ids []int64, limit, offset int) ([]model.Company, error)
	CountCompaniesByIDs(ids []int64) (int, error)
	ListGlobalCompanies(limit, offset int) ([]model.Company, error)
	CountGlobalCompanies() (int, error)
	CreateCompany(c *model.Company) (bool, error)
	RenameCompany(id int64, name string) (bool, error)
	DeleteCompany(id int64) error
	CountNewsByCompany(ids []int64) ([]model.CompanyNewsCount, error)
	CountGlobalNewsByCompany() ([]model.CompanyNewsCount, error)
}

type CompanyHandler struct {
	repository CompanyStore
	resolver   CompanyResolver
}

func NewCompanyHandler(repository CompanyStore, resolver CompanyResolver) *CompanyHandler {
	return &CompanyHandler{repository: repository, resolver: resolver}
}

func (h *CompanyHandler) ListCompanies(c *gin.Context) {
	user := currentUser(c)
	limit := getQueryLimit(c)
	offset := getQueryOffset(c)

	filter, err := h.resolver.ComputeFilterSet(user, queryIDList(c), queryTrackedOnly(c))
	if err != nil {
		respondFilterError(c, err)
		return
	}

	// EmptyResult short-circuits before any store query.
	if filter.Kind == access.FilterEmptyResult {
		c.JSON(http.StatusOK, CompaniesResponse{Companies: []CompanyResponse{}, Limit: limit, Offset: offset})
		return
	}

	var companies []model.Company
	var total int
	if filter.Kind == access.FilterUnrestricted {
		companies, err = h.repository.ListGlobalCompanies(limit, offset)
		if err == nil {
			total, err = h.repository.CountGlobalCompanies()
		}
	} else {
		companies, err = h.repository.ListCompaniesByIDs(filter.CompanyIDs, limit, offset)
		if err == nil {
			total, err = h.repository.CountCompaniesByIDs(filter.CompanyIDs)
		}
	}

	if err != nil {
		slog.Error("error listing companies", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	res := CompaniesResponse{
		Companies: []CompanyResponse{},
		Total:     total,
		Limit:     limit,
		Offset:    offset,
	}
	for _, company := range companies {
		res.Companies = append(res.Companies, toCompanyResponse(company))
	}

	c.JSON(http.StatusOK, res)
}

func (h *CompanyHandler) GetCompanyStats(c *gin.Context) {
	user := currentUser(c)

	filter, err := h.resolver.ComputeFilterSet(user, queryIDList(c), queryTrackedOnly(c))
	if err != nil {
		respondFilterError(c, err)
		return
	}

	if filter.Kind == access.FilterEmptyResult {
		c.JSON(http.StatusOK, StatsResponse{Stats: []CompanyStatsResponse{}})
		return
	}

	var counts []model.CompanyNewsCount
	if filter.Kind == access.FilterUnrestricted {
		counts, err = h.repository.CountGlobalNewsByCompany()
	} else {
		counts, err = h.repository.CountNewsByCompany(filter.CompanyIDs)
	}

	if err != nil {
		slog.Error("error fetching company stats", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	res := StatsResponse{Stats: []CompanyStatsResponse{}}
	for _, count := range counts {
		res.Stats = append(res.Stats, CompanyStatsResponse{
			CompanyID:   count.CompanyID,
			CompanyName: count.CompanyName,
			NewsCount:   count.ItemCount,
		})
	}

	c.JSON(http.StatusOK, res)
}

func (h *CompanyHandler) GetCompany(c *gin.Context) {
	user := currentUser(c)

	company, err := h.resolver.ResolveCompany(c.Param("id"), user)
	if err != nil {
		slog.Error("error resolving company", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if company == nil {
		respondNotFound(c)
		return
	}

	c.JSON(http.StatusOK, toCompanyResponse(*company))
}

func (h *CompanyHandler) CreateCompany(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	var req CreateCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Company name is required"})
		return
	}

	company := model.Company{OwnerID: &user.ID, Name: name}
	created, err := h.repository.CreateCompany(&company)
	if err != nil {
		slog.Error("error creating company", "error", err, "user_id", user.ID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if !created {
		c.JSON(http.StatusConflict, gin.H{"error": "Company name already in use"})
		return
	}

	h.resolver.InvalidateOwned(user.ID)

	c.JSON(http.StatusCreated, toCompanyResponse(company))
}

func (h *CompanyHandler) RenameCompany(c *gin.Context) {
	user := currentUser(c)

	// Resolve before touching anything; an inaccessible company is
	// indistinguishable from a missing one.
	company, err := h.resolver.ResolveCompany(c.Param("id"), user)
	if err != nil {
		slog.Error("error resolving company", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if company == nil {
		respondNotFound(c)
		return
	}

	if company.OwnerID == nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "Global companies are read-only"})
		return
	}

	var req RenameCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Company name is required"})
		return
	}

	renamed, err := h.repository.RenameCompany(company.ID, name)
	if err != nil {
		slog.Error("error renaming company", "error", err, "company_id", company.ID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if !renamed {
		c.JSON(http.StatusConflict, gin.H{"error": "Company name already in use"})
		return
	}

	company.Name = name
	c.JSON(http.StatusOK, toCompanyResponse(*company))
}

func (h *CompanyHandler) DeleteCompany(c *gin.Context) {
	user := currentUser(c)

	company, err := h.resolver.ResolveCompany(c.Param("id"), user)
	if err != nil {
		slog.Error("error resolving company", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if company == nil {
		respondNotFound(c)
		return
	}

	if company.OwnerID == nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "Global companies are read-only"})
		return
	}

	if err := h.repository.DeleteCompany(company.ID); err != nil {
		slog.Error("error deleting company", "error", err, "company_id", company.ID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	h.resolver.InvalidateOwned(*company.OwnerID)

	c.Status(http.StatusNoContent)
}

func (h *CompanyHandler) GetHealth(c *gin.Context) {
	_, err := h.repository.CountGlobalCompanies()
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":   "unhealthy",
			"database": "disconnected",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "healthy",
		"database": "connected",
	})
}

func toCompanyResponse(c model.Company) CompanyResponse {
	return CompanyResponse{
		ID:        c.ID,
		Name:      c.Name,
		Global:    c.OwnerID == nil,
		CreatedAt: c.CreatedAt.Format(time.RFC3339),
	}
}

// respondNotFound is the single not-found signal. Missing,
// inaccessible and malformed all produce this exact response so no
// call site can leak existence through a distinguishable status.
func respondNotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
}

func respondFilterError(c *gin.Context, err error) {
	var invalid *access.InvalidReferenceError
	if errors.As(err, &invalid) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid company references", "ids": invalid.IDs})
		return
	}

	slog.Error("error computing filter set", "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
}

func queryIDList(c *gin.Context) []string {
	raw := c.Query("ids")
	if raw == "" {
		return nil
	}

	var ids []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			ids = append(ids, part)
		}
	}
	return ids
}

func queryTrackedOnly(c *gin.Context) bool {
	return c.Query("tracked") == "true"
}
