package handler

import (
	"log/slog"
	"net/http"
	"time"

	"rivalwatch/internal/access"
	"rivalwatch/internal/model"

	"github.com/gin-gonic/gin"
)

type NewsResolver interface {
	ResolveNewsItem(rawID string, user *model.User) (*model.NewsItemWithCompany, error)
	ComputeFilterSet(user *model.User, explicitIDs []string, trackedOnly bool) (access.FilterSet, error)
}

type NewsStore interface {
	ListNewsByCompanyIDs(ids []int64, limit, offset int) ([]model.NewsItemWithCompany, error)
	CountNewsByCompanyIDs(ids []int64) (int, error)
	ListGlobalNews(limit, offset int) ([]model.NewsItemWithCompany, error)
	CountGlobalNews() (int, error)
}

type NewsHandler struct {
	repository NewsStore
	resolver   NewsResolver
}

func NewNewsHandler(repository NewsStore, resolver NewsResolver) *NewsHandler {
	return &NewsHandler{repository: repository, resolver: resolver}
}

func (h *NewsHandler) ListNews(c *gin.Context) {
	user := currentUser(c)
	limit := getQueryLimit(c)
	offset := getQueryOffset(c)

	filter, err := h.resolver.ComputeFilterSet(user, queryIDList(c), queryTrackedOnly(c))
	if err != nil {
		respondFilterError(c, err)
		return
	}

	if filter.Kind == access.FilterEmptyResult {
		c.JSON(http.StatusOK, NewsFeedResponse{Items: []NewsItemResponse{}, Limit: limit, Offset: offset})
		return
	}

	var items []model.NewsItemWithCompany
	var total int
	if filter.Kind == access.FilterUnrestricted {
		items, err = h.repository.ListGlobalNews(limit, offset)
		if err == nil {
			total, err = h.repository.CountGlobalNews()
		}
	} else {
		items, err = h.repository.ListNewsByCompanyIDs(filter.CompanyIDs, limit, offset)
		if err == nil {
			total, err = h.repository.CountNewsByCompanyIDs(filter.CompanyIDs)
		}
	}

	if err != nil {
		slog.Error("error listing news", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	res := NewsFeedResponse{
		Items:  []NewsItemResponse{},
		Total:  total,
		Limit:  limit,
		Offset: offset,
	}
	for _, item := range items {
		res.Items = append(res.Items, toNewsItemResponse(item))
	}

	c.JSON(http.StatusOK, res)
}

func (h *NewsHandler) GetNewsItem(c *gin.Context) {
	user := currentUser(c)

	item, err := h.resolver.ResolveNewsItem(c.Param("id"), user)
	if err != nil {
		slog.Error("error resolving news item", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if item == nil {
		respondNotFound(c)
		return
	}

	c.JSON(http.StatusOK, toNewsItemResponse(*item))
}

func toNewsItemResponse(n model.NewsItemWithCompany) NewsItemResponse {
	return NewsItemResponse{
		ID:          n.ID,
		CompanyID:   n.CompanyID,
		CompanyName: n.Company.Name,
		Headline:    n.Headline,
		Detail:      n.Detail,
		URL:         n.URL,
		Source:      n.Source,
		PublishedAt: n.PublishedAt.Format(time.RFC3339),
	}
}
