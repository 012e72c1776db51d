package handler

import (
	"log/slog"
	"net/http"
	"time"

	"rivalwatch/internal/model"

	"github.com/gin-gonic/gin"
)

type DigestStore interface {
	ListDigestsByUser(userID int64, limit, offset int) ([]model.Digest, error)
	CountDigestsByUser(userID int64) (int, error)
	ListNotificationsByUser(userID int64, limit, offset int) ([]model.Notification, error)
}

type DigestHandler struct {
	repository DigestStore
}

func NewDigestHandler(repository DigestStore) *DigestHandler {
	return &DigestHandler{repository: repository}
}

func (h *DigestHandler) GetDigests(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	limit := getQueryLimit(c)
	offset := getQueryOffset(c)

	digests, err := h.repository.ListDigestsByUser(user.ID, limit, offset)
	if err != nil {
		slog.Error("error fetching digests", "error", err, "user_id", user.ID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	total, err := h.repository.CountDigestsByUser(user.ID)
	if err != nil {
		slog.Error("error fetching digest total", "error", err, "user_id", user.ID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	res := DigestsResponse{
		Digests: []DigestResponse{},
		Total:   total,
		Limit:   limit,
		Offset:  offset,
	}
	for _, d := range digests {
		res.Digests = append(res.Digests, DigestResponse{
			ID:           d.ID,
			CompanyCount: d.CompanyCount,
			ItemCount:    d.ItemCount,
			FromItemID:   d.FromItemID,
			ToItemID:     d.ToItemID,
			CreatedAt:    d.CreatedAt.Format(time.RFC3339),
		})
	}

	c.JSON(http.StatusOK, res)
}

func (h *DigestHandler) GetNotifications(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	limit := getQueryLimit(c)
	offset := getQueryOffset(c)

	notifications, err := h.repository.ListNotificationsByUser(user.ID, limit, offset)
	if err != nil {
		slog.Error("error fetching notifications", "error", err, "user_id", user.ID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	res := make([]NotificationResponse, 0, len(notifications))
	for _, n := range notifications {
		res = append(res, NotificationResponse{
			ID:         n.ID,
			CompanyID:  n.CompanyID,
			NewsItemID: n.NewsItemID,
			CreatedAt:  n.CreatedAt.Format(time.RFC3339),
		})
	}

	c.JSON(http.StatusOK, res)
}
