package handler

import (
	"log/slog"
	"net/http"

	"rivalwatch/internal/model"

	"github.com/gin-gonic/gin"
)

type PrefsStore interface {
	GetUserPreferences(userID int64) (*model.UserPreferences, error)
	ReplaceSubscriptions(userID int64, companyIDs []int64) error
}

type PrefsHandler struct {
	repository PrefsStore
}

func NewPrefsHandler(repository PrefsStore) *PrefsHandler {
	return &PrefsHandler{repository: repository}
}

func (h *PrefsHandler) GetSubscriptions(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	prefs, err := h.repository.GetUserPreferences(user.ID)
	if err != nil {
		slog.Error("error fetching preferences", "error", err, "user_id", user.ID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	res := SubscriptionsResponse{CompanyIDs: prefs.SubscribedCompanyIDs}
	if res.CompanyIDs == nil {
		res.CompanyIDs = []int64{}
	}

	c.JSON(http.StatusOK, res)
}

// ReplaceSubscriptions stores the list as given. Subscriptions carry
// no visibility of their own; the resolvers re-validate every stored
// ID on read, so a stale or bogus ID here is inert.
func (h *PrefsHandler) ReplaceSubscriptions(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	var req ReplaceSubscriptionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := h.repository.ReplaceSubscriptions(user.ID, req.CompanyIDs); err != nil {
		slog.Error("error replacing subscriptions", "error", err, "user_id", user.ID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	res := SubscriptionsResponse{CompanyIDs: req.CompanyIDs}
	if res.CompanyIDs == nil {
		res.CompanyIDs = []int64{}
	}

	c.JSON(http.StatusOK, res)
}
