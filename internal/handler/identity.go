package handler

import (
	"log/slog"
	"strconv"

	"rivalwatch/internal/model"

	"github.com/gin-gonic/gin"
)

// The auth gateway in front of the API verifies the session and
// forwards the subject as X-User-ID. No header means anonymous.
const userIDHeader = "X-User-ID"

func currentUser(c *gin.Context) *model.User {
	raw := c.GetHeader(userIDHeader)
	if raw == "" {
		return nil
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		slog.Warn("invalid user id header, treating as anonymous", "value", raw)
		return nil
	}

	return &model.User{ID: id}
}
