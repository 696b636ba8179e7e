package ping

import (
	"context"
	"net/http"
	"time"

	"github.com/DkshLuvsDucks/FCS-Project-Social-Media-App-sub000/utils"

	"github.com/gin-gonic/gin"
)

// Pinger reports whether a backing dependency is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Handler struct {
	db Pinger
}

func New(db Pinger) *Handler {
	return &Handler{db: db}
}

// HandlePing gère la logique de l'endpoint ping
// @Summary Ping test
// @Description Health check: answers pong when the database is reachable
// @Tags test
// @Produce json
// @Success 200 {object} utils.Response
// @Failure 503 {object} utils.Response
// @Router /ping [get]
func (h *Handler) HandlePing(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		utils.LogError(err, "Health check failed")
		utils.SendError(c, http.StatusServiceUnavailable, "Database unreachable")
		return
	}

	utils.SendSuccess(c, http.StatusOK, "Ping successful", gin.H{
		"message": "pong",
	})
}
