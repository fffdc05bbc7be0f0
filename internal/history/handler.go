package history

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/develop-mdv/subscriptions-tg-bot/internal/api"
	"github.com/develop-mdv/subscriptions-tg-bot/internal/auth"
	"github.com/develop-mdv/subscriptions-tg-bot/internal/logger"
)

type Handler struct {
	repo Repository
}

func NewHandler(repo Repository) *Handler {
	return &Handler{repo: repo}
}

type ListPaymentsQuery struct {
	Limit  int `form:"limit" binding:"omitempty,min=1,max=500"`
	Offset int `form:"offset" binding:"omitempty,min=0"`
}

// @Summary      List recorded payments
// @Description  Newest first. Payments are recorded on each due date of an active subscription.
// @Tags         payments
// @Produce      json
// @Security     BearerAuth
// @Param        limit query int false "Page size" default(50)
// @Param        offset query int false "Rows to skip" default(0)
// @Success      200 {array} history.Payment
// @Failure      400 {object} api.ValidationErrorResponse
// @Failure      401 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /api/payments [get]
func (h *Handler) List(c *gin.Context) {
	ownerID, ok := auth.GetOwnerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "unauthorized"})
		return
	}

	var q ListPaymentsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		api.RespondBindError(c, err)
		return
	}

	payments, err := h.repo.ListByOwner(c.Request.Context(), ownerID, q.Limit, q.Offset)
	if err != nil {
		logger.Error("Failed to list payments", "owner_id", ownerID, "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to list payments"})
		return
	}
	if payments == nil {
		payments = []Payment{}
	}

	c.JSON(http.StatusOK, payments)
}
