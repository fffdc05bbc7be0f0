package export

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/develop-mdv/subscriptions-tg-bot/internal/api"
	"github.com/develop-mdv/subscriptions-tg-bot/internal/auth"
	"github.com/develop-mdv/subscriptions-tg-bot/internal/logger"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type Handler struct {
	exporter *Exporter
	now      func() time.Time
}

func NewHandler(exporter *Exporter) *Handler {
	return &Handler{exporter: exporter, now: time.Now}
}

// @Summary      Export subscriptions to Excel
// @Tags         export
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security     BearerAuth
// @Success      200 {file} file
// @Failure      401 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /api/export [get]
func (h *Handler) Workbook(c *gin.Context) {
	ownerID, ok := auth.GetOwnerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "unauthorized"})
		return
	}

	data, err := h.exporter.Workbook(c.Request.Context(), ownerID)
	if err != nil {
		if errors.Is(err, ErrEmpty) {
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "No active subscriptions to export"})
			return
		}
		logger.Error("Failed to export subscriptions", "owner_id", ownerID, "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to export subscriptions"})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+FileName(ownerID, h.now())+`"`)
	c.Data(http.StatusOK, xlsxContentType, data)
}

// @Summary      Spend by period chart
// @Tags         export
// @Produce      png
// @Security     BearerAuth
// @Success      200 {file} file
// @Failure      401 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /api/analytics/chart [get]
func (h *Handler) Chart(c *gin.Context) {
	ownerID, ok := auth.GetOwnerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "unauthorized"})
		return
	}

	data, err := h.exporter.SpendChart(c.Request.Context(), ownerID)
	if err != nil {
		if errors.Is(err, ErrEmpty) {
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "No data for chart"})
			return
		}
		logger.Error("Failed to render chart", "owner_id", ownerID, "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to render chart"})
		return
	}

	c.Data(http.StatusOK, "image/png", data)
}
