package subscription

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/develop-mdv/subscriptions-tg-bot/internal/api"
	"github.com/develop-mdv/subscriptions-tg-bot/internal/auth"
	"github.com/develop-mdv/subscriptions-tg-bot/internal/calendar"
	"github.com/develop-mdv/subscriptions-tg-bot/internal/logger"
)

type Handler struct {
	service Service
	loc     *time.Location
}

func NewHandler(service Service, loc *time.Location) *Handler {
	if loc == nil {
		loc = time.UTC
	}
	return &Handler{service: service, loc: loc}
}

type CreateSubscriptionRequest struct {
	Name             string `json:"name" binding:"required" example:"Netflix"`
	Price            string `json:"price" binding:"required" example:"599.00"`
	Comment          string `json:"comment" example:"семейный тариф"`
	StartDate        string `json:"start_date" binding:"required" example:"01.06.2024"`
	Period           string `json:"period" binding:"required" example:"monthly"`
	NotificationTime string `json:"notification_time" example:"09:00"`
}

// UpdateSubscriptionRequest carries only the fields to change.
type UpdateSubscriptionRequest struct {
	Name                 *string `json:"name,omitempty"`
	Price                *string `json:"price,omitempty"`
	Comment              *string `json:"comment,omitempty"`
	StartDate            *string `json:"start_date,omitempty"`
	Period               *string `json:"period,omitempty"`
	Status               *string `json:"status,omitempty"`
	NotificationTime     *string `json:"notification_time,omitempty"`
	NotificationsEnabled *bool   `json:"notifications_enabled,omitempty"`
}

func (r UpdateSubscriptionRequest) updates() ([]FieldUpdate, error) {
	raw := []struct {
		field Field
		value *string
	}{
		{FieldName, r.Name},
		{FieldPrice, r.Price},
		{FieldComment, r.Comment},
		{FieldStartDate, r.StartDate},
		{FieldPeriod, r.Period},
		{FieldStatus, r.Status},
		{FieldNotificationTime, r.NotificationTime},
	}

	var updates []FieldUpdate
	for _, f := range raw {
		if f.value == nil {
			continue
		}
		u, err := ParseUpdate(f.field, *f.value)
		if err != nil {
			return nil, err
		}
		updates = append(updates, u)
	}
	if r.NotificationsEnabled != nil {
		updates = append(updates, SetNotificationsEnabled{Enabled: *r.NotificationsEnabled})
	}
	return updates, nil
}

// @Summary      List subscriptions
// @Tags         subscriptions
// @Produce      json
// @Security     BearerAuth
// @Param        status query string false "active, paused or cancelled" default(active)
// @Success      200 {array} subscription.Subscription
// @Failure      400 {object} api.ErrorResponse
// @Failure      401 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /api/subscriptions [get]
func (h *Handler) List(c *gin.Context) {
	ownerID, ok := auth.GetOwnerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "unauthorized"})
		return
	}

	status, err := ParseStatus(c.DefaultQuery("status", string(StatusActive)))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	subs, err := h.service.List(c.Request.Context(), ownerID, status)
	if err != nil {
		h.fail(c, err, "Failed to load subscriptions")
		return
	}
	if subs == nil {
		subs = []*Subscription{}
	}

	c.JSON(http.StatusOK, subs)
}

// @Summary      Get a subscription
// @Tags         subscriptions
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Subscription ID"
// @Success      200 {object} subscription.Subscription
// @Failure      400 {object} api.ErrorResponse
// @Failure      401 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /api/subscriptions/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	ownerID, id, ok := h.ownerAndID(c)
	if !ok {
		return
	}

	sub, err := h.service.Get(c.Request.Context(), ownerID, id)
	if err != nil {
		h.fail(c, err, "Failed to load subscription")
		return
	}

	c.JSON(http.StatusOK, sub)
}

// @Summary      Create a subscription
// @Tags         subscriptions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body subscription.CreateSubscriptionRequest true "Subscription payload"
// @Success      201 {object} subscription.Subscription
// @Failure      400 {object} api.ErrorResponse
// @Failure      401 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /api/subscriptions [post]
func (h *Handler) Create(c *gin.Context) {
	ownerID, ok := auth.GetOwnerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "unauthorized"})
		return
	}

	var req CreateSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.RespondBindError(c, err)
		return
	}

	in, err := req.input(ownerID)
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	sub, err := h.service.Create(c.Request.Context(), in)
	if err != nil {
		h.fail(c, err, "Failed to create subscription")
		return
	}

	c.JSON(http.StatusCreated, sub)
}

func (r CreateSubscriptionRequest) input(ownerID int64) (CreateInput, error) {
	name, err := ParseName(r.Name)
	if err != nil {
		return CreateInput{}, err
	}
	price, err := ParsePrice(r.Price)
	if err != nil {
		return CreateInput{}, err
	}
	start, err := ParseStartDate(r.StartDate)
	if err != nil {
		return CreateInput{}, err
	}
	period, err := calendar.ParsePeriod(r.Period)
	if err != nil {
		return CreateInput{}, &ValidationError{Field: "period", Msg: err.Error()}
	}

	return CreateInput{
		OwnerID:          ownerID,
		Name:             name,
		Price:            price,
		Comment:          ParseComment(r.Comment),
		StartDate:        start,
		Period:           period,
		NotificationTime: r.NotificationTime,
	}, nil
}

// @Summary      Update subscription fields
// @Tags         subscriptions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Subscription ID"
// @Param        request body subscription.UpdateSubscriptionRequest true "Fields to change"
// @Success      200 {object} subscription.Subscription
// @Failure      400 {object} api.ErrorResponse
// @Failure      401 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /api/subscriptions/{id} [patch]
func (h *Handler) Update(c *gin.Context) {
	ownerID, id, ok := h.ownerAndID(c)
	if !ok {
		return
	}

	var req UpdateSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.RespondBindError(c, err)
		return
	}

	updates, err := req.updates()
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}
	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "no fields to update"})
		return
	}

	sub, err := h.service.Update(c.Request.Context(), ownerID, id, updates...)
	if err != nil {
		h.fail(c, err, "Failed to update subscription")
		return
	}

	c.JSON(http.StatusOK, sub)
}

// @Summary      Delete a subscription
// @Tags         subscriptions
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Subscription ID"
// @Success      200 {object} api.MessageResponse
// @Failure      400 {object} api.ErrorResponse
// @Failure      401 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /api/subscriptions/{id} [delete]
func (h *Handler) Delete(c *gin.Context) {
	ownerID, id, ok := h.ownerAndID(c)
	if !ok {
		return
	}

	if _, err := h.service.Delete(c.Request.Context(), ownerID, id); err != nil {
		h.fail(c, err, "Failed to delete subscription")
		return
	}

	c.JSON(http.StatusOK, api.MessageResponse{Message: "deleted"})
}

// @Summary      Spending analytics
// @Tags         analytics
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} subscription.Analytics
// @Failure      401 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /api/analytics [get]
func (h *Handler) Analytics(c *gin.Context) {
	ownerID, ok := auth.GetOwnerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "unauthorized"})
		return
	}

	a, err := h.service.Analytics(c.Request.Context(), ownerID, calendar.Today(h.loc))
	if err != nil {
		h.fail(c, err, "Failed to compute analytics")
		return
	}

	c.JSON(http.StatusOK, a)
}

func (h *Handler) ownerAndID(c *gin.Context) (int64, int64, bool) {
	ownerID, ok := auth.GetOwnerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "unauthorized"})
		return 0, 0, false
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid subscription ID"})
		return 0, 0, false
	}
	return ownerID, id, true
}

func (h *Handler) fail(c *gin.Context, err error, msg string) {
	switch {
	case errors.Is(err, ErrNotFound):
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Subscription not found"})
	case IsValidation(err):
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
	default:
		logger.Error(msg, "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: msg})
	}
}
