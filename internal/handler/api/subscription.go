package api

import (
	"net/http"

	reqdto "github.com/Meet5113/greencart-backend/internal/handler/dto/request"
	resdto "github.com/Meet5113/greencart-backend/internal/handler/dto/response"
	"github.com/Meet5113/greencart-backend/internal/handler/httperr"
	"github.com/Meet5113/greencart-backend/internal/handler/middleware"
	"github.com/Meet5113/greencart-backend/internal/pkg/clock"
	"github.com/Meet5113/greencart-backend/internal/usecase/commands"
	"github.com/Meet5113/greencart-backend/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type SubscriptionHandler struct {
	cmds  commands.SubscriptionCommands
	q     queries.SubscriptionQueries
	clock clock.Clock
}

func NewSubscriptionHandler(cmds commands.SubscriptionCommands, q queries.SubscriptionQueries, clk clock.Clock) *SubscriptionHandler {
	return &SubscriptionHandler{cmds: cmds, q: q, clock: clk}
}

// @Summary Create subscription
// @Description Subscribe to recurring deliveries of one product
// @Tags subscriptions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CreateSubscriptionRequest true "Create subscription request"
// @Success 201 {object} resdto.SubscriptionResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /subscriptions [post]
func (h *SubscriptionHandler) Create(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, errUnauthenticated, "Not authorized", nil)
		return
	}
	var req reqdto.CreateSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "product, quantity, frequency and startDate are required", nil)
		return
	}

	sub, err := h.cmds.CreateSubscription(c.Request.Context(), req.ToInput(userID))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, resdto.FromSubscription(sub))
}

// @Summary List my subscriptions
// @Tags subscriptions
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Max items (default 20)"
// @Param after query string false "Cursor for keyset pagination"
// @Success 200 {object} resdto.SubscriptionListResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Router /subscriptions/my [get]
func (h *SubscriptionHandler) ListMine(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, errUnauthenticated, "Not authorized", nil)
		return
	}
	cursor, limit := pageParams(c)
	views, next, err := h.q.ListMySubscriptions(c.Request.Context(), userID, cursor, limit)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	h.writeList(c, views, next)
}

// @Summary List all subscriptions
// @Description Admin only.
// @Tags subscriptions
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Max items (default 20)"
// @Param after query string false "Cursor for keyset pagination"
// @Success 200 {object} resdto.SubscriptionListResponse
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Router /subscriptions [get]
func (h *SubscriptionHandler) ListAll(c *gin.Context) {
	cursor, limit := pageParams(c)
	views, next, err := h.q.ListAllSubscriptions(c.Request.Context(), cursor, limit)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	h.writeList(c, views, next)
}

// @Summary Update subscription status
// @Description Pause or cancel one of the caller's subscriptions
// @Tags subscriptions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Subscription ID"
// @Param request body reqdto.UpdateSubscriptionStatusRequest true "New status (paused or cancelled)"
// @Success 200 {object} resdto.SubscriptionResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /subscriptions/{id}/status [put]
func (h *SubscriptionHandler) UpdateStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid id", nil)
		return
	}
	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, errUnauthenticated, "Not authorized", nil)
		return
	}
	var req reqdto.UpdateSubscriptionStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Status must be paused or cancelled", nil)
		return
	}

	sub, err := h.cmds.UpdateSubscriptionStatus(c.Request.Context(), userID, id, req.Status)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromSubscription(sub))
}

// @Summary Process due subscriptions
// @Description Materialize orders for every due subscription and report the run. Admin only.
// @Tags subscriptions
// @Produce json
// @Security BearerAuth
// @Success 200 {object} resdto.RunSummaryResponse
// @Failure 403 {object} httperr.Response
// @Failure 500 {object} httperr.Response
// @Router /subscriptions/process [post]
func (h *SubscriptionHandler) Process(c *gin.Context) {
	summary, err := h.cmds.ProcessDueSubscriptions(c.Request.Context(), h.clock.Now())
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	res, err := resdto.FromRunSummary(summary)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to render run summary", nil)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *SubscriptionHandler) writeList(c *gin.Context, views []*queries.SubscriptionView, next *queries.Cursor) {
	res, err := resdto.FromSubscriptionViews(views, next)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to render subscriptions", nil)
		return
	}
	c.JSON(http.StatusOK, res)
}
