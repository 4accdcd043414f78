package api

import (
	"net/http"

	reqdto "github.com/Meet5113/greencart-backend/internal/handler/dto/request"
	resdto "github.com/Meet5113/greencart-backend/internal/handler/dto/response"
	"github.com/Meet5113/greencart-backend/internal/handler/httperr"
	"github.com/Meet5113/greencart-backend/internal/handler/middleware"
	"github.com/Meet5113/greencart-backend/internal/usecase/commands"
	"github.com/Meet5113/greencart-backend/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type OrderHandler struct {
	cmds commands.OrderCommands
	q    queries.OrderQueries
}

func NewOrderHandler(cmds commands.OrderCommands, q queries.OrderQueries) *OrderHandler {
	return &OrderHandler{cmds: cmds, q: q}
}

// @Summary Place order
// @Description Place an order for explicit line items. Stock is reserved for every product or for none.
// @Tags orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.PlaceOrderRequest true "Place order request"
// @Success 201 {object} resdto.PlaceOrderResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /orders [post]
func (h *OrderHandler) PlaceOrder(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, errUnauthenticated, "Not authorized", nil)
		return
	}
	var req reqdto.PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "orderItems are required", nil)
		return
	}

	o, err := h.cmds.PlaceOrder(c.Request.Context(), userID, req.ToRawLineItems(), req.PaymentMethod)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.Header("Location", "/api/orders/"+o.ID().String())
	c.JSON(http.StatusCreated, resdto.PlaceOrderResponse{Success: true, Order: resdto.FromOrder(o)})
}

// @Summary Checkout cart
// @Description Turn the caller's cart into an order and clear the cart
// @Tags orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CheckoutRequest false "Checkout request"
// @Success 201 {object} resdto.PlaceOrderResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /orders/checkout [post]
func (h *OrderHandler) Checkout(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, errUnauthenticated, "Not authorized", nil)
		return
	}
	var req reqdto.CheckoutRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
			return
		}
	}

	o, err := h.cmds.Checkout(c.Request.Context(), userID, req.PaymentMethod)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.Header("Location", "/api/orders/"+o.ID().String())
	c.JSON(http.StatusCreated, resdto.PlaceOrderResponse{
		Success: true,
		Message: "Order placed successfully",
		Order:   resdto.FromOrder(o),
	})
}

// @Summary List my orders
// @Description Orders of the caller, newest first
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Max items (default 20)"
// @Param after query string false "Cursor for keyset pagination"
// @Success 200 {object} resdto.OrderListResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Router /orders/my [get]
func (h *OrderHandler) ListMine(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, errUnauthenticated, "Not authorized", nil)
		return
	}
	cursor, limit := pageParams(c)
	views, next, err := h.q.ListMyOrders(c.Request.Context(), userID, cursor, limit)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	h.writeList(c, views, next)
}

// @Summary List all orders
// @Description Every order, newest first. Admin only.
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Max items (default 20)"
// @Param after query string false "Cursor for keyset pagination"
// @Success 200 {object} resdto.OrderListResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Router /orders [get]
func (h *OrderHandler) ListAll(c *gin.Context) {
	cursor, limit := pageParams(c)
	views, next, err := h.q.ListAllOrders(c.Request.Context(), cursor, limit)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	h.writeList(c, views, next)
}

// @Summary Get order
// @Description Get an order by ID. Visible to its owner and to admins.
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Param id path string true "Order ID"
// @Success 200 {object} resdto.OrderResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /orders/{id} [get]
func (h *OrderHandler) Get(c *gin.Context) {
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
	role, _ := middleware.GetUserRole(c)

	view, err := h.q.GetOrder(c.Request.Context(), userID, role, id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	res, err := resdto.FromOrderView(view)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to render order", nil)
		return
	}
	c.JSON(http.StatusOK, res)
}

// @Summary Update order status
// @Description Move an order along pending → confirmed → shipped → delivered, or cancel it. Admin only.
// @Tags orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Order ID"
// @Param request body reqdto.UpdateOrderStatusRequest true "New status"
// @Success 200 {object} resdto.OrderResponse
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /orders/{id}/status [put]
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid id", nil)
		return
	}
	var req reqdto.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid status value", nil)
		return
	}

	o, err := h.cmds.TransitionOrderStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromOrder(o))
}

func (h *OrderHandler) writeList(c *gin.Context, views []*queries.OrderView, next *queries.Cursor) {
	res, err := resdto.FromOrderViews(views, next)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to render orders", nil)
		return
	}
	c.JSON(http.StatusOK, res)
}
