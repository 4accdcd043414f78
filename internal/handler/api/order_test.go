//go:build unit

package api_test

import (
	"net/http"
	"testing"

	"github.com/Meet5113/greencart-backend/internal/domain/order"
	"github.com/Meet5113/greencart-backend/internal/handler/api"
	resdto "github.com/Meet5113/greencart-backend/internal/handler/dto/response"
	"github.com/Meet5113/greencart-backend/internal/pkg/errs"
	"github.com/Meet5113/greencart-backend/internal/usecase/queries"
	"github.com/Meet5113/greencart-backend/tests/common/builder"
	"github.com/Meet5113/greencart-backend/tests/common/httptest"
	"github.com/Meet5113/greencart-backend/tests/common/testutil"
	commandsmock "github.com/Meet5113/greencart-backend/tests/mock/commands"
	queriesmock "github.com/Meet5113/greencart-backend/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type OrderHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockOrderCommands
	mockQueries  *queriesmock.MockOrderQueries
	handler      *api.OrderHandler
	userID       uuid.UUID
}

func (s *OrderHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockOrderCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockOrderQueries(s.mockCtrl)
	s.handler = api.NewOrderHandler(s.mockCommands, s.mockQueries)
	s.userID = uuid.New()

	authMiddleware := func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": gin.H{"message": "Not authorized"}})
			return
		}
		c.Set("user_id", s.userID)
		c.Set("user_role", queries.RoleUser)
		c.Next()
	}

	s.router.POST("/orders", authMiddleware, s.handler.PlaceOrder)
	s.router.POST("/orders/checkout", authMiddleware, s.handler.Checkout)
	s.router.GET("/orders/my", authMiddleware, s.handler.ListMine)
	s.router.GET("/orders", authMiddleware, s.handler.ListAll)
	s.router.GET("/orders/:id", authMiddleware, s.handler.Get)
	s.router.PUT("/orders/:id/status", authMiddleware, s.handler.UpdateStatus)
}

func (s *OrderHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestOrderHandlerSuite(t *testing.T) {
	suite.Run(t, new(OrderHandlerTestSuite))
}

// ================================================================================
// TestPlaceOrder
// ================================================================================

func (s *OrderHandlerTestSuite) TestPlaceOrder() {
	url := "/orders"
	b := builder.NewOrderBuilder().With(func(b *builder.OrderBuilder) { b.UserID = s.userID })
	reqBody := b.BuildPlaceRequestDTO()

	s.Run("success: returns 201 with the order", func() {
		s.mockCommands.EXPECT().
			PlaceOrder(gomock.Any(), s.userID, []order.RawLineItem{{ProductID: b.ProductID.String(), Quantity: "2"}}, "COD").
			Return(b.BuildDomain(), nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")

		var body resdto.PlaceOrderResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &body)
		s.True(body.Success)
		s.Require().NotNil(body.Order)
		s.Equal(b.ID, body.Order.ID)
		s.Equal("9.00", body.Order.TotalAmount)
		s.Equal("pending", body.Order.Status)
		s.Require().Len(body.Order.Items, 1)
		s.Equal(2, body.Order.Items[0].Quantity)
		httptest.AssertHeaders(s.T(), rec, map[string]string{"Location": "/api/orders/" + b.ID.String()})
	})

	s.Run("error: 400 when orderItems is missing", func() {
		requestMap := testutil.DtoMap(s.T(), reqBody, testutil.Field("orderItems", nil))
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, requestMap, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "orderItems are required")
	})

	s.Run("error: 401 without a token", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "Not authorized")
	})

	usecaseErrors := []struct {
		name       string
		err        error
		expectCode int
		expectMsg  string
	}{
		{name: "invalid line item", err: errs.Mark(errs.New("quantity must be positive"), errs.ErrInvalidLineItem), expectCode: http.StatusBadRequest, expectMsg: "valid product and quantity"},
		{name: "unknown product", err: errs.ErrProductNotFound, expectCode: http.StatusNotFound, expectMsg: "not found"},
		{name: "inactive product", err: errs.ErrProductInactive, expectCode: http.StatusBadRequest, expectMsg: "not active"},
		{name: "stock not configured", err: errs.ErrStockNotConfigured, expectCode: http.StatusBadRequest, expectMsg: "no stock configured"},
		{name: "insufficient stock", err: errs.Wrap(errs.ErrInsufficientStock, "reserve"), expectCode: http.StatusBadRequest, expectMsg: "Insufficient stock"},
		{name: "compensation failure", err: errs.Mark(errs.New("release failed"), errs.ErrCompensationFailed), expectCode: http.StatusInternalServerError, expectMsg: "Internal server error"},
		{name: "unexpected", err: errs.New("connection reset"), expectCode: http.StatusInternalServerError, expectMsg: "Internal server error"},
	}
	for _, tc := range usecaseErrors {
		s.Run("error: "+tc.name, func() {
			s.mockCommands.EXPECT().PlaceOrder(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
				Return(nil, tc.err).Times(1)

			rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")
			httptest.AssertErrorResponse(s.T(), rec, tc.expectCode, tc.expectMsg)
		})
	}
}

// ================================================================================
// TestCheckout
// ================================================================================

func (s *OrderHandlerTestSuite) TestCheckout() {
	url := "/orders/checkout"
	o := builder.NewOrderBuilder().With(func(b *builder.OrderBuilder) { b.UserID = s.userID }).BuildDomain()

	s.Run("success: body is optional", func() {
		s.mockCommands.EXPECT().Checkout(gomock.Any(), s.userID, "").Return(o, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "bearer-token")

		var body resdto.PlaceOrderResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &body)
		s.True(body.Success)
		s.Equal("Order placed successfully", body.Message)
		s.Equal(o.ID(), body.Order.ID)
	})

	s.Run("success: forwards the payment method", func() {
		s.mockCommands.EXPECT().Checkout(gomock.Any(), s.userID, "CARD").Return(o, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, map[string]any{"paymentMethod": "CARD"}, "bearer-token")
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, nil)
	})

	s.Run("error: 400 on empty cart", func() {
		s.mockCommands.EXPECT().Checkout(gomock.Any(), s.userID, "").Return(nil, errs.ErrEmptyCart).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Cart is empty")
	})
}

// ================================================================================
// TestList
// ================================================================================

func (s *OrderHandlerTestSuite) TestListMine() {
	view := builder.NewOrderBuilder().With(func(b *builder.OrderBuilder) { b.UserID = s.userID }).BuildView()

	s.Run("success: returns views and next cursor", func() {
		next := &queries.Cursor{After: "abc"}
		s.mockQueries.EXPECT().ListMyOrders(gomock.Any(), s.userID, (*queries.Cursor)(nil), 5).
			Return([]*queries.OrderView{view}, next, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/orders/my?limit=5", nil, "bearer-token")

		var body resdto.OrderListResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Require().Len(body.Orders, 1)
		s.Equal(view.ID, body.Orders[0].ID)
		s.Equal("Organic Apples", body.Orders[0].Items[0].ProductName)
		s.Equal("9.00", body.Orders[0].TotalAmount)
		s.Equal("abc", body.NextCursor)
	})

	s.Run("limit is clamped and cursor forwarded", func() {
		s.mockQueries.EXPECT().
			ListMyOrders(gomock.Any(), s.userID, &queries.Cursor{After: "xyz"}, queries.MaxListLimit).
			Return(nil, nil, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/orders/my?limit=5000&after=xyz", nil, "bearer-token")

		var body resdto.OrderListResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Empty(body.Orders)
		s.Empty(body.NextCursor)
	})

	s.Run("error: 400 on malformed cursor", func() {
		s.mockQueries.EXPECT().ListMyOrders(gomock.Any(), s.userID, gomock.Any(), gomock.Any()).
			Return(nil, nil, queries.ErrInvalidCursor).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/orders/my?after=%21%21", nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid request")
	})
}

func (s *OrderHandlerTestSuite) TestListAll() {
	s.mockQueries.EXPECT().ListAllOrders(gomock.Any(), (*queries.Cursor)(nil), queries.DefaultListLimit).
		Return([]*queries.OrderView{builder.NewOrderBuilder().BuildView(), builder.NewOrderBuilder().BuildView()}, nil, nil).Times(1)

	rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/orders", nil, "bearer-token")

	var body resdto.OrderListResponse
	httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
	s.Len(body.Orders, 2)
}

// ================================================================================
// TestGet
// ================================================================================

func (s *OrderHandlerTestSuite) TestGet() {
	view := builder.NewOrderBuilder().With(func(b *builder.OrderBuilder) { b.UserID = s.userID }).BuildView()

	s.Run("success: passes actor and role", func() {
		s.mockQueries.EXPECT().GetOrder(gomock.Any(), s.userID, queries.RoleUser, view.ID).Return(view, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/orders/"+view.ID.String(), nil, "bearer-token")

		var body resdto.OrderResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal(view.ID, body.ID)
	})

	s.Run("error: 404 when hidden or missing", func() {
		s.mockQueries.EXPECT().GetOrder(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, errs.ErrOrderNotFound).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/orders/"+uuid.NewString(), nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "Order not found")
	})

	s.Run("error: 400 on malformed id", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/orders/not-a-uuid", nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid id")
	})
}

// ================================================================================
// TestUpdateStatus
// ================================================================================

func (s *OrderHandlerTestSuite) TestUpdateStatus() {
	b := builder.NewOrderBuilder().With(func(b *builder.OrderBuilder) { b.Status = order.StatusConfirmed })
	url := "/orders/" + b.ID.String() + "/status"

	s.Run("success: returns the updated order", func() {
		s.mockCommands.EXPECT().TransitionOrderStatus(gomock.Any(), b.ID, "confirmed").Return(b.BuildDomain(), nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPut, url, map[string]any{"status": "confirmed"}, "bearer-token")

		var body resdto.OrderResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal("confirmed", body.Status)
	})

	s.Run("error: 400 when status is missing", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPut, url, map[string]any{}, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid status value")
	})

	s.Run("error: 400 on forbidden transition", func() {
		s.mockCommands.EXPECT().TransitionOrderStatus(gomock.Any(), b.ID, "pending").
			Return(nil, errs.Wrap(errs.ErrInvalidTransition, "confirmed -> pending")).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPut, url, map[string]any{"status": "pending"}, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid status transition")
	})

	s.Run("error: 404 for unknown order", func() {
		s.mockCommands.EXPECT().TransitionOrderStatus(gomock.Any(), b.ID, "shipped").Return(nil, errs.ErrOrderNotFound).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPut, url, map[string]any{"status": "shipped"}, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "Order not found")
	})
}
