package httperr

import (
	"net/http"

	"github.com/Meet5113/greencart-backend/internal/pkg/errs"

	"github.com/gin-gonic/gin"
)

type Response struct {
	Status int `json:"-"`
	Error  struct {
		Message string `json:"message"`
	} `json:"error"`
	Detail any `json:"detail,omitempty"`
}

// preserves original error for the error middleware to log
func AbortWithError(c *gin.Context, status int, err error, msg string, detail any) {
	if err == nil {
		panic("AbortWithError: err cannot be nil")
	}

	resp := Response{Status: status}
	resp.Error.Message = msg
	resp.Detail = detail

	_ = c.Error(gin.Error{
		Err:  err,
		Type: gin.ErrorTypePublic,
		Meta: resp,
	})
	c.AbortWithStatusJSON(status, resp)
}

type mapping struct {
	target error
	status int
	msg    string
}

// Order matters: the first matching sentinel wins.
var mappings = []mapping{
	{errs.ErrInvalidLineItem, http.StatusBadRequest, "Each order item must include a valid product and quantity"},
	{errs.ErrInvalidInput, http.StatusBadRequest, "Invalid request"},
	{errs.ErrProductNotFound, http.StatusNotFound, "One or more products not found"},
	{errs.ErrProductInactive, http.StatusBadRequest, "Product is not active"},
	{errs.ErrStockNotConfigured, http.StatusBadRequest, "Product has no stock configured"},
	{errs.ErrInsufficientStock, http.StatusBadRequest, "Insufficient stock for one or more products"},
	{errs.ErrEmptyCart, http.StatusBadRequest, "Cart is empty"},
	{errs.ErrOrderNotFound, http.StatusNotFound, "Order not found"},
	{errs.ErrSubscriptionNotFound, http.StatusNotFound, "Subscription not found"},
	{errs.ErrInvalidTransition, http.StatusBadRequest, "Invalid status transition"},
	{errs.ErrSubscriptionCancelled, http.StatusBadRequest, "Cancelled subscription cannot be updated"},
}

// Respond maps a usecase error to its HTTP status. Consistency failures and
// anything unrecognised become a generic 500.
func Respond(c *gin.Context, err error) {
	if errs.IsConsistency(err) {
		AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}
	for _, m := range mappings {
		if errs.Is(err, m.target) {
			AbortWithError(c, m.status, err, m.msg, nil)
			return
		}
	}
	AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
}
