package api

import (
	"strconv"

	"github.com/Meet5113/greencart-backend/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

// pageParams reads ?limit= and ?after=. A malformed limit falls back to the
// default rather than failing the request.
func pageParams(c *gin.Context) (*queries.Cursor, int) {
	limit := queries.DefaultListLimit
	if v := c.Query("limit"); v != "" {
		if iv, err := strconv.Atoi(v); err == nil {
			limit = queries.ValidateLimit(iv)
		}
	}
	var cursor *queries.Cursor
	if after := c.Query("after"); after != "" {
		cursor = &queries.Cursor{After: after}
	}
	return cursor, limit
}
