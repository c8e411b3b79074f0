package api

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/example/storefront/pkg/service"
)

func intQuery(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

// dateQuery accepts RFC3339 timestamps or plain dates. A plain date on
// an upper bound is pushed to the last instant of that day so the
// filter range stays inclusive.
func dateQuery(c *gin.Context, name string, endOfDay bool) *time.Time {
	raw := c.Query(name)
	if raw == "" {
		return nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		if endOfDay {
			t = t.Add(24*time.Hour - time.Nanosecond)
		}
		return &t
	}
	return nil
}

func orderQuery(c *gin.Context) service.ListOrdersQuery {
	return service.ListOrdersQuery{
		Status:        c.Query("status"),
		PaymentStatus: c.Query("paymentStatus"),
		Search:        c.Query("search"),
		Sort:          c.Query("sort"),
		From:          dateQuery(c, "from", false),
		To:            dateQuery(c, "to", true),
		Page:          intQuery(c, "page", 0),
		Limit:         intQuery(c, "limit", 0),
	}
}

func productQuery(c *gin.Context) service.ListProductsQuery {
	return service.ListProductsQuery{
		Status:   c.Query("status"),
		Category: c.Query("category"),
		Brand:    c.Query("brand"),
		Search:   c.Query("search"),
		Sort:     c.Query("sort"),
		Page:     intQuery(c, "page", 0),
		Limit:    intQuery(c, "limit", 0),
	}
}

func userQuery(c *gin.Context) service.ListUsersQuery {
	return service.ListUsersQuery{
		Role:   c.Query("role"),
		Search: c.Query("search"),
		Page:   intQuery(c, "page", 0),
		Limit:  intQuery(c, "limit", 0),
	}
}
