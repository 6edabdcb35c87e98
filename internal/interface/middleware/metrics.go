package middleware

import (
	"expvar"
	"strconv"

	"github.com/gin-gonic/gin"
)

// Counters published on /debug/vars.
var (
	httpRequests = expvar.NewMap("http_requests_by_status")
	httpRoutes   = expvar.NewMap("http_requests_by_route")
)

// Metrics counts requests per status code and per matched route.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		httpRequests.Add(strconv.Itoa(c.Writer.Status()), 1)
		if route := c.FullPath(); route != "" {
			httpRoutes.Add(c.Request.Method+" "+route, 1)
		}
	}
}
