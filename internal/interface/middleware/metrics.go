package middleware

import (
	"expvar"
	"strconv"

	"github.com/gin-gonic/gin"
)

var (
	requestsTotal     = expvar.NewInt("http_requests_total")
	responsesByStatus = expvar.NewMap("http_responses_by_class")
)

// Metrics counts requests and response status classes, published on /api/debug/vars.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		requestsTotal.Add(1)
		responsesByStatus.Add(strconv.Itoa(c.Writer.Status()/100)+"xx", 1)
	}
}
