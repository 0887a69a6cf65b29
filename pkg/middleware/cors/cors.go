package cors

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	allowedMethods = "GET, POST, PUT, PATCH, DELETE, OPTIONS"
	allowedHeaders = "Authorization, Content-Type, X-Requested-With, X-Request-ID"
	maxAge         = "600"
)

type policy struct {
	allowAll bool
	origins  map[string]struct{}
}

func (p policy) allows(origin string) bool {
	if p.allowAll {
		return true
	}
	_, ok := p.origins[strings.TrimRight(origin, "/")]
	return ok
}

// New builds a CORS middleware from the configured origin allow-list. An
// empty list allows every origin.
func New(allowedOrigins []string) gin.HandlerFunc {
	p := policy{
		allowAll: len(allowedOrigins) == 0,
		origins:  make(map[string]struct{}, len(allowedOrigins)),
	}
	for _, origin := range allowedOrigins {
		p.origins[strings.TrimRight(origin, "/")] = struct{}{}
	}

	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("Vary", "Origin")
		h.Set("Access-Control-Allow-Credentials", "true")
		h.Set("Access-Control-Allow-Headers", allowedHeaders)
		h.Set("Access-Control-Allow-Methods", allowedMethods)
		h.Set("Access-Control-Max-Age", maxAge)

		switch origin := c.GetHeader("Origin"); {
		case origin != "" && p.allows(origin):
			h.Set("Access-Control-Allow-Origin", origin)
		case origin == "" && p.allowAll:
			h.Set("Access-Control-Allow-Origin", "*")
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
