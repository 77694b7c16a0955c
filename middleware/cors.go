package middleware

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/cppla/blogapi/utils"
)

// CORS allows cross-origin calls from whitelisted origins. Requests without an Origin
// header (curl, server to server) always pass; other origins are refused with 400.
// An empty whitelist or "*" allows every origin.
func CORS(origins []string) gin.HandlerFunc {
	allowAll := len(origins) == 0
	allowed := make(map[string]struct{}, len(origins))
	for _, o := range origins {
		if o == "*" {
			allowAll = true
		}
		allowed[o] = struct{}{}
	}
	isAllowed := func(origin string) bool {
		if allowAll {
			return true
		}
		_, ok := allowed[origin]
		return ok
	}

	handler := cors.New(cors.Config{
		AllowOriginFunc:  isAllowed,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})

	return func(ctx *gin.Context) {
		origin := ctx.GetHeader("Origin")
		if origin != "" && !isAllowed(origin) {
			utils.Fail(ctx, utils.NewBadRequestError("Origin %s is not in the whitelist!", origin))
			return
		}
		handler(ctx)
	}
}
