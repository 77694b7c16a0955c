package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/cppla/blogapi/utils"
)

// ContextIdentityKey is the key under which the authenticated identity is stored in Gin context.
const ContextIdentityKey = "identity"

// Guard checks a request and returns an error when it must not proceed.
type Guard func(ctx *gin.Context) error

// Guarded runs guards in order and stops at the first failure, which is handed to the
// error responder.
func Guarded(guards ...Guard) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		for _, g := range guards {
			if err := g(ctx); err != nil {
				utils.Fail(ctx, err)
				return
			}
		}
		ctx.Next()
	}
}

// Authenticate verifies the bearer token and attaches the identity to the request.
func Authenticate(ts *utils.TokenService) Guard {
	return func(ctx *gin.Context) error {
		authHeader := strings.TrimSpace(ctx.GetHeader("Authorization"))
		if authHeader == "" {
			return utils.NewUnauthorizedError("Please provide credentials")
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			return utils.NewUnauthorizedError("Please provide credentials")
		}

		id, err := ts.Verify(strings.TrimSpace(parts[1]))
		if err != nil {
			return err
		}
		ctx.Set(ContextIdentityKey, id)
		return nil
	}
}

// RequireAdmin lets only admins through. A request without identity is refused.
func RequireAdmin() Guard {
	return func(ctx *gin.Context) error {
		id, ok := CurrentIdentity(ctx)
		if !ok || !id.IsAdmin() {
			return utils.NewForbiddenError("Admin only!")
		}
		return nil
	}
}

// CurrentIdentity returns the identity attached by Authenticate.
func CurrentIdentity(ctx *gin.Context) (*utils.Identity, bool) {
	v, ok := ctx.Get(ContextIdentityKey)
	if !ok {
		return nil, false
	}
	id, ok := v.(*utils.Identity)
	return id, ok && id != nil
}
