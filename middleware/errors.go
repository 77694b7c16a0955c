package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cppla/blogapi/utils"
)

// ErrorResponder renders the last error recorded by a handler as {"message": ...}
// with the status of its kind. Unknown errors become a generic 500.
func ErrorResponder() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		ctx.Next()

		if len(ctx.Errors) == 0 {
			return
		}
		err := ctx.Errors.Last().Err
		status := utils.StatusOf(err)
		if status >= http.StatusInternalServerError {
			utils.Logger.Error("request failed",
				zap.String("method", ctx.Request.Method),
				zap.String("path", ctx.Request.URL.Path),
				zap.Error(err))
		} else {
			utils.Logger.Debug("request rejected",
				zap.String("path", ctx.Request.URL.Path),
				zap.Int("status", status),
				zap.Error(err))
		}

		if ctx.Writer.Written() {
			return
		}
		utils.Error(ctx, status, utils.MessageOf(err))
	}
}
