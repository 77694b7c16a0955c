package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// JSONError is the body of every error response.
type JSONError struct {
	Message string `json:"message"`
}

// Respond writes data as JSON with the given status code.
func Respond(ctx *gin.Context, status int, data interface{}) {
	ctx.JSON(status, data)
}

// Success echoes data with 200.
func Success(ctx *gin.Context, data interface{}) {
	Respond(ctx, http.StatusOK, data)
}

// Created answers a create call with the new document id only.
func Created(ctx *gin.Context, id interface{}) {
	Respond(ctx, http.StatusCreated, gin.H{"_id": id})
}

// NoContent answers a delete call.
func NoContent(ctx *gin.Context) {
	ctx.Status(http.StatusNoContent)
}

// Error writes a standard error body.
func Error(ctx *gin.Context, status int, message string) {
	Respond(ctx, status, JSONError{Message: message})
}

// Fail records err on the context and stops the chain; the error responder renders it.
func Fail(ctx *gin.Context, err error) {
	_ = ctx.Error(err)
	ctx.Abort()
}
