package utils

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStatusOf(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{NewBadRequestError("bad"), http.StatusBadRequest},
		{NewUnauthorizedError("who"), http.StatusUnauthorized},
		{NewForbiddenError("no"), http.StatusForbidden},
		{NewNotFoundError("Blog with id %s not found!", "x"), http.StatusNotFound},
		{NewConflictError("dup"), http.StatusConflict},
		{NewInternalError(errors.New("boom")), http.StatusInternalServerError},
		{errors.New("plain"), http.StatusInternalServerError},
	}
	for _, c := range cases {
		require.Equal(t, c.status, StatusOf(c.err), c.err.Error())
	}
}

func TestMessageOfHidesForeignErrors(t *testing.T) {
	require.Equal(t, "Generic server error", MessageOf(errors.New("secret detail")))
	require.Equal(t, "Generic server error", MessageOf(NewInternalError(errors.New("secret detail"))))
	require.Equal(t, "Blog with id 1 not found!", MessageOf(NewNotFoundError("Blog with id %s not found!", "1")))
}

func TestAppErrorUnwrap(t *testing.T) {
	sentinel := errors.New("sentinel")
	err := NewNotFoundError("missing").WithCause(sentinel)
	require.ErrorIs(t, err, sentinel)

	wrapped := errors.Join(errors.New("ctx"), err)
	require.Equal(t, http.StatusNotFound, StatusOf(wrapped))
}
