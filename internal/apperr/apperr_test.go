package apperr

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConstructorsSetCodeAndStatus(t *testing.T) {
	cases := []struct {
		name   string
		err    *Error
		code   Code
		status int
	}{
		{"map not found", MapNotFound("x"), CodeMapNotFound, http.StatusNotFound},
		{"invalid argument", InvalidArgument("x"), CodeInvalidArgument, http.StatusBadRequest},
		{"invalid method", InvalidMethod("x", "GET, HEAD"), CodeInvalidMethod, http.StatusMethodNotAllowed},
		{"invalid token", InvalidToken("x"), CodeInvalidToken, http.StatusUnauthorized},
		{"unknown token", UnknownToken("x"), CodeUnknownToken, http.StatusUnauthorized},
		{"bad request", BadRequest("x"), CodeBadRequest, http.StatusBadRequest},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.code, tc.err.Code)
			assert.Equal(t, tc.status, tc.err.Status)
			assert.NotEmpty(t, tc.err.Error())
		})
	}
}

func TestInvalidMethodCarriesAllowHeader(t *testing.T) {
	err := InvalidMethod("method not allowed", "GET, HEAD")
	assert.Equal(t, "GET, HEAD", err.Allow)
}
