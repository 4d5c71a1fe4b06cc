package axon

import (
	stderrors "errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResponse_Helpers(t *testing.T) {
	body := map[string]string{"id": "123"}

	tests := []struct {
		name string
		resp *Response
		code int
		body interface{}
	}{
		{"new", NewResponse(http.StatusAccepted, body), http.StatusAccepted, body},
		{"ok", OK(body), http.StatusOK, body},
		{"created", Created(body), http.StatusCreated, body},
		{"no content", NoContent(), http.StatusNoContent, nil},
		{"bad request", BadRequest("bad"), http.StatusBadRequest, map[string]interface{}{"error": "bad"}},
		{"not found", NotFound("gone"), http.StatusNotFound, map[string]interface{}{"error": "gone"}},
		{"internal", InternalServerError("boom"), http.StatusInternalServerError, map[string]interface{}{"error": "boom"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.resp.StatusCode)
			assert.Equal(t, tt.body, tt.resp.Body)
		})
	}
}

func TestHTTPError(t *testing.T) {
	cause := stderrors.New("query parameter missing")

	t.Run("default message", func(t *testing.T) {
		err := NewHTTPError(http.StatusNotFound)
		assert.Equal(t, "Not Found", err.Message)
		assert.Equal(t, "Not Found", err.Error())
		assert.Nil(t, err.Unwrap())
	})

	t.Run("internal error", func(t *testing.T) {
		err := NewHTTPError(http.StatusBadRequest, "bad input", cause)
		assert.Equal(t, "bad input", err.Message)
		assert.Equal(t, cause.Error(), err.Error())
		assert.True(t, stderrors.Is(err, cause))
	})

	t.Run("non error second argument", func(t *testing.T) {
		err := NewHTTPError(http.StatusBadRequest, "bad input", 42)
		assert.Nil(t, err.Internal)
	})

	t.Run("unknown status", func(t *testing.T) {
		assert.Equal(t, "Unknown", StatusText(799))
	})
}

func TestErrorBody(t *testing.T) {
	code, body := ErrorBody(NewHTTPError(http.StatusBadRequest, "missing 'page'"))
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, map[string]interface{}{"error": "missing 'page'"}, body)

	code, body = ErrorBody(stderrors.New("boom"))
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, map[string]interface{}{"error": "boom"}, body)
}
