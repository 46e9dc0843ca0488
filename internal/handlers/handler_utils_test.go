package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hardware_shop_backend/internal/services"
	"hardware_shop_backend/internal/validation"
)

func init() {
	gin.SetMode(gin.TestMode)
	binding.EnableDecoderUseNumber = true
}

func TestRespondErrorMapping(t *testing.T) {
	_, verr := validation.Validate(validation.Category, map[string]any{})
	require.NotNil(t, verr)

	tests := []struct {
		name   string
		err    error
		status int
		body   []string
	}{
		{"validation", verr, http.StatusUnprocessableEntity, []string{`"code":"VALIDATION_FAILED"`, `"name":["Required"]`}},
		{"conflict", &services.ConflictError{Field: "code", Message: "Item code already exists"}, http.StatusUnprocessableEntity,
			[]string{`"error":"Item code already exists"`, `"code":["Item code already exists"]`}},
		{"not found", &services.NotFoundError{Entity: "Item"}, http.StatusNotFound, []string{`"error":"Item not found"`}},
		{"batch entry", &services.BatchError{Index: 3, Err: &services.NotFoundError{Entity: "Item"}}, http.StatusNotFound, []string{`"index":3`}},
		{"bad query", fmt.Errorf("%w: cannot order by %q", services.ErrInvalidQuery, "x"), http.StatusBadRequest, nil},
		{"credentials", services.ErrInvalidCredentials, http.StatusUnauthorized, nil},
		{"persistence", errors.New("connection reset"), http.StatusInternalServerError, []string{`"error":"Internal server error"`}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			respondError(c, tt.err, false)

			assert.Equal(t, tt.status, w.Code)
			assert.Contains(t, w.Body.String(), `"success":false`)
			for _, s := range tt.body {
				assert.Contains(t, w.Body.String(), s)
			}
		})
	}
}

func TestServerErrorDetailsOnlyWhenExposed(t *testing.T) {
	for _, expose := range []bool{false, true} {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
		respondError(c, errors.New("pq: relation missing"), expose)
		assert.Equal(t, expose, strings.Contains(w.Body.String(), "relation missing"))
	}
}

func TestDecodeBodyKeepsNumbersExact(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"amount": 1500.10, "qty": 3}`))

	var input map[string]any
	require.NoError(t, decodeBody(c, &input))
	assert.Equal(t, json.Number("1500.10"), input["amount"])
	assert.Equal(t, json.Number("3"), input["qty"])
}

func TestDecodeBodyRejects(t *testing.T) {
	for _, body := range []string{"", "   ", `{"a":`, `[1, 2]`} {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
		var input map[string]any
		assert.Error(t, decodeBody(c, &input), body)
	}
}

func TestDecodeBodyLimitsSize(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	big := `{"name":"` + strings.Repeat("x", maxBodyBytes) + `"}`
	c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(big))

	var input map[string]any
	assert.Error(t, decodeBody(c, &input))
}

func TestDecodeBodyEmptyBody(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))

	var input map[string]any
	assert.ErrorIs(t, decodeBody(c, &input), errEmptyBody)
}
