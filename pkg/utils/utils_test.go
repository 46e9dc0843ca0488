package utils

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetenvHelpers(t *testing.T) {
	t.Setenv("SHOP_INT", "42")
	t.Setenv("SHOP_BAD_INT", "forty")
	t.Setenv("SHOP_BOOL", "true")
	t.Setenv("SHOP_DURATION", "90m")
	t.Setenv("SHOP_LIST", " http://a.lk , ,http://b.lk")

	assert.Equal(t, "fallback", Getenv("SHOP_UNSET", "fallback"))
	assert.Equal(t, 42, GetenvInt("SHOP_INT", 1))
	assert.Equal(t, 1, GetenvInt("SHOP_BAD_INT", 1))
	assert.True(t, GetenvBool("SHOP_BOOL", false))
	assert.False(t, GetenvBool("SHOP_UNSET", false))
	assert.Equal(t, 90*time.Minute, GetenvDuration("SHOP_DURATION", time.Hour))
	assert.Equal(t, time.Hour, GetenvDuration("SHOP_UNSET", time.Hour))
	assert.Equal(t, []string{"http://a.lk", "http://b.lk"}, GetenvList("SHOP_LIST", nil))
	assert.Equal(t, []string{"*"}, GetenvList("SHOP_UNSET", []string{"*"}))
}

func TestTokenManagerRoundTrip(t *testing.T) {
	m := NewTokenManager("test-secret", time.Hour)
	token, expiresAt, err := m.GenerateAccessToken("user-1", "admin@shop.lk", "Admin")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, time.Minute)

	claims, err := m.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "admin@shop.lk", claims.Email)
	assert.Equal(t, "Admin", claims.Role)
}

func TestTokenManagerRejectsBadTokens(t *testing.T) {
	m := NewTokenManager("test-secret", time.Hour)
	token, _, err := m.GenerateAccessToken("user-1", "a@shop.lk", "Staff")
	require.NoError(t, err)

	_, err = NewTokenManager("other-secret", time.Hour).ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired := NewTokenManager("test-secret", time.Minute)
	expired.now = func() time.Time { return time.Now().Add(-time.Hour) }
	old, _, err := expired.GenerateAccessToken("user-1", "a@shop.lk", "Staff")
	require.NoError(t, err)
	_, err = m.ValidateToken(old)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = m.ValidateToken("not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseID(t *testing.T) {
	id, err := ParseID(" 4C1B8F3E-6D0A-4F7E-9A55-0B2D6F1C9E10 ")
	require.NoError(t, err)
	assert.Equal(t, "4c1b8f3e-6d0a-4f7e-9a55-0b2d6f1c9e10", id)

	_, err = ParseID("42")
	assert.Error(t, err)
}

func TestNewNullString(t *testing.T) {
	assert.Nil(t, NewNullString("   "))
	require.NotNil(t, NewNullString(" x "))
	assert.Equal(t, "x", *NewNullString(" x "))
}

func TestResponseEnvelopes(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name    string
		respond func(c *gin.Context)
		status  int
		success bool
		check   func(t *testing.T, body map[string]any)
	}{
		{
			name:    "success",
			respond: func(c *gin.Context) { RespondSuccess(c, gin.H{"id": "1"}, "") },
			status:  http.StatusOK,
			success: true,
			check: func(t *testing.T, body map[string]any) {
				assert.Equal(t, "Operation successful", body["message"])
				assert.Equal(t, map[string]any{"id": "1"}, body["data"])
			},
		},
		{
			name:    "created",
			respond: func(c *gin.Context) { RespondCreated(c, gin.H{"id": "1"}, "Customer created") },
			status:  http.StatusCreated,
			success: true,
			check: func(t *testing.T, body map[string]any) {
				assert.Equal(t, "Customer created", body["message"])
			},
		},
		{
			name: "validation",
			respond: func(c *gin.Context) {
				RespondValidationFailed(c, map[string][]string{"code": {"Code is required"}})
			},
			status: http.StatusUnprocessableEntity,
			check: func(t *testing.T, body map[string]any) {
				assert.Equal(t, map[string]any{"code": []any{"Code is required"}}, body["errors"])
				assert.Equal(t, ErrCodeValidationFailed, body["code"])
			},
		},
		{
			name:    "not found",
			respond: func(c *gin.Context) { RespondNotFound(c, "Customer") },
			status:  http.StatusNotFound,
			check: func(t *testing.T, body map[string]any) {
				assert.Equal(t, "Customer not found", body["error"])
			},
		},
		{
			name:    "server error hides cause",
			respond: func(c *gin.Context) { RespondServerError(c, errors.New("dial tcp: refused"), false) },
			status:  http.StatusInternalServerError,
			check: func(t *testing.T, body map[string]any) {
				assert.Equal(t, "Internal server error", body["error"])
				assert.NotContains(t, body, "details")
			},
		},
		{
			name:    "server error exposes cause outside production",
			respond: func(c *gin.Context) { RespondServerError(c, errors.New("dial tcp: refused"), true) },
			status:  http.StatusInternalServerError,
			check: func(t *testing.T, body map[string]any) {
				assert.Equal(t, map[string]any{"message": "dial tcp: refused"}, body["details"])
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
			tt.respond(c)

			assert.Equal(t, tt.status, w.Code)
			var body map[string]any
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.success, body["success"])
			assert.NotEmpty(t, body["timestamp"])
			tt.check(t, body)
		})
	}
}

func TestInitLoggerLevels(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.InfoLevel)
	var buf bytes.Buffer

	initLogger(&buf, "warn", false)
	assert.Equal(t, zerolog.WarnLevel, zerolog.GlobalLevel())
	LogInfo("hidden")
	LogWarn("shown", map[string]interface{}{"k": "v"})
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"k":"v"`)

	initLogger(&buf, "nonsense", false)
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
}
