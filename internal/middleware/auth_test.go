package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/cinema-transaction-seeder/internal/utils"
)

const testSecret = "test-secret"

func doRequest(t *testing.T, token string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	g := e.Group("/v1")
	g.Use(OperatorAuth(testSecret))
	g.POST("/runs", func(c echo.Context) error {
		return c.String(http.StatusAccepted, "started")
	})

	req := httptest.NewRequest(http.MethodPost, "/v1/runs", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestOperatorAuthAcceptsValidToken(t *testing.T) {
	tok, err := utils.NewOperatorToken(testSecret, "tester", time.Hour)
	require.NoError(t, err)

	rec := doRequest(t, tok.Token)
	assert.Equal(t, http.StatusAccepted, rec.Code)
}

func TestOperatorAuthRejectsMissingToken(t *testing.T) {
	rec := doRequest(t, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestOperatorAuthRejectsWrongSecret(t *testing.T) {
	tok, err := utils.NewOperatorToken("other-secret", "tester", time.Hour)
	require.NoError(t, err)

	rec := doRequest(t, tok.Token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestOperatorAuthRejectsExpiredToken(t *testing.T) {
	tok, err := utils.NewOperatorToken(testSecret, "tester", -time.Minute)
	require.NoError(t, err)

	rec := doRequest(t, tok.Token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestOperatorAuthRejectsNonOperatorRole(t *testing.T) {
	claims := jwt.MapClaims{
		"sub":  "tester",
		"role": "CUSTOMER",
		"exp":  time.Now().UTC().Add(time.Hour).Unix(),
		"iat":  time.Now().UTC().Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	rec := doRequest(t, signed)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
