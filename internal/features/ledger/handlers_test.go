package ledger

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seaseed.dev/economy/internal/api"
)

// newTestApp собирает fiber с упрощённой авторизацией через X-User-ID.
func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		if id, err := strconv.ParseInt(c.Get("X-User-ID"), 10, 64); err == nil {
			c.Locals(api.LocalUserID, id)
		}
		return c.Next()
	})
	NewHandler(setupService(t)).Register(app)
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path, user, body string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if user != "" {
		req.Header.Set("X-User-ID", user)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := map[string]any{}
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	}
	return resp.StatusCode, out
}

func TestHandler_DepositWithdraw(t *testing.T) {
	app := newTestApp(t)

	status, _ := doJSON(t, app, "POST", "/wallet/deposit", "1", `{"currency":"shells","amount":150}`)
	assert.Equal(t, fiber.StatusOK, status)

	status, body := doJSON(t, app, "POST", "/wallet/withdraw", "1", `{"currency":"shells","amount":200}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.NotEmpty(t, body["error"])

	status, body = doJSON(t, app, "GET", "/wallet", "1", "")
	assert.Equal(t, fiber.StatusOK, status)
	acc := body["account"].(map[string]any)
	assert.Equal(t, float64(150), acc["shells"])
	assert.Equal(t, float64(150), body["wealth"])
}

func TestHandler_Unauthorized(t *testing.T) {
	app := newTestApp(t)
	status, _ := doJSON(t, app, "GET", "/wallet", "", "")
	assert.Equal(t, fiber.StatusUnauthorized, status)
}

func TestHandler_UnknownCurrency(t *testing.T) {
	app := newTestApp(t)
	status, _ := doJSON(t, app, "POST", "/wallet/deposit", "1", `{"currency":"gold","amount":1}`)
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, _ = doJSON(t, app, "GET", "/rank/currency/gold", "", "")
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestHandler_WealthRank(t *testing.T) {
	app := newTestApp(t)
	doJSON(t, app, "POST", "/wallet/deposit", "1", `{"currency":"pearls","amount":2}`)
	doJSON(t, app, "POST", "/wallet/deposit", "2", `{"currency":"shells","amount":300}`)

	status, body := doJSON(t, app, "GET", "/rank/wealth?limit=5", "", "")
	require.Equal(t, fiber.StatusOK, status)
	rank := body["rank"].([]any)
	require.Len(t, rank, 2)
	assert.Equal(t, float64(2), rank[0].(map[string]any)["user_id"])
	assert.Equal(t, float64(300), rank[0].(map[string]any)["value"])
}
