package handlers

import (
	"Recipe-Platform/domain"
	"Recipe-Platform/internal/utils"
	"bytes"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

const (
	testUserID  = "7b1c2f3e-4d5a-4b6c-8d7e-9f0a1b2c3d4e"
	testAdminID = "0a9b8c7d-6e5f-4a3b-9c2d-1e0f9a8b7c6d"
)

type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func testValidator() *validator.Validate {
	utils.InitValidator()
	return utils.Validate
}

// newTestApp stands in for the auth middleware by setting the locals it
// would set. An empty userID leaves the request anonymous.
func newTestApp(userID, role string) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		if userID != "" {
			c.Locals("user_id", userID)
			c.Locals("role", role)
			c.Locals("jti", "jti-"+userID)
		}
		return c.Next()
	})
	return app
}

func send(t *testing.T, app *fiber.App, method, target string, body any) (int, envelope) {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, target, reader)
	if reader != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out envelope
	require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	return resp.StatusCode, out
}

func decodeData(t *testing.T, env envelope, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(env.Data, v))
}

type page[T any] struct {
	Items      []T               `json:"items"`
	Pagination domain.Pagination `json:"pagination"`
}
