package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newApp(key string, log *zap.Logger) *fiber.App {
	app := fiber.New()
	app.Get("/ping", APIKey(key, log), func(c *fiber.Ctx) error {
		return c.SendString("pong")
	})
	return app
}

func TestProtected(t *testing.T) {
	tests := []struct {
		name   string
		key    string
		header string
		xKey   string
		query  string
		want   int
	}{
		{name: "no key configured", key: "", want: http.StatusOK},
		{name: "missing key", key: "s3cret", want: http.StatusUnauthorized},
		{name: "wrong header", key: "s3cret", header: "nope", want: http.StatusUnauthorized},
		{name: "header", key: "s3cret", header: "s3cret", want: http.StatusOK},
		{name: "x-api-key header", key: "s3cret", xKey: "s3cret", want: http.StatusOK},
		{name: "query", key: "s3cret", query: "s3cret", want: http.StatusOK},
		{name: "prefix only", key: "s3cret", header: "s3c", want: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := "/ping"
			if tt.query != "" {
				path += "?apikey=" + tt.query
			}
			req := httptest.NewRequest(http.MethodGet, path, nil)
			if tt.header != "" {
				req.Header.Set("apikey", tt.header)
			}
			if tt.xKey != "" {
				req.Header.Set("X-API-Key", tt.xKey)
			}

			core, logs := observer.New(zapcore.WarnLevel)
			resp, err := newApp(tt.key, zap.New(core)).Test(req, -1)
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, tt.want, resp.StatusCode)

			rejected := logs.FilterMessage("rejected request").Len()
			if tt.want == http.StatusUnauthorized {
				assert.Equal(t, 1, rejected)
			} else {
				assert.Zero(t, rejected)
			}
		})
	}
}
