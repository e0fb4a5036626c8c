package response

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrite_Envelope(t *testing.T) {
	app := fiber.New()
	app.Get("/ok", func(c fiber.Ctx) error { return Success(c, fiber.StatusOK, "", []string{"a"}) })
	app.Get("/bad", func(c fiber.Ctx) error { return Error(c, 42, "boom", nil) })

	cases := []struct {
		path    string
		status  int
		message string
	}{
		{"/ok", 200, MessageOK},
		{"/bad", 500, "boom"},
	}
	for _, tc := range cases {
		resp, err := app.Test(httptest.NewRequest("GET", tc.path, nil))
		require.NoError(t, err)
		body, _ := io.ReadAll(resp.Body)

		var env Envelope
		require.NoError(t, json.Unmarshal(body, &env))
		assert.Equal(t, tc.status, resp.StatusCode, tc.path)
		assert.Equal(t, tc.status, env.Status, tc.path)
		assert.Equal(t, tc.message, env.Message, tc.path)
	}
}

func TestDefaultMessage(t *testing.T) {
	assert.Equal(t, MessageTooManyRequests, DefaultMessage(429))
	assert.Equal(t, MessageCreated, DefaultMessage(201))
	assert.Equal(t, MessageOK, DefaultMessage(204))
	assert.Equal(t, MessageInternalServerError, DefaultMessage(502))
	assert.Equal(t, MessageError, DefaultMessage(418))
}
