package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func echoValuesApp() *fiber.App {
	app := fiber.New()
	app.Post("/values", func(c *fiber.Ctx) error {
		values, err := formValues(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		return c.JSON(values)
	})
	return app
}

func TestFormValues_JSONNumbersKeepDigits(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/values",
		strings.NewReader(`{"cnic":3520212345671,"phone":923001234567,"name":"Ayesha","course":null,"agree":true}`))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	resp, err := echoValuesApp().Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))

	assert.Equal(t, map[string]string{
		"cnic":  "3520212345671",
		"phone": "923001234567",
		"name":  "Ayesha",
		"agree": "true",
	}, got)
}

func TestFormValues_BadJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/values", strings.NewReader(`{"name":`))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	resp, err := echoValuesApp().Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
