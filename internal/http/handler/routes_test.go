package handler

import (
	"io"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fingerprintapi/internal/service/mocks"
)

func TestDocsRoutes(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler()})
	RegisterRoutes(app, db, new(mocks.MockPersonService), new(mocks.MockFileService))

	t.Run("openapi spec served from any working directory", func(t *testing.T) {
		// The spec must come from the binary, not from a file next to the
		// process working directory.
		wd, err := os.Getwd()
		require.NoError(t, err)
		require.NoError(t, os.Chdir(t.TempDir()))
		defer os.Chdir(wd)

		req := httptest.NewRequest("GET", "/openapi.yaml", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(string(body), "openapi:"))
		assert.Contains(t, string(body), "/person/verify")
	})

	t.Run("swagger ui page", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/docs", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Contains(t, string(body), "swagger-ui")
	})
}
