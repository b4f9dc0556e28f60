package httpx

import (
	"errors"
	"fmt"
	"net/http/httptest"
	"testing"
	"time"

	"foodcost-backend/internal/store"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestParseTime(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"2024-05-01T12:30:00Z", time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC)},
		{"2024-05-01T14:30:00+02:00", time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC)},
		{"2024-05-01 12:30:00", time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC)},
		{"2024-05-01", time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		got, err := ParseTime(tt.in)
		require.NoError(t, err, tt.in)
		assert.True(t, tt.want.Equal(got), "%s: got %s", tt.in, got)
	}

	_, err := ParseTime("yesterday")
	assert.Error(t, err)
}

func TestStoreError(t *testing.T) {
	log := zap.NewNop()

	var fe *fiber.Error
	require.ErrorAs(t, StoreError(log, fmt.Errorf("get: %w", store.ErrNotFound), "Rider not found"), &fe)
	assert.Equal(t, fiber.StatusNotFound, fe.Code)
	assert.Equal(t, "Rider not found", fe.Message)

	require.ErrorAs(t, StoreError(log, fmt.Errorf("create: %w", store.ErrDuplicate), ""), &fe)
	assert.Equal(t, fiber.StatusConflict, fe.Code)

	require.ErrorAs(t, StoreError(log, errors.New("connection reset"), ""), &fe)
	assert.Equal(t, fiber.StatusInternalServerError, fe.Code)
}

func TestPageAndIDParsing(t *testing.T) {
	app := fiber.New()
	app.Get("/things/:id", func(c *fiber.Ctx) error {
		id, err := ParseID(c, "id")
		if err != nil {
			return err
		}
		page, err := Page(c)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"id": id, "skip": page.Skip, "limit": page.Limit})
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/things/4?skip=10", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/things/abc", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/things/4?limit=-1", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
