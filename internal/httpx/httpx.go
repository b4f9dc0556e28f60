// Package httpx holds the small request helpers shared by the handler
// packages: path/query parsing and store error mapping.
package httpx

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"foodcost-backend/internal/models"
	"foodcost-backend/internal/store"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Accepted timestamp layouts, tried in order.
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseID reads a positive integer path parameter.
func ParseID(c *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 64)
	if err != nil || id == 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("invalid %s", name))
	}
	return uint(id), nil
}

// Page reads the skip/limit query parameters.
func Page(c *fiber.Ctx) (store.Page, error) {
	skip, err := queryInt(c, "skip", 0)
	if err != nil {
		return store.Page{}, err
	}
	limit, err := queryInt(c, "limit", store.DefaultLimit)
	if err != nil {
		return store.Page{}, err
	}
	if skip < 0 || limit < 0 {
		return store.Page{}, fiber.NewError(fiber.StatusBadRequest, "skip and limit must not be negative")
	}
	return store.Page{Skip: skip, Limit: limit}, nil
}

func queryInt(c *fiber.Ctx, key string, def int) (int, error) {
	v := c.Query(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("%s must be an integer", key))
	}
	return n, nil
}

// QueryUint reads an optional positive integer query parameter.
func QueryUint(c *fiber.Ctx, key string) (*uint, error) {
	v := c.Query(key)
	if v == "" {
		return nil, nil
	}
	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil || n == 0 {
		return nil, fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("%s must be a positive integer", key))
	}
	id := uint(n)
	return &id, nil
}

// QueryFloat reads an optional decimal query parameter.
func QueryFloat(c *fiber.Ctx, key string) (*float64, error) {
	v := c.Query(key)
	if v == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("%s must be a number", key))
	}
	return &f, nil
}

// QueryTime reads an optional timestamp query parameter.
func QueryTime(c *fiber.Ctx, key string) (*time.Time, error) {
	v := c.Query(key)
	if v == "" {
		return nil, nil
	}
	t, err := ParseTime(v)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("%s: %v", key, err))
	}
	return &t, nil
}

// ParseTime parses a timestamp in any of the accepted layouts. Values
// without a zone are taken as UTC.
func ParseTime(v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q", v)
}

// StoreError maps a store error to the HTTP error returned to the client.
// Unexpected errors are logged and hidden behind a generic message.
func StoreError(log *zap.Logger, err error, notFound string) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, notFound)
	case errors.Is(err, store.ErrDuplicate):
		return fiber.NewError(fiber.StatusConflict, "a record with the same name already exists")
	case errors.Is(err, store.ErrMissingReference):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, models.ErrInvalid):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	default:
		log.Error("store operation failed", zap.Error(err))
		return fiber.NewError(fiber.StatusInternalServerError, "internal error")
	}
}
