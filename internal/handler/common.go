package handler

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/replayhq/replay/internal/domain"
	"github.com/replayhq/replay/internal/repository"
)

// listResponse is the standard paginated collection body.
type listResponse struct {
	Data any                 `json:"data"`
	Meta repository.PageMeta `json:"meta"`
}

func parsePageParams(c *fiber.Ctx) (repository.PageParams, error) {
	params := repository.PageParams{
		Page: c.QueryInt("page", repository.DefaultPage),
		Size: c.QueryInt("size", repository.DefaultPageSize),
	}

	if params.Page < 1 {
		return repository.PageParams{}, fmt.Errorf("%w: page must be >= 1", domain.ErrValidation)
	}
	if params.Size < 1 || params.Size > repository.MaxPageSize {
		return repository.PageParams{}, fmt.Errorf("%w: size must be between 1 and %d", domain.ErrValidation, repository.MaxPageSize)
	}

	return params, nil
}

func parseUintParam(c *fiber.Ctx, name string) (uint, error) {
	raw := strings.TrimSpace(c.Params(name))
	value, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || value == 0 {
		return 0, fmt.Errorf("%w: invalid %s", domain.ErrValidation, name)
	}
	return uint(value), nil
}

func queryBoolPtr(c *fiber.Ctx, name string) (*bool, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, nil
	}

	value, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be true or false", domain.ErrValidation, name)
	}
	return &value, nil
}

func queryDatePtr(c *fiber.Ctx, name string) (*time.Time, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, nil
	}

	value, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be a YYYY-MM-DD date", domain.ErrValidation, name)
	}
	return &value, nil
}

func queryIntPtr(c *fiber.Ctx, name string) (*int, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, nil
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be an integer", domain.ErrValidation, name)
	}
	return &value, nil
}
