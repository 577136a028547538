package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/islamicvirtualuniversity-art/VIL/pkg/mask"
)

type fieldRequest struct {
	Value string `json:"value" form:"value"`
}

func fieldValue(c *fiber.Ctx) (string, error) {
	var req fieldRequest
	if err := c.BodyParser(&req); err != nil {
		return "", fiber.NewError(fiber.StatusBadRequest, "invalid field body")
	}
	return req.Value, nil
}

// FeedbackHandler answers the blur check for POST /forms/feedback/:field.
func FeedbackHandler(set *FormSet) fiber.Handler {
	return func(c *fiber.Ctx) error {
		value, err := fieldValue(c)
		if err != nil {
			return err
		}

		fb, err := mask.FeedbackFor(c.Params("field"), value, set.Messages(set.Locale(c)))
		if errors.Is(err, mask.ErrUnsupportedField) {
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		}
		if err != nil {
			return err
		}

		return c.JSON(fb)
	}
}

// MaskHandler formats a partially typed value for POST /forms/mask/:field.
func MaskHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		value, err := fieldValue(c)
		if err != nil {
			return err
		}

		masked, err := mask.Apply(c.Params("field"), value)
		if errors.Is(err, mask.ErrUnsupportedField) {
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		}
		if err != nil {
			return err
		}

		return c.JSON(fiber.Map{"value": masked})
	}
}
