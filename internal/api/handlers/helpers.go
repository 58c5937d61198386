package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/maheshrc27/socialbridge/internal/apperrors"
	"github.com/maheshrc27/socialbridge/internal/repository"
	"github.com/maheshrc27/socialbridge/internal/transfer"
	"github.com/maheshrc27/socialbridge/pkg/logging"
)

func GetUserID(c *fiber.Ctx) int64 {
	s, _ := c.Locals("user_id").(string)
	userID, _ := strconv.ParseInt(s, 10, 64)
	return userID
}

func paramID(c *fiber.Ctx, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, &apperrors.ValidationError{Field: name, Message: "must be a positive integer"}
	}
	return id, nil
}

func bodyError(err error) error {
	return &apperrors.ValidationError{Field: "body", Message: err.Error()}
}

// statusOf maps the error taxonomy onto HTTP statuses.
func statusOf(err error) int {
	switch {
	case errors.Is(err, repository.ErrDuplicateAccount):
		return fiber.StatusConflict
	case apperrors.IsNotFound(err):
		return fiber.StatusNotFound
	case apperrors.IsValidation(err), apperrors.IsMissingCredential(err):
		return fiber.StatusBadRequest
	case apperrors.IsAuthentication(err):
		return fiber.StatusUnauthorized
	case apperrors.IsRateLimit(err):
		return fiber.StatusTooManyRequests
	case apperrors.IsTransient(err):
		return fiber.StatusServiceUnavailable
	case apperrors.IsPlatform(err):
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}

func writeError(c *fiber.Ctx, logger logging.Logger, err error) error {
	status := statusOf(err)
	msg := err.Error()
	if status == fiber.StatusInternalServerError {
		logger.WithError(err).WithField("path", c.Path()).Error("request failed")
		msg = "internal error"
	}
	var rl *apperrors.RateLimitError
	if errors.As(err, &rl) && rl.RetryAfter > 0 {
		c.Set(fiber.HeaderRetryAfter, strconv.Itoa(int(rl.RetryAfter.Seconds())))
	}
	return c.Status(status).JSON(transfer.ErrorResponse{Error: msg})
}
