package server

import (
	"errors"
	"time"

	"uplift/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper. Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

const maxPageSize = 72

// parseID extracts a route parameter by name as a positive uint.
// On failure it writes a 400 JSON response and returns errResponseWritten.
// Callers should check: if err != nil { return nil }
func (s *Server) parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := c.ParamsInt(param)
	if err != nil || id <= 0 {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid "+param))
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// parsePageSize extracts the page_size query parameter, clamped to the
// feed window.
func parsePageSize(c *fiber.Ctx) int {
	size := c.QueryInt("page_size", 0)
	if size < 0 {
		size = 0
	}
	if size > maxPageSize {
		size = maxPageSize
	}
	return size
}

// parseCursor extracts an optional RFC 3339 timestamp query parameter.
// Absent parameters return (nil, nil); malformed ones write a 400.
func (s *Server) parseCursor(c *fiber.Ctx, param string) (*time.Time, error) {
	raw := c.Query(param)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError(param+" must be an RFC 3339 timestamp"))
		return nil, errResponseWritten
	}
	return &t, nil
}

// viewer resolves the authenticated user, or nil for anonymous requests.
func (s *Server) viewer(c *fiber.Ctx) (*models.User, error) {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return nil, nil
	}
	user, err := s.userRepo.GetByID(c.UserContext(), userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewUnauthorizedError("Account no longer exists")
	}
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return user, nil
}

// requireViewer resolves the authenticated user and fails on anonymous
// requests. Only used behind AuthRequired, so a missing local is a bug.
func (s *Server) requireViewer(c *fiber.Ctx) (*models.User, error) {
	user, err := s.viewer(c)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewUnauthorizedError("Authentication required")
	}
	return user, nil
}

// respondAppError writes an AppError (or wraps any other error as 500).
func respondAppError(c *fiber.Ctx, err error) error {
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		return models.RespondWithError(c, models.StatusForAppError(appErr), appErr)
	}
	return models.RespondWithError(c, fiber.StatusInternalServerError, err)
}
