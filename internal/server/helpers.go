package server

import (
	"errors"
	"net/url"
	"strconv"

	"askme/internal/models"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper. Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

// parseID extracts a route parameter by name as a positive uint.
// On failure it writes a 404 JSON response and returns errResponseWritten.
func (s *Server) parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := c.ParamsInt(param)
	if err != nil || id <= 0 {
		_ = models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Resource", c.Params(param)))
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// pageParam reads ?page=N. Missing or invalid values mean the first page.
func pageParam(c *fiber.Ctx) int {
	page, err := strconv.Atoi(c.Query("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// formID parses a positive id sent in a request body.
func formID(raw string) (uint, bool) {
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// respondError writes err with the status its AppError code implies.
func respondError(c *fiber.Ctx, err error) error {
	return models.RespondWithError(c, models.StatusFor(err), err)
}

// userIDFromLocals returns the authenticated user, or 0 for anonymous requests.
func userIDFromLocals(c *fiber.Ctx) uint {
	if id, ok := c.Locals("userID").(uint); ok {
		return id
	}
	return 0
}

// decodeParam returns a path parameter with percent-escapes resolved.
func decodeParam(c *fiber.Ctx, name string) (string, error) {
	return url.PathUnescape(c.Params(name))
}
