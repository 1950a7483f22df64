package handlers

import (
	"errors"
	"net/url"

	"github.com/gofiber/fiber/v2"

	"stockledger/internal/domain"
)

func render(c *fiber.Ctx, tmpl string, data fiber.Map) error {
	if data == nil {
		data = fiber.Map{}
	}
	// Inject user and their color scheme if present
	if u, ok := c.Locals("user").(*domain.User); ok && u != nil {
		data["User"] = u
		if u.ColorScheme.Primary != "" {
			data["Theme"] = u.ColorScheme
		}
	}
	// Pick up the token the CSRF middleware put into Locals
	tok, _ := c.Locals("CSRFToken").(string)
	if tok == "" {
		// Fallback to the cookie so forms never ship an empty hidden field
		tok = c.Cookies("csrf_")
	}
	if tok != "" {
		data["CSRFToken"] = tok
	}
	return c.Render(tmpl, data)
}

// redirectErr sends the browser back to path with a flash message in the
// query string.
func redirectErr(c *fiber.Ctx, path, msg string) error {
	return c.Redirect(path + "?err=" + url.QueryEscape(msg))
}

// userMessage maps a ledger error to the message shown in the UI.
func userMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return "Please fill in required fields"
	case errors.Is(err, domain.ErrProductNotFound):
		return "Selected product no longer exists"
	case errors.Is(err, domain.ErrInsufficientStock):
		return "Insufficient stock quantity"
	case errors.Is(err, domain.ErrDuplicateContact):
		return "A buyer with this phone number or email already exists"
	case errors.Is(err, domain.ErrPersistence):
		return "Saving failed; please retry"
	default:
		return "Something went wrong. Please try again."
	}
}
