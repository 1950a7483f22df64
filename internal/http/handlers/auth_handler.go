package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"stockledger/internal/domain"
	"stockledger/internal/log"
	"stockledger/internal/services"
	"stockledger/internal/validate"
)

type AuthHandler struct {
	Auth *services.AuthService
}

// The selectable dashboard themes, applied per account at signup.
var colorSchemes = []domain.ColorScheme{
	{Name: "Sky Blue", Primary: "#3498db", Secondary: "#2980b9"},
	{Name: "Green", Primary: "#27ae60", Secondary: "#229954"},
	{Name: "Classic Black", Primary: "#2c3e50", Secondary: "#1b2631"},
	{Name: "Sunset Orange", Primary: "#e67e22", Secondary: "#d35400"},
}

func schemeByName(name string) domain.ColorScheme {
	for _, cs := range colorSchemes {
		if cs.Name == name {
			return cs
		}
	}
	return colorSchemes[0]
}

func ensureSID(c *fiber.Ctx) string {
	sid := c.Cookies("sid")
	if sid == "" {
		sid = uuid.NewString()
		c.Cookie(&fiber.Cookie{
			Name:     "sid",
			Value:    sid,
			Path:     "/",
			HTTPOnly: true,
			SameSite: fiber.CookieSameSiteLaxMode,
			Secure:   false,
		})
	}
	return sid
}

func (h *AuthHandler) LoginForm(c *fiber.Ctx) error {
	return render(c, "login", fiber.Map{"Err": ""})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	sid := ensureSID(c)
	email := c.FormValue("email")
	pass := c.FormValue("password")
	if _, ok := validate.Email(email); !ok {
		log.Security(c, "auth.login.fail", map[string]any{"email": email, "reason": "bad_format"})
		return c.Status(401).Render("login", fiber.Map{"Err": "Invalid email or password", "CSRFToken": c.Cookies("csrf_")})
	}

	_, err := h.Auth.Login(sid, email, pass)
	if err != nil {
		log.Security(c, "auth.login.fail", map[string]any{"email": email})
		return c.Status(401).Render("login", fiber.Map{"Err": "Invalid email or password", "CSRFToken": c.Cookies("csrf_")})
	}

	log.Audit(c, "auth.login.success", map[string]any{"email": email})
	return c.Redirect("/")
}

func (h *AuthHandler) SignupForm(c *fiber.Ctx) error {
	return render(c, "signup", fiber.Map{"Err": "", "Schemes": colorSchemes})
}

func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	sid := ensureSID(c)

	fail := func(msg string) error {
		return c.Status(400).Render("signup", fiber.Map{"Err": msg, "Schemes": colorSchemes, "CSRFToken": c.Cookies("csrf_")})
	}

	name, ok := validate.Name(c.FormValue("name"))
	if !ok {
		return fail("Please enter your name")
	}
	email, ok := validate.Email(c.FormValue("email"))
	if !ok {
		return fail("Please enter a valid email")
	}
	business, ok := validate.Name(c.FormValue("businessName"))
	if !ok {
		return fail("Please enter your business name")
	}
	answer, ok := validate.Name(c.FormValue("securityAnswer"))
	if !ok {
		return fail("Please answer the security question")
	}
	pass := c.FormValue("password")
	if !validate.Password(pass) {
		return fail("Password needs 8+ characters with upper, lower, digit and symbol")
	}

	_, err := h.Auth.Signup(sid, services.SignupInput{
		Name:           name,
		Email:          email,
		Password:       pass,
		BusinessName:   business,
		SecurityAnswer: answer,
		ColorScheme:    schemeByName(c.FormValue("colorScheme")),
	})
	if err == services.ErrEmailTaken {
		log.Security(c, "auth.signup.fail", map[string]any{"email": email, "reason": "email_taken"})
		return fail("Email already registered")
	}
	if err != nil {
		log.Error(c, "auth.signup.fail", err, map[string]any{"email": email})
		return fail("Something went wrong. Please try again.")
	}

	log.Audit(c, "auth.signup.success", map[string]any{"email": email})
	return c.Redirect("/")
}

// Reset handles the forgot-password form: email + security answer set a new
// password. The old one is never shown back.
func (h *AuthHandler) Reset(c *fiber.Ctx) error {
	email := c.FormValue("email")
	answer := c.FormValue("securityAnswer")
	newPass := c.FormValue("newPassword")
	if !validate.Password(newPass) {
		return c.Status(400).Render("login", fiber.Map{"Err": "New password needs 8+ characters with upper, lower, digit and symbol", "CSRFToken": c.Cookies("csrf_")})
	}
	if err := h.Auth.ResetPassword(email, answer, newPass); err != nil {
		log.Security(c, "auth.reset.fail", map[string]any{"email": email})
		return c.Status(401).Render("login", fiber.Map{"Err": "Invalid email or security answer", "CSRFToken": c.Cookies("csrf_")})
	}
	log.Audit(c, "auth.reset.success", map[string]any{"email": email})
	return render(c, "login", fiber.Map{"Err": "Password updated. Please sign in."})
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	sid := ensureSID(c)
	_ = h.Auth.Logout(sid)
	// Expire cookie
	c.Cookie(&fiber.Cookie{
		Name:     "sid",
		Value:    "",
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Secure:   false,
		Expires:  time.Now().Add(-1 * time.Hour),
	})
	log.Audit(c, "auth.logout", map[string]any{"sid": sid})
	return c.Redirect("/login")
}
