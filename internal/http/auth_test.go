package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	html "github.com/gofiber/template/html/v2"

	"stockledger/internal/http/handlers"
	"stockledger/internal/repos"
	"stockledger/internal/services"
	"stockledger/internal/store"
)

func extractCookie(resp *http.Response, name string) string {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c.Value
		}
	}
	return ""
}

func newAuthApp(t *testing.T) (*fiber.App, *services.AuthService) {
	t.Helper()
	kv, err := store.Open(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	authSvc := &services.AuthService{Users: repos.NewUserRepo(kv)}
	authH := &handlers.AuthHandler{Auth: authSvc}

	engine := html.New("../../web/templates", ".html")
	app := fiber.New(fiber.Config{Views: engine})
	app.Use(csrf.New(csrf.Config{KeyLookup: "form:csrf", CookieName: "csrf_", CookieSameSite: "Lax"}))

	app.Get("/login", authH.LoginForm)
	app.Post("/login", limiter.New(limiter.Config{Max: 2, Expiration: time.Minute}), authH.Login)
	return app, authSvc
}

func postForm(t *testing.T, app *fiber.App, path, body, csrfTok string) *http.Response {
	t.Helper()
	req := httptest.NewRequest("POST", path, strings.NewReader("csrf="+csrfTok+"&"+body))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(&http.Cookie{Name: "csrf_", Value: csrfTok})
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	return resp
}

func TestLoginSuccessFailAndThrottle(t *testing.T) {
	app, authSvc := newAuthApp(t)

	if _, err := authSvc.Signup("sid-seed", services.SignupInput{
		Name: "Ann", Email: "ann@example.com", Password: "Passw0rd!",
		BusinessName: "Shop", SecurityAnswer: "Nairobi",
	}); err != nil {
		t.Fatal(err)
	}

	// fetch csrf token
	respLogin, err := app.Test(httptest.NewRequest("GET", "/login", nil))
	if err != nil {
		t.Fatal(err)
	}
	csrfTok := extractCookie(respLogin, "csrf_")
	if csrfTok == "" {
		t.Fatal("csrf token missing")
	}

	// bad password -> 401
	respBad := postForm(t, app, "/login", "email=ann@example.com&password=wrongpass!", csrfTok)
	if respBad.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 for bad creds, got %d", respBad.StatusCode)
	}

	// good password -> redirect
	respGood := postForm(t, app, "/login", "email=ann@example.com&password=Passw0rd!", csrfTok)
	if respGood.StatusCode != http.StatusFound {
		t.Fatalf("expected redirect on success, got %d", respGood.StatusCode)
	}

	// throttle after 2 attempts (we already did 2; a third should 429)
	respThird := postForm(t, app, "/login", "email=ann@example.com&password=wrongpass!", csrfTok)
	if respThird.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("expected 429 after throttle, got %d", respThird.StatusCode)
	}
}
