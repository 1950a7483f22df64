package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	html "github.com/gofiber/template/html/v2"

	"stockledger/internal/config"
	"stockledger/internal/domain"
	"stockledger/internal/http/handlers"
	"stockledger/internal/repos"
	"stockledger/internal/services"
	"stockledger/internal/store"
)

type salesFixture struct {
	app   *fiber.App
	kv    *store.KV
	user  *domain.User
	stock *repos.StockRepo
}

func newSalesApp(t *testing.T) *salesFixture {
	t.Helper()
	kv, err := store.Open(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	userRepo := repos.NewUserRepo(kv)
	authSvc := &services.AuthService{Users: userRepo}

	u, err := authSvc.Signup("sid-test", services.SignupInput{
		Name: "Ann", Email: "ann@example.com", Password: "Passw0rd!",
		BusinessName: "Shop", SecurityAnswer: "Nairobi",
	})
	if err != nil {
		t.Fatal(err)
	}

	engine := html.New("../../web/templates", ".html")
	app := fiber.New(fiber.Config{Views: engine})
	app.Use(csrf.New(csrf.Config{KeyLookup: "form:csrf", CookieName: "csrf_", CookieSameSite: "Lax"}))

	deps := handlers.NewDeps(kv, config.Config{}, authSvc)
	app.Use(handlers.RequireUser(authSvc))
	app.Get("/sales", deps.SalesHandler.List)
	app.Post("/sales", deps.SalesHandler.Add)
	app.Post("/sales/:id/delete", deps.SalesHandler.Delete)

	return &salesFixture{app: app, kv: kv, user: u, stock: repos.NewStockRepo(kv)}
}

func (f *salesFixture) post(t *testing.T, path string, form url.Values, csrfTok string) *http.Response {
	t.Helper()
	form.Set("csrf", csrfTok)
	req := httptest.NewRequest("POST", path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(&http.Cookie{Name: "csrf_", Value: csrfTok})
	req.AddCookie(&http.Cookie{Name: "sid", Value: "sid-test"})
	resp, err := f.app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	return resp
}

func (f *salesFixture) csrfToken(t *testing.T) string {
	t.Helper()
	req := httptest.NewRequest("GET", "/sales", nil)
	req.AddCookie(&http.Cookie{Name: "sid", Value: "sid-test"})
	resp, err := f.app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("sales page: expected 200, got %d", resp.StatusCode)
	}
	tok := extractCookie(resp, "csrf_")
	if tok == "" {
		t.Fatal("csrf token missing")
	}
	return tok
}

func TestSalesPageRequiresLogin(t *testing.T) {
	f := newSalesApp(t)
	resp, err := f.app.Test(httptest.NewRequest("GET", "/sales", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("expected redirect to login, got %d", resp.StatusCode)
	}
}

func TestRecordSaleThroughForm(t *testing.T) {
	f := newSalesApp(t)

	item, err := f.stock.Insert(f.user.ID, domain.StockItem{
		ProductName: "Widget", Category: "Electronics", SupplierName: "Acme",
		SellingPrice: 5.00, Quantity: 10, Unit: "Number",
	})
	if err != nil {
		t.Fatal(err)
	}

	tok := f.csrfToken(t)
	resp := f.post(t, "/sales", url.Values{
		"productId":    {item.ID},
		"quantity":     {"3"},
		"pricePerUnit": {"5.00"},
		"buyerName":    {"Bob"},
	}, tok)
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("expected redirect after sale, got %d", resp.StatusCode)
	}

	after, err := f.stock.FindByID(f.user.ID, item.ID)
	if err != nil {
		t.Fatal(err)
	}
	if after.Quantity != 7 {
		t.Fatalf("want quantity 7, got %d", after.Quantity)
	}
	sales, err := repos.NewSaleRepo(f.kv).List(f.user.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(sales) != 1 || sales[0].TotalPrice != 15.00 {
		t.Fatalf("bad sale record: %+v", sales)
	}
	buyers, err := repos.NewBuyerRepo(f.kv).List(f.user.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(buyers) != 1 || buyers[0].Name != "Bob" {
		t.Fatalf("buyer not created: %+v", buyers)
	}
}

func TestRecordSaleOverStockRedirectsWithError(t *testing.T) {
	f := newSalesApp(t)

	item, err := f.stock.Insert(f.user.ID, domain.StockItem{
		ProductName: "Widget", Category: "Electronics", SupplierName: "Acme",
		SellingPrice: 5.00, Quantity: 2, Unit: "Number",
	})
	if err != nil {
		t.Fatal(err)
	}

	tok := f.csrfToken(t)
	resp := f.post(t, "/sales", url.Values{
		"productId":    {item.ID},
		"quantity":     {"5"},
		"pricePerUnit": {"5.00"},
	}, tok)
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("expected redirect, got %d", resp.StatusCode)
	}
	loc := resp.Header.Get("Location")
	if !strings.Contains(loc, "err=") {
		t.Fatalf("expected error flash in redirect, got %q", loc)
	}

	after, _ := f.stock.FindByID(f.user.ID, item.ID)
	if after.Quantity != 2 {
		t.Fatalf("stock mutated on failed sale: %d", after.Quantity)
	}
	sales, _ := repos.NewSaleRepo(f.kv).List(f.user.ID)
	if len(sales) != 0 {
		t.Fatalf("ledger mutated on failed sale: %+v", sales)
	}
}

func TestDeleteSaleKeepsStockQuantity(t *testing.T) {
	f := newSalesApp(t)

	item, err := f.stock.Insert(f.user.ID, domain.StockItem{
		ProductName: "Widget", Category: "Electronics", SupplierName: "Acme",
		SellingPrice: 5.00, Quantity: 10, Unit: "Number",
	})
	if err != nil {
		t.Fatal(err)
	}

	tok := f.csrfToken(t)
	f.post(t, "/sales", url.Values{
		"productId":    {item.ID},
		"quantity":     {"4"},
		"pricePerUnit": {"5.00"},
	}, tok)

	saleRepo := repos.NewSaleRepo(f.kv)
	sales, _ := saleRepo.List(f.user.ID)
	if len(sales) != 1 {
		t.Fatalf("sale not recorded: %+v", sales)
	}

	resp := f.post(t, "/sales/"+sales[0].ID+"/delete", url.Values{}, tok)
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("expected redirect after delete, got %d", resp.StatusCode)
	}

	sales, _ = saleRepo.List(f.user.ID)
	if len(sales) != 0 {
		t.Fatalf("sale survived delete: %+v", sales)
	}
	// stock stays decremented; sale deletion is ledger-only
	after, _ := f.stock.FindByID(f.user.ID, item.ID)
	if after.Quantity != 6 {
		t.Fatalf("stock changed by sale deletion: want 6, got %d", after.Quantity)
	}
}
