package services_test

import (
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"stockledger/internal/repos"
	"stockledger/internal/services"
	"stockledger/internal/store"
)

func newAuth(t *testing.T) *services.AuthService {
	t.Helper()
	kv, err := store.Open(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	return &services.AuthService{Users: repos.NewUserRepo(kv)}
}

func TestSignupLoginFlow(t *testing.T) {
	auth := newAuth(t)

	u, err := auth.Signup("sid-1", services.SignupInput{
		Name:           "Ann",
		Email:          "ann@example.com",
		Password:       "Passw0rd!",
		BusinessName:   "Ann's Shop",
		SecurityAnswer: "Nairobi",
	})
	if err != nil {
		t.Fatal(err)
	}
	if u.ID == "" || u.CreatedAt == "" {
		t.Fatalf("id/createdAt not assigned: %+v", u)
	}
	// stored hash, not plaintext
	if strings.Contains(u.Hash, "Passw0rd!") || !strings.HasPrefix(u.Hash, "$2") {
		t.Fatalf("password not hashed: %s", u.Hash)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.Hash), []byte("Passw0rd!")); err != nil {
		t.Fatalf("hash does not validate password: %v", err)
	}

	// signup bound the session
	cur, err := auth.CurrentUser("sid-1")
	if err != nil {
		t.Fatal(err)
	}
	if cur == nil || cur.ID != u.ID {
		t.Fatalf("session not bound at signup: %+v", cur)
	}

	// fresh session logs in; email match is case-insensitive
	got, err := auth.Login("sid-2", "ANN@example.com", "Passw0rd!")
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != u.ID {
		t.Fatalf("wrong user: %+v", got)
	}

	if _, err := auth.Login("sid-3", "ann@example.com", "wrongpass"); err != services.ErrBadCreds {
		t.Fatalf("want ErrBadCreds, got %v", err)
	}

	if err := auth.Logout("sid-2"); err != nil {
		t.Fatal(err)
	}
	cur, err = auth.CurrentUser("sid-2")
	if err != nil {
		t.Fatal(err)
	}
	if cur != nil {
		t.Fatalf("session survived logout: %+v", cur)
	}
}

func TestSignupRejectsDuplicateEmail(t *testing.T) {
	auth := newAuth(t)

	in := services.SignupInput{Name: "Ann", Email: "ann@example.com", Password: "Passw0rd!", BusinessName: "Shop", SecurityAnswer: "x"}
	if _, err := auth.Signup("sid-1", in); err != nil {
		t.Fatal(err)
	}
	in.Email = "ANN@EXAMPLE.COM"
	if _, err := auth.Signup("sid-2", in); err != services.ErrEmailTaken {
		t.Fatalf("want ErrEmailTaken, got %v", err)
	}
}

func TestResetPassword(t *testing.T) {
	auth := newAuth(t)

	if _, err := auth.Signup("sid-1", services.SignupInput{
		Name: "Ann", Email: "ann@example.com", Password: "Passw0rd!",
		BusinessName: "Shop", SecurityAnswer: "Nairobi",
	}); err != nil {
		t.Fatal(err)
	}

	// wrong answer
	if err := auth.ResetPassword("ann@example.com", "Mombasa", "NewPassw0rd!"); err != services.ErrBadReset {
		t.Fatalf("want ErrBadReset, got %v", err)
	}
	// unknown email
	if err := auth.ResetPassword("ghost@example.com", "Nairobi", "NewPassw0rd!"); err != services.ErrBadReset {
		t.Fatalf("want ErrBadReset, got %v", err)
	}

	// answer matches case-insensitively
	if err := auth.ResetPassword("ann@example.com", "  NAIROBI ", "NewPassw0rd!"); err != nil {
		t.Fatal(err)
	}
	if _, err := auth.Login("sid-2", "ann@example.com", "Passw0rd!"); err != services.ErrBadCreds {
		t.Fatalf("old password still accepted: %v", err)
	}
	if _, err := auth.Login("sid-2", "ann@example.com", "NewPassw0rd!"); err != nil {
		t.Fatalf("new password rejected: %v", err)
	}
}
