package services

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"stockledger/internal/domain"
	"stockledger/internal/repos"
)

var (
	ErrBadCreds   = errors.New("invalid email or password")
	ErrBadReset   = errors.New("invalid email or security answer")
	ErrEmailTaken = errors.New("email already registered")
)

type AuthService struct {
	Users *repos.UserRepo
}

type SignupInput struct {
	Name           string
	Email          string
	Password       string
	BusinessName   string
	SecurityAnswer string
	ColorScheme    domain.ColorScheme
}

// Signup creates the account and binds the session in one step, mirroring
// the immediate login after registration.
func (s *AuthService) Signup(sid string, in SignupInput) (*domain.User, error) {
	existing, err := s.Users.ByEmail(in.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), 12)
	if err != nil {
		return nil, err
	}
	// Security answers match case-insensitively, so hash the folded form.
	answer, err := bcrypt.GenerateFromPassword([]byte(foldAnswer(in.SecurityAnswer)), 12)
	if err != nil {
		return nil, err
	}

	u, err := s.Users.Insert(domain.User{
		Name:         in.Name,
		Email:        in.Email,
		Hash:         string(hash),
		BusinessName: in.BusinessName,
		AnswerHash:   string(answer),
		ColorScheme:  in.ColorScheme,
	})
	if err != nil {
		return nil, err
	}
	if err := s.Users.BindSession(sid, u.ID); err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *AuthService) Login(sid, email, password string) (*domain.User, error) {
	u, err := s.Users.ByEmail(email)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrBadCreds
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Hash), []byte(password)) != nil {
		return nil, ErrBadCreds
	}
	if err := s.Users.BindSession(sid, u.ID); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *AuthService) Logout(sid string) error {
	return s.Users.UnbindSession(sid)
}

func (s *AuthService) CurrentUser(sid string) (*domain.User, error) {
	return s.Users.SessionUser(sid)
}

// ResetPassword sets a new password after the security answer checks out.
// The old password is never revealed.
func (s *AuthService) ResetPassword(email, answer, newPassword string) error {
	u, err := s.Users.ByEmail(email)
	if err != nil {
		return err
	}
	if u == nil {
		return ErrBadReset
	}
	if bcrypt.CompareHashAndPassword([]byte(u.AnswerHash), []byte(foldAnswer(answer))) != nil {
		return ErrBadReset
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), 12)
	if err != nil {
		return err
	}
	return s.Users.UpdatePassword(u.ID, string(hash))
}

func foldAnswer(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
