package repos

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"stockledger/internal/domain"
	"stockledger/internal/store"
)

const (
	usersKey    = "users"
	sessionsKey = "sessions"
)

type session struct {
	UserID   string `json:"userId"`
	LastSeen string `json:"lastSeen"`
}

// UserRepo holds the global account list and the sid -> user session map.
type UserRepo struct{ kv *store.KV }

func NewUserRepo(kv *store.KV) *UserRepo { return &UserRepo{kv: kv} }

func (r *UserRepo) List() ([]domain.User, error) {
	users := []domain.User{}
	if _, err := r.kv.Get(usersKey, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// ByEmail matches case-insensitively; returns nil when no account exists.
func (r *UserRepo) ByEmail(email string) (*domain.User, error) {
	users, err := r.List()
	if err != nil {
		return nil, err
	}
	for i := range users {
		if strings.EqualFold(users[i].Email, email) {
			return &users[i], nil
		}
	}
	return nil, nil
}

func (r *UserRepo) ByID(id string) (*domain.User, error) {
	users, err := r.List()
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].ID == id {
			return &users[i], nil
		}
	}
	return nil, nil
}

func (r *UserRepo) Insert(u domain.User) (domain.User, error) {
	users, err := r.List()
	if err != nil {
		return domain.User{}, err
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.CreatedAt == "" {
		u.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	}
	users = append(users, u)
	if err := r.saveUsers(users); err != nil {
		return domain.User{}, err
	}
	return u, nil
}

func (r *UserRepo) UpdatePassword(id, hash string) error {
	users, err := r.List()
	if err != nil {
		return err
	}
	for i := range users {
		if users[i].ID == id {
			users[i].Hash = hash
			return r.saveUsers(users)
		}
	}
	return fmt.Errorf("%w: unknown user %s", domain.ErrValidation, id)
}

func (r *UserRepo) BindSession(sid, userID string) error {
	sessions, err := r.sessions()
	if err != nil {
		return err
	}
	sessions[sid] = session{UserID: userID, LastSeen: time.Now().UTC().Format(time.RFC3339)}
	return r.saveSessions(sessions)
}

func (r *UserRepo) SessionUser(sid string) (*domain.User, error) {
	sessions, err := r.sessions()
	if err != nil {
		return nil, err
	}
	s, ok := sessions[sid]
	if !ok || s.UserID == "" {
		return nil, nil
	}
	return r.ByID(s.UserID)
}

func (r *UserRepo) UnbindSession(sid string) error {
	sessions, err := r.sessions()
	if err != nil {
		return err
	}
	if _, ok := sessions[sid]; !ok {
		return nil
	}
	delete(sessions, sid)
	return r.saveSessions(sessions)
}

func (r *UserRepo) sessions() (map[string]session, error) {
	sessions := map[string]session{}
	if _, err := r.kv.Get(sessionsKey, &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

func (r *UserRepo) saveUsers(users []domain.User) error {
	if err := r.kv.Set(usersKey, users); err != nil {
		return fmt.Errorf("%w: users: %v", domain.ErrPersistence, err)
	}
	return nil
}

func (r *UserRepo) saveSessions(sessions map[string]session) error {
	if err := r.kv.Set(sessionsKey, sessions); err != nil {
		return fmt.Errorf("%w: sessions: %v", domain.ErrPersistence, err)
	}
	return nil
}
