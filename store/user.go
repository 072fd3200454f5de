package store

import (
	"context"
	"errors"
	"sync"

	"gorm.io/gorm"

	"github.com/authgate/authgate"
	"github.com/authgate/authgate/models"
)

// ErrUserNotFound indicates the resource owner is unknown.
var ErrUserNotFound = errors.New("user not found")

// NewUserStore create user store (memory)
func NewUserStore() *UserStore {
	return &UserStore{
		byID:       make(map[string]authgate.UserInfo),
		byUsername: make(map[string]string),
		factors:    make(map[string][]authgate.SecondFactorInfo),
	}
}

// UserStore resource owner store (in-memory)
type UserStore struct {
	sync.RWMutex
	byID       map[string]authgate.UserInfo
	byUsername map[string]string
	factors    map[string][]authgate.SecondFactorInfo
}

// Set registers a user
func (us *UserStore) Set(u authgate.UserInfo) {
	us.Lock()
	defer us.Unlock()

	us.byID[u.GetID()] = u
	us.byUsername[u.GetUsername()] = u.GetID()
}

// Enroll adds a second factor for a user
func (us *UserStore) Enroll(ownerID string, f authgate.SecondFactorInfo) {
	us.Lock()
	defer us.Unlock()

	us.factors[ownerID] = append(us.factors[ownerID], f)
}

// GetByID according to the ID for the user information
func (us *UserStore) GetByID(ctx context.Context, id string) (authgate.UserInfo, error) {
	us.RLock()
	defer us.RUnlock()

	if u, ok := us.byID[id]; ok {
		return u, nil
	}
	return nil, ErrUserNotFound
}

// GetByUsername according to the login name for the user information
func (us *UserStore) GetByUsername(ctx context.Context, username string) (authgate.UserInfo, error) {
	us.RLock()
	defer us.RUnlock()

	if id, ok := us.byUsername[username]; ok {
		return us.byID[id], nil
	}
	return nil, ErrUserNotFound
}

// SecondFactors lists the user's enrolled second factors
func (us *UserStore) SecondFactors(ctx context.Context, ownerID string) ([]authgate.SecondFactorInfo, error) {
	us.RLock()
	defer us.RUnlock()

	return us.factors[ownerID], nil
}

// --- Persistent user store ---

// DBUserStore reads resource owners from the users and
// user_second_factors tables.
type DBUserStore struct{ DB *gorm.DB }

func NewDBUserStore(db *gorm.DB) *DBUserStore { return &DBUserStore{DB: db} }

type userRow struct {
	ID           string
	Username     string
	Name         string
	PasswordHash string
}

// GetByID implements authgate.UserStore backed by DB.
func (s *DBUserStore) GetByID(ctx context.Context, id string) (authgate.UserInfo, error) {
	var row userRow
	if err := s.DB.WithContext(ctx).Raw(`SELECT id, username, name, password_hash FROM users WHERE id=?`, id).Scan(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == "" {
		return nil, ErrUserNotFound
	}
	return &models.User{ID: row.ID, Username: row.Username, Name: row.Name, PasswordHash: row.PasswordHash}, nil
}

// GetByUsername looks a user up by login name.
func (s *DBUserStore) GetByUsername(ctx context.Context, username string) (authgate.UserInfo, error) {
	var row userRow
	if err := s.DB.WithContext(ctx).Raw(`SELECT id, username, name, password_hash FROM users WHERE username=?`, username).Scan(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == "" {
		return nil, ErrUserNotFound
	}
	return &models.User{ID: row.ID, Username: row.Username, Name: row.Name, PasswordHash: row.PasswordHash}, nil
}

// SecondFactors lists enrolled second factors for the owner.
func (s *DBUserStore) SecondFactors(ctx context.Context, ownerID string) ([]authgate.SecondFactorInfo, error) {
	var rows []struct {
		OwnerID string
		Type    string
		Secret  string
	}
	if err := s.DB.WithContext(ctx).Raw(`SELECT owner_id, type, secret FROM user_second_factors WHERE owner_id=?`, ownerID).Scan(&rows).Error; err != nil {
		return nil, err
	}
	factors := make([]authgate.SecondFactorInfo, 0, len(rows))
	for _, r := range rows {
		factors = append(factors, &models.SecondFactor{OwnerID: r.OwnerID, Type: r.Type, Secret: r.Secret})
	}
	return factors, nil
}
