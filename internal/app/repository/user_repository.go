// Package repository holds the in-memory user registry. It is an explicit
// object handed to the services rather than ambient package state, so the
// matching and ranking engine can be tested against synthetic user sets.
package repository

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/FACorreiaa/go-tourguide/internal/app/gps"
	"github.com/FACorreiaa/go-tourguide/internal/app/models"
)

// UserRepository stores users keyed by both username and ID.
type UserRepository struct {
	mu     sync.RWMutex
	byName map[string]*models.User
	byID   map[uuid.UUID]*models.User
}

// NewUserRepository returns an empty registry.
func NewUserRepository() *UserRepository {
	return &UserRepository{
		byName: make(map[string]*models.User),
		byID:   make(map[uuid.UUID]*models.User),
	}
}

// Add registers a user. Usernames and IDs are unique.
func (r *UserRepository) Add(user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byName[user.Username]; ok {
		return fmt.Errorf("%w: %s", models.ErrUserExists, user.Username)
	}
	if _, ok := r.byID[user.ID]; ok {
		return fmt.Errorf("%w: %s", models.ErrUserExists, user.ID)
	}
	r.byName[user.Username] = user
	r.byID[user.ID] = user
	return nil
}

// User looks a user up by username.
func (r *UserRepository) User(username string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.byName[username]
	if !ok {
		return nil, fmt.Errorf("%w: %s", models.ErrUserNotFound, username)
	}
	return user, nil
}

// UserByID looks a user up by ID.
func (r *UserRepository) UserByID(id uuid.UUID) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", models.ErrUserNotFound, id)
	}
	return user, nil
}

// AllUsers returns every registered user. The slice is a copy; the user
// pointers are shared.
func (r *UserRepository) AllUsers() []*models.User {
	r.mu.RLock()
	defer r.mu.RUnlock()
	users := make([]*models.User, 0, len(r.byID))
	for _, u := range r.byID {
		users = append(users, u)
	}
	return users
}

// Count returns the number of registered users.
func (r *UserRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID)
}

// SeedInternalUsers populates the registry with n synthetic users, each with
// three random visited locations recorded over the previous month. Used by
// demos and the high-volume tests.
func (r *UserRepository) SeedInternalUsers(n int) error {
	for i := 0; i < n; i++ {
		user := models.NewUser(uuid.New(), fmt.Sprintf("internalUser%d", i))
		for j := 0; j < 3; j++ {
			user.AddVisitedLocation(models.VisitedLocation{
				UserID:      user.ID,
				Location:    gps.RandomLocation(),
				TimeVisited: randomPastTime(30 * 24 * time.Hour),
			})
		}
		if err := r.Add(user); err != nil {
			return err
		}
	}
	return nil
}

func randomPastTime(window time.Duration) time.Time {
	return time.Now().Add(-time.Duration(rand.Int63n(int64(window))))
}
