package models

import (
	"sync"

	"github.com/google/uuid"
)

// UserReward records that a user earned points for visiting an attraction.
// A reward is created once and never updated.
type UserReward struct {
	VisitedLocation VisitedLocation `json:"visitedLocation"`
	Attraction      Attraction      `json:"attraction"`
	RewardPoints    int             `json:"rewardPoints"`
}

// User owns an append-only location history and an append-only reward
// collection. Both collections can be read while a matching pass is appending
// to them; readers always get a consistent snapshot.
type User struct {
	ID       uuid.UUID
	Username string

	mu               sync.RWMutex
	visitedLocations []VisitedLocation
	rewards          []UserReward
	rewardedByName   map[string]struct{}
}

// NewUser creates a user with an empty history and no rewards.
func NewUser(id uuid.UUID, username string) *User {
	return &User{
		ID:             id,
		Username:       username,
		rewardedByName: make(map[string]struct{}),
	}
}

// AddVisitedLocation appends one entry to the user's location history.
// History is ordered by recording time and never reordered.
func (u *User) AddVisitedLocation(visited VisitedLocation) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.visitedLocations = append(u.visitedLocations, visited)
}

// VisitedLocations returns a snapshot of the user's location history.
func (u *User) VisitedLocations() []VisitedLocation {
	u.mu.RLock()
	defer u.mu.RUnlock()
	snapshot := make([]VisitedLocation, len(u.visitedLocations))
	copy(snapshot, u.visitedLocations)
	return snapshot
}

// LastVisitedLocation returns the most recently recorded location, if any.
func (u *User) LastVisitedLocation() (VisitedLocation, bool) {
	u.mu.RLock()
	defer u.mu.RUnlock()
	if len(u.visitedLocations) == 0 {
		return VisitedLocation{}, false
	}
	return u.visitedLocations[len(u.visitedLocations)-1], true
}

// AddReward appends a reward unless the user already holds one for the same
// attraction. At most one reward exists per (user, attraction) pair; the first
// qualifying visit wins. Reports whether the reward was added.
func (u *User) AddReward(reward UserReward) bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	if _, ok := u.rewardedByName[reward.Attraction.Name]; ok {
		return false
	}
	u.rewardedByName[reward.Attraction.Name] = struct{}{}
	u.rewards = append(u.rewards, reward)
	return true
}

// HasRewardFor reports whether the user already earned the named attraction.
func (u *User) HasRewardFor(attractionName string) bool {
	u.mu.RLock()
	defer u.mu.RUnlock()
	_, ok := u.rewardedByName[attractionName]
	return ok
}

// Rewards returns a snapshot of the user's rewards.
func (u *User) Rewards() []UserReward {
	u.mu.RLock()
	defer u.mu.RUnlock()
	snapshot := make([]UserReward, len(u.rewards))
	copy(snapshot, u.rewards)
	return snapshot
}

// TotalRewardPoints sums the points across all earned rewards.
func (u *User) TotalRewardPoints() int {
	u.mu.RLock()
	defer u.mu.RUnlock()
	total := 0
	for _, r := range u.rewards {
		total += r.RewardPoints
	}
	return total
}
