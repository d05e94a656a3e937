package service

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/mmynk/hearth/internal/models"
	"github.com/mmynk/hearth/internal/storage"
)

// Guard decides whether a user may act inside a household. Positive
// membership checks and member rosters are cached for ttl.
type Guard struct {
	store storage.HouseholdStore
	cache *cache.Cache
}

// NewGuard creates a Guard. A non-positive ttl disables caching.
func NewGuard(store storage.HouseholdStore, ttl time.Duration) *Guard {
	var c *cache.Cache
	if ttl > 0 {
		c = cache.New(ttl, 2*ttl)
	}
	return &Guard{store: store, cache: c}
}

func memberKey(householdID, userID string) string { return "m/" + householdID + "/" + userID }
func rosterKey(householdID string) string          { return "r/" + householdID }

// Require fails unless userID belongs to householdID. An unknown household
// is models.ErrNotFound; a household the user is not in is
// models.ErrPermissionDenied.
func (g *Guard) Require(ctx context.Context, householdID, userID string) error {
	if householdID == "" {
		return models.ErrInvalidInput.Wrapf("household_id is required")
	}
	if g.cache != nil {
		if _, ok := g.cache.Get(memberKey(householdID, userID)); ok {
			return nil
		}
	}

	ok, err := g.store.IsMember(ctx, householdID, userID)
	if err != nil {
		return err
	}
	if !ok {
		if _, err := g.store.GetHousehold(ctx, householdID); err != nil {
			return err
		}
		return models.ErrPermissionDenied.Wrapf("not a member of household %s", householdID)
	}

	if g.cache != nil {
		g.cache.SetDefault(memberKey(householdID, userID), true)
	}
	return nil
}

// Members returns the household roster.
func (g *Guard) Members(ctx context.Context, householdID string) ([]models.Member, error) {
	if g.cache != nil {
		if v, ok := g.cache.Get(rosterKey(householdID)); ok {
			return v.([]models.Member), nil
		}
	}
	members, err := g.store.ListMembers(ctx, householdID)
	if err != nil {
		return nil, err
	}
	if g.cache != nil {
		g.cache.SetDefault(rosterKey(householdID), members)
	}
	return members, nil
}

// Joined records a new membership and drops the cached roster.
func (g *Guard) Joined(householdID, userID string) {
	if g.cache == nil {
		return
	}
	g.cache.SetDefault(memberKey(householdID, userID), true)
	g.cache.Delete(rosterKey(householdID))
}
