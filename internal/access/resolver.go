// Package access is the single source of truth for what a user may
// see. Every list, read, write, statistics, digest and notification
// call site goes through one injected Resolver instead of repeating
// its own visibility logic.
package access

import (
	"strconv"

	"rivalwatch/internal/model"
)

// EntityStore is the read surface the resolver needs. The concrete
// repository.Store satisfies it.
type EntityStore interface {
	GetCompany(id int64) (*model.Company, error)
	ListCompanyIDsByOwner(ownerID int64) ([]int64, error)
	GetNewsItemWithCompany(id int64) (*model.NewsItemWithCompany, error)
	GetUserPreferences(userID int64) (*model.UserPreferences, error)
	SubscribersByCompanyIDs(companyIDs []int64) (map[int64][]int64, error)
}

type Resolver struct {
	store EntityStore
	cache *OwnedIDCache

	// includeSubscribedInBase switches base personalization from
	// ownership-only to the union with validated subscriptions. The
	// two policies are never blended outside this flag.
	includeSubscribedInBase bool
}

func NewResolver(store EntityStore, cache *OwnedIDCache, includeSubscribedInBase bool) *Resolver {
	return &Resolver{
		store:                   store,
		cache:                   cache,
		includeSubscribedInBase: includeSubscribedInBase,
	}
}

// ResolveCompany returns the company when it is visible to the user
// and nil otherwise. A malformed ID, a missing row and an
// inaccessible row are indistinguishable to the caller; exposing the
// difference would leak existence.
func (r *Resolver) ResolveCompany(rawID string, user *model.User) (*model.Company, error) {
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		return nil, nil
	}
	return r.resolveCompanyID(id, user)
}

func (r *Resolver) resolveCompanyID(id int64, user *model.User) (*model.Company, error) {
	company, err := r.store.GetCompany(id)
	if err != nil {
		return nil, err
	}

	if company == nil || !visibleTo(company, user) {
		return nil, nil
	}

	return company, nil
}

// ResolveNewsItem applies the same contract transitively through the
// item's company, fetched together in one round trip.
func (r *Resolver) ResolveNewsItem(rawID string, user *model.User) (*model.NewsItemWithCompany, error) {
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		return nil, nil
	}

	item, err := r.store.GetNewsItemWithCompany(id)
	if err != nil {
		return nil, err
	}

	if item == nil || !visibleTo(&item.Company, user) {
		return nil, nil
	}

	return item, nil
}

// OwnedCompanyIDs returns the user's owned-company-ID set, served
// from the cache when fresh and loaded with one batch query on miss.
func (r *Resolver) OwnedCompanyIDs(user *model.User) ([]int64, error) {
	if ids, ok := r.cache.Get(user.ID); ok {
		return ids, nil
	}

	ids, err := r.store.ListCompanyIDsByOwner(user.ID)
	if err != nil {
		return nil, err
	}

	r.cache.Set(user.ID, ids)
	return ids, nil
}

// InvalidateOwned must be called whenever a company is created or
// deleted under the given owner.
func (r *Resolver) InvalidateOwned(userID int64) {
	r.cache.Invalidate(userID)
}

// ComputeFilterSet resolves the company scope for a listing,
// statistics or digest query.
//
// Explicit IDs win and are validated all-or-nothing. Anonymous users
// are unrestricted (the query layer applies the global predicate).
// Tracked-only is the intersection of owned and subscribed; the base
// scope is owned-only unless the union policy variant is configured.
func (r *Resolver) ComputeFilterSet(user *model.User, explicitIDs []string, trackedOnly bool) (FilterSet, error) {
	if len(explicitIDs) > 0 {
		return r.validateExplicit(user, explicitIDs)
	}

	if user == nil {
		return Unrestricted(), nil
	}

	owned, err := r.OwnedCompanyIDs(user)
	if err != nil {
		return FilterSet{}, err
	}

	if trackedOnly {
		prefs, err := r.store.GetUserPreferences(user.ID)
		if err != nil {
			return FilterSet{}, err
		}

		tracked := intersect(prefs.SubscribedCompanyIDs, owned)
		if len(tracked) == 0 {
			return EmptyResult(), nil
		}
		return Explicit(tracked), nil
	}

	scope := owned
	if r.includeSubscribedInBase {
		scope, err = r.unionVisibleSubscribed(user, owned)
		if err != nil {
			return FilterSet{}, err
		}
	}

	if len(scope) == 0 {
		return EmptyResult(), nil
	}
	return Explicit(scope), nil
}

func (r *Resolver) validateExplicit(user *model.User, explicitIDs []string) (FilterSet, error) {
	var ids []int64
	var invalid []string

	for _, raw := range explicitIDs {
		company, err := r.ResolveCompany(raw, user)
		if err != nil {
			return FilterSet{}, err
		}
		if company == nil {
			invalid = append(invalid, raw)
			continue
		}
		ids = append(ids, company.ID)
	}

	if len(invalid) > 0 {
		return FilterSet{}, &InvalidReferenceError{IDs: invalid}
	}

	return Explicit(ids), nil
}

// unionVisibleSubscribed implements the configurable alternate base
// policy: owned plus those subscribed companies the user can actually
// see. Subscription alone never expands visibility either way.
func (r *Resolver) unionVisibleSubscribed(user *model.User, owned []int64) ([]int64, error) {
	prefs, err := r.store.GetUserPreferences(user.ID)
	if err != nil {
		return nil, err
	}

	seen := make(map[int64]bool, len(owned))
	scope := make([]int64, 0, len(owned))
	for _, id := range owned {
		if !seen[id] {
			seen[id] = true
			scope = append(scope, id)
		}
	}

	for _, id := range prefs.SubscribedCompanyIDs {
		if seen[id] {
			continue
		}
		company, err := r.resolveCompanyID(id, user)
		if err != nil {
			return nil, err
		}
		if company == nil {
			continue
		}
		seen[id] = true
		scope = append(scope, id)
	}

	return scope, nil
}

func visibleTo(c *model.Company, user *model.User) bool {
	if c.OwnerID == nil {
		return true
	}
	return user != nil && *c.OwnerID == user.ID
}

// intersect keeps the order of the first argument, so tracked-only
// results follow the user's own subscription ordering.
func intersect(subscribed, owned []int64) []int64 {
	ownedSet := make(map[int64]bool, len(owned))
	for _, id := range owned {
		ownedSet[id] = true
	}

	var result []int64
	seen := make(map[int64]bool, len(subscribed))
	for _, id := range subscribed {
		if ownedSet[id] && !seen[id] {
			seen[id] = true
			result = append(result, id)
		}
	}
	return result
}
