package access

import (
	"sort"

	"rivalwatch/internal/model"
)

// ResolveWatchers returns the users to notify about a change to the
// company: its owner, always, plus subscribers for whom the company
// is actually visible. A stale subscription to a company the user no
// longer owns never triggers a notification.
func (r *Resolver) ResolveWatchers(companyID int64) ([]int64, error) {
	watchers, err := r.ResolveWatchersBatch([]int64{companyID})
	if err != nil {
		return nil, err
	}
	return watchers[companyID], nil
}

// ResolveWatchersBatch resolves a whole batch of change events with
// one company lookup each and a single preferences scan, so fan-out
// never degrades into one scan per event.
func (r *Resolver) ResolveWatchersBatch(companyIDs []int64) (map[int64][]int64, error) {
	unique := dedupe(companyIDs)

	companies := make(map[int64]*model.Company, len(unique))
	for _, id := range unique {
		company, err := r.store.GetCompany(id)
		if err != nil {
			return nil, err
		}
		if company != nil {
			companies[id] = company
		}
	}

	subscribers, err := r.store.SubscribersByCompanyIDs(unique)
	if err != nil {
		return nil, err
	}

	result := make(map[int64][]int64, len(companies))
	for id, company := range companies {
		seen := make(map[int64]bool)
		var watchers []int64

		if company.OwnerID != nil {
			seen[*company.OwnerID] = true
			watchers = append(watchers, *company.OwnerID)
		}

		for _, userID := range subscribers[id] {
			if seen[userID] {
				continue
			}
			if !visibleTo(company, &model.User{ID: userID}) {
				continue
			}
			seen[userID] = true
			watchers = append(watchers, userID)
		}

		sort.Slice(watchers, func(i, j int) bool { return watchers[i] < watchers[j] })
		result[id] = watchers
	}

	return result, nil
}

func dedupe(ids []int64) []int64 {
	seen := make(map[int64]bool, len(ids))
	var unique []int64
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			unique = append(unique, id)
		}
	}
	return unique
}
