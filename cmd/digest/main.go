package main

import (
	"log"
	"log/slog"
	"os"

	"rivalwatch/db"
	"rivalwatch/internal/access"
	"rivalwatch/internal/config"
	"rivalwatch/internal/model"
	"rivalwatch/internal/repository"
)

// One digest pass over every active user. Scheduling is external
// (cron); each run re-resolves every user's filter set from scratch —
// a filter set is a snapshot and must never be carried across runs.
func main() {

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("error loading config: %v", err)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	err = db.Connect()
	if err != nil {
		log.Fatalf("error connecting to DB: %v", err)
	}
	defer db.Close()

	store := repository.NewStore(db.DB)
	cache := access.NewOwnedIDCache(cfg.OwnedCacheTTL)
	resolver := access.NewResolver(store, cache, cfg.BaseScopeIncludeSubscribed)

	userIDs, err := store.ListDigestUserIDs()
	if err != nil {
		log.Fatalf("error listing digest users: %v", err)
	}

	if len(userIDs) == 0 {
		slog.Info("no users to digest, exiting")
		return
	}

	var written, skipped int
	for _, userID := range userIDs {
		user := &model.User{ID: userID}

		filter, err := resolver.ComputeFilterSet(user, nil, false)
		if err != nil {
			slog.Error("error computing filter set", "error", err, "user_id", userID)
			continue
		}

		if filter.Kind == access.FilterEmptyResult {
			skipped++
			continue
		}

		fromID, err := store.GetLastItemID(userID)
		if err != nil {
			slog.Error("error getting digest watermark", "error", err, "user_id", userID)
			continue
		}

		items, err := store.ListNewsSince(filter.CompanyIDs, fromID)
		if err != nil {
			slog.Error("error fetching news for digest", "error", err, "user_id", userID)
			continue
		}

		if len(items) == 0 {
			skipped++
			continue
		}

		digest := model.Digest{
			UserID:       userID,
			CompanyCount: len(filter.CompanyIDs),
			ItemCount:    len(items),
			FromItemID:   items[0].ID,
			ToItemID:     items[len(items)-1].ID,
		}

		if err := store.SaveDigest(&digest); err != nil {
			slog.Error("error saving digest", "error", err, "user_id", userID)
			continue
		}

		written++
	}

	slog.Info("digest run complete", "users", len(userIDs), "written", written, "skipped", skipped)
}
