package main

import (
	"log"
	"log/slog"
	"os"
	"strconv"
	"time"

	"rivalwatch/db"
	"rivalwatch/internal/access"
	"rivalwatch/internal/config"
	"rivalwatch/internal/model"
	"rivalwatch/internal/repository"
)

func main() {

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("error loading config: %v", err)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	err = db.ConnectRedis()
	if err != nil {
		log.Fatalf("error connecting to Redis: %v", err)
	}
	defer db.CloseRedis()

	err = db.Connect()
	if err != nil {
		log.Fatalf("error connecting to DB: %v", err)
	}
	defer db.Close()

	store := repository.NewStore(db.DB)
	cache := access.NewOwnedIDCache(cfg.OwnedCacheTTL)
	resolver := access.NewResolver(store, cache, cfg.BaseScopeIncludeSubscribed)

	for {
		itemIDs, err := drainQueue(cfg.NotifyBatchSize)
		if err != nil {
			slog.Error("error popping from Redis queue", "error", err)
			break
		}

		if len(itemIDs) == 0 {
			continue
		}

		processBatch(store, resolver, itemIDs, cfg.NotifyMaxRetries)
	}
}

// drainQueue blocks for one change event, then drains up to batchSize
// without blocking so a burst is resolved in one pass.
func drainQueue(batchSize int) ([]int64, error) {
	raw, err := db.PopFromQueue(db.NotifyQueueKey, 0)
	if err != nil {
		return nil, err
	}

	var itemIDs []int64
	if id, ok := parseItemID(raw); ok {
		itemIDs = append(itemIDs, id)
	}

	for len(itemIDs) < batchSize {
		raw, err := db.TryPopFromQueue(db.NotifyQueueKey)
		if err != nil {
			return itemIDs, err
		}
		if raw == "" {
			break
		}
		if id, ok := parseItemID(raw); ok {
			itemIDs = append(itemIDs, id)
		}
	}

	return itemIDs, nil
}

func parseItemID(raw string) (int64, bool) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		slog.Error("invalid news item id in queue", "id", raw, "error", err)
		return 0, false
	}
	return id, true
}

func processBatch(store *repository.Store, resolver *access.Resolver, itemIDs []int64, maxRetries int) {
	items, err := store.ListNewsByIDs(itemIDs)
	if err != nil {
		slog.Error("error fetching news items", "error", err)
		requeueBatch(store, itemIDs, err, maxRetries)
		time.Sleep(5 * time.Second)
		return
	}

	var companyIDs []int64
	for _, item := range items {
		companyIDs = append(companyIDs, item.CompanyID)
	}

	watchers, err := resolver.ResolveWatchersBatch(companyIDs)
	if err != nil {
		slog.Error("error resolving watchers", "error", err)
		requeueBatch(store, itemIDs, err, maxRetries)
		time.Sleep(5 * time.Second)
		return
	}

	var notifications []model.Notification
	for _, item := range items {
		for _, userID := range watchers[item.CompanyID] {
			notifications = append(notifications, model.Notification{
				UserID:     userID,
				CompanyID:  item.CompanyID,
				NewsItemID: item.ID,
			})
		}
	}

	if err := store.SaveNotifications(notifications); err != nil {
		slog.Error("error saving notifications", "error", err)
		requeueBatch(store, itemIDs, err, maxRetries)
		time.Sleep(5 * time.Second)
		return
	}

	slog.Info("notifications fanned out", "events", len(items), "notifications", len(notifications))
}

func requeueBatch(store *repository.Store, itemIDs []int64, cause error, maxRetries int) {
	for _, id := range itemIDs {
		store.SaveNotifyError(id, cause.Error())

		errorCount, err := store.GetNotifyErrorCount(id)
		if err != nil {
			slog.Error("error getting notify error count", "error", err, "news_item_id", id)
			continue
		}

		if errorCount >= maxRetries {
			slog.Warn("change event exceeded max retries, dead-lettering", "news_item_id", id, "error_count", errorCount)
			db.PushToQueue(db.DeadLetterKey, strconv.FormatInt(id, 10))
			continue
		}

		db.PushToQueue(db.NotifyQueueKey, strconv.FormatInt(id, 10))
	}
}
