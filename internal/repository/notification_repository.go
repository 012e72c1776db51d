package repository

import (
	"database/sql"
	"rivalwatch/internal/model"

	"github.com/lib/pq"
)

type NotificationRepository struct {
	db *sql.DB
}

func NewNotificationRepository(db *sql.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// SaveNotifications inserts a resolved fan-out batch in one statement.
func (r *NotificationRepository) SaveNotifications(notifications []model.Notification) error {
	if len(notifications) == 0 {
		return nil
	}

	userIDs := make([]int64, len(notifications))
	companyIDs := make([]int64, len(notifications))
	itemIDs := make([]int64, len(notifications))
	for i, n := range notifications {
		userIDs[i] = n.UserID
		companyIDs[i] = n.CompanyID
		itemIDs[i] = n.NewsItemID
	}

	_, err := r.db.Exec(`
		INSERT INTO notification(user_id, company_id, news_item_id)
		SELECT unnest($1::bigint[]), unnest($2::bigint[]), unnest($3::bigint[])
	`, pq.Array(userIDs), pq.Array(companyIDs), pq.Array(itemIDs))
	return err
}

func (r *NotificationRepository) ListNotificationsByUser(userID int64, limit, offset int) ([]model.Notification, error) {
	rows, err := r.db.Query(`
		SELECT id, user_id, company_id, news_item_id, created_at
		FROM notification
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, userID, limit, offset)

	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifications []model.Notification
	for rows.Next() {
		var n model.Notification
		err := rows.Scan(&n.ID, &n.UserID, &n.CompanyID, &n.NewsItemID, &n.CreatedAt)
		if err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return notifications, nil
}

func (r *NotificationRepository) SaveNotifyError(newsItemID int64, errMsg string) error {
	_, err := r.db.Exec(`
		INSERT INTO notify_error(news_item_id, error_message)
		VALUES($1, $2)
	`, newsItemID, errMsg)
	return err
}

func (r *NotificationRepository) GetNotifyErrorCount(newsItemID int64) (int, error) {
	var count int
	err := r.db.QueryRow(`
		SELECT COUNT(*) FROM notify_error
		WHERE news_item_id = $1
	`, newsItemID).Scan(&count)
	return count, err
}
