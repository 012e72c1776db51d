package repository

import (
	"database/sql"
	"rivalwatch/internal/model"

	"github.com/lib/pq"
)

type PrefsRepository struct {
	db *sql.DB
}

func NewPrefsRepository(db *sql.DB) *PrefsRepository {
	return &PrefsRepository{db: db}
}

// GetUserPreferences never returns nil: a user with no rows simply
// has an empty subscription list. Stored IDs may be stale or point at
// companies the user cannot see; callers must re-validate.
func (r *PrefsRepository) GetUserPreferences(userID int64) (*model.UserPreferences, error) {
	rows, err := r.db.Query(`
		SELECT company_id FROM user_subscription
		WHERE user_id = $1
		ORDER BY position ASC
	`, userID)

	if err != nil {
		return nil, err
	}
	defer rows.Close()

	prefs := &model.UserPreferences{UserID: userID}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		prefs.SubscribedCompanyIDs = append(prefs.SubscribedCompanyIDs, id)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return prefs, nil
}

// SubscribersByCompanyIDs is the indexed preferences scan used by the
// watcher fan-out: one pass for a whole batch of companies.
func (r *PrefsRepository) SubscribersByCompanyIDs(companyIDs []int64) (map[int64][]int64, error) {
	rows, err := r.db.Query(`
		SELECT company_id, user_id FROM user_subscription
		WHERE company_id = ANY($1)
	`, pq.Array(companyIDs))

	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[int64][]int64)
	for rows.Next() {
		var companyID, userID int64
		if err := rows.Scan(&companyID, &userID); err != nil {
			return nil, err
		}
		result[companyID] = append(result[companyID], userID)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func (r *PrefsRepository) ReplaceSubscriptions(userID int64, companyIDs []int64) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		DELETE FROM user_subscription WHERE user_id = $1
	`, userID)
	if err != nil {
		return err
	}

	if len(companyIDs) > 0 {
		_, err = tx.Exec(`
			INSERT INTO user_subscription(user_id, company_id, position)
			SELECT $1, id, ord - 1
			FROM unnest($2::bigint[]) WITH ORDINALITY AS s(id, ord)
			ON CONFLICT (user_id, company_id) DO NOTHING
		`, userID, pq.Array(companyIDs))
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}
