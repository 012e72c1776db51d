package repository

import (
	"database/sql"
	"rivalwatch/internal/model"
)

type DigestRepository struct {
	db *sql.DB
}

func NewDigestRepository(db *sql.DB) *DigestRepository {
	return &DigestRepository{db: db}
}

// GetLastItemID is the per-user watermark: the newest news item id
// covered by the user's previous digest run.
func (r *DigestRepository) GetLastItemID(userID int64) (int64, error) {
	var id int64
	err := r.db.QueryRow(`
		SELECT COALESCE(MAX(to_item_id), 0) FROM digest WHERE user_id = $1
	`, userID).Scan(&id)
	return id, err
}

// ListDigestUserIDs returns every user the digest job must consider:
// anyone who owns a company or holds a subscription.
func (r *DigestRepository) ListDigestUserIDs() ([]int64, error) {
	rows, err := r.db.Query(`
		SELECT DISTINCT owner_id FROM company WHERE owner_id IS NOT NULL
		UNION
		SELECT DISTINCT user_id FROM user_subscription
		ORDER BY 1
	`)

	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return ids, nil
}

func (r *DigestRepository) SaveDigest(d *model.Digest) error {
	return r.db.QueryRow(`
		INSERT INTO digest(user_id, company_count, item_count, from_item_id, to_item_id)
		VALUES($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, d.UserID, d.CompanyCount, d.ItemCount, d.FromItemID, d.ToItemID).Scan(&d.ID, &d.CreatedAt)
}

func (r *DigestRepository) ListDigestsByUser(userID int64, limit, offset int) ([]model.Digest, error) {
	rows, err := r.db.Query(`
		SELECT id, user_id, company_count, item_count, from_item_id, to_item_id, created_at
		FROM digest
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, userID, limit, offset)

	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var digests []model.Digest
	for rows.Next() {
		var d model.Digest
		err := rows.Scan(&d.ID, &d.UserID, &d.CompanyCount, &d.ItemCount, &d.FromItemID, &d.ToItemID, &d.CreatedAt)
		if err != nil {
			return nil, err
		}
		digests = append(digests, d)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return digests, nil
}

func (r *DigestRepository) CountDigestsByUser(userID int64) (int, error) {
	var total int
	err := r.db.QueryRow(`
		SELECT COUNT(*) FROM digest WHERE user_id = $1
	`, userID).Scan(&total)
	return total, err
}
