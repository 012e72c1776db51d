package repository

import (
	"database/sql"
	"rivalwatch/internal/model"

	"github.com/lib/pq"
)

type NewsRepository struct {
	db *sql.DB
}

func NewNewsRepository(db *sql.DB) *NewsRepository {
	return &NewsRepository{db: db}
}

// GetNewsItemWithCompany fetches the item and its company in one
// round trip; the item's visibility is entirely the company's.
func (r *NewsRepository) GetNewsItemWithCompany(id int64) (*model.NewsItemWithCompany, error) {
	var n model.NewsItemWithCompany
	err := r.db.QueryRow(`
		SELECT n.id, n.company_id, n.headline, n.detail, n.url, n.source, n.published_at, n.fetched_at,
			c.id, c.owner_id, c.name, c.created_at
		FROM news_item n
		JOIN company c ON c.id = n.company_id
		WHERE n.id = $1
	`, id).Scan(
		&n.ID, &n.CompanyID, &n.Headline, &n.Detail, &n.URL, &n.Source, &n.PublishedAt, &n.FetchedAt,
		&n.Company.ID, &n.Company.OwnerID, &n.Company.Name, &n.Company.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	return &n, nil
}

func (r *NewsRepository) ListNewsByCompanyIDs(ids []int64, limit, offset int) ([]model.NewsItemWithCompany, error) {
	rows, err := r.db.Query(`
		SELECT n.id, n.company_id, n.headline, n.detail, n.url, n.source, n.published_at, n.fetched_at,
			c.id, c.owner_id, c.name, c.created_at
		FROM news_item n
		JOIN company c ON c.id = n.company_id
		WHERE n.company_id = ANY($1)
		ORDER BY n.published_at DESC
		LIMIT $2 OFFSET $3
	`, pq.Array(ids), limit, offset)

	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanNewsWithCompany(rows)
}

func (r *NewsRepository) CountNewsByCompanyIDs(ids []int64) (int, error) {
	var total int
	err := r.db.QueryRow(`
		SELECT COUNT(*) FROM news_item WHERE company_id = ANY($1)
	`, pq.Array(ids)).Scan(&total)
	return total, err
}

func (r *NewsRepository) ListGlobalNews(limit, offset int) ([]model.NewsItemWithCompany, error) {
	rows, err := r.db.Query(`
		SELECT n.id, n.company_id, n.headline, n.detail, n.url, n.source, n.published_at, n.fetched_at,
			c.id, c.owner_id, c.name, c.created_at
		FROM news_item n
		JOIN company c ON c.id = n.company_id
		WHERE c.owner_id IS NULL
		ORDER BY n.published_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)

	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanNewsWithCompany(rows)
}

func (r *NewsRepository) CountGlobalNews() (int, error) {
	var total int
	err := r.db.QueryRow(`
		SELECT COUNT(*) FROM news_item n
		JOIN company c ON c.id = n.company_id
		WHERE c.owner_id IS NULL
	`).Scan(&total)
	return total, err
}

func (r *NewsRepository) CountNewsByCompany(ids []int64) ([]model.CompanyNewsCount, error) {
	rows, err := r.db.Query(`
		SELECT c.id, c.name, COUNT(n.id)
		FROM company c
		LEFT JOIN news_item n ON n.company_id = c.id
		WHERE c.id = ANY($1)
		GROUP BY c.id, c.name
		ORDER BY c.name
	`, pq.Array(ids))

	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanNewsCounts(rows)
}

func (r *NewsRepository) CountGlobalNewsByCompany() ([]model.CompanyNewsCount, error) {
	rows, err := r.db.Query(`
		SELECT c.id, c.name, COUNT(n.id)
		FROM company c
		LEFT JOIN news_item n ON n.company_id = c.id
		WHERE c.owner_id IS NULL
		GROUP BY c.id, c.name
		ORDER BY c.name
	`)

	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanNewsCounts(rows)
}

func (r *NewsRepository) ListNewsByIDs(ids []int64) ([]model.NewsItem, error) {
	rows, err := r.db.Query(`
		SELECT id, company_id, headline, detail, url, source, published_at, fetched_at
		FROM news_item
		WHERE id = ANY($1)
		ORDER BY id
	`, pq.Array(ids))

	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []model.NewsItem
	for rows.Next() {
		var n model.NewsItem
		err := rows.Scan(&n.ID, &n.CompanyID, &n.Headline, &n.Detail, &n.URL, &n.Source, &n.PublishedAt, &n.FetchedAt)
		if err != nil {
			return nil, err
		}
		items = append(items, n)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}

// ListNewsSince returns items newer than the watermark for the digest
// builder, oldest first so the caller can advance the watermark.
func (r *NewsRepository) ListNewsSince(companyIDs []int64, fromID int64) ([]model.NewsItem, error) {
	rows, err := r.db.Query(`
		SELECT id, company_id, headline, detail, url, source, published_at, fetched_at
		FROM news_item
		WHERE company_id = ANY($1) AND id > $2
		ORDER BY id ASC
	`, pq.Array(companyIDs), fromID)

	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []model.NewsItem
	for rows.Next() {
		var n model.NewsItem
		err := rows.Scan(&n.ID, &n.CompanyID, &n.Headline, &n.Detail, &n.URL, &n.Source, &n.PublishedAt, &n.FetchedAt)
		if err != nil {
			return nil, err
		}
		items = append(items, n)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}

func scanNewsWithCompany(rows *sql.Rows) ([]model.NewsItemWithCompany, error) {
	var items []model.NewsItemWithCompany
	for rows.Next() {
		var n model.NewsItemWithCompany
		err := rows.Scan(
			&n.ID, &n.CompanyID, &n.Headline, &n.Detail, &n.URL, &n.Source, &n.PublishedAt, &n.FetchedAt,
			&n.Company.ID, &n.Company.OwnerID, &n.Company.Name, &n.Company.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		items = append(items, n)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}

func scanNewsCounts(rows *sql.Rows) ([]model.CompanyNewsCount, error) {
	var counts []model.CompanyNewsCount
	for rows.Next() {
		var c model.CompanyNewsCount
		if err := rows.Scan(&c.CompanyID, &c.CompanyName, &c.ItemCount); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return counts, nil
}
