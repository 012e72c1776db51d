package repository

import (
	"database/sql"
	"rivalwatch/internal/model"

	"github.com/lib/pq"
)

type CompanyRepository struct {
	db *sql.DB
}

func NewCompanyRepository(db *sql.DB) *CompanyRepository {
	return &CompanyRepository{db: db}
}

func (r *CompanyRepository) GetCompany(id int64) (*model.Company, error) {
	var c model.Company
	err := r.db.QueryRow(`
		SELECT id, owner_id, name, created_at
		FROM company
		WHERE id = $1
	`, id).Scan(&c.ID, &c.OwnerID, &c.Name, &c.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	return &c, nil
}

// ListCompanyIDsByOwner is the one batch query behind the owned-set
// cache. Per-company ownership checks must never replace it.
func (r *CompanyRepository) ListCompanyIDsByOwner(ownerID int64) ([]int64, error) {
	rows, err := r.db.Query(`
		SELECT id FROM company
		WHERE owner_id = $1
		ORDER BY id
	`, ownerID)

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

func (r *CompanyRepository) ListCompaniesByIDs(ids []int64, limit, offset int) ([]model.Company, error) {
	rows, err := r.db.Query(`
		SELECT id, owner_id, name, created_at
		FROM company
		WHERE id = ANY($1)
		ORDER BY name
		LIMIT $2 OFFSET $3
	`, pq.Array(ids), limit, offset)

	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanCompanies(rows)
}

func (r *CompanyRepository) CountCompaniesByIDs(ids []int64) (int, error) {
	var total int
	err := r.db.QueryRow(`
		SELECT COUNT(*) FROM company WHERE id = ANY($1)
	`, pq.Array(ids)).Scan(&total)
	return total, err
}

func (r *CompanyRepository) ListGlobalCompanies(limit, offset int) ([]model.Company, error) {
	rows, err := r.db.Query(`
		SELECT id, owner_id, name, created_at
		FROM company
		WHERE owner_id IS NULL
		ORDER BY name
		LIMIT $1 OFFSET $2
	`, limit, offset)

	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanCompanies(rows)
}

func (r *CompanyRepository) CountGlobalCompanies() (int, error) {
	var total int
	err := r.db.QueryRow(`
		SELECT COUNT(*) FROM company WHERE owner_id IS NULL
	`).Scan(&total)
	return total, err
}

// CreateCompany returns false when the (name, owner) pair is already
// taken.
func (r *CompanyRepository) CreateCompany(c *model.Company) (bool, error) {
	err := r.db.QueryRow(`
		INSERT INTO company(owner_id, name)
		VALUES($1, $2)
		ON CONFLICT DO NOTHING
		RETURNING id, created_at
	`, c.OwnerID, c.Name).Scan(&c.ID, &c.CreatedAt)

	if err == sql.ErrNoRows {
		return false, nil
	}

	if err != nil {
		return false, err
	}

	return true, nil
}

// RenameCompany returns false when the new name collides within the
// owner's namespace.
func (r *CompanyRepository) RenameCompany(id int64, name string) (bool, error) {
	_, err := r.db.Exec(`
		UPDATE company SET name = $1 WHERE id = $2
	`, name, id)

	if pqErr, ok := err.(*pq.Error); ok && pqErr.Code.Name() == "unique_violation" {
		return false, nil
	}

	if err != nil {
		return false, err
	}

	return true, nil
}

func (r *CompanyRepository) DeleteCompany(id int64) error {
	_, err := r.db.Exec(`
		DELETE FROM company WHERE id = $1
	`, id)
	return err
}

func scanCompanies(rows *sql.Rows) ([]model.Company, error) {
	var companies []model.Company
	for rows.Next() {
		var c model.Company
		if err := rows.Scan(&c.ID, &c.OwnerID, &c.Name, &c.CreatedAt); err != nil {
			return nil, err
		}
		companies = append(companies, c)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return companies, nil
}
