package repository

import "database/sql"

// Store bundles the repositories into the one value the resolver and
// handlers consume, so every call site shares the same entity reads.
type Store struct {
	*CompanyRepository
	*NewsRepository
	*PrefsRepository
	*DigestRepository
	*NotificationRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		CompanyRepository:      NewCompanyRepository(db),
		NewsRepository:         NewNewsRepository(db),
		PrefsRepository:        NewPrefsRepository(db),
		DigestRepository:       NewDigestRepository(db),
		NotificationRepository: NewNotificationRepository(db),
	}
}
