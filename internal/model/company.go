package model

import "time"

// Company is a tracked competitor. OwnerID is nil for global
// companies, which are visible to every user and owned by no one.
type Company struct {
	ID        int64
	OwnerID   *int64
	Name      string
	CreatedAt time.Time
}

type User struct {
	ID int64
}

type UserPreferences struct {
	UserID               int64
	SubscribedCompanyIDs []int64
}
