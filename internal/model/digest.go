package model

import "time"

type Digest struct {
	ID           int64
	UserID       int64
	CompanyCount int
	ItemCount    int
	FromItemID   int64
	ToItemID     int64
	CreatedAt    time.Time
}

type Notification struct {
	ID         int64
	UserID     int64
	CompanyID  int64
	NewsItemID int64
	CreatedAt  time.Time
}
