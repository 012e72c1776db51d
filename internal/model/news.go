package model

import "time"

type NewsItem struct {
	ID          int64
	CompanyID   int64
	Headline    string
	Detail      string
	URL         string
	Source      string
	PublishedAt time.Time
	FetchedAt   time.Time
}

// NewsItemWithCompany is a news item joined with its company in a
// single round trip. A news item has no visibility of its own, so
// reading one without its company is never useful.
type NewsItemWithCompany struct {
	NewsItem
	Company Company
}

type CompanyNewsCount struct {
	CompanyID   int64
	CompanyName string
	ItemCount   int
}
