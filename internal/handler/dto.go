package handler

type CompanyResponse struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Global    bool   `json:"global"`
	CreatedAt string `json:"created_at"`
}

type CompaniesResponse struct {
	Companies []CompanyResponse `json:"companies"`
	Total     int               `json:"total"`
	Limit     int               `json:"limit"`
	Offset    int               `json:"offset"`
}

type CompanyStatsResponse struct {
	CompanyID   int64  `json:"company_id"`
	CompanyName string `json:"company_name"`
	NewsCount   int    `json:"news_count"`
}

type StatsResponse struct {
	Stats []CompanyStatsResponse `json:"stats"`
}

type CreateCompanyRequest struct {
	Name string `json:"name"`
}

type RenameCompanyRequest struct {
	Name string `json:"name"`
}

type NewsItemResponse struct {
	ID          int64  `json:"id"`
	CompanyID   int64  `json:"company_id"`
	CompanyName string `json:"company_name"`
	Headline    string `json:"headline"`
	Detail      string `json:"detail"`
	URL         string `json:"url"`
	Source      string `json:"source"`
	PublishedAt string `json:"published_at"`
}

type NewsFeedResponse struct {
	Items  []NewsItemResponse `json:"items"`
	Total  int                `json:"total"`
	Limit  int                `json:"limit"`
	Offset int                `json:"offset"`
}

type SubscriptionsResponse struct {
	CompanyIDs []int64 `json:"company_ids"`
}

type ReplaceSubscriptionsRequest struct {
	CompanyIDs []int64 `json:"company_ids"`
}

type DigestResponse struct {
	ID           int64  `json:"id"`
	CompanyCount int    `json:"company_count"`
	ItemCount    int    `json:"item_count"`
	FromItemID   int64  `json:"from_item_id"`
	ToItemID     int64  `json:"to_item_id"`
	CreatedAt    string `json:"created_at"`
}

type DigestsResponse struct {
	Digests []DigestResponse `json:"digests"`
	Total   int              `json:"total"`
	Limit   int              `json:"limit"`
	Offset  int              `json:"offset"`
}

type NotificationResponse struct {
	ID         int64  `json:"id"`
	CompanyID  int64  `json:"company_id"`
	NewsItemID int64  `json:"news_item_id"`
	CreatedAt  string `json:"created_at"`
}
