package model

// UserStore provides account persistence.
type UserStore interface {
	CreateUser(username, passwordHash string) (int64, error)
	UserByUsername(username string) (*User, error)
	UserCount() (int64, error)
}

// SearchStore provides saved-search persistence for one user at a time.
type SearchStore interface {
	UpsertSearch(userID int64, cardName, region string, report *PriceReport, imageURL, updated string) error
	SearchByCard(userID int64, cardName string) (*SavedResult, error)
	UpdateSearchResult(userID int64, cardName string, report *PriceReport, imageURL, updated string) error
	ConfirmImage(userID int64, cardName, imageURL, updated string) error
	ListSearches(userID int64) ([]SavedResult, error)
}

// Store is the combined persistence contract required by the HTTP API.
type Store interface {
	UserStore
	SearchStore
}
