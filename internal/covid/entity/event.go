package entity

// RefreshEvent asks the background consumer to re-fetch a stale cache entry.
type RefreshEvent struct {
	Key  string
	Name string
}
