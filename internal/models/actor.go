package model

// Actor identifies who performs a write. It is stored with every audit record.
type Actor struct {
	UserID string
}
