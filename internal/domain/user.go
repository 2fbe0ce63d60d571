package domain

// User is a registered account that owns zero or more video games.
type User struct {
	ID            int64  `json:"id" db:"id"`
	Name          string `json:"name" db:"name"`
	Email         string `json:"email" db:"email"`
	StreetAddress string `json:"street_address" db:"street_address"`

	// HashedPassword is never serialized in API responses.
	HashedPassword string `json:"-" db:"hashed_password"`
}
