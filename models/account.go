package models

import (
	"encoding/json"
	"time"
)

// Account is a registered user able to own lists.
type Account struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"` // bcrypt hash, never exposed over the API
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// accountStorage includes the password hash so it survives the JSON round trip
// to disk, unlike the API representation above.
type accountStorage struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"passwordHash"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// MarshalStorage serializes the account for file persistence.
func (a Account) MarshalStorage() ([]byte, error) {
	return json.Marshal(accountStorage(a))
}

// UnmarshalStorage restores an account from its persisted form.
func (a *Account) UnmarshalStorage(data []byte) error {
	var s accountStorage
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*a = Account(s)
	return nil
}
