package db

import "time"

// Account is a row of the accounts table.
type Account struct {
	ID           uint64
	Email        string
	FirstName    string
	LastName     string
	Mobile       string
	PasswordHash []byte
	CreateTime   time.Time
	UpdateTime   time.Time
}

// Note is a row of the notes table.
type Note struct {
	ID         uint64
	AccountID  uint64
	Body       string
	CreateTime time.Time
	UpdateTime time.Time
}
