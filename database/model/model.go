// Package model contains the persistent records of the vocabulary store.
package model

import "time"

// User is an account. Password holds the bcrypt hash and never leaves the server.
type User struct {
	Id       string `json:"id" gorm:"primaryKey"`
	Username string `json:"username" gorm:"uniqueIndex;not null"`
	Password string `json:"-" gorm:"not null"`
}

func (User) TableName() string {
	return "users"
}

// VocabularyEntry is a single term with its definition and example sentence,
// owned by exactly one user.
type VocabularyEntry struct {
	Id         string    `json:"id" gorm:"primaryKey"`
	UserId     string    `json:"userId" gorm:"not null;index"`
	Term       string    `json:"term" gorm:"not null"`
	Definition string    `json:"definition" gorm:"not null"`
	Example    string    `json:"example" gorm:"not null"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func (VocabularyEntry) TableName() string {
	return "vocabulary_entries"
}

// EntryFields are the user-editable columns of an entry.
type EntryFields struct {
	Term       string
	Definition string
	Example    string
}
