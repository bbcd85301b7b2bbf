package model

import "time"

// LibraryEntry marks a book saved to a user's personal library.
type LibraryEntry struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"library_id"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	BookID    uint      `gorm:"index;not null" json:"book_id"`
	CreatedAt time.Time `json:"created_at"`
}
