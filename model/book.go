package model

import "time"

type Book struct {
	ID            uint      `gorm:"primaryKey;autoIncrement" json:"book_id"`
	UserID        *uint     `gorm:"index" json:"user_id"` // nil for imported catalog books
	Title         string    `gorm:"size:255;not null" json:"title"`
	Author        string    `gorm:"size:255" json:"author"`
	CoverImageURL string    `gorm:"size:500" json:"cover_image_url"`
	MainCategory  string    `gorm:"size:100" json:"main_category"`
	SubCategory   string    `gorm:"size:200" json:"sub_category"`
	Description   string    `gorm:"type:text" json:"description,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}
