package model

import "time"

// Post represents a blog post. DatePosted is set once on creation and
// never updated afterwards.
type Post struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	Title      string    `json:"title" gorm:"size:100;not null"`
	Content    string    `json:"content" gorm:"type:text;not null"`
	DatePosted time.Time `json:"date_posted" gorm:"not null;index"`
	AuthorID   uint      `json:"author_id" gorm:"not null;index"`

	// Relations
	Author User `json:"author" gorm:"foreignKey:AuthorID"`
}
