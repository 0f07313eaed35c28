package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Author is a book author, referenced by name in dataset files.
type Author struct {
	ID   int64  `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:255;uniqueIndex" json:"name"`
}

func (a *Author) String() string {
	return a.Name
}

// Category is a book category. Books carry any number of categories
// through the book_categories join table.
type Category struct {
	ID   int64  `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:255;uniqueIndex" json:"name"`
}

func (c *Category) String() string {
	return c.Name
}

// Book is the catalog's central record. Dataset columns map onto its
// fields; Author and Categories are resolved from their names.
type Book struct {
	ID         int64           `gorm:"primaryKey" json:"id"`
	Title      string          `gorm:"size:255" json:"title"`
	AuthorID   *int64          `json:"author_id,omitempty"`
	Author     *Author         `json:"author,omitempty"`
	Price      decimal.Decimal `gorm:"type:decimal(10,2)" json:"price"`
	Published  *time.Time      `json:"published,omitempty"`
	Categories []Category      `gorm:"many2many:book_categories" json:"categories,omitempty"`
}

func (b *Book) String() string {
	return b.Title
}

// Migrate creates or updates the catalog tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Author{}, &Category{}, &Book{})
}
