// Package models defines the catalog database schema: books, authors and
// categories, mapped through GORM.
package models
