package entity

import (
	"time"

	"gorm.io/gorm"
)

// Airline is a reference row keyed by the two or three character code that
// prefixes flight numbers
type Airline struct {
	ID        uint
	Code      string
	Name      string
	Country   string
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt
}
