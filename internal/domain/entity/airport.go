package entity

import (
	"time"

	"gorm.io/gorm"
)

// AirportReference is a reference row used to name airports the provider
// left anonymous
type AirportReference struct {
	ID          uint
	IATA        string
	Name        string
	CityName    string
	CountryCode string
	TzName      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   gorm.DeletedAt
}
