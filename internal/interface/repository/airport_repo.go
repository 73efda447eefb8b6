package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"flightstatus-service/internal/domain/entity"
	"flightstatus-service/internal/domain/repository"

	"gorm.io/gorm"
)

// GormAirportRepository implements the AirportRepository interface
type GormAirportRepository struct {
	db *gorm.DB
}

// NewGormAirportRepository creates a new GORM airport repository
func NewGormAirportRepository(db *gorm.DB) repository.AirportRepository {
	return &GormAirportRepository{
		db: db,
	}
}

// Airports GORM model for database mapping
type Airports struct {
	ID          uint           `gorm:"primaryKey"`
	IATA        string         `gorm:"column:iata;unique"`
	Name        string         `gorm:"column:name"`
	CityName    string         `gorm:"column:city_name"`
	CountryCode string         `gorm:"column:country_code"`
	TzName      string         `gorm:"column:tz_name"`
	DeletedAt   gorm.DeletedAt `gorm:"index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName overrides the default table name
func (Airports) TableName() string {
	return "m_airports"
}

// GetByIATA finds an airport by its three-letter code
func (r *GormAirportRepository) GetByIATA(ctx context.Context, iata string) (*entity.AirportReference, error) {
	var airport Airports
	result := r.db.WithContext(ctx).Where("iata = ?", strings.ToUpper(iata)).First(&airport)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, entity.ErrReferenceNotFound
	}
	if result.Error != nil {
		return nil, fmt.Errorf("failed to get airport %s: %w", iata, result.Error)
	}

	return &entity.AirportReference{
		ID:          airport.ID,
		IATA:        airport.IATA,
		Name:        airport.Name,
		CityName:    airport.CityName,
		CountryCode: airport.CountryCode,
		TzName:      airport.TzName,
		CreatedAt:   airport.CreatedAt,
		UpdatedAt:   airport.UpdatedAt,
		DeletedAt:   airport.DeletedAt,
	}, nil
}
