package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ngopidibandung/cafe-map-backend/internal/database"
	"github.com/ngopidibandung/cafe-map-backend/internal/models"
)

// CafeRepository handles database operations for cafes
type CafeRepository struct {
	db *sql.DB
}

// NewCafeRepository creates a new cafe repository
func NewCafeRepository(db *sql.DB) *CafeRepository {
	return &CafeRepository{db: db}
}

const cafeColumns = `id, name, address, latitude, longitude, rating,
	operational_hours, connection, wifi_speed, download_speed, upload_speed,
	musala, parking_motor, parking_car, parking_paid, cash_accepted, cashless_accepted,
	service_tax, reference_price, price_range, latte_price, iced_coffee_price, afternoon_tea_set,
	menu_link, instagram, map_url, key_takeaway, notes, comment, image`

// ReplaceAll swaps the stored dataset for cafes in one transaction.
// Input order is kept in the position column.
func (r *CafeRepository) ReplaceAll(ctx context.Context, cafes []models.Cafe, source string) error {
	return database.WithTx(r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM cafes"); err != nil {
			return fmt.Errorf("failed to clear cafes: %w", err)
		}

		stmt, err := tx.PrepareContext(ctx, `INSERT INTO cafes (position, `+cafeColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("failed to prepare cafe insert: %w", err)
		}
		defer stmt.Close()

		for i, c := range cafes {
			var lat, lon sql.NullFloat64
			if c.Coordinates != nil {
				lat = sql.NullFloat64{Float64: c.Coordinates.Latitude, Valid: true}
				lon = sql.NullFloat64{Float64: c.Coordinates.Longitude, Valid: true}
			}
			var rating sql.NullFloat64
			if c.Rating != nil {
				rating = sql.NullFloat64{Float64: *c.Rating, Valid: true}
			}

			_, err := stmt.ExecContext(ctx,
				i+1, c.ID, c.Name, c.Address, lat, lon, rating,
				c.OperationalHours, c.Connection, c.WifiSpeed, c.DownloadSpeed, c.UploadSpeed,
				c.Musala, c.ParkingMotor, c.ParkingCar, c.ParkingPaid, c.CashAccepted, c.CashlessAccepted,
				c.ServiceTax, c.ReferencePrice, c.PriceRange, c.LattePrice, c.IcedCoffeePrice, c.AfternoonTeaSet,
				c.MenuLink, c.Instagram, c.MapURL, c.KeyTakeaway, c.Notes, c.Comment, c.Image,
			)
			if err != nil {
				return fmt.Errorf("failed to insert cafe %d: %w", c.ID, err)
			}
		}

		if _, err := tx.ExecContext(ctx,
			"INSERT INTO dataset_loads (source, cafe_count) VALUES (?, ?)", source, len(cafes)); err != nil {
			return fmt.Errorf("failed to record dataset load: %w", err)
		}

		return nil
	})
}

// List returns every stored cafe in dataset order
func (r *CafeRepository) List(ctx context.Context) ([]models.Cafe, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+cafeColumns+" FROM cafes ORDER BY position")
	if err != nil {
		return nil, fmt.Errorf("failed to query cafes: %w", err)
	}
	defer rows.Close()

	var cafes []models.Cafe
	for rows.Next() {
		c, err := scanCafe(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan cafe: %w", err)
		}
		cafes = append(cafes, *c)
	}

	return cafes, rows.Err()
}

// GetByID retrieves a single cafe; returns nil, nil when it does not exist
func (r *CafeRepository) GetByID(ctx context.Context, id int64) (*models.Cafe, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+cafeColumns+" FROM cafes WHERE id = ?", id)
	c, err := scanCafe(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cafe: %w", err)
	}
	return c, nil
}

// Count returns the number of stored cafes
func (r *CafeRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM cafes").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count cafes: %w", err)
	}
	return n, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCafe(s scanner) (*models.Cafe, error) {
	var c models.Cafe
	var lat, lon, rating sql.NullFloat64

	err := s.Scan(
		&c.ID, &c.Name, &c.Address, &lat, &lon, &rating,
		&c.OperationalHours, &c.Connection, &c.WifiSpeed, &c.DownloadSpeed, &c.UploadSpeed,
		&c.Musala, &c.ParkingMotor, &c.ParkingCar, &c.ParkingPaid, &c.CashAccepted, &c.CashlessAccepted,
		&c.ServiceTax, &c.ReferencePrice, &c.PriceRange, &c.LattePrice, &c.IcedCoffeePrice, &c.AfternoonTeaSet,
		&c.MenuLink, &c.Instagram, &c.MapURL, &c.KeyTakeaway, &c.Notes, &c.Comment, &c.Image,
	)
	if err != nil {
		return nil, err
	}

	if lat.Valid && lon.Valid {
		c.Coordinates = &models.Coordinates{Latitude: lat.Float64, Longitude: lon.Float64}
	}
	if rating.Valid {
		v := rating.Float64
		c.Rating = &v
	}
	return &c, nil
}
