// Package garage — repository.go runs all queries against the cars and
// owned_cars tables.
package garage

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository works with the garage tables.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a garage repository.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

const carColumns = `id, name, model, year, horsepower, weight, rarity,
	car_type, is_exclusive, COALESCE(image_url, ''), created_at`

func scanCar(row pgx.Row) (*Car, error) {
	var c Car
	err := row.Scan(
		&c.ID, &c.Name, &c.Model, &c.Year, &c.Horsepower, &c.Weight,
		&c.Rarity, &c.CarType, &c.IsExclusive, &c.ImageURL, &c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// FindByName returns the first catalog car whose name contains the
// query, case-insensitively.
func (r *Repository) FindByName(ctx context.Context, name string) (*Car, error) {
	query := `SELECT ` + carColumns + ` FROM cars WHERE name ILIKE '%' || $1 || '%' ORDER BY id LIMIT 1`
	car, err := scanCar(r.db.QueryRow(ctx, query, name))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find car: %w", err)
	}
	return car, nil
}

// GetRandomCar returns one random non-exclusive catalog car, used by the
// spawner.
func (r *Repository) GetRandomCar(ctx context.Context) (*Car, error) {
	query := `SELECT ` + carColumns + ` FROM cars WHERE NOT is_exclusive ORDER BY random() LIMIT 1`
	car, err := scanCar(r.db.QueryRow(ctx, query))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to pick a car: %w", err)
	}
	return car, nil
}

// AddToCollection inserts one owned car.
func (r *Repository) AddToCollection(ctx context.Context, userID string, carID int64, catchBonus int64, shiny bool) error {
	query := `
		INSERT INTO owned_cars (user_id, car_id, catch_bonus, is_shiny)
		VALUES ($1, $2, $3, $4)
	`
	if _, err := r.db.Exec(ctx, query, userID, carID, catchBonus, shiny); err != nil {
		return fmt.Errorf("failed to add car to collection: %w", err)
	}
	return nil
}

// GetCollection returns the player's owned cars, newest first, with the
// catalog rows attached.
func (r *Repository) GetCollection(ctx context.Context, userID string, limit int) ([]*OwnedCar, error) {
	query := `
		SELECT o.id, o.user_id, o.car_id, o.caught_at, o.catch_bonus,
		       o.is_shiny, o.is_favorite,
		       c.id, c.name, c.model, c.year, c.horsepower, c.weight,
		       c.rarity, c.car_type, c.is_exclusive, COALESCE(c.image_url, ''), c.created_at
		FROM owned_cars o
		JOIN cars c ON c.id = o.car_id
		WHERE o.user_id = $1
		ORDER BY o.caught_at DESC
		LIMIT $2
	`
	rows, err := r.db.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to read collection: %w", err)
	}
	defer rows.Close()

	var owned []*OwnedCar
	for rows.Next() {
		var o OwnedCar
		var c Car
		err := rows.Scan(
			&o.ID, &o.UserID, &o.CarID, &o.CaughtAt, &o.CatchBonus,
			&o.IsShiny, &o.IsFavorite,
			&c.ID, &c.Name, &c.Model, &c.Year, &c.Horsepower, &c.Weight,
			&c.Rarity, &c.CarType, &c.IsExclusive, &c.ImageURL, &c.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan owned car: %w", err)
		}
		o.Car = &c
		owned = append(owned, &o)
	}
	return owned, rows.Err()
}

// CountCollection returns the total cars a player owns.
func (r *Repository) CountCollection(ctx context.Context, userID string) (int, error) {
	var n int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM owned_cars WHERE user_id = $1`, userID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count collection: %w", err)
	}
	return n, nil
}
