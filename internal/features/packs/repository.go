// Package packs — repository.go runs all queries against the packs,
// pack_entries and user_packs tables.
package packs

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository works with the pack tables.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a packs repository.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

const packColumns = `id, name, COALESCE(description, ''), price, guaranteed_cars,
	chance_legendary, chance_epic, chance_rare, is_active,
	available_from, available_until, created_at`

func scanPack(row pgx.Row) (*Pack, error) {
	var p Pack
	err := row.Scan(
		&p.ID, &p.Name, &p.Description, &p.Price, &p.GuaranteedCars,
		&p.ChanceLegendary, &p.ChanceEpic, &p.ChanceRare, &p.IsActive,
		&p.AvailableFrom, &p.AvailableUntil, &p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetActivePacks returns the packs currently on sale.
func (r *Repository) GetActivePacks(ctx context.Context) ([]*Pack, error) {
	query := `
		SELECT ` + packColumns + `
		FROM packs
		WHERE is_active
		  AND (available_from IS NULL OR available_from <= now())
		  AND (available_until IS NULL OR available_until >= now())
		ORDER BY price
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to read the shop: %w", err)
	}
	defer rows.Close()

	var packs []*Pack
	for rows.Next() {
		p, err := scanPack(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan pack: %w", err)
		}
		packs = append(packs, p)
	}
	return packs, rows.Err()
}

// GetAllPacks returns every pack, active or not. Operator listing.
func (r *Repository) GetAllPacks(ctx context.Context) ([]*Pack, error) {
	rows, err := r.db.Query(ctx, `SELECT `+packColumns+` FROM packs ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list packs: %w", err)
	}
	defer rows.Close()

	var packs []*Pack
	for rows.Next() {
		p, err := scanPack(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan pack: %w", err)
		}
		packs = append(packs, p)
	}
	return packs, rows.Err()
}

// FindByName returns an active pack by (partial) name.
func (r *Repository) FindByName(ctx context.Context, name string) (*Pack, error) {
	query := `SELECT ` + packColumns + ` FROM packs WHERE is_active AND name ILIKE '%' || $1 || '%' ORDER BY id LIMIT 1`
	p, err := scanPack(r.db.QueryRow(ctx, query, name))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find pack: %w", err)
	}
	return p, nil
}

// GetEntries returns a pack's loot table joined with car data.
func (r *Repository) GetEntries(ctx context.Context, packID int64) ([]*PackEntry, error) {
	query := `
		SELECT e.id, e.pack_id, e.car_id, e.drop_weight,
		       c.name, c.rarity, c.year
		FROM pack_entries e
		JOIN cars c ON c.id = e.car_id
		WHERE e.pack_id = $1
	`
	rows, err := r.db.Query(ctx, query, packID)
	if err != nil {
		return nil, fmt.Errorf("failed to read loot table: %w", err)
	}
	defer rows.Close()

	var entries []*PackEntry
	for rows.Next() {
		var e PackEntry
		err := rows.Scan(&e.ID, &e.PackID, &e.CarID, &e.DropWeight,
			&e.CarName, &e.CarRarity, &e.CarYear)
		if err != nil {
			return nil, fmt.Errorf("failed to scan loot entry: %w", err)
		}
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}

// InsertPurchase records one bought pack and returns its id.
func (r *Repository) InsertPurchase(ctx context.Context, userID string, packID int64) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx,
		`INSERT INTO user_packs (user_id, pack_id) VALUES ($1, $2) RETURNING id`,
		userID, packID,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to record purchase: %w", err)
	}
	return id, nil
}

// GetUnopened returns the user's unopened packs, oldest first.
func (r *Repository) GetUnopened(ctx context.Context, userID string) ([]*UserPack, error) {
	query := `
		SELECT u.id, u.user_id, u.pack_id, u.purchased_at, u.opened_at,
		       p.id, p.name, COALESCE(p.description, ''), p.price, p.guaranteed_cars,
		       p.chance_legendary, p.chance_epic, p.chance_rare, p.is_active,
		       p.available_from, p.available_until, p.created_at
		FROM user_packs u
		JOIN packs p ON p.id = u.pack_id
		WHERE u.user_id = $1 AND u.opened_at IS NULL
		ORDER BY u.purchased_at
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to read inventory: %w", err)
	}
	defer rows.Close()

	var out []*UserPack
	for rows.Next() {
		var u UserPack
		var p Pack
		err := rows.Scan(
			&u.ID, &u.UserID, &u.PackID, &u.PurchasedAt, &u.OpenedAt,
			&p.ID, &p.Name, &p.Description, &p.Price, &p.GuaranteedCars,
			&p.ChanceLegendary, &p.ChanceEpic, &p.ChanceRare, &p.IsActive,
			&p.AvailableFrom, &p.AvailableUntil, &p.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user pack: %w", err)
		}
		u.Pack = &p
		out = append(out, &u)
	}
	return out, rows.Err()
}

// MarkOpened stamps a purchase as opened. Only flips unopened rows, so
// the boolean return catches a double open.
func (r *Repository) MarkOpened(ctx context.Context, userPackID int64, userID string) (bool, error) {
	tag, err := r.db.Exec(ctx,
		`UPDATE user_packs SET opened_at = now() WHERE id = $1 AND user_id = $2 AND opened_at IS NULL`,
		userPackID, userID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to mark pack opened: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// DeactivateExpired switches off limited-time packs whose window has
// closed. Returns how many were deactivated; the cron job logs it.
func (r *Repository) DeactivateExpired(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx,
		`UPDATE packs SET is_active = FALSE WHERE is_active AND available_until IS NOT NULL AND available_until < $1`,
		now,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to deactivate expired packs: %w", err)
	}
	return tag.RowsAffected(), nil
}

// CreatePack inserts a pack definition. Operator-only.
func (r *Repository) CreatePack(ctx context.Context, p *Pack) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO packs (name, description, price, guaranteed_cars,
			chance_legendary, chance_epic, chance_rare, is_active,
			available_from, available_until)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`,
		p.Name, p.Description, p.Price, p.GuaranteedCars,
		p.ChanceLegendary, p.ChanceEpic, p.ChanceRare, p.IsActive,
		p.AvailableFrom, p.AvailableUntil,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to create pack: %w", err)
	}
	return id, nil
}

// SetActive toggles a pack by id. Operator-only.
func (r *Repository) SetActive(ctx context.Context, packID int64, active bool) (bool, error) {
	tag, err := r.db.Exec(ctx, `UPDATE packs SET is_active = $2 WHERE id = $1`, packID, active)
	if err != nil {
		return false, fmt.Errorf("failed to toggle pack: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}
