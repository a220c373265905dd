// Package packs — service.go holds the shop and opening flow.
package packs

import (
	"context"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/joelcarspotz/carfigures/internal/common"
	"github.com/joelcarspotz/carfigures/internal/features/economy"
	"github.com/joelcarspotz/carfigures/internal/features/garage"
	"github.com/joelcarspotz/carfigures/internal/features/players"
)

// Service manages pack sales and openings.
type Service struct {
	repo     *Repository
	resolver *Resolver
	economy  *economy.Service
	garage   *garage.Service
	players  *players.Service
}

// NewService creates a packs service.
func NewService(repo *Repository, resolver *Resolver, economyService *economy.Service, garageService *garage.Service, playersService *players.Service) *Service {
	return &Service{
		repo:     repo,
		resolver: resolver,
		economy:  economyService,
		garage:   garageService,
		players:  playersService,
	}
}

// Shop returns the packs currently on sale.
func (s *Service) Shop(ctx context.Context) ([]*Pack, error) {
	return s.repo.GetActivePacks(ctx)
}

// Buy purchases one pack by name, debiting its price.
func (s *Service) Buy(ctx context.Context, userID, packName string) (*Pack, error) {
	pack, err := s.repo.FindByName(ctx, packName)
	if err != nil {
		return nil, err
	}
	if pack == nil {
		return nil, common.ErrPackNotFound
	}
	if !pack.AvailableAt(time.Now()) {
		return nil, common.ErrPackExpired
	}

	if err := s.economy.SpendCoins(ctx, userID, pack.Price, "pack_purchase", "Bought "+pack.Name); err != nil {
		return nil, err
	}

	if _, err := s.repo.InsertPurchase(ctx, userID, pack.ID); err != nil {
		// Purchase row failed after the debit. Refund and report.
		if refundErr := s.economy.AddCoins(ctx, userID, pack.Price, "pack_refund", "Refund for "+pack.Name); refundErr != nil {
			log.WithError(refundErr).WithField("user_id", userID).Error("pack refund failed")
		}
		return nil, err
	}

	log.WithFields(log.Fields{
		"user_id": userID,
		"pack":    pack.Name,
		"price":   pack.Price,
	}).Info("Pack purchased")

	return pack, nil
}

// Inventory returns the user's unopened packs.
func (s *Service) Inventory(ctx context.Context, userID string) ([]*UserPack, error) {
	return s.repo.GetUnopened(ctx, userID)
}

// Open opens the user's oldest unopened pack with the given name (or
// the oldest of any pack when name is empty), rolls its contents and
// stores the drawn cars in the garage.
func (s *Service) Open(ctx context.Context, userID, packName string) (*Pack, []*DrawnCar, error) {
	unopened, err := s.repo.GetUnopened(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	var target *UserPack
	for _, u := range unopened {
		if packName == "" || containsFold(u.Pack.Name, packName) {
			target = u
			break
		}
	}
	if target == nil {
		return nil, nil, common.ErrPackNotFound
	}

	// The opened_at stamp is the concurrency gate: only one of two
	// simultaneous opens flips the row.
	opened, err := s.repo.MarkOpened(ctx, target.ID, userID)
	if err != nil {
		return nil, nil, err
	}
	if !opened {
		return nil, nil, common.ErrPackAlreadyOpened
	}

	entries, err := s.repo.GetEntries(ctx, target.PackID)
	if err != nil {
		return nil, nil, err
	}

	drawn, err := s.resolver.Resolve(target.Pack, entries)
	if err != nil {
		return nil, nil, err
	}

	for _, d := range drawn {
		if err := s.garage.AddCar(ctx, userID, d.Entry.CarID, 0, d.Shiny); err != nil {
			log.WithError(err).WithFields(log.Fields{
				"user_id": userID,
				"car_id":  d.Entry.CarID,
			}).Error("failed to store drawn car")
		}
	}

	if err := s.players.RecordPackOpened(ctx, userID); err != nil {
		log.WithError(err).WithField("user_id", userID).Error("pack stats update failed")
	}

	log.WithFields(log.Fields{
		"user_id": userID,
		"pack":    target.Pack.Name,
		"cars":    len(drawn),
	}).Info("Pack opened")

	return target.Pack, drawn, nil
}

// DeactivateExpired is the hourly job closing limited-time packs.
func (s *Service) DeactivateExpired(ctx context.Context) (int64, error) {
	return s.repo.DeactivateExpired(ctx, time.Now())
}

// CreatePack validates and stores a new pack definition.
func (s *Service) CreatePack(ctx context.Context, p *Pack) (int64, error) {
	if p.GuaranteedCars < 1 || p.Price < 0 ||
		p.ChanceLegendary < 0 || p.ChanceEpic < 0 || p.ChanceRare < 0 ||
		p.ChanceLegendary+p.ChanceEpic+p.ChanceRare > 100 {
		return 0, ErrBadPackConfig
	}
	return s.repo.CreatePack(ctx, p)
}

// AllPacks lists every pack for the operator view.
func (s *Service) AllPacks(ctx context.Context) ([]*Pack, error) {
	return s.repo.GetAllPacks(ctx)
}

// SetActive toggles a pack on or off.
func (s *Service) SetActive(ctx context.Context, packID int64, active bool) (bool, error) {
	return s.repo.SetActive(ctx, packID, active)
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
