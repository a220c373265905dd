package garage

import (
	"context"

	log "github.com/sirupsen/logrus"
)

// Service manages catalog lookups and player collections.
type Service struct {
	repo *Repository
}

// NewService creates a garage service.
func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// FindCar looks up a catalog car by (partial) name.
func (s *Service) FindCar(ctx context.Context, name string) (*Car, error) {
	return s.repo.FindByName(ctx, name)
}

// RandomCar picks one spawnable catalog car.
func (s *Service) RandomCar(ctx context.Context) (*Car, error) {
	return s.repo.GetRandomCar(ctx)
}

// AddCar records a caught or pack-drawn car in the player's garage.
func (s *Service) AddCar(ctx context.Context, userID string, carID int64, catchBonus int64, shiny bool) error {
	if err := s.repo.AddToCollection(ctx, userID, carID, catchBonus, shiny); err != nil {
		return err
	}
	log.WithFields(log.Fields{
		"user_id": userID,
		"car_id":  carID,
		"shiny":   shiny,
	}).Info("Car added to garage")
	return nil
}

// Collection returns the player's garage, newest first.
func (s *Service) Collection(ctx context.Context, userID string, limit int) ([]*OwnedCar, error) {
	return s.repo.GetCollection(ctx, userID, limit)
}

// CollectionSize returns how many cars the player owns in total.
func (s *Service) CollectionSize(ctx context.Context, userID string) (int, error) {
	return s.repo.CountCollection(ctx, userID)
}
