package spawn

import (
	"context"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/joelcarspotz/carfigures/internal/config"
	"github.com/joelcarspotz/carfigures/internal/features/garage"
	"github.com/joelcarspotz/carfigures/internal/random"
)

const shinyChance = 0.05

// ActiveSpawn is a car waiting to be caught in a channel.
type ActiveSpawn struct {
	ID        string
	Car       *garage.Car
	SpawnedAt time.Time
}

// CatchResult is what the player gets for a successful catch.
type CatchResult struct {
	Car    *garage.Car
	Reward int64
	Bonus  int64
	Shiny  bool
}

// Service runs the spawn lifecycle. At most one car is active per
// channel; a catch removes it atomically so two players cannot both
// claim the same spawn.
type Service struct {
	garage *garage.Service
	cfg    *config.Config
	rng    *rand.Rand

	mu     sync.Mutex
	active map[string]*ActiveSpawn // keyed by channel id
}

// NewService creates a spawn service.
func NewService(garageService *garage.Service, cfg *config.Config, rng *rand.Rand) *Service {
	return &Service{
		garage: garageService,
		cfg:    cfg,
		rng:    rng,
		active: make(map[string]*ActiveSpawn),
	}
}

// Spawn picks a random car and makes it active in the channel. Returns
// nil when the channel already has a live spawn or the catalog is empty.
func (s *Service) Spawn(ctx context.Context, channelID string) (*ActiveSpawn, error) {
	s.mu.Lock()
	if _, busy := s.active[channelID]; busy {
		s.mu.Unlock()
		return nil, nil
	}
	s.mu.Unlock()

	car, err := s.garage.RandomCar(ctx)
	if err != nil {
		return nil, err
	}
	if car == nil {
		return nil, nil
	}

	spawn := &ActiveSpawn{
		ID:        uuid.NewString(),
		Car:       car,
		SpawnedAt: time.Now(),
	}

	s.mu.Lock()
	// Re-check: another spawn may have landed while we queried.
	if _, busy := s.active[channelID]; busy {
		s.mu.Unlock()
		return nil, nil
	}
	s.active[channelID] = spawn
	s.mu.Unlock()

	log.WithFields(log.Fields{
		"spawn_id":   spawn.ID,
		"channel_id": channelID,
		"car":        car.Name,
	}).Info("Car spawned")

	return spawn, nil
}

// TryCatch resolves a !catch guess. Returns (result, matched):
// matched=false means the name was wrong or nothing is spawned.
func (s *Service) TryCatch(ctx context.Context, channelID, userID, guess string) (*CatchResult, bool, error) {
	s.mu.Lock()
	spawn, ok := s.active[channelID]
	if !ok || !nameMatches(spawn.Car.Name, guess) {
		s.mu.Unlock()
		return nil, false, nil
	}
	delete(s.active, channelID)
	s.mu.Unlock()

	s.mu.Lock()
	bonus := s.cfg.CatchBonusMin + s.rng.Int63n(s.cfg.CatchBonusMax-s.cfg.CatchBonusMin+1)
	shiny := s.rng.Float64() < shinyChance
	s.mu.Unlock()

	reward := s.cfg.CatchRewardBase + bonus
	if reward < 0 {
		reward = 0
	}

	if err := s.garage.AddCar(ctx, userID, spawn.Car.ID, bonus, shiny); err != nil {
		return nil, false, err
	}

	log.WithFields(log.Fields{
		"spawn_id": spawn.ID,
		"user_id":  userID,
		"car":      spawn.Car.Name,
		"reward":   reward,
		"shiny":    shiny,
	}).Info("Car caught")

	return &CatchResult{Car: spawn.Car, Reward: reward, Bonus: bonus, Shiny: shiny}, true, nil
}

// Common lines show up more often than the snarky ones.
var (
	announcements = []string{
		"🚗 A wild car appeared!",
		"🏁 Something just rolled into the channel!",
		"💨 Hear that engine? A car is here!",
		"🛞 Fresh rubber on the road. Catch it!",
	}
	announceWeights = []float64{4, 3, 2, 1}

	taunts = []string{
		"❌ Nope, that's not it. Look closer!",
		"❌ Wrong car! The badge says otherwise.",
		"❌ Not even close. Check the grille again.",
		"❌ That guess stalled at the start line.",
	}
	tauntWeights = []float64{4, 3, 2, 1}
)

// AnnounceLine picks the headline for a spawn announcement.
func (s *Service) AnnounceLine() string {
	return s.pick(announcements, announceWeights)
}

// Taunt picks the reply to a wrong guess.
func (s *Service) Taunt() string {
	return s.pick(taunts, tauntWeights)
}

func (s *Service) pick(lines []string, weights []float64) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	line, err := random.Weighted(s.rng, lines, weights)
	if err != nil {
		return lines[0]
	}
	return line
}

// HasActive reports whether a car is waiting in the channel.
func (s *Service) HasActive(channelID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.active[channelID]
	return ok
}

func nameMatches(carName, guess string) bool {
	return strings.EqualFold(strings.TrimSpace(carName), strings.TrimSpace(guess))
}
