package blackjack

import (
	"fmt"
	"math/rand"
	"testing"
)

func TestRegistryOneLiveGamePerPlayer(t *testing.T) {
	r := NewRegistry()
	rng := rand.New(rand.NewSource(7))

	var first *Session
	// A natural settles on the deal and never enters the live set, so
	// keep dealing until we get an open game.
	for first == nil {
		s, ok := r.Create("user1", "chan1", 100, rng)
		if !ok {
			t.Fatal("Create refused with no live game")
		}
		if !s.Snapshot().Finished {
			first = s
		}
	}

	if _, ok := r.Create("user1", "chan1", 100, rng); ok {
		t.Fatal("second live game accepted for the same player")
	}

	// Another player is unaffected.
	if _, ok := r.Create("user2", "chan1", 100, rng); !ok {
		t.Fatal("other player's game refused")
	}

	r.Remove(first.ID)
	if _, ok := r.Create("user1", "chan1", 100, rng); !ok {
		t.Fatal("player still blocked after their game was removed")
	}
}

func TestRegistryLookups(t *testing.T) {
	r := NewRegistry()
	rng := rand.New(rand.NewSource(8))

	var s *Session
	for s == nil {
		created, _ := r.Create("user1", "chan1", 100, rng)
		if !created.Snapshot().Finished {
			s = created
		}
	}

	if got, ok := r.Get(s.ID); !ok || got != s {
		t.Fatal("Get by id failed")
	}
	if got, ok := r.GetByUser("user1"); !ok || got != s {
		t.Fatal("GetByUser failed")
	}
	if _, ok := r.Get("01ARZ3NDEKTSV4RRFFQ69G5FAV"); ok {
		t.Fatal("unknown id resolved")
	}

	r.Remove(s.ID)
	if _, ok := r.Get(s.ID); ok {
		t.Fatal("removed session still resolvable")
	}
	if _, ok := r.GetByUser("user1"); ok {
		t.Fatal("removed session still indexed by user")
	}

	// Removing twice is fine.
	r.Remove(s.ID)
}

func TestRegistrySessionIDsAreUnique(t *testing.T) {
	r := NewRegistry()
	rng := rand.New(rand.NewSource(9))

	seen := make(map[string]bool)
	for i := 0; i < 500; i++ {
		s, ok := r.Create(fmt.Sprintf("user%d", i), "chan", 100, rng)
		if !ok || s == nil {
			continue
		}
		if seen[s.ID] {
			t.Fatalf("duplicate session id %s", s.ID)
		}
		seen[s.ID] = true
		r.Remove(s.ID)
	}
}
