package packs

import (
	"errors"
	"math/rand"
	"sync"
	"testing"
)

func testPack(guaranteed int, legendary, epic, rare float64) *Pack {
	return &Pack{
		ID:              1,
		Name:            "Test Pack",
		Price:           500,
		GuaranteedCars:  guaranteed,
		ChanceLegendary: legendary,
		ChanceEpic:      epic,
		ChanceRare:      rare,
		IsActive:        true,
	}
}

func entry(carID int64, rarity, weight float64) *PackEntry {
	return &PackEntry{CarID: carID, CarRarity: rarity, DropWeight: weight}
}

func TestValidate(t *testing.T) {
	good := []*PackEntry{entry(1, 8.0, 1)}

	tests := []struct {
		name    string
		pack    *Pack
		entries []*PackEntry
		wantErr bool
	}{
		{"valid", testPack(3, 5, 10, 20), good, false},
		{"zero guaranteed cars", testPack(0, 5, 10, 20), good, true},
		{"negative chance", testPack(3, -1, 10, 20), good, true},
		{"chances over 100", testPack(3, 50, 40, 30), good, true},
		{"empty loot table", testPack(3, 5, 10, 20), nil, true},
		{"zero drop weight", testPack(3, 5, 10, 20), []*PackEntry{entry(1, 8.0, 0)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.pack, tt.entries)
			if tt.wantErr && !errors.Is(err, ErrBadPackConfig) {
				t.Errorf("Validate() = %v, want ErrBadPackConfig", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Validate() = %v, want nil", err)
			}
		})
	}
}

func TestResolveDrawCount(t *testing.T) {
	r := NewResolver(rand.New(rand.NewSource(1)))
	pack := testPack(5, 5, 10, 20)
	entries := []*PackEntry{
		entry(1, 0.5, 1),
		entry(2, 1.8, 2),
		entry(3, 4.0, 3),
		entry(4, 8.0, 5),
	}

	for i := 0; i < 50; i++ {
		drawn, err := r.Resolve(pack, entries)
		if err != nil {
			t.Fatalf("Resolve() error: %v", err)
		}
		// Every tier has at least one eligible car here, so every draw
		// lands.
		if len(drawn) != 5 {
			t.Fatalf("Resolve() returned %d cars, want 5", len(drawn))
		}
	}
}

func TestResolveSkipsEmptyTiers(t *testing.T) {
	r := NewResolver(rand.New(rand.NewSource(2)))
	// Legendary-only draws against a table with no legendary cars: every
	// draw skips.
	pack := testPack(4, 100, 0, 0)
	entries := []*PackEntry{
		entry(1, 8.0, 1),
		entry(2, 6.5, 1),
	}

	drawn, err := r.Resolve(pack, entries)
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if len(drawn) != 0 {
		t.Fatalf("Resolve() returned %d cars from an impossible tier, want 0", len(drawn))
	}
}

func TestResolveRespectsDropWeights(t *testing.T) {
	r := NewResolver(rand.New(rand.NewSource(3)))
	// Common-only pack with a 1:3 weight split. The heavy car should
	// land about 75% of the time.
	pack := testPack(1, 0, 0, 0)
	entries := []*PackEntry{
		entry(1, 8.0, 1),
		entry(2, 8.0, 3),
	}

	const rolls = 100_000
	heavy := 0
	for i := 0; i < rolls; i++ {
		drawn, err := r.Resolve(pack, entries)
		if err != nil {
			t.Fatalf("Resolve() error: %v", err)
		}
		if len(drawn) != 1 {
			t.Fatalf("Resolve() returned %d cars, want 1", len(drawn))
		}
		if drawn[0].Entry.CarID == 2 {
			heavy++
		}
	}

	share := float64(heavy) / rolls
	if share < 0.73 || share > 0.77 {
		t.Errorf("heavy car drawn %.1f%% of the time, want ~75%%", share*100)
	}
}

func TestResolveConcurrentOpenings(t *testing.T) {
	// One resolver serves every handler goroutine, so parallel openings
	// must not corrupt the shared generator. Run under -race.
	r := NewResolver(rand.New(rand.NewSource(5)))
	pack := testPack(5, 5, 10, 20)
	entries := []*PackEntry{
		entry(1, 0.5, 1),
		entry(2, 1.8, 2),
		entry(3, 4.0, 3),
		entry(4, 8.0, 5),
	}

	var wg sync.WaitGroup
	errs := make(chan error, 4)
	for g := 0; g < 4; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 500; i++ {
				drawn, err := r.Resolve(pack, entries)
				if err != nil {
					errs <- err
					return
				}
				if len(drawn) != 5 {
					errs <- errors.New("short opening")
					return
				}
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("concurrent Resolve() error: %v", err)
	}
}

func TestResolveTierCutoffs(t *testing.T) {
	r := NewResolver(rand.New(rand.NewSource(4)))
	// 100% rare tier. The cutoff is 5.0, so the 6.5-rarity car must
	// never appear.
	pack := testPack(1, 0, 0, 100)
	entries := []*PackEntry{
		entry(1, 4.0, 1),
		entry(2, 6.5, 100),
	}

	for i := 0; i < 1000; i++ {
		drawn, err := r.Resolve(pack, entries)
		if err != nil {
			t.Fatalf("Resolve() error: %v", err)
		}
		for _, d := range drawn {
			if d.Entry.CarID == 2 {
				t.Fatal("drew a car outside the rolled tier cutoff")
			}
		}
	}
}
