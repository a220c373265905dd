// Package spawn makes cars appear in busy channels. The tracker counts
// guild messages and decides when a channel has earned a spawn.
package spawn

import (
	"sync"
	"time"
)

type guildState struct {
	messages   int
	lastSpawn  time.Time
	members    map[string]struct{} // distinct authors since last spawn
}

// Tracker counts messages per guild and signals when the spawn
// conditions are met. Safe for concurrent use from the gateway handler.
type Tracker struct {
	mu       sync.Mutex
	guilds   map[string]*guildState
	thresh   int
	minUsers int
	cooldown time.Duration
}

// NewTracker creates a tracker. A spawn needs thresh messages from at
// least minUsers distinct authors, with cooldown between spawns.
func NewTracker(thresh, minUsers int, cooldown time.Duration) *Tracker {
	return &Tracker{
		guilds:   make(map[string]*guildState),
		thresh:   thresh,
		minUsers: minUsers,
		cooldown: cooldown,
	}
}

// Record counts one message and reports whether the guild is due a
// spawn. When it returns true the counters are reset and the cooldown
// restarts; the caller must actually spawn.
func (t *Tracker) Record(guildID, authorID string, now time.Time) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	g := t.guilds[guildID]
	if g == nil {
		g = &guildState{members: make(map[string]struct{})}
		t.guilds[guildID] = g
	}

	g.messages++
	g.members[authorID] = struct{}{}

	if g.messages < t.thresh {
		return false
	}
	if len(g.members) < t.minUsers {
		return false
	}
	if now.Sub(g.lastSpawn) < t.cooldown {
		return false
	}

	g.messages = 0
	g.members = make(map[string]struct{})
	g.lastSpawn = now
	return true
}
