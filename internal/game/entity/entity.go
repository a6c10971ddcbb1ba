// Package entity holds the character instances of a scene and ticks them
// once per frame.
package entity

import (
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-rig/internal/logger"
)

// Manager manages all characters in the scene.
type Manager struct {
	characters map[uint32]*Character
	player     *Character // Reference to the controlled character
	playerID   uint32
}

// NewManager creates a new character manager.
func NewManager() *Manager {
	return &Manager{
		characters: make(map[uint32]*Character),
	}
}

// Add adds a character, replacing any with the same ID.
func (m *Manager) Add(c *Character) {
	if _, ok := m.characters[c.ID]; ok {
		logger.Warn("replacing character", zap.Uint32("id", c.ID))
	}
	m.characters[c.ID] = c
}

// Remove removes a character.
func (m *Manager) Remove(id uint32) {
	delete(m.characters, id)
	if id == m.playerID {
		m.player = nil
		m.playerID = 0
	}
}

// Get returns a character by ID.
func (m *Manager) Get(id uint32) *Character {
	return m.characters[id]
}

// SetPlayer sets the controlled character.
func (m *Manager) SetPlayer(c *Character) {
	m.player = c
	m.playerID = c.ID
	m.Add(c)
}

// Player returns the controlled character.
func (m *Manager) Player() *Character {
	return m.player
}

// Update ticks every character and returns how many produced a pose.
func (m *Manager) Update(now time.Duration) int {
	posed := 0
	for _, c := range m.All() {
		if c.Update(now) {
			posed++
		}
	}
	return posed
}

// All returns all characters ordered by ID.
func (m *Manager) All() []*Character {
	result := make([]*Character, 0, len(m.characters))
	for _, c := range m.characters {
		result = append(result, c)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}

// AllVisible returns the visible characters ordered by ID.
func (m *Manager) AllVisible() []*Character {
	all := m.All()
	result := all[:0]
	for _, c := range all {
		if c.Visible {
			result = append(result, c)
		}
	}
	return result
}

// Count returns the number of characters.
func (m *Manager) Count() int {
	return len(m.characters)
}

// Clear removes all characters except the player.
func (m *Manager) Clear() {
	for id := range m.characters {
		if id != m.playerID || m.player == nil {
			delete(m.characters, id)
		}
	}
}

// ClearAll removes all characters including the player.
func (m *Manager) ClearAll() {
	m.characters = make(map[uint32]*Character)
	m.player = nil
	m.playerID = 0
}
