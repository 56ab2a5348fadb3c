package service

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	marketservice "github.com/zappabad/marketgame/internal/market/service"
	"github.com/zappabad/marketgame/internal/news"
)

var (
	// ErrNotFound is returned when a news id does not exist.
	ErrNotFound = errors.New("news item not found")
	// ErrAlreadyTriggered is returned when an item was already used
	// this game and repeats are disallowed.
	ErrAlreadyTriggered = errors.New("news item already triggered")
	// ErrCatalogExhausted is returned by TriggerRandom on an empty catalog.
	ErrCatalogExhausted = errors.New("news catalog is empty")
)

// Service owns the scripted news catalog and turns triggered items
// into price-engine shocks. The catalog is read-only after load. It
// is not internally synchronized; the game world serializes access.
type Service struct {
	cfg    Config
	items  []news.Item
	byID   map[news.ID]news.Item
	used   map[news.ID]bool
	rng    *rand.Rand
	engine *marketservice.Engine

	current *news.Item
}

// NewService creates a news service over a validated catalog. A nil
// rng gets a time-seeded source; tests inject a fixed seed.
func NewService(items []news.Item, engine *marketservice.Engine, cfg Config, rng *rand.Rand) *Service {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	s := &Service{
		cfg:    cfg,
		items:  items,
		byID:   make(map[news.ID]news.Item, len(items)),
		used:   make(map[news.ID]bool, len(items)),
		rng:    rng,
		engine: engine,
	}
	for _, it := range items {
		s.byID[it.ID] = it
	}
	return s
}

// Trigger fires the identified news item: its scope, direction and
// intensity become a shock on the price engine and the item becomes
// the currently displayed news.
func (s *Service) Trigger(id news.ID) (marketservice.ShockResult, error) {
	item, ok := s.byID[id]
	if !ok {
		return marketservice.ShockResult{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if s.used[id] && !s.cfg.AllowRepeats {
		return marketservice.ShockResult{}, fmt.Errorf("%w: %s", ErrAlreadyTriggered, id)
	}
	return s.fire(item), nil
}

// TriggerRandom fires a uniformly chosen item that has not run this
// game. Once every item has run, the pool reopens and repeats are
// allowed.
func (s *Service) TriggerRandom() (news.ID, marketservice.ShockResult, error) {
	if len(s.items) == 0 {
		return "", marketservice.ShockResult{}, ErrCatalogExhausted
	}

	pool := make([]news.Item, 0, len(s.items))
	for _, it := range s.items {
		if !s.used[it.ID] {
			pool = append(pool, it)
		}
	}
	if len(pool) == 0 {
		s.used = make(map[news.ID]bool, len(s.items))
		pool = s.items
	}

	item := pool[s.rng.Intn(len(pool))]
	return item.ID, s.fire(item), nil
}

func (s *Service) fire(item news.Item) marketservice.ShockResult {
	s.used[item.ID] = true
	s.current = &item

	return s.engine.ApplyShock(marketservice.ShockRequest{
		NewsID:    string(item.ID),
		Tickers:   item.Tickers,
		Sectors:   item.Sectors,
		Up:        item.Direction == news.DirectionUp,
		Intensity: string(item.Intensity),
	})
}

// Current returns the currently displayed item, or nil.
func (s *Service) Current() *news.Item {
	return s.current
}

// CurrentPublic returns the player-safe projection of the currently
// displayed item, or nil when no news is showing.
func (s *Service) CurrentPublic() *news.PublicItem {
	if s.current == nil {
		return nil
	}
	pub := s.current.Public()
	return &pub
}

// ClearCurrent removes the displayed item without touching the
// engine's shocks; display and decay have independent lifecycles.
func (s *Service) ClearCurrent() {
	s.current = nil
}

// Catalog returns the full records for admin views.
func (s *Service) Catalog() []news.Item {
	out := make([]news.Item, len(s.items))
	copy(out, s.items)
	return out
}

// Lookup returns the full record for one id.
func (s *Service) Lookup(id news.ID) (news.Item, bool) {
	it, ok := s.byID[id]
	return it, ok
}

// Reset clears the used set and the displayed item.
func (s *Service) Reset() {
	s.used = make(map[news.ID]bool, len(s.items))
	s.current = nil
}
