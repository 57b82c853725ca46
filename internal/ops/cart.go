package ops

import (
	"fmt"
	"sync"
)

const (
	cartMinQuantity = 1
	cartMaxQuantity = 99
)

// CartLine is one pending menu item in a waiter's cart.
type CartLine struct {
	MenuItemID int64
	Name       string
	Price      float64
	Quantity   int
	Note       string
}

func (l CartLine) LineTotal() float64 {
	return roundCents(l.Price * float64(l.Quantity))
}

// CartStore keeps one in-progress cart per session. Carts never leave the
// process; the backend only sees the final order submission.
type CartStore struct {
	mu    sync.RWMutex
	carts map[string][]CartLine
}

func NewCartStore() *CartStore {
	return &CartStore{carts: make(map[string][]CartLine)}
}

// Add appends a line to the session's cart. Quantity must stay within the
// 1..99 range the order form enforces.
func (s *CartStore) Add(sessionID string, line CartLine) error {
	if line.Quantity < cartMinQuantity || line.Quantity > cartMaxQuantity {
		return fmt.Errorf("quantity must be between %d and %d", cartMinQuantity, cartMaxQuantity)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.carts[sessionID] = append(s.carts[sessionID], line)
	return nil
}

// Remove drops the line at the given position. Out-of-range positions are
// ignored.
func (s *CartStore) Remove(sessionID string, index int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	lines := s.carts[sessionID]
	if index < 0 || index >= len(lines) {
		return
	}
	s.carts[sessionID] = append(lines[:index], lines[index+1:]...)
}

func (s *CartStore) Clear(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.carts, sessionID)
}

// Lines returns a copy of the session's cart.
func (s *CartStore) Lines(sessionID string) []CartLine {
	s.mu.RLock()
	defer s.mu.RUnlock()

	lines := s.carts[sessionID]
	out := make([]CartLine, len(lines))
	copy(out, lines)
	return out
}

// Total sums the cart, rounded to cents.
func (s *CartStore) Total(sessionID string) float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var total float64
	for _, line := range s.carts[sessionID] {
		total += line.Price * float64(line.Quantity)
	}
	return roundCents(total)
}

// Items converts the cart into the order submission payload.
func (s *CartStore) Items(sessionID string) []OrderItemInput {
	s.mu.RLock()
	defer s.mu.RUnlock()

	lines := s.carts[sessionID]
	out := make([]OrderItemInput, 0, len(lines))
	for _, line := range lines {
		out = append(out, OrderItemInput{
			MenuItemID: line.MenuItemID,
			Quantity:   line.Quantity,
			Note:       line.Note,
		})
	}
	return out
}
