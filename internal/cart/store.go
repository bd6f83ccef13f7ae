package cart

import (
	"sync"

	"github.com/shopspring/decimal"

	"github.com/trynbuy/storefront/internal/models"
)

// Store holds the shopper's cart for one session. Lines are unique per
// product and keep insertion order for display; totals are derived on
// read, never stored. All mutating entry points (catalog grid, try-on
// overlay, checkout) go through the same serialized operations.
type Store struct {
	mu      sync.RWMutex
	lines   []models.CartLine
	index   map[models.ObjectID]int
	subs    map[int]func()
	nextSub int
}

func NewStore() *Store {
	return &Store{
		index: make(map[models.ObjectID]int),
		subs:  make(map[int]func()),
	}
}

// AddItem inserts a line with quantity 1, or bumps the existing line.
func (s *Store) AddItem(product models.Product) {
	s.mu.Lock()
	if i, ok := s.index[product.ID]; ok {
		s.lines[i].Quantity++
	} else {
		s.index[product.ID] = len(s.lines)
		s.lines = append(s.lines, models.CartLine{Product: product, Quantity: 1})
	}
	notify := s.changedLocked()
	s.mu.Unlock()
	notify()
}

// RemoveItem deletes the line if present; removing an absent line is a no-op.
func (s *Store) RemoveItem(productID models.ObjectID) {
	s.mu.Lock()
	removed := s.removeLocked(productID)
	var notify func()
	if removed {
		notify = s.changedLocked()
	}
	s.mu.Unlock()
	if notify != nil {
		notify()
	}
}

// UpdateQuantity sets the line's quantity. A quantity of zero or less
// removes the line instead of persisting it; no line is created for an
// unknown product.
func (s *Store) UpdateQuantity(productID models.ObjectID, quantity int) {
	s.mu.Lock()
	var changed bool
	if quantity <= 0 {
		changed = s.removeLocked(productID)
	} else if i, ok := s.index[productID]; ok {
		changed = s.lines[i].Quantity != quantity
		s.lines[i].Quantity = quantity
	}
	var notify func()
	if changed {
		notify = s.changedLocked()
	}
	s.mu.Unlock()
	if notify != nil {
		notify()
	}
}

// Clear empties all lines.
func (s *Store) Clear() {
	s.mu.Lock()
	var notify func()
	if len(s.lines) > 0 {
		s.lines = nil
		s.index = make(map[models.ObjectID]int)
		notify = s.changedLocked()
	}
	s.mu.Unlock()
	if notify != nil {
		notify()
	}
}

// Lines returns a copy of the current lines in insertion order.
func (s *Store) Lines() []models.CartLine {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.CartLine, len(s.lines))
	copy(out, s.lines)
	return out
}

// TotalPrice is the sum over lines of price times quantity.
func (s *Store) TotalPrice() decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	total := decimal.Zero
	for _, l := range s.lines {
		total = total.Add(l.LineTotal())
	}
	return total
}

// TotalItemCount is the sum of quantities, not the number of lines.
func (s *Store) TotalItemCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, l := range s.lines {
		count += l.Quantity
	}
	return count
}

// Subscribe registers an observer called after every effective
// mutation. The returned function removes it.
func (s *Store) Subscribe(fn func()) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

func (s *Store) removeLocked(productID models.ObjectID) bool {
	i, ok := s.index[productID]
	if !ok {
		return false
	}
	s.lines = append(s.lines[:i], s.lines[i+1:]...)
	delete(s.index, productID)
	for id, pos := range s.index {
		if pos > i {
			s.index[id] = pos - 1
		}
	}
	return true
}

func (s *Store) changedLocked() func() {
	fns := make([]func(), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	return func() {
		for _, fn := range fns {
			fn()
		}
	}
}
