package cartsync

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/saikganesh/navajothi-jewels-backend/internal/realtime"
	"github.com/saikganesh/navajothi-jewels-backend/pkg/enums"
	"github.com/saikganesh/navajothi-jewels-backend/pkg/logger"
)

// MaxQuantity mirrors the server-side per-line ceiling.
const MaxQuantity = 10

// Line is the local view of one cart row.
type Line struct {
	ProductID uuid.UUID   `json:"product_id"`
	Quantity  int         `json:"quantity"`
	Karat     enums.Karat `json:"karat"`
}

// Backend is the remote cart the store reconciles against.
type Backend interface {
	Fetch(ctx context.Context) ([]Line, error)
	Add(ctx context.Context, productID uuid.UUID, quantity int, karat enums.Karat) error
	UpdateQuantity(ctx context.Context, productID uuid.UUID, quantity int) error
	Remove(ctx context.Context, productID uuid.UUID) error
	Clear(ctx context.Context) error
}

// Notifier surfaces settle/rollback outcomes to the user.
type Notifier interface {
	Success(message string)
	Error(message string)
}

// Store keeps a local cart consistent with the server across optimistic
// mutations and realtime change notifications. Mutations apply locally at
// once, dispatch the write asynchronously, and roll the line back if the
// write fails. A realtime notification triggers a full refetch-and-replace
// which always wins over local state.
//
// Writes on the same line are not serialized; the last write to reach the
// server wins. That trade-off favors responsiveness and is intentional.
type Store struct {
	backend  Backend
	notifier Notifier
	logger   *logger.Logger

	mu      sync.Mutex
	order   []uuid.UUID
	lines   map[uuid.UUID]Line
	pending map[uuid.UUID]int

	inflight sync.WaitGroup
}

// New builds an empty store.
func New(backend Backend, notifier Notifier, logg *logger.Logger) (*Store, error) {
	if backend == nil {
		return nil, fmt.Errorf("backend required")
	}
	if notifier == nil {
		return nil, fmt.Errorf("notifier required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Store{
		backend:  backend,
		notifier: notifier,
		logger:   logg,
		lines:    map[uuid.UUID]Line{},
		pending:  map[uuid.UUID]int{},
	}, nil
}

// Lines returns a snapshot in insertion order.
func (s *Store) Lines() []Line {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Line, 0, len(s.order))
	for _, id := range s.order {
		if line, ok := s.lines[id]; ok {
			out = append(out, line)
		}
	}
	return out
}

// Pending reports whether the product has a write in flight.
func (s *Store) Pending(productID uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending[productID] > 0
}

// Add increments or creates the product's line, clamped at the ceiling.
func (s *Store) Add(ctx context.Context, productID uuid.UUID, quantity int, karat enums.Karat) {
	if quantity <= 0 {
		quantity = 1
	}

	s.mu.Lock()
	prior, existed := s.lines[productID]

	next := Line{ProductID: productID, Quantity: quantity, Karat: karat}
	if existed {
		next.Quantity = prior.Quantity + quantity
	}
	capped := next.Quantity > MaxQuantity
	if capped {
		next.Quantity = MaxQuantity
	}
	s.setLocked(next)
	s.pending[productID]++
	s.mu.Unlock()

	message := "added to cart"
	if capped {
		message = "added to cart (quantity capped at 10)"
	}
	s.dispatch(ctx, productID, prior, existed, message, func(ctx context.Context) error {
		return s.backend.Add(ctx, productID, quantity, karat)
	})
}

// UpdateQuantity sets the line's quantity; zero or less removes the line.
func (s *Store) UpdateQuantity(ctx context.Context, productID uuid.UUID, quantity int) {
	s.mu.Lock()
	prior, existed := s.lines[productID]
	if !existed {
		s.mu.Unlock()
		return
	}

	removed := quantity <= 0
	capped := quantity > MaxQuantity
	if capped {
		quantity = MaxQuantity
	}
	if removed {
		s.deleteLocked(productID)
	} else {
		next := prior
		next.Quantity = quantity
		s.setLocked(next)
	}
	s.pending[productID]++
	s.mu.Unlock()

	message := "cart updated"
	if removed {
		message = "removed from cart"
	} else if capped {
		message = "cart updated (quantity capped at 10)"
	}
	s.dispatch(ctx, productID, prior, existed, message, func(ctx context.Context) error {
		return s.backend.UpdateQuantity(ctx, productID, quantity)
	})
}

// Remove deletes the line.
func (s *Store) Remove(ctx context.Context, productID uuid.UUID) {
	s.mu.Lock()
	prior, existed := s.lines[productID]
	if !existed {
		s.mu.Unlock()
		return
	}
	s.deleteLocked(productID)
	s.pending[productID]++
	s.mu.Unlock()

	s.dispatch(ctx, productID, prior, existed, "removed from cart", func(ctx context.Context) error {
		return s.backend.Remove(ctx, productID)
	})
}

// Clear empties the cart. The local list empties at once and is restored in
// full if the server write fails, so a failed clear never loses lines.
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	if len(s.order) == 0 {
		s.mu.Unlock()
		return
	}
	priorOrder := append([]uuid.UUID(nil), s.order...)
	priorLines := make(map[uuid.UUID]Line, len(s.lines))
	for id, line := range s.lines {
		priorLines[id] = line
	}
	for _, id := range priorOrder {
		s.pending[id]++
	}
	s.order = s.order[:0]
	s.lines = map[uuid.UUID]Line{}
	s.mu.Unlock()

	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()

		err := s.backend.Clear(ctx)

		s.mu.Lock()
		for _, id := range priorOrder {
			if s.pending[id] > 0 {
				s.pending[id]--
				if s.pending[id] == 0 {
					delete(s.pending, id)
				}
			}
		}
		if err != nil {
			// Restore lines the user has not re-added in the meantime.
			for _, id := range priorOrder {
				if _, ok := s.lines[id]; !ok {
					s.setLocked(priorLines[id])
				}
			}
		}
		s.mu.Unlock()

		if err != nil {
			s.notifier.Error("could not clear cart")
			return
		}
		s.notifier.Success("cart cleared")
	}()
}

// Refresh refetches the authoritative cart and fully replaces local state.
// A failed fetch is logged and leaves the local list stale; the error is also
// returned for callers that want to retry.
func (s *Store) Refresh(ctx context.Context) error {
	lines, err := s.backend.Fetch(ctx)
	if err != nil {
		s.logger.Warn(s.logger.WithField(ctx, "error", err.Error()), "cart refetch failed, keeping local state")
		return err
	}

	s.mu.Lock()
	s.order = s.order[:0]
	s.lines = make(map[uuid.UUID]Line, len(lines))
	for _, line := range lines {
		s.order = append(s.order, line.ProductID)
		s.lines[line.ProductID] = line
	}
	s.mu.Unlock()
	return nil
}

// HandleEvent reacts to a realtime notification. Every change, including the
// echo of this client's own writes, triggers a full refetch.
func (s *Store) HandleEvent(ctx context.Context, _ realtime.Event) error {
	return s.Refresh(ctx)
}

// Flush blocks until all in-flight writes have settled or rolled back.
func (s *Store) Flush() {
	s.inflight.Wait()
}

func (s *Store) dispatch(ctx context.Context, productID uuid.UUID, prior Line, existed bool, successMessage string, write func(context.Context) error) {
	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()

		err := write(ctx)

		s.mu.Lock()
		if s.pending[productID] > 0 {
			s.pending[productID]--
			if s.pending[productID] == 0 {
				delete(s.pending, productID)
			}
		}
		if err != nil {
			// Roll the line back to its pre-mutation state.
			if existed {
				s.setLocked(prior)
			} else {
				s.deleteLocked(productID)
			}
		}
		s.mu.Unlock()

		if err != nil {
			s.notifier.Error("cart update failed, change reverted")
			return
		}
		s.notifier.Success(successMessage)
	}()
}

func (s *Store) setLocked(line Line) {
	if _, ok := s.lines[line.ProductID]; !ok {
		s.order = append(s.order, line.ProductID)
	}
	s.lines[line.ProductID] = line
}

func (s *Store) deleteLocked(productID uuid.UUID) {
	delete(s.lines, productID)
	for i, id := range s.order {
		if id == productID {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}
