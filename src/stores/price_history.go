package stores

import (
	"sync"
	"time"

	"market-view/src/models"
	"market-view/src/utils"
)

// -----------------------------------------------------------------------------
// PriceHistory keeps a small fixed window of recent samples per symbol.
// True ring buffer - no resizing allowed!
// -----------------------------------------------------------------------------

type symbolRing struct {
	data     []models.MPriceTick
	capacity int
	index    int // Next write position
	size     int // Current number of elements
}

// -----------------------------------------------------------------------------

// PriceHistory is the per-symbol bounded price sequence. Capacity is fixed;
// inserting into a full ring evicts the oldest sample (FIFO), so length never
// exceeds the capacity after any call.
type PriceHistory struct {
	mu       sync.RWMutex
	capacity int
	rings    map[string]*symbolRing
}

// -----------------------------------------------------------------------------

// NewPriceHistory creates a history store with the given per-symbol capacity.
func NewPriceHistory(capacity int) *PriceHistory {
	if capacity <= 0 {
		capacity = utils.HistoryDepth
	}
	return &PriceHistory{
		capacity: capacity,
		rings:    make(map[string]*symbolRing),
	}
}

// -----------------------------------------------------------------------------
// PUBLIC METHODS
// -----------------------------------------------------------------------------

// Record appends one live sample for symbol, evicting the oldest when full.
func (ph *PriceHistory) Record(symbol string, price float64, timestamp time.Time) {
	ph.mu.Lock()
	defer ph.mu.Unlock()

	ring := ph.ring(symbol)
	ring.append(models.MPriceTick{
		Symbol:    symbol,
		Price:     price,
		Timestamp: models.MTime{Time: timestamp},
	})
}

// -----------------------------------------------------------------------------

// Seed pre-loads a symbol's ring from a backfill snapshot (most-recent-last)
// before live updates begin. Only the newest capacity samples are kept.
func (ph *PriceHistory) Seed(symbol string, ticks []models.MPriceTick) {
	ph.mu.Lock()
	defer ph.mu.Unlock()

	ring := ph.ring(symbol)
	start := 0
	if len(ticks) > ring.capacity {
		start = len(ticks) - ring.capacity
	}
	for _, tick := range ticks[start:] {
		ring.append(tick)
	}
}

// -----------------------------------------------------------------------------

// Samples returns a copy of the symbol's window, oldest-first.
func (ph *PriceHistory) Samples(symbol string) []models.MPriceTick {
	ph.mu.RLock()
	defer ph.mu.RUnlock()

	ring, ok := ph.rings[symbol]
	if !ok || ring.size == 0 {
		return []models.MPriceTick{}
	}
	return ring.all()
}

// -----------------------------------------------------------------------------

// Size returns the current number of samples held for symbol.
func (ph *PriceHistory) Size(symbol string) int {
	ph.mu.RLock()
	defer ph.mu.RUnlock()

	ring, ok := ph.rings[symbol]
	if !ok {
		return 0
	}
	return ring.size
}

// -----------------------------------------------------------------------------

// Capacity returns the fixed per-symbol capacity.
func (ph *PriceHistory) Capacity() int {
	return ph.capacity
}

// -----------------------------------------------------------------------------
// PRIVATE METHODS
// -----------------------------------------------------------------------------

func (ph *PriceHistory) ring(symbol string) *symbolRing {
	ring, ok := ph.rings[symbol]
	if !ok {
		ring = &symbolRing{
			data:     make([]models.MPriceTick, ph.capacity),
			capacity: ph.capacity,
		}
		ph.rings[symbol] = ring
	}
	return ring
}

// -----------------------------------------------------------------------------

func (r *symbolRing) append(tick models.MPriceTick) {
	r.data[r.index] = tick
	r.index = (r.index + 1) % r.capacity

	// Update size (never exceeds capacity)
	if r.size < r.capacity {
		r.size++
	}
}

// -----------------------------------------------------------------------------

// all returns the window in insertion order (oldest to newest).
func (r *symbolRing) all() []models.MPriceTick {
	result := make([]models.MPriceTick, r.size)

	// Calculate start index (oldest element)
	var startIdx int
	if r.size == r.capacity {
		// Buffer is full, oldest is at current index (wrap-around)
		startIdx = r.index
	} else {
		// Buffer not full, oldest is at index 0
		startIdx = 0
	}

	for i := 0; i < r.size; i++ {
		result[i] = r.data[(startIdx+i)%r.capacity]
	}
	return result
}
