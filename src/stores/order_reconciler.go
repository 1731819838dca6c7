package stores

import (
	"sort"
	"sync"
	"time"

	"market-view/src/interfaces"
	"market-view/src/logger"
	"market-view/src/models"
	"market-view/src/utils"
)

// -----------------------------------------------------------------------------
// STRUCT DEFINITION
// -----------------------------------------------------------------------------

// OrderReconciler merges snapshot-sourced order rows with stream-sourced
// update notifications. The stream is a notification channel only: an update
// marks the order as highlighted and triggers an asynchronous re-fetch of the
// authoritative snapshot; it never patches order fields directly.
type OrderReconciler struct {
	Name   string
	Logger *logger.Logger

	api          interfaces.ISnapshotAPI
	highlightTTL time.Duration
	updatesLimit int

	mu             sync.Mutex
	orders         []models.MOrder
	updates        []models.MOrderUpdate // newest-first, bounded
	highlightID    int64
	highlighted    bool
	highlightGen   uint64
	highlightTimer *time.Timer
	closed         bool
}

// -----------------------------------------------------------------------------

// NewOrderReconciler creates a reconciler fetching authoritative rows from api.
func NewOrderReconciler(api interfaces.ISnapshotAPI, logger *logger.Logger, name string, highlightTTL time.Duration) *OrderReconciler {
	if highlightTTL <= 0 {
		highlightTTL = utils.DefaultHighlightTTL
	}
	return &OrderReconciler{
		Name:         name,
		Logger:       logger,
		api:          api,
		highlightTTL: highlightTTL,
		updatesLimit: utils.OrderUpdatesLimit,
	}
}

// -----------------------------------------------------------------------------
// PUBLIC METHODS
// -----------------------------------------------------------------------------

// SeedOrders installs the snapshot baseline.
func (r *OrderReconciler) SeedOrders(rows []models.MOrder) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders = append([]models.MOrder(nil), rows...)
}

// -----------------------------------------------------------------------------

// OnUpdate handles one stream notification: records it in the bounded update
// buffer, moves the highlight to this order (restarting the clear timer), and
// kicks off an asynchronous authoritative re-fetch.
func (r *OrderReconciler) OnUpdate(e *models.MOrderUpdate) {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}

	// Bounded notification buffer, newest-first.
	r.updates = append([]models.MOrderUpdate{*e}, r.updates...)
	if len(r.updates) > r.updatesLimit {
		r.updates = r.updates[:r.updatesLimit]
	}

	// Only the latest update drives the active highlight. The prior timer is
	// cancelled before the new one starts, never stacked.
	if r.highlightTimer != nil {
		r.highlightTimer.Stop()
	}
	r.highlightID = e.OrderID
	r.highlighted = true
	r.highlightGen++
	gen := r.highlightGen
	r.highlightTimer = time.AfterFunc(r.highlightTTL, func() {
		r.clearHighlight(gen)
	})
	r.mu.Unlock()

	go r.Refresh()
}

// -----------------------------------------------------------------------------

// Refresh re-fetches the authoritative order snapshot. Failures are swallowed
// and prior rows stay displayed; the next notification or external trigger is
// the only retry path.
func (r *OrderReconciler) Refresh() {
	rows, err := r.api.FetchOpenOrders()
	if err != nil {
		r.Logger.Warning("%s : order snapshot refresh failed, keeping prior rows: %v", r.Name, err)
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	r.orders = rows
}

// -----------------------------------------------------------------------------

// Orders returns a copy of the authoritative rows.
func (r *OrderReconciler) Orders() []models.MOrder {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.MOrder(nil), r.orders...)
}

// -----------------------------------------------------------------------------

// Updates returns a copy of the raw notification buffer, newest-first.
func (r *OrderReconciler) Updates() []models.MOrderUpdate {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.MOrderUpdate(nil), r.updates...)
}

// -----------------------------------------------------------------------------

// Highlight returns the currently highlighted order id, if any.
func (r *OrderReconciler) Highlight() (int64, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.highlightID, r.highlighted
}

// -----------------------------------------------------------------------------

// View returns the merged order state handed to presentation.
func (r *OrderReconciler) View() models.MOrdersView {
	r.mu.Lock()
	defer r.mu.Unlock()
	return models.MOrdersView{
		Orders:           append([]models.MOrder(nil), r.orders...),
		HighlightOrderID: r.highlightID,
		Highlighted:      r.highlighted,
		RecentUpdates:    append([]models.MOrderUpdate(nil), r.updates...),
	}
}

// -----------------------------------------------------------------------------

// OrderSymbols returns the distinct sorted symbols present in loaded orders.
func (r *OrderReconciler) OrderSymbols() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	seen := make(map[string]bool, len(r.orders))
	symbols := make([]string, 0, len(r.orders))
	for _, order := range r.orders {
		if order.Ticker == "" || seen[order.Ticker] {
			continue
		}
		seen[order.Ticker] = true
		symbols = append(symbols, order.Ticker)
	}
	sort.Strings(symbols)
	return symbols
}

// -----------------------------------------------------------------------------

// Close cancels the highlight timer so no callback fires against a torn-down
// view.
func (r *OrderReconciler) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	if r.highlightTimer != nil {
		r.highlightTimer.Stop()
		r.highlightTimer = nil
	}
	r.highlighted = false
}

// -----------------------------------------------------------------------------
// PRIVATE METHODS
// -----------------------------------------------------------------------------

// clearHighlight is the timer callback. The generation guard makes a timer
// that already fired but lost the lock race to a newer update a no-op.
func (r *OrderReconciler) clearHighlight(gen uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed || gen != r.highlightGen {
		return
	}
	r.highlighted = false
}
