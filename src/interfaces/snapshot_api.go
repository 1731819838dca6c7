package interfaces

import "market-view/src/models"

// -----------------------------------------------------------------------------

// ISnapshotAPI is the pull-based side of the dashboard backend. All calls are
// full snapshots of current server-side state; the view layer treats failures
// as non-fatal and keeps displaying prior state.
type ISnapshotAPI interface {
	// FetchOpenOrders returns full order rows, in no guaranteed order.
	FetchOpenOrders() ([]models.MOrder, error)

	// FetchRecentTrades returns up to limit trades, newest-first.
	FetchRecentTrades(limit int) ([]models.MTradeRecord, error)

	// FetchTickers returns the working symbol set, sorted by symbol.
	FetchTickers() ([]models.MTicker, error)

	// FetchPriceHistory returns up to limit samples, most-recent-last.
	FetchPriceHistory(symbol string, limit int) ([]models.MPriceTick, error)

	// CreateOrder submits a new order and returns the created row.
	CreateOrder(req *models.MOrderRequest) (*models.MOrder, error)
}
