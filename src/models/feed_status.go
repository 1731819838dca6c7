package models

// -----------------------------------------------------------------------------

// MFeedStatus is the runtime status of the feed session, aggregating the
// connection client state with counts from the view stores.

type MFeedStatus struct {
	FeedName   string            `json:"feed_name"`
	Connection MConnectionStatus `json:"connection"`
	Endpoint   string            `json:"endpoint"`
	Symbols    int               `json:"symbols"`
	Orders     int               `json:"orders"`
	Trades     int               `json:"trades"`
}
