package models

import "time"

// TimeLayout is the timestamp format used throughout the database
// and on every page (e.g. "2001-12-01 13:45:00").
const TimeLayout = "2006-01-02 15:04:05"

// ParseTimestamp parses a database/page timestamp. It rejects
// impossible dates such as "2024-13-40 99:99:99".
func ParseTimestamp(s string) (time.Time, error) {
	return time.Parse(TimeLayout, s)
}

// FormatTimestamp renders a time in the database timestamp format.
func FormatTimestamp(t time.Time) string {
	return t.Format(TimeLayout)
}

// AuctionStatus is the derived lifecycle state of an auction. It is
// never stored; it is recomputed from timestamps and prices on every
// read.
type AuctionStatus int

const (
	StatusNotYetStarted AuctionStatus = iota
	StatusOpen
	StatusEnded
)

func (s AuctionStatus) String() string {
	switch s {
	case StatusNotYetStarted:
		return "Not yet started"
	case StatusOpen:
		return "Still open"
	case StatusEnded:
		return "Ended"
	default:
		return "Unknown"
	}
}

// User represents a registered participant, either a seller or a bidder
type User struct {
	UserID   string `json:"user_id"`
	Rating   int    `json:"rating"`
	Location string `json:"location"`
	Country  string `json:"country"`
}

// Item represents an auction listing. Currently, NumberOfBids and
// Categories are derived from the Bids and Categories relations by the
// read queries, never stored on the Items table.
type Item struct {
	ItemID       string    `json:"item_id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	SellerUserID string    `json:"seller_user_id"`
	Started      time.Time `json:"started"`
	Ends         time.Time `json:"ends"`
	FirstBid     float64   `json:"first_bid"`
	BuyPrice     *float64  `json:"buy_price,omitempty"`
	Currently    float64   `json:"currently"`
	NumberOfBids int       `json:"number_of_bids"`
	Categories   string    `json:"categories"`
}

// Bid represents a user's bid on an item. Bids are append-only: never
// updated, never deleted.
type Bid struct {
	BidID  string    `json:"bid_id"`
	ItemID string    `json:"item_id"`
	UserID string    `json:"user_id"`
	Amount float64   `json:"amount"`
	Time   time.Time `json:"time"`
}

// BidOutcome is the result of a successful bid placement. Purchased is
// set when the amount met the item's buy price, so callers can frame
// the confirmation as an instant purchase.
type BidOutcome struct {
	Bid       Bid    `json:"bid"`
	ItemName  string `json:"item_name"`
	Purchased bool   `json:"purchased"`
}

// SearchFilter holds the optional auction search criteria. Zero-valued
// fields match everything. Status is one of "open", "closed",
// "notStarted", "all" or empty.
type SearchFilter struct {
	SellerID    string
	ItemID      string
	Category    string
	Description string
	MinPrice    *float64
	MaxPrice    *float64
	Status      string
}

// SearchResult pairs a matching item with its derived status and the
// simulated time the search ran at.
type SearchResult struct {
	Item        Item          `json:"item"`
	Status      AuctionStatus `json:"status"`
	CurrentTime time.Time     `json:"current_time"`
}

// ItemDetail is everything the item page shows: the listing, its full
// bid history, the derived status and the winner when one exists.
type ItemDetail struct {
	Item      Item          `json:"item"`
	Bids      []Bid         `json:"bids"`
	Status    AuctionStatus `json:"status"`
	Winner    string        `json:"winner,omitempty"`
	HasWinner bool          `json:"has_winner"`
}
