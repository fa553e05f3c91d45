package auction

import (
	"time"

	model "auction-base/internal/models"
)

// StatusOf derives the lifecycle state of an item at the given
// simulated time. It is a pure function of (Started, Ends, BuyPrice,
// Currently, now); the same inputs always yield the same status. Every
// status shown anywhere in the application goes through this one
// predicate.
func StatusOf(item model.Item, now time.Time) model.AuctionStatus {
	if now.Before(item.Started) {
		return model.StatusNotYetStarted
	}
	if !now.After(item.Ends) && (item.BuyPrice == nil || item.Currently < *item.BuyPrice) {
		return model.StatusOpen
	}
	// Covers both natural expiry and early closure by a met buy price.
	return model.StatusEnded
}
