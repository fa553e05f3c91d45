package auction

import (
	"context"
	"errors"
	"fmt"
	"time"

	"auction-base/internal/auctionerrors"
	"auction-base/internal/models"
	"auction-base/internal/repository"
	"auction-base/utils"
)

// AuctionService defines the business logic for the auction pages. All
// status and validation decisions read the simulated clock from the
// CurrentTime table; no code path consults the wall clock.
type AuctionService struct {
	repo repository.AuctionDB
}

// NewAuctionService creates a new AuctionService instance
func NewAuctionService(repo repository.AuctionDB) *AuctionService {
	return &AuctionService{
		repo: repo,
	}
}

// CurrentTime returns the simulated current time
func (s *AuctionService) CurrentTime(ctx context.Context) (time.Time, error) {
	now, err := s.repo.GetCurrentTime(ctx)
	if err != nil {
		return time.Time{}, fmt.Errorf("service: failed to read current time: %w", err)
	}
	return now, nil
}

// SetCurrentTime validates and stores a new simulated current time. The
// raw value must be a well-formed "2006-01-02 15:04:05" timestamp; on
// any failure the stored time is left unchanged.
func (s *AuctionService) SetCurrentTime(ctx context.Context, raw string) error {
	t, err := models.ParseTimestamp(raw)
	if err != nil {
		return fmt.Errorf("service: %w - %q does not parse as a timestamp", auctionerrors.ErrInvalidTime, raw)
	}

	if err := s.repo.SetCurrentTime(ctx, t); err != nil {
		return fmt.Errorf("service: %w: failed to store current time: %v", auctionerrors.ErrWriteFailed, err)
	}
	return nil
}

// ItemStatus returns the item page data: the listing with derived
// fields, its full bid history, the status at the simulated current
// time, and the winner when at least one bid exists.
func (s *AuctionService) ItemStatus(ctx context.Context, itemID string) (models.ItemDetail, error) {
	if itemID == "" {
		return models.ItemDetail{}, fmt.Errorf("service: %w - missing itemID", auctionerrors.ErrInvalidInput)
	}

	item, err := s.repo.GetItemByID(ctx, itemID)
	if err != nil {
		return models.ItemDetail{}, fmt.Errorf("service: failed to get item %s: %w", itemID, err)
	}

	now, err := s.repo.GetCurrentTime(ctx)
	if err != nil {
		return models.ItemDetail{}, fmt.Errorf("service: failed to read current time: %w", err)
	}

	bids, err := s.repo.GetBidsByItem(ctx, itemID)
	if err != nil && !errors.Is(err, auctionerrors.ErrNoBids) {
		return models.ItemDetail{}, fmt.Errorf("service: failed to get bids for item %s: %w", itemID, err)
	}

	detail := models.ItemDetail{
		Item:   item,
		Bids:   bids,
		Status: StatusOf(item, now),
	}

	// No winner without bids, regardless of status.
	if item.NumberOfBids > 0 {
		winning, err := s.repo.GetWinningBid(ctx, itemID)
		if err != nil {
			return models.ItemDetail{}, fmt.Errorf("service: failed to get winning bid for item %s: %w", itemID, err)
		}
		detail.Winner = winning.UserID
		detail.HasWinner = true
	}

	return detail, nil
}

// PlaceBid validates and records a user's bid for an item. The checks
// run in a fixed order and short-circuit on the first failure; a bid at
// or above the item's buy price goes through the same insert path with
// the outcome marked as a purchase.
func (s *AuctionService) PlaceBid(ctx context.Context, userID, itemID string, amount float64) (models.BidOutcome, error) {
	if userID == "" || itemID == "" {
		return models.BidOutcome{}, fmt.Errorf("service: %w - missing userID or itemID", auctionerrors.ErrInvalidInput)
	}

	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return models.BidOutcome{}, fmt.Errorf("service: failed to look up user %s: %w", userID, err)
	}

	item, err := s.repo.GetItemByID(ctx, itemID)
	if err != nil {
		return models.BidOutcome{}, fmt.Errorf("service: failed to look up item %s: %w", itemID, err)
	}

	if user.UserID == item.SellerUserID {
		return models.BidOutcome{}, fmt.Errorf("service: %w - user %s sells item %s", auctionerrors.ErrSellerCannotBid, userID, itemID)
	}

	if amount < 0 {
		return models.BidOutcome{}, fmt.Errorf("service: %w - got %.2f", auctionerrors.ErrNegativeAmount, amount)
	}
	if amount <= item.FirstBid || amount <= item.Currently {
		return models.BidOutcome{}, fmt.Errorf("service: %w - current price is %.2f", auctionerrors.ErrAmountTooLow, item.Currently)
	}

	now, err := s.repo.GetCurrentTime(ctx)
	if err != nil {
		return models.BidOutcome{}, fmt.Errorf("service: failed to read current time: %w", err)
	}

	if now.Before(item.Started) {
		return models.BidOutcome{}, fmt.Errorf("service: %w - starts at %s", auctionerrors.ErrAuctionNotStarted, models.FormatTimestamp(item.Started))
	}
	if !now.Before(item.Ends) {
		return models.BidOutcome{}, fmt.Errorf("service: %w - ended at %s", auctionerrors.ErrAuctionEnded, models.FormatTimestamp(item.Ends))
	}

	bid := models.Bid{
		BidID:  utils.GenerateID(),
		ItemID: itemID,
		UserID: userID,
		Amount: amount,
		Time:   now,
	}

	if err := s.repo.RecordBidForItem(ctx, bid); err != nil {
		return models.BidOutcome{}, fmt.Errorf("service: %w: failed to record bid for item %s by user %s: %v", auctionerrors.ErrWriteFailed, itemID, userID, err)
	}

	return models.BidOutcome{
		Bid:       bid,
		ItemName:  item.Name,
		Purchased: item.BuyPrice != nil && amount >= *item.BuyPrice,
	}, nil
}

// Search returns the auctions matching the filter. Everything except
// the status criterion is pushed into the search query; the status
// criterion is applied here through StatusOf so it can never diverge
// from the item page's derivation.
func (s *AuctionService) Search(ctx context.Context, filter models.SearchFilter) ([]models.SearchResult, error) {
	want, err := statusFilter(filter.Status)
	if err != nil {
		return nil, err
	}

	items, err := s.repo.SearchItems(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("service: failed to search items: %w", err)
	}

	now, err := s.repo.GetCurrentTime(ctx)
	if err != nil {
		return nil, fmt.Errorf("service: failed to read current time: %w", err)
	}

	results := make([]models.SearchResult, 0, len(items))
	for _, item := range items {
		status := StatusOf(item, now)
		if want != nil && status != *want {
			continue
		}
		results = append(results, models.SearchResult{
			Item:        item,
			Status:      status,
			CurrentTime: now,
		})
	}
	return results, nil
}

// statusFilter maps the form's status value to the derived status it
// selects; nil means no status filtering.
func statusFilter(status string) (*models.AuctionStatus, error) {
	var want models.AuctionStatus
	switch status {
	case "", "all":
		return nil, nil
	case "open":
		want = models.StatusOpen
	case "closed", "close":
		want = models.StatusEnded
	case "notStarted":
		want = models.StatusNotYetStarted
	default:
		return nil, fmt.Errorf("service: %w - unknown status %q", auctionerrors.ErrInvalidInput, status)
	}
	return &want, nil
}
