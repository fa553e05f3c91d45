package repository

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"auction-base/internal/auctionerrors"
	model "auction-base/internal/models"
	"auction-base/internal/store"

	"github.com/stretchr/testify/require"
)

func newTestRepo(t *testing.T) *SQLRepo {
	t.Helper()

	db, err := store.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, store.Bootstrap(context.Background(), db))
	return NewSQLRepo(db)
}

func ts(t *testing.T, raw string) time.Time {
	t.Helper()
	parsed, err := model.ParseTimestamp(raw)
	require.NoError(t, err)
	return parsed
}

func seedUser(t *testing.T, repo *SQLRepo, userID string) {
	t.Helper()
	require.NoError(t, repo.CreateUser(context.Background(), model.User{UserID: userID}))
}

func seedItem(t *testing.T, repo *SQLRepo, item model.Item, categories ...string) {
	t.Helper()
	require.NoError(t, repo.CreateItem(context.Background(), item, categories))
}

func bidCount(t *testing.T, repo *SQLRepo, itemID string) int {
	t.Helper()
	bids, err := repo.GetBidsByItem(context.Background(), itemID)
	if errors.Is(err, auctionerrors.ErrNoBids) {
		return 0
	}
	require.NoError(t, err)
	return len(bids)
}

func TestSQLRepo_CurrentTime(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	// A fresh database is seeded with a valid current time.
	seeded, err := repo.GetCurrentTime(ctx)
	require.NoError(t, err)
	require.False(t, seeded.IsZero())

	updated := ts(t, "2001-12-05 13:45:00")
	require.NoError(t, repo.SetCurrentTime(ctx, updated))

	got, err := repo.GetCurrentTime(ctx)
	require.NoError(t, err)
	require.Equal(t, updated, got)
}

func TestSQLRepo_GetUserByID(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.CreateUser(ctx, model.User{UserID: "bidder1", Rating: 34, Location: "Berlin", Country: "Germany"}))

	user, err := repo.GetUserByID(ctx, "bidder1")
	require.NoError(t, err)
	require.Equal(t, "bidder1", user.UserID)
	require.Equal(t, 34, user.Rating)

	_, err = repo.GetUserByID(ctx, "ghost")
	require.True(t, errors.Is(err, auctionerrors.ErrUserNotFound))
}

func TestSQLRepo_GetItemByID_DerivedFields(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	seedUser(t, repo, "seller1")
	seedUser(t, repo, "bidder1")
	seedItem(t, repo, model.Item{
		ItemID: "item1", Name: "Vintage camera", Description: "Working 35mm rangefinder",
		SellerUserID: "seller1",
		Started:      ts(t, "2001-12-01 08:00:00"), Ends: ts(t, "2001-12-10 08:00:00"),
		FirstBid: 10,
	}, "Photography", "Collectibles")

	// With no bids, Currently falls back to First_Bid.
	item, err := repo.GetItemByID(ctx, "item1")
	require.NoError(t, err)
	require.Equal(t, 10.0, item.Currently)
	require.Equal(t, 0, item.NumberOfBids)
	require.Nil(t, item.BuyPrice)
	require.ElementsMatch(t, []string{"Photography", "Collectibles"}, strings.Split(item.Categories, ", "))

	bids := []model.Bid{
		{BidID: "b1", ItemID: "item1", UserID: "bidder1", Amount: 15, Time: ts(t, "2001-12-02 09:00:00")},
		{BidID: "b2", ItemID: "item1", UserID: "bidder1", Amount: 20, Time: ts(t, "2001-12-03 09:00:00")},
	}
	for _, bid := range bids {
		require.NoError(t, repo.RecordBidForItem(ctx, bid))

		// Currently never drops below First_Bid after any bid sequence.
		item, err = repo.GetItemByID(ctx, "item1")
		require.NoError(t, err)
		require.GreaterOrEqual(t, item.Currently, item.FirstBid)
	}

	require.Equal(t, 20.0, item.Currently)
	require.Equal(t, 2, item.NumberOfBids)

	_, err = repo.GetItemByID(ctx, "nope")
	require.True(t, errors.Is(err, auctionerrors.ErrItemNotFound))
}

func TestSQLRepo_GetWinningBid(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	seedUser(t, repo, "seller1")
	seedUser(t, repo, "bidder1")
	seedUser(t, repo, "bidder2")
	seedItem(t, repo, model.Item{
		ItemID: "item1", Name: "Road bike", SellerUserID: "seller1",
		Started: ts(t, "2001-12-01 08:00:00"), Ends: ts(t, "2001-12-10 08:00:00"),
		FirstBid: 100,
	})

	_, err := repo.GetWinningBid(ctx, "item1")
	require.True(t, errors.Is(err, auctionerrors.ErrNoBids))

	// Two bids share the maximum amount; the earlier one wins.
	require.NoError(t, repo.RecordBidForItem(ctx, model.Bid{
		BidID: "b1", ItemID: "item1", UserID: "bidder1", Amount: 150, Time: ts(t, "2001-12-02 09:00:00"),
	}))
	require.NoError(t, repo.RecordBidForItem(ctx, model.Bid{
		BidID: "b2", ItemID: "item1", UserID: "bidder2", Amount: 150, Time: ts(t, "2001-12-02 10:00:00"),
	}))

	winning, err := repo.GetWinningBid(ctx, "item1")
	require.NoError(t, err)
	require.Equal(t, "bidder1", winning.UserID)
	require.Equal(t, 150.0, winning.Amount)
}

func TestSQLRepo_RecordBidForItem_ForeignKeys(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	seedUser(t, repo, "seller1")
	seedUser(t, repo, "bidder1")
	seedItem(t, repo, model.Item{
		ItemID: "item1", Name: "Vintage camera", SellerUserID: "seller1",
		Started: ts(t, "2001-12-01 08:00:00"), Ends: ts(t, "2001-12-10 08:00:00"),
		FirstBid: 10,
	})

	when := ts(t, "2001-12-02 09:00:00")

	// Unknown item: the insert is rejected and rolled back.
	err := repo.RecordBidForItem(ctx, model.Bid{BidID: "b1", ItemID: "nope", UserID: "bidder1", Amount: 15, Time: when})
	require.Error(t, err)
	require.Equal(t, 0, bidCount(t, repo, "item1"))

	// Unknown user: same.
	err = repo.RecordBidForItem(ctx, model.Bid{BidID: "b2", ItemID: "item1", UserID: "ghost", Amount: 15, Time: when})
	require.Error(t, err)
	require.Equal(t, 0, bidCount(t, repo, "item1"))

	require.NoError(t, repo.RecordBidForItem(ctx, model.Bid{BidID: "b3", ItemID: "item1", UserID: "bidder1", Amount: 15, Time: when}))
	require.Equal(t, 1, bidCount(t, repo, "item1"))
}

func TestSQLRepo_SearchItems(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	seedUser(t, repo, "seller1")
	seedUser(t, repo, "seller2")
	seedUser(t, repo, "bidder1")

	started, ends := ts(t, "2001-12-01 08:00:00"), ts(t, "2001-12-10 08:00:00")
	seedItem(t, repo, model.Item{
		ItemID: "item1", Name: "Vintage camera", Description: "Working 35mm Rangefinder",
		SellerUserID: "seller1", Started: started, Ends: ends, FirstBid: 10,
	}, "Photography")
	seedItem(t, repo, model.Item{
		ItemID: "item2", Name: "Road bike", Description: "Steel frame, recently serviced",
		SellerUserID: "seller1", Started: started, Ends: ends, FirstBid: 100,
	}, "Sports")
	seedItem(t, repo, model.Item{
		ItemID: "item3", Name: "Film scanner", Description: "Scans 35mm negatives",
		SellerUserID: "seller2", Started: started, Ends: ends, FirstBid: 60,
	}, "Photography", "Electronics")

	// item1 has a bid, so its derived price moves to 45.
	require.NoError(t, repo.RecordBidForItem(ctx, model.Bid{
		BidID: "b1", ItemID: "item1", UserID: "bidder1", Amount: 45, Time: ts(t, "2001-12-02 09:00:00"),
	}))

	price := func(v float64) *float64 { return &v }

	tests := []struct {
		name      string
		filter    model.SearchFilter
		wantItems []string
	}{
		{name: "no_filters_matches_all", filter: model.SearchFilter{}, wantItems: []string{"item1", "item2", "item3"}},
		{name: "by_item_id", filter: model.SearchFilter{ItemID: "item2"}, wantItems: []string{"item2"}},
		{name: "by_seller", filter: model.SearchFilter{SellerID: "seller2"}, wantItems: []string{"item3"}},
		{name: "by_category", filter: model.SearchFilter{Category: "Photography"}, wantItems: []string{"item1", "item3"}},
		{name: "description_case_insensitive", filter: model.SearchFilter{Description: "rangefinder"}, wantItems: []string{"item1"}},
		{name: "description_substring", filter: model.SearchFilter{Description: "35mm"}, wantItems: []string{"item1", "item3"}},
		{name: "min_price_uses_derived_current", filter: model.SearchFilter{MinPrice: price(45)}, wantItems: []string{"item1", "item2", "item3"}},
		{name: "min_price_above_first_bid", filter: model.SearchFilter{MinPrice: price(50)}, wantItems: []string{"item2", "item3"}},
		{name: "max_price", filter: model.SearchFilter{MaxPrice: price(60)}, wantItems: []string{"item1", "item3"}},
		{name: "price_range", filter: model.SearchFilter{MinPrice: price(40), MaxPrice: price(70)}, wantItems: []string{"item1", "item3"}},
		{name: "combined", filter: model.SearchFilter{Category: "Photography", Description: "35mm", MinPrice: price(50)}, wantItems: []string{"item3"}},
		{name: "no_match", filter: model.SearchFilter{Category: "Furniture"}, wantItems: []string{}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			items, err := repo.SearchItems(ctx, tc.filter)
			require.NoError(t, err)

			gotItems := make([]string, 0, len(items))
			for _, item := range items {
				gotItems = append(gotItems, item.ItemID)
			}
			require.Equal(t, tc.wantItems, gotItems)
		})
	}
}
