package auction

import (
	"testing"
	"time"

	model "auction-base/internal/models"

	"github.com/stretchr/testify/require"
)

func TestStatusOf(t *testing.T) {
	started := time.Date(2001, 12, 1, 8, 0, 0, 0, time.UTC)
	ends := time.Date(2001, 12, 10, 8, 0, 0, 0, time.UTC)
	buyPrice := 100.0

	base := model.Item{
		ItemID:   "item1",
		Started:  started,
		Ends:     ends,
		FirstBid: 10,
	}

	tests := []struct {
		name     string
		mutate   func(item *model.Item)
		now      time.Time
		expected model.AuctionStatus
	}{
		{
			name:     "before_start",
			mutate:   func(item *model.Item) {},
			now:      started.Add(-time.Second),
			expected: model.StatusNotYetStarted,
		},
		{
			name:     "at_start",
			mutate:   func(item *model.Item) {},
			now:      started,
			expected: model.StatusOpen,
		},
		{
			name:     "mid_auction",
			mutate:   func(item *model.Item) {},
			now:      started.Add(24 * time.Hour),
			expected: model.StatusOpen,
		},
		{
			name:     "at_end_still_open",
			mutate:   func(item *model.Item) {},
			now:      ends,
			expected: model.StatusOpen,
		},
		{
			name:     "after_end",
			mutate:   func(item *model.Item) {},
			now:      ends.Add(time.Second),
			expected: model.StatusEnded,
		},
		{
			name: "buy_price_not_met",
			mutate: func(item *model.Item) {
				item.BuyPrice = &buyPrice
				item.Currently = 99.99
			},
			now:      started.Add(time.Hour),
			expected: model.StatusOpen,
		},
		{
			name: "buy_price_met_closes_early",
			mutate: func(item *model.Item) {
				item.BuyPrice = &buyPrice
				item.Currently = 100
			},
			now:      started.Add(time.Hour),
			expected: model.StatusEnded,
		},
		{
			name: "buy_price_exceeded_closes_early",
			mutate: func(item *model.Item) {
				item.BuyPrice = &buyPrice
				item.Currently = 140
			},
			now:      started.Add(time.Hour),
			expected: model.StatusEnded,
		},
		{
			name: "buy_price_met_but_not_started",
			mutate: func(item *model.Item) {
				item.BuyPrice = &buyPrice
				item.Currently = 150
			},
			now:      started.Add(-time.Hour),
			expected: model.StatusNotYetStarted,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			item := base
			tc.mutate(&item)

			require.Equal(t, tc.expected, StatusOf(item, tc.now))

			// Same inputs must always yield the same status.
			require.Equal(t, StatusOf(item, tc.now), StatusOf(item, tc.now))
		})
	}
}
