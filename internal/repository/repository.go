package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"auction-base/internal/auctionerrors"
	model "auction-base/internal/models"
)

//go:generate mockgen -source=repository.go -destination=mock_repository.go -package=repository

// AuctionDB defines the storage interface for the auction system
type AuctionDB interface {
	GetCurrentTime(ctx context.Context) (time.Time, error)
	SetCurrentTime(ctx context.Context, t time.Time) error
	GetUserByID(ctx context.Context, userID string) (model.User, error)
	GetItemByID(ctx context.Context, itemID string) (model.Item, error)
	GetBidsByItem(ctx context.Context, itemID string) ([]model.Bid, error)
	GetWinningBid(ctx context.Context, itemID string) (model.Bid, error)
	RecordBidForItem(ctx context.Context, bid model.Bid) error
	SearchItems(ctx context.Context, filter model.SearchFilter) ([]model.Item, error)
	CreateUser(ctx context.Context, user model.User) error
	CreateItem(ctx context.Context, item model.Item, categories []string) error
}

// itemSelect computes Currently, Number_of_Bids and the concatenated
// category list from the Bids and Categories relations at read time, so
// the Items table never carries stale derived columns.
const itemSelect = `
	SELECT i.ItemID, i.Name, i.Description, i.Seller_UserID, i.Started, i.Ends,
	       i.First_Bid, i.Buy_Price,
	       MAX(i.First_Bid, IFNULL((SELECT MAX(b.Amount) FROM Bids b WHERE b.ItemID = i.ItemID), i.First_Bid)) AS Currently,
	       (SELECT COUNT(*) FROM Bids b WHERE b.ItemID = i.ItemID) AS Number_of_Bids,
	       IFNULL((SELECT GROUP_CONCAT(c.Category, ', ') FROM Categories c WHERE c.ItemID = i.ItemID), '') AS Categories
	FROM Items i
`

// SQLRepo is a sqlite-backed implementation of AuctionDB issuing
// parameterized queries and wrapping every write in a transaction
type SQLRepo struct {
	db *sql.DB
}

// NewSQLRepo creates a new sqlite-backed repository instance
func NewSQLRepo(db *sql.DB) *SQLRepo {
	return &SQLRepo{db: db}
}

// GetCurrentTime reads the simulated clock from the single CurrentTime row
func (r *SQLRepo) GetCurrentTime(ctx context.Context) (time.Time, error) {
	var raw string
	err := r.db.QueryRowContext(ctx, `SELECT Time FROM CurrentTime`).Scan(&raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("repository: failed to read current time: %w", err)
	}

	t, err := model.ParseTimestamp(raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("repository: stored current time %q is malformed: %w", raw, err)
	}
	return t, nil
}

// SetCurrentTime overwrites the single CurrentTime row atomically
func (r *SQLRepo) SetCurrentTime(ctx context.Context, t time.Time) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("repository: failed to begin transaction: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `UPDATE CurrentTime SET Time = ?`, model.FormatTimestamp(t)); err != nil {
		tx.Rollback()
		return fmt.Errorf("repository: failed to update current time: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("repository: failed to commit time update: %w", err)
	}
	return nil
}

// GetUserByID returns the user with the given ID
func (r *SQLRepo) GetUserByID(ctx context.Context, userID string) (model.User, error) {
	var user model.User
	err := r.db.QueryRowContext(ctx,
		`SELECT UserID, Rating, Location, Country FROM Users WHERE UserID = ?`, userID).
		Scan(&user.UserID, &user.Rating, &user.Location, &user.Country)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, fmt.Errorf("repository: user %s: %w", userID, auctionerrors.ErrUserNotFound)
	}
	if err != nil {
		return model.User{}, fmt.Errorf("repository: failed to get user %s: %w", userID, err)
	}
	return user, nil
}

// GetItemByID returns the item with the given ID, including its derived
// Currently, Number_of_Bids and category list
func (r *SQLRepo) GetItemByID(ctx context.Context, itemID string) (model.Item, error) {
	row := r.db.QueryRowContext(ctx, itemSelect+` WHERE i.ItemID = ?`, itemID)
	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Item{}, fmt.Errorf("repository: item %s: %w", itemID, auctionerrors.ErrItemNotFound)
	}
	if err != nil {
		return model.Item{}, fmt.Errorf("repository: failed to get item %s: %w", itemID, err)
	}
	return item, nil
}

// GetBidsByItem returns all bids for an item, earliest first
func (r *SQLRepo) GetBidsByItem(ctx context.Context, itemID string) ([]model.Bid, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT BidID, UserID, ItemID, Amount, Time FROM Bids WHERE ItemID = ? ORDER BY Time ASC, Amount ASC`, itemID)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to get bids for item %s: %w", itemID, err)
	}
	defer rows.Close()

	var bids []model.Bid
	for rows.Next() {
		bid, err := scanBid(rows)
		if err != nil {
			return nil, fmt.Errorf("repository: failed to scan bid for item %s: %w", itemID, err)
		}
		bids = append(bids, bid)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: failed to read bids for item %s: %w", itemID, err)
	}

	if len(bids) == 0 {
		return nil, fmt.Errorf("repository: get bids for item %s: %w", itemID, auctionerrors.ErrNoBids)
	}
	return bids, nil
}

// GetWinningBid returns the highest bid for an item; on equal amounts
// the earliest bid wins
func (r *SQLRepo) GetWinningBid(ctx context.Context, itemID string) (model.Bid, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT BidID, UserID, ItemID, Amount, Time FROM Bids WHERE ItemID = ? ORDER BY Amount DESC, Time ASC LIMIT 1`, itemID)
	bid, err := scanBid(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Bid{}, fmt.Errorf("repository: get winning bid for item %s: %w", itemID, auctionerrors.ErrNoBids)
	}
	if err != nil {
		return model.Bid{}, fmt.Errorf("repository: failed to get winning bid for item %s: %w", itemID, err)
	}
	return bid, nil
}

// RecordBidForItem appends a bid row inside a single transaction; on
// any failure the transaction is rolled back and no partial state is
// left behind
func (r *SQLRepo) RecordBidForItem(ctx context.Context, bid model.Bid) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("repository: failed to begin transaction: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO Bids (BidID, UserID, ItemID, Amount, Time) VALUES (?, ?, ?, ?, ?)`,
		bid.BidID, bid.UserID, bid.ItemID, bid.Amount, model.FormatTimestamp(bid.Time))
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("repository: failed to record bid for item %s: %w", bid.ItemID, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("repository: failed to commit bid for item %s: %w", bid.ItemID, err)
	}
	return nil
}

// SearchItems returns items matching every provided filter field,
// grouped one row per item. The status filter is deliberately not
// handled here: status is derived in the service from the same
// predicate the item page uses.
func (r *SQLRepo) SearchItems(ctx context.Context, filter model.SearchFilter) ([]model.Item, error) {
	query := `SELECT * FROM (` + itemSelect + `) AS it`
	var conds []string
	var args []any

	if filter.ItemID != "" {
		conds = append(conds, `it.ItemID = ?`)
		args = append(args, filter.ItemID)
	}
	if filter.SellerID != "" {
		conds = append(conds, `it.Seller_UserID = ?`)
		args = append(args, filter.SellerID)
	}
	if filter.Category != "" {
		conds = append(conds, `EXISTS (SELECT 1 FROM Categories c WHERE c.ItemID = it.ItemID AND c.Category = ?)`)
		args = append(args, filter.Category)
	}
	if filter.Description != "" {
		conds = append(conds, `it.Description LIKE ?`)
		args = append(args, "%"+filter.Description+"%")
	}
	if filter.MinPrice != nil {
		conds = append(conds, `it.Currently >= ?`)
		args = append(args, *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		conds = append(conds, `it.Currently <= ?`)
		args = append(args, *filter.MaxPrice)
	}

	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, ` AND `)
	}
	query += ` ORDER BY it.ItemID`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to search items: %w", err)
	}
	defer rows.Close()

	var items []model.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("repository: failed to scan search result: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: failed to read search results: %w", err)
	}
	return items, nil
}

// CreateUser inserts a user row
func (r *SQLRepo) CreateUser(ctx context.Context, user model.User) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO Users (UserID, Rating, Location, Country) VALUES (?, ?, ?, ?)`,
		user.UserID, user.Rating, user.Location, user.Country)
	if err != nil {
		return fmt.Errorf("repository: failed to create user %s: %w", user.UserID, err)
	}
	return nil
}

// CreateItem inserts an item and its category rows in one transaction
func (r *SQLRepo) CreateItem(ctx context.Context, item model.Item, categories []string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("repository: failed to begin transaction: %w", err)
	}

	var buyPrice any
	if item.BuyPrice != nil {
		buyPrice = *item.BuyPrice
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO Items (ItemID, Name, Description, Seller_UserID, Started, Ends, First_Bid, Buy_Price)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		item.ItemID, item.Name, item.Description, item.SellerUserID,
		model.FormatTimestamp(item.Started), model.FormatTimestamp(item.Ends), item.FirstBid, buyPrice)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("repository: failed to create item %s: %w", item.ItemID, err)
	}

	for _, category := range categories {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO Categories (ItemID, Category) VALUES (?, ?)`, item.ItemID, category); err != nil {
			tx.Rollback()
			return fmt.Errorf("repository: failed to add category for item %s: %w", item.ItemID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("repository: failed to commit item %s: %w", item.ItemID, err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (model.Item, error) {
	var item model.Item
	var started, ends string
	var buyPrice sql.NullFloat64

	err := row.Scan(&item.ItemID, &item.Name, &item.Description, &item.SellerUserID,
		&started, &ends, &item.FirstBid, &buyPrice,
		&item.Currently, &item.NumberOfBids, &item.Categories)
	if err != nil {
		return model.Item{}, err
	}

	if item.Started, err = model.ParseTimestamp(started); err != nil {
		return model.Item{}, err
	}
	if item.Ends, err = model.ParseTimestamp(ends); err != nil {
		return model.Item{}, err
	}
	if buyPrice.Valid {
		item.BuyPrice = &buyPrice.Float64
	}
	return item, nil
}

func scanBid(row rowScanner) (model.Bid, error) {
	var bid model.Bid
	var bidTime string

	err := row.Scan(&bid.BidID, &bid.UserID, &bid.ItemID, &bid.Amount, &bidTime)
	if err != nil {
		return model.Bid{}, err
	}

	if bid.Time, err = model.ParseTimestamp(bidTime); err != nil {
		return model.Bid{}, err
	}
	return bid, nil
}
