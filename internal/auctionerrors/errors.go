package auctionerrors

import "errors"

// Repository-level errors
var (
	ErrUserNotFound = errors.New("user not found")
	ErrItemNotFound = errors.New("item not found")
	ErrNoBids       = errors.New("no bids found for item")
)

// business rule errors
var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrSellerCannotBid   = errors.New("seller cannot bid on own item")
	ErrNegativeAmount    = errors.New("bid amount is negative")
	ErrAmountTooLow      = errors.New("bid amount too low")
	ErrAuctionNotStarted = errors.New("auction has not yet started")
	ErrAuctionEnded      = errors.New("auction has already ended")
	ErrInvalidTime       = errors.New("invalid timestamp")
)

// ErrWriteFailed covers any transactional write that had to be rolled
// back; no partial state is ever visible behind it.
var ErrWriteFailed = errors.New("write failed")
