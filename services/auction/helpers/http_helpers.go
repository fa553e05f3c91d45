package helpers

import (
	"errors"
	"net/http"

	"auction-base/internal/auctionerrors"
	"auction-base/utils"
)

// MapErrorToHTTP maps domain/service errors to an HTTP status code and
// the message shown on the re-rendered page. Every failure is surfaced
// this way; none propagate as a fatal error.
func MapErrorToHTTP(err error) (int, string) {
	switch {
	case errors.Is(err, auctionerrors.ErrInvalidInput):
		return http.StatusBadRequest, "At least one of the following is invalid: UserID, ItemID, or Amount."
	case errors.Is(err, auctionerrors.ErrUserNotFound):
		return http.StatusNotFound, "Could not find user with that UserID."
	case errors.Is(err, auctionerrors.ErrItemNotFound):
		return http.StatusNotFound, "Could not find item with that ItemID."
	case errors.Is(err, auctionerrors.ErrSellerCannotBid):
		return http.StatusConflict, "UserID is the ID of the seller, cannot bid."
	case errors.Is(err, auctionerrors.ErrNegativeAmount):
		return http.StatusBadRequest, "The specified amount is negative."
	case errors.Is(err, auctionerrors.ErrAmountTooLow):
		return http.StatusConflict, "The specified amount is too small."
	case errors.Is(err, auctionerrors.ErrAuctionNotStarted):
		return http.StatusConflict, "The auction has not yet started."
	case errors.Is(err, auctionerrors.ErrAuctionEnded):
		return http.StatusConflict, "The auction has already ended."
	case errors.Is(err, auctionerrors.ErrInvalidTime):
		return http.StatusBadRequest, "Cannot save selected time, it is invalid."
	case errors.Is(err, auctionerrors.ErrWriteFailed):
		return http.StatusInternalServerError, "The operation failed and no changes were made."
	default:
		return http.StatusInternalServerError, "Internal server error."
	}
}

// LogSuccess is a small helper to standardize logging of successful operations
func LogSuccess(handlerName, message string, ctx map[string]any) {
	utils.Info(handlerName+": "+message, ctx)
}
