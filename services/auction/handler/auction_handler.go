package handler

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	model "auction-base/internal/models"
	"auction-base/services/auction/helpers"
	"auction-base/utils"

	"github.com/gin-gonic/gin"
)

type AuctionServiceInterface interface {
	CurrentTime(ctx context.Context) (time.Time, error)
	SetCurrentTime(ctx context.Context, raw string) error
	ItemStatus(ctx context.Context, itemID string) (model.ItemDetail, error)
	PlaceBid(ctx context.Context, userID, itemID string, amount float64) (model.BidOutcome, error)
	Search(ctx context.Context, filter model.SearchFilter) ([]model.SearchResult, error)
}

type AuctionHandler struct {
	service AuctionServiceInterface
}

func NewAuctionHandler(service AuctionServiceInterface) *AuctionHandler {
	return &AuctionHandler{service: service}
}

// CurrTimeHandler handles GET /currtime
func (h *AuctionHandler) CurrTimeHandler(c *gin.Context) {
	now, err := h.service.CurrentTime(c.Request.Context())
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.HTMLPage(c, status, "currtime.html", nil, message)
		utils.Error("CurrTimeHandler: failed to read current time", map[string]any{
			"handler": "CurrTimeHandler",
			"error":   err.Error(),
		})
		return
	}

	utils.HTMLPage(c, http.StatusOK, "currtime.html", gin.H{
		"Time": model.FormatTimestamp(now),
	}, "")
}

// ShowSelectTimeHandler handles GET /selecttime
func (h *AuctionHandler) ShowSelectTimeHandler(c *gin.Context) {
	utils.HTMLPage(c, http.StatusOK, "selecttime.html", nil, "")
}

// SelectTimeHandler handles POST /selecttime
func (h *AuctionHandler) SelectTimeHandler(c *gin.Context) {
	var req helpers.SelectTimeRequest
	if err := c.ShouldBind(&req); err != nil {
		utils.HTMLPage(c, http.StatusBadRequest, "selecttime.html", nil, "Cannot save selected time, it is invalid.")
		utils.Warn("SelectTimeHandler: binding error", map[string]any{"error": err.Error()})
		return
	}

	selected := fmt.Sprintf("%s-%s-%s %s:%s:%s", req.Year, req.Month, req.Day, req.Hour, req.Minute, req.Second)
	if err := h.service.SetCurrentTime(c.Request.Context(), selected); err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.HTMLPage(c, status, "selecttime.html", nil, message)
		utils.Warn("SelectTimeHandler: failed to update time", map[string]any{
			"handler":  "SelectTimeHandler",
			"selected": selected,
			"error":    err.Error(),
		})
		return
	}

	message := fmt.Sprintf("(Hello, %s. The current time is now: %s.)", req.EnterName, selected)
	utils.HTMLPage(c, http.StatusOK, "selecttime.html", nil, message)
	helpers.LogSuccess("SelectTimeHandler", "current time updated", map[string]any{
		"selected": selected,
	})
}

// ShowSearchHandler handles GET /search
func (h *AuctionHandler) ShowSearchHandler(c *gin.Context) {
	utils.HTMLPage(c, http.StatusOK, "search.html", nil, "")
}

// SearchHandler handles POST /search
func (h *AuctionHandler) SearchHandler(c *gin.Context) {
	var req helpers.SearchRequest
	if err := c.ShouldBind(&req); err != nil {
		utils.HTMLPage(c, http.StatusBadRequest, "search.html", nil, "Invalid search form.")
		utils.Warn("SearchHandler: binding error", map[string]any{"error": err.Error()})
		return
	}

	if req.UserID == "" && req.ItemID == "" && req.Category == "" &&
		req.Description == "" && req.MinPrice == "" && req.MaxPrice == "" {
		utils.HTMLPage(c, http.StatusBadRequest, "search.html", nil, "All of the queries are missing a value. Please try again.")
		return
	}

	minPrice, errMin := parsePrice(req.MinPrice)
	maxPrice, errMax := parsePrice(req.MaxPrice)
	if errMin != nil || errMax != nil {
		utils.HTMLPage(c, http.StatusBadRequest, "search.html", nil, "minPrice and maxPrice must be numbers.")
		utils.Warn("SearchHandler: malformed price filter", map[string]any{
			"min_price": req.MinPrice,
			"max_price": req.MaxPrice,
		})
		return
	}

	filter := model.SearchFilter{
		SellerID:    req.UserID,
		ItemID:      req.ItemID,
		Category:    req.Category,
		Description: req.Description,
		MinPrice:    minPrice,
		MaxPrice:    maxPrice,
		Status:      req.Status,
	}

	results, err := h.service.Search(c.Request.Context(), filter)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.HTMLPage(c, status, "search.html", nil, message)
		utils.Warn("SearchHandler: search failed", map[string]any{"error": err.Error()})
		return
	}

	rows := make([]helpers.SearchRow, 0, len(results))
	for _, res := range results {
		rows = append(rows, searchRow(res))
	}

	message := ""
	if len(rows) == 0 {
		message = "No auctions matched your search."
	}
	utils.HTMLPage(c, http.StatusOK, "search.html", gin.H{"Results": rows}, message)
	helpers.LogSuccess("SearchHandler", "search completed", map[string]any{
		"results": len(rows),
	})
}

// ItemStatusHandler handles GET /items?id=<itemID>
func (h *AuctionHandler) ItemStatusHandler(c *gin.Context) {
	itemID := c.Query("id")
	if itemID == "" {
		utils.HTMLPage(c, http.StatusBadRequest, "items.html", nil, "No item id specified.")
		return
	}

	detail, err := h.service.ItemStatus(c.Request.Context(), itemID)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.HTMLPage(c, status, "items.html", nil, message)
		utils.Warn("ItemStatusHandler: failed to load item", map[string]any{
			"item_id": itemID,
			"error":   err.Error(),
		})
		return
	}

	bids := make([]helpers.BidRow, 0, len(detail.Bids))
	for _, bid := range detail.Bids {
		bids = append(bids, helpers.BidRow{
			UserID: bid.UserID,
			Time:   model.FormatTimestamp(bid.Time),
			Amount: formatAmount(bid.Amount),
		})
	}

	data := gin.H{
		"Found":        true,
		"ItemID":       detail.Item.ItemID,
		"Name":         detail.Item.Name,
		"Categories":   detail.Item.Categories,
		"Seller":       detail.Item.SellerUserID,
		"Description":  detail.Item.Description,
		"Started":      model.FormatTimestamp(detail.Item.Started),
		"Ends":         model.FormatTimestamp(detail.Item.Ends),
		"FirstBid":     formatAmount(detail.Item.FirstBid),
		"Currently":    formatAmount(detail.Item.Currently),
		"NumberOfBids": strconv.Itoa(detail.Item.NumberOfBids),
		"HasBuyPrice":  detail.Item.BuyPrice != nil,
		"BuyPrice":     "",
		"Status":       detail.Status.String(),
		"HasWinner":    detail.HasWinner,
		"Winner":       detail.Winner,
		"Bids":         bids,
	}
	if detail.Item.BuyPrice != nil {
		data["BuyPrice"] = formatAmount(*detail.Item.BuyPrice)
	}

	utils.HTMLPage(c, http.StatusOK, "items.html", data, "")
	helpers.LogSuccess("ItemStatusHandler", "item page rendered", map[string]any{
		"item_id": itemID,
		"status":  detail.Status.String(),
	})
}

// ShowAddBidHandler handles GET /add_bid
func (h *AuctionHandler) ShowAddBidHandler(c *gin.Context) {
	utils.HTMLPage(c, http.StatusOK, "add_bid.html", nil, "")
}

// PlaceBidHandler handles POST /add_bid
func (h *AuctionHandler) PlaceBidHandler(c *gin.Context) {
	var req helpers.PlaceBidRequest
	if err := c.ShouldBind(&req); err != nil {
		utils.HTMLPage(c, http.StatusBadRequest, "add_bid.html", nil, "At least one of the following is invalid: UserID, ItemID, or Amount.")
		utils.Warn("PlaceBidHandler: binding error", map[string]any{"error": err.Error()})
		return
	}

	if req.UserID == "" || req.ItemID == "" || req.Price == "" {
		utils.HTMLPage(c, http.StatusBadRequest, "add_bid.html", nil, "At least one of the following is invalid: UserID, ItemID, or Amount.")
		return
	}

	amount, err := strconv.ParseFloat(req.Price, 64)
	if err != nil {
		utils.HTMLPage(c, http.StatusBadRequest, "add_bid.html", nil, "At least one of the following is invalid: UserID, ItemID, or Amount.")
		utils.Warn("PlaceBidHandler: malformed amount", map[string]any{
			"price": req.Price,
			"error": err.Error(),
		})
		return
	}

	outcome, err := h.service.PlaceBid(c.Request.Context(), req.UserID, req.ItemID, amount)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.HTMLPage(c, status, "add_bid.html", nil, message)
		utils.Error("PlaceBidHandler: failed to place bid", map[string]any{
			"handler": "PlaceBidHandler",
			"item_id": req.ItemID,
			"user_id": req.UserID,
			"error":   err.Error(),
		})
		return
	}

	var message string
	if outcome.Purchased {
		message = fmt.Sprintf("You have purchased item: %s for: %s.", outcome.ItemName, formatAmount(outcome.Bid.Amount))
	} else {
		message = fmt.Sprintf("You have placed a bid on item: %s for: %s.", outcome.ItemName, formatAmount(outcome.Bid.Amount))
	}

	utils.HTMLPage(c, http.StatusCreated, "add_bid.html", nil, message)
	helpers.LogSuccess("PlaceBidHandler", "bid recorded successfully", map[string]any{
		"bid_id":    outcome.Bid.BidID,
		"item_id":   outcome.Bid.ItemID,
		"user_id":   outcome.Bid.UserID,
		"amount":    outcome.Bid.Amount,
		"purchased": outcome.Purchased,
	})
}

func searchRow(res model.SearchResult) helpers.SearchRow {
	row := helpers.SearchRow{
		ItemID:       res.Item.ItemID,
		Name:         res.Item.Name,
		Categories:   res.Item.Categories,
		Started:      model.FormatTimestamp(res.Item.Started),
		Ends:         model.FormatTimestamp(res.Item.Ends),
		CurrentTime:  model.FormatTimestamp(res.CurrentTime),
		FirstBid:     formatAmount(res.Item.FirstBid),
		CurrentPrice: formatAmount(res.Item.Currently),
		NumberOfBids: strconv.Itoa(res.Item.NumberOfBids),
		SellerID:     res.Item.SellerUserID,
		Status:       res.Status.String(),
	}
	if res.Item.BuyPrice != nil {
		row.BuyPrice = formatAmount(*res.Item.BuyPrice)
	}
	return row
}

func formatAmount(amount float64) string {
	return strconv.FormatFloat(amount, 'f', 2, 64)
}

// parsePrice converts an optional form price into a filter bound; an
// empty field means no bound.
func parsePrice(raw string) (*float64, error) {
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
