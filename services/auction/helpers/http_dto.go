package helpers

// Form DTOs bound from the page forms.

type SelectTimeRequest struct {
	Month     string `form:"MM"`
	Day       string `form:"dd"`
	Year      string `form:"yyyy"`
	Hour      string `form:"HH"`
	Minute    string `form:"mm"`
	Second    string `form:"ss"`
	EnterName string `form:"entername"`
}

type SearchRequest struct {
	UserID      string `form:"userID"`
	ItemID      string `form:"itemID"`
	Category    string `form:"category"`
	Description string `form:"description"`
	MinPrice    string `form:"minPrice"`
	MaxPrice    string `form:"maxPrice"`
	Status      string `form:"status"`
}

type PlaceBidRequest struct {
	UserID string `form:"userID"`
	ItemID string `form:"itemID"`
	Price  string `form:"price"`
}

// View rows rendered into the templates; all values preformatted.

type SearchRow struct {
	ItemID       string
	Name         string
	Categories   string
	Started      string
	Ends         string
	CurrentTime  string
	FirstBid     string
	CurrentPrice string
	NumberOfBids string
	BuyPrice     string
	SellerID     string
	Status       string
}

type BidRow struct {
	UserID string
	Time   string
	Amount string
}
