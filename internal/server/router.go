package server

import (
	"html/template"

	auction "auction-base/internal/auctionService"
	handler "auction-base/services/auction/handler"
	"auction-base/web"

	"github.com/gin-gonic/gin"
)

// SetupRouter configures all Gin routes for the application
func SetupRouter(auctionService *auction.AuctionService) *gin.Engine {
	router := gin.New() // New router without default middleware for full control over middleware and logging

	router.Use(gin.Recovery())          // recover from panics
	router.Use(RequestLoggerMiddleware) // custom request logging

	// Templates are embedded so the binary and the tests run from any
	// working directory.
	router.SetHTMLTemplate(template.Must(template.ParseFS(web.Templates, "templates/*.html")))

	auctionHandler := handler.NewAuctionHandler(auctionService)

	router.GET("/currtime", auctionHandler.CurrTimeHandler)

	router.GET("/selecttime", auctionHandler.ShowSelectTimeHandler)
	router.POST("/selecttime", auctionHandler.SelectTimeHandler)

	router.GET("/search", auctionHandler.ShowSearchHandler)
	router.POST("/search", auctionHandler.SearchHandler)

	router.GET("/items", auctionHandler.ItemStatusHandler)

	router.GET("/add_bid", auctionHandler.ShowAddBidHandler)
	router.POST("/add_bid", auctionHandler.PlaceBidHandler)

	return router
}
