package main

import (
	"context"
	"fmt"
	"os"
	"time"

	auction "auction-base/internal/auctionService"
	"auction-base/internal/config"
	model "auction-base/internal/models"
	"auction-base/internal/repository"
	"auction-base/internal/server"
	"auction-base/internal/store"
	"auction-base/utils"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	gin.SetMode(cfg.Server.Mode)

	db, err := store.Open(cfg.Database.Path)
	if err != nil {
		utils.Fatal("Failed to open database", map[string]any{"path": cfg.Database.Path, "error": err.Error()})
	}
	defer db.Close()

	ctx := context.Background()
	if err := store.Bootstrap(ctx, db); err != nil {
		utils.Fatal("Failed to bootstrap database", map[string]any{"error": err.Error()})
	}

	repo := repository.NewSQLRepo(db)

	if cfg.Database.Seed {
		if err := prepopulate(ctx, repo); err != nil {
			utils.Fatal("Failed to seed database", map[string]any{"error": err.Error()})
		}
	}

	auctionSvc := auction.NewAuctionService(repo)

	router := server.SetupRouter(auctionSvc)

	fmt.Printf("Starting AuctionBase server on %s...\n", cfg.Server.Addr)
	if err := router.Run(cfg.Server.Addr); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start server: %v\n", err)
		os.Exit(1)
	}
}

// prepopulate adds sample users and items for local development
func prepopulate(ctx context.Context, repo *repository.SQLRepo) error {
	users := []model.User{
		{UserID: "seller1", Rating: 120, Location: "Palo Alto", Country: "USA"},
		{UserID: "bidder1", Rating: 34, Location: "Berlin", Country: "Germany"},
		{UserID: "bidder2", Rating: 7, Location: "Tokyo", Country: "Japan"},
	}
	for _, user := range users {
		if err := repo.CreateUser(ctx, user); err != nil {
			return err
		}
	}

	buyPrice := 250.0
	items := []struct {
		item       model.Item
		categories []string
	}{
		{
			item: model.Item{
				ItemID: "item1", Name: "Vintage camera", Description: "Working 35mm rangefinder",
				SellerUserID: "seller1",
				Started:      mustTime("2001-12-01 08:00:00"), Ends: mustTime("2001-12-10 08:00:00"),
				FirstBid: 25,
			},
			categories: []string{"Photography", "Collectibles"},
		},
		{
			item: model.Item{
				ItemID: "item2", Name: "Road bike", Description: "Steel frame, recently serviced",
				SellerUserID: "seller1",
				Started:      mustTime("2001-12-02 12:00:00"), Ends: mustTime("2001-12-12 12:00:00"),
				FirstBid: 100, BuyPrice: &buyPrice,
			},
			categories: []string{"Sports"},
		},
	}
	for _, entry := range items {
		if err := repo.CreateItem(ctx, entry.item, entry.categories); err != nil {
			return err
		}
	}

	return nil
}

func mustTime(s string) time.Time {
	t, err := model.ParseTimestamp(s)
	if err != nil {
		panic(err)
	}
	return t
}
