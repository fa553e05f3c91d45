package integrationtests

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	auction "auction-base/internal/auctionService"
	model "auction-base/internal/models"
	"auction-base/internal/repository"
	"auction-base/internal/server"
	"auction-base/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

type testApp struct {
	router *gin.Engine
	repo   *repository.SQLRepo
}

// setupTestApp wires the full stack against an in-memory sqlite
// database for integration testing.
func setupTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := store.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, store.Bootstrap(context.Background(), db))

	repo := repository.NewSQLRepo(db)
	service := auction.NewAuctionService(repo)
	router := server.SetupRouter(service)

	return &testApp{router: router, repo: repo}
}

func (app *testApp) seedUser(t *testing.T, userID string) {
	t.Helper()
	require.NoError(t, app.repo.CreateUser(context.Background(), model.User{UserID: userID}))
}

func (app *testApp) seedItem(t *testing.T, item model.Item, categories ...string) {
	t.Helper()
	require.NoError(t, app.repo.CreateItem(context.Background(), item, categories))
}

func (app *testApp) setTime(t *testing.T, raw string) {
	t.Helper()
	require.NoError(t, app.repo.SetCurrentTime(context.Background(), parseTime(t, raw)))
}

func parseTime(t *testing.T, raw string) time.Time {
	t.Helper()
	parsed, err := model.ParseTimestamp(raw)
	require.NoError(t, err)
	return parsed
}

// get executes a GET request against the app and returns the recorder.
func (app *testApp) get(path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	app.router.ServeHTTP(w, req)
	return w
}

// postForm executes a form POST against the app and returns the recorder.
func (app *testApp) postForm(path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	app.router.ServeHTTP(w, req)
	return w
}
