package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"uplift/internal/config"
	"uplift/internal/database"
	"uplift/internal/models"
	"uplift/internal/repository"
	"uplift/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// newTestServer wires a Server against an in-memory sqlite database,
// skipping the metrics middleware so tests can build servers freely.
func newTestServer(t *testing.T) (*Server, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(database.Models()...))

	cfg := &config.Config{
		JWTSecret:  "test-secret-test-secret-test-secret",
		Env:        "test",
		FeedWindow: 72,
	}

	s := &Server{
		config:         cfg,
		db:             db,
		userRepo:       repository.NewUserRepository(db),
		campaignRepo:   repository.NewCampaignRepository(db),
		postRepo:       repository.NewPostRepository(db),
		submissionRepo: repository.NewSubmissionRepository(db),
	}
	s.feedService = service.NewFeedService(s.postRepo, cfg.FeedWindow)
	s.moderationService = service.NewModerationService(s.userRepo)
	s.campaignService = service.NewCampaignService(s.campaignRepo, s.userRepo, s.moderationService)
	s.decisionService = service.NewDecisionService(s.submissionRepo)
	return s, db
}

// asUser injects an authenticated user id, standing in for AuthRequired.
func asUser(userID uint) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals("userID", userID)
		return c.Next()
	}
}

func createTestUser(t *testing.T, db *gorm.DB, username string, admin, deactivated bool) *models.User {
	t.Helper()
	user := &models.User{
		Username:      username,
		Email:         username + "@example.com",
		Password:      "x",
		IsAdmin:       admin,
		IsDeactivated: deactivated,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createTestCampaignWithPost(t *testing.T, db *gorm.DB, owner *models.User, name string) (*models.Campaign, *models.CampaignPost) {
	t.Helper()
	campaign := &models.Campaign{UserID: owner.ID, Name: name, Description: "d"}
	require.NoError(t, db.Create(campaign).Error)
	post := &models.CampaignPost{CampaignID: campaign.ID, Body: "announcement"}
	require.NoError(t, db.Create(post).Error)
	return campaign, post
}

func doJSON(t *testing.T, app *fiber.App, method, target string, body io.Reader) (*http.Response, []byte) {
	t.Helper()
	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, raw
}

func TestGetFeedExcludesDeactivatedOwners(t *testing.T) {
	t.Parallel()

	s, db := newTestServer(t)
	active := createTestUser(t, db, "active", false, false)
	gone := createTestUser(t, db, "gone", false, true)
	_, visible := createTestCampaignWithPost(t, db, active, "a")
	createTestCampaignWithPost(t, db, gone, "g")

	app := fiber.New()
	app.Get("/feed", s.GetFeed)

	resp, raw := doJSON(t, app, http.MethodGet, "/feed", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var page service.FeedPage
	require.NoError(t, json.Unmarshal(raw, &page))
	require.Len(t, page.Posts, 1)
	assert.Equal(t, visible.ID, page.Posts[0].ID)
}

func TestGetFeedAdminSeesDeactivatedOwners(t *testing.T) {
	t.Parallel()

	s, db := newTestServer(t)
	admin := createTestUser(t, db, "admin", true, false)
	gone := createTestUser(t, db, "gone", false, true)
	_, hidden := createTestCampaignWithPost(t, db, gone, "g")

	app := fiber.New()
	app.Use(asUser(admin.ID))
	app.Get("/feed", s.GetFeed)

	resp, raw := doJSON(t, app, http.MethodGet, "/feed", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var page service.FeedPage
	require.NoError(t, json.Unmarshal(raw, &page))
	require.Len(t, page.Posts, 1)
	assert.Equal(t, hidden.ID, page.Posts[0].ID)
}

func TestGetFeedCommentsNeverNull(t *testing.T) {
	t.Parallel()

	s, db := newTestServer(t)
	owner := createTestUser(t, db, "org", false, false)
	createTestCampaignWithPost(t, db, owner, "c")

	app := fiber.New()
	app.Get("/feed", s.GetFeed)

	_, raw := doJSON(t, app, http.MethodGet, "/feed", nil)
	assert.Contains(t, string(raw), `"comments":[]`)
}

func TestGetFeedFutureSinceIsEmpty(t *testing.T) {
	t.Parallel()

	s, db := newTestServer(t)
	owner := createTestUser(t, db, "org", false, false)
	createTestCampaignWithPost(t, db, owner, "c")

	app := fiber.New()
	app.Get("/feed", s.GetFeed)

	since := time.Now().Add(time.Hour).UTC().Format(time.RFC3339)
	resp, raw := doJSON(t, app, http.MethodGet, "/feed?since="+since, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var page service.FeedPage
	require.NoError(t, json.Unmarshal(raw, &page))
	assert.NotNil(t, page.Posts)
	assert.Empty(t, page.Posts)
}

func TestGetFeedRejectsBadCursor(t *testing.T) {
	t.Parallel()

	s, _ := newTestServer(t)
	app := fiber.New()
	app.Get("/feed", s.GetFeed)

	resp, _ := doJSON(t, app, http.MethodGet, "/feed?cursor=yesterday", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetUserFeedShowsDeactivatedOwner(t *testing.T) {
	t.Parallel()

	s, db := newTestServer(t)
	gone := createTestUser(t, db, "gone", false, true)
	createTestCampaignWithPost(t, db, gone, "g")

	app := fiber.New()
	app.Get("/users/:id/feed", s.GetUserFeed)

	resp, raw := doJSON(t, app, http.MethodGet, "/users/1/feed", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var page service.FeedPage
	require.NoError(t, json.Unmarshal(raw, &page))
	assert.Len(t, page.Posts, 1)
}

func TestGetPostVisibilityStatuses(t *testing.T) {
	t.Parallel()

	s, db := newTestServer(t)
	gone := createTestUser(t, db, "gone", false, true)
	admin := createTestUser(t, db, "admin", true, false)
	_, post := createTestCampaignWithPost(t, db, gone, "g")

	anon := fiber.New()
	anon.Get("/posts/:id", s.GetPost)

	resp, _ := doJSON(t, anon, http.MethodGet, "/posts/1", nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	asAdmin := fiber.New()
	asAdmin.Use(asUser(admin.ID))
	asAdmin.Get("/posts/:id", s.GetPost)

	resp, raw := doJSON(t, asAdmin, http.MethodGet, "/posts/1", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var got models.FeedPost
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, post.ID, got.ID)

	resp, _ = doJSON(t, anon, http.MethodGet, "/posts/999", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDeleteOriginalPostRemovesCampaignAndStrikes(t *testing.T) {
	t.Parallel()

	s, db := newTestServer(t)
	owner := createTestUser(t, db, "owner", false, false)
	admin := createTestUser(t, db, "admin", true, false)
	campaign, _ := createTestCampaignWithPost(t, db, owner, "c")

	app := fiber.New()
	app.Use(asUser(admin.ID))
	app.Delete("/posts/:id", s.DeletePost)

	req := httptest.NewRequest(http.MethodDelete, "/posts/1", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var count int64
	db.Model(&models.Campaign{}).Where("id = ?", campaign.ID).Count(&count)
	assert.Zero(t, count)

	var struck models.User
	require.NoError(t, db.Take(&struck, owner.ID).Error)
	assert.Equal(t, 1, struck.Strikes)
}

func TestDeletePostForbiddenForStranger(t *testing.T) {
	t.Parallel()

	s, db := newTestServer(t)
	owner := createTestUser(t, db, "owner", false, false)
	stranger := createTestUser(t, db, "stranger", false, false)
	_, _ = createTestCampaignWithPost(t, db, owner, "c")

	app := fiber.New()
	app.Use(asUser(stranger.ID))
	app.Delete("/posts/:id", s.DeletePost)

	req := httptest.NewRequest(http.MethodDelete, "/posts/1", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestCreateCampaignUpdateOwnership(t *testing.T) {
	t.Parallel()

	s, db := newTestServer(t)
	owner := createTestUser(t, db, "owner", false, false)
	stranger := createTestUser(t, db, "stranger", false, false)
	campaign, _ := createTestCampaignWithPost(t, db, owner, "c")

	route := func(userID uint) *fiber.App {
		app := fiber.New()
		app.Use(asUser(userID))
		app.Post("/campaigns/:id/updates", s.CreateCampaignUpdate)
		return app
	}

	body := `{"body":"we hit our first milestone"}`
	resp, _ := doJSON(t, route(stranger.ID), http.MethodPost,
		"/campaigns/1/updates", jsonBody(body))
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, raw := doJSON(t, route(owner.ID), http.MethodPost,
		"/campaigns/1/updates", jsonBody(body))
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var post models.CampaignPost
	require.NoError(t, json.Unmarshal(raw, &post))
	assert.True(t, post.IsUpdate)
	assert.Equal(t, campaign.ID, post.CampaignID)
}
