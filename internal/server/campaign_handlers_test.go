package server

import (
	"encoding/json"
	"net/http"
	"testing"

	"uplift/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateCampaignEndToEnd(t *testing.T) {
	t.Parallel()

	s, db := newTestServer(t)
	org := createTestUser(t, db, "org", false, false)

	app := fiber.New()
	app.Use(asUser(org.ID))
	app.Post("/campaigns", s.CreateCampaign)

	body := `{
		"name": "Beach cleanup",
		"description": "Remove debris after the storm",
		"call_to_action": "Help this weekend",
		"urgency": "high",
		"skills": [{"skill": "logistics", "description": "van driver"}],
		"announcement": "We meet at the pier at 8am"
	}`
	resp, raw := doJSON(t, app, http.MethodPost, "/campaigns", jsonBody(body))
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var campaign models.Campaign
	require.NoError(t, json.Unmarshal(raw, &campaign))
	assert.Equal(t, org.ID, campaign.UserID)
	assert.Len(t, campaign.SkilledImpactRequests, 1)

	var post models.CampaignPost
	require.NoError(t, db.Where("campaign_id = ? AND is_update = ?", campaign.ID, false).Take(&post).Error)
	assert.Equal(t, "We meet at the pier at 8am", post.Body)
}

func TestCreateCampaignValidationStatus(t *testing.T) {
	t.Parallel()

	s, db := newTestServer(t)
	org := createTestUser(t, db, "org", false, false)

	app := fiber.New()
	app.Use(asUser(org.ID))
	app.Post("/campaigns", s.CreateCampaign)

	resp, _ := doJSON(t, app, http.MethodPost, "/campaigns",
		jsonBody(`{"description":"d","call_to_action":"c"}`))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetCampaignVisibility(t *testing.T) {
	t.Parallel()

	s, db := newTestServer(t)
	gone := createTestUser(t, db, "gone", false, true)
	admin := createTestUser(t, db, "admin", true, false)
	campaign, _ := createTestCampaignWithPost(t, db, gone, "hidden")

	anon := fiber.New()
	anon.Get("/campaigns/:id", s.GetCampaign)

	resp, _ := doJSON(t, anon, http.MethodGet, "/campaigns/1", nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	asAdmin := fiber.New()
	asAdmin.Use(asUser(admin.ID))
	asAdmin.Get("/campaigns/:id", s.GetCampaign)

	resp, raw := doJSON(t, asAdmin, http.MethodGet, "/campaigns/1", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var got models.Campaign
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, campaign.ID, got.ID)

	resp, _ = doJSON(t, anon, http.MethodGet, "/campaigns/999", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSearchCampaignsRequiresSkill(t *testing.T) {
	t.Parallel()

	s, db := newTestServer(t)
	org := createTestUser(t, db, "org", false, false)
	campaign, _ := createTestCampaignWithPost(t, db, org, "match")
	require.NoError(t, db.Create(&models.SkilledImpactRequest{
		CampaignID: campaign.ID,
		Skill:      "gis",
	}).Error)

	app := fiber.New()
	app.Get("/campaigns/search", s.SearchCampaigns)

	resp, _ := doJSON(t, app, http.MethodGet, "/campaigns/search", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, raw := doJSON(t, app, http.MethodGet, "/campaigns/search?skill=gis", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var campaigns []models.Campaign
	require.NoError(t, json.Unmarshal(raw, &campaigns))
	assert.Len(t, campaigns, 1)
}

func TestDeleteCampaignByAdminStrikesOwner(t *testing.T) {
	t.Parallel()

	s, db := newTestServer(t)
	org := createTestUser(t, db, "org", false, false)
	admin := createTestUser(t, db, "admin", true, false)
	campaign, _ := createTestCampaignWithPost(t, db, org, "doomed")

	app := fiber.New()
	app.Use(asUser(admin.ID))
	app.Delete("/campaigns/:id", s.DeleteCampaign)

	resp, _ := doJSON(t, app, http.MethodDelete, "/campaigns/1", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var count int64
	db.Model(&models.Campaign{}).Where("id = ?", campaign.ID).Count(&count)
	assert.Zero(t, count)

	var owner models.User
	require.NoError(t, db.Take(&owner, org.ID).Error)
	assert.Equal(t, 1, owner.Strikes)
}

func TestGetCampaignSubmissionsOwnerOnly(t *testing.T) {
	t.Parallel()

	s, db := newTestServer(t)
	owner, _, subs := seedSubmissionFixtures(t, db, 2)
	stranger := createTestUser(t, db, "stranger", false, false)

	route := func(userID uint) *fiber.App {
		app := fiber.New()
		app.Use(asUser(userID))
		app.Get("/campaigns/:id/submissions", s.GetCampaignSubmissions)
		return app
	}

	resp, raw := doJSON(t, route(owner.ID), http.MethodGet, "/campaigns/1/submissions", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var got []models.ApplicationSubmission
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Len(t, got, len(subs))

	resp, _ = doJSON(t, route(stranger.ID), http.MethodGet, "/campaigns/1/submissions", nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
