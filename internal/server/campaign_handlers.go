package server

import (
	"uplift/internal/models"
	"uplift/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateCampaign publishes a new campaign owned by the caller.
func (s *Server) CreateCampaign(c *fiber.Ctx) error {
	actor, err := s.requireViewer(c)
	if err != nil {
		return respondAppError(c, err)
	}

	var req service.CreateCampaignInput
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	campaign, err := s.campaignService.Create(c.UserContext(), actor.ID, req)
	if err != nil {
		return respondAppError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(campaign)
}

// GetCampaigns lists every campaign, newest first.
func (s *Server) GetCampaigns(c *fiber.Ctx) error {
	campaigns, err := s.campaignService.List(c.UserContext())
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(campaigns)
}

// GetCampaign returns one campaign with its skill requests.
func (s *Server) GetCampaign(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	viewer, err := s.viewer(c)
	if err != nil {
		return respondAppError(c, err)
	}

	campaign, err := s.campaignService.Get(c.UserContext(), id, viewer)
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(campaign)
}

// GetUserCampaigns returns one user's campaigns.
func (s *Server) GetUserCampaigns(c *fiber.Ctx) error {
	ownerID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	viewer, err := s.viewer(c)
	if err != nil {
		return respondAppError(c, err)
	}

	campaigns, err := s.campaignService.ByOwner(c.UserContext(), ownerID, viewer)
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(campaigns)
}

// SearchCampaigns returns campaigns with an open request for a skill.
func (s *Server) SearchCampaigns(c *fiber.Ctx) error {
	campaigns, err := s.campaignService.SearchBySkill(c.UserContext(), c.Query("skill"))
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(campaigns)
}

// UpdateCampaign applies a partial update to a campaign.
func (s *Server) UpdateCampaign(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	actor, err := s.requireViewer(c)
	if err != nil {
		return respondAppError(c, err)
	}

	var req service.UpdateCampaignInput
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	campaign, err := s.campaignService.Update(c.UserContext(), actor, id, req)
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(campaign)
}

// DeleteCampaign removes a campaign and everything attached to it.
func (s *Server) DeleteCampaign(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	actor, err := s.requireViewer(c)
	if err != nil {
		return respondAppError(c, err)
	}

	if err := s.campaignService.Delete(c.UserContext(), actor, id); err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Campaign deleted"})
}

// GetCampaignSubmissions returns every submission across a campaign's
// skill requests. Restricted to the campaign owner and admins.
func (s *Server) GetCampaignSubmissions(c *fiber.Ctx) error {
	campaignID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	actor, err := s.requireViewer(c)
	if err != nil {
		return respondAppError(c, err)
	}

	campaign, err := s.campaignService.Get(c.UserContext(), campaignID, actor)
	if err != nil {
		return respondAppError(c, err)
	}
	if !service.Can(actor, service.ActionUpdate, campaign.UserID) {
		return respondAppError(c,
			models.NewForbiddenError("only the campaign owner may review submissions"))
	}

	submissions, err := s.decisionService.ByCampaign(c.UserContext(), campaignID)
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(submissions)
}
