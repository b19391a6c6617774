package server

import (
	"time"

	"uplift/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetFeed returns one page of the global feed. Query parameters:
// cursor (RFC 3339, defaults to now), page_size, since (RFC 3339 lower
// bound on post age).
func (s *Server) GetFeed(c *fiber.Ctx) error {
	cursor, err := s.parseCursor(c, "cursor")
	if err != nil {
		return nil
	}
	sincePtr, err := s.parseCursor(c, "since")
	if err != nil {
		return nil
	}
	since := time.Time{}
	if sincePtr != nil {
		since = *sincePtr
	}
	viewer, err := s.viewer(c)
	if err != nil {
		return respondAppError(c, err)
	}

	page, err := s.feedService.GlobalPage(c.UserContext(), viewer, cursor, parsePageSize(c), since)
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(page)
}

// GetUserFeed returns one page of a single user's posts.
func (s *Server) GetUserFeed(c *fiber.Ctx) error {
	ownerID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	cursor, err := s.parseCursor(c, "cursor")
	if err != nil {
		return nil
	}

	page, err := s.feedService.OwnerPage(c.UserContext(), ownerID, cursor, parsePageSize(c))
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(page)
}

// GetPost returns one enriched post.
func (s *Server) GetPost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	viewer, err := s.viewer(c)
	if err != nil {
		return respondAppError(c, err)
	}

	post, err := s.feedService.GetPost(c.UserContext(), id, viewer)
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(post)
}

// DeletePost removes a post. Removing a campaign's original announcement
// removes the campaign; an admin removal strikes the owner.
func (s *Server) DeletePost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	actor, err := s.requireViewer(c)
	if err != nil {
		return respondAppError(c, err)
	}

	post, err := s.feedService.GetPost(c.UserContext(), id, actor)
	if err != nil {
		return respondAppError(c, err)
	}

	if err := s.feedService.DeletePost(c.UserContext(), actor, id); err != nil {
		return respondAppError(c, err)
	}
	// Only original-post removals take the campaign down with them.
	if !post.IsUpdate {
		if err := s.moderationService.RecordRemoval(c.UserContext(), actor, post.OwnerID); err != nil {
			return respondAppError(c, err)
		}
	}

	return c.JSON(fiber.Map{"message": "Post deleted"})
}

// GetCampaignUpdates returns every update post for a campaign.
func (s *Server) GetCampaignUpdates(c *fiber.Ctx) error {
	campaignID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	posts, err := s.feedService.CampaignUpdates(c.UserContext(), campaignID)
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(posts)
}

// CreateCampaignUpdate appends an update post to a campaign.
func (s *Server) CreateCampaignUpdate(c *fiber.Ctx) error {
	campaignID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	actor, err := s.requireViewer(c)
	if err != nil {
		return respondAppError(c, err)
	}

	var req struct {
		Body     string `json:"body"`
		ImageURL string `json:"image_url"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.feedService.CreateUpdate(c.UserContext(), actor, campaignID, req.Body, req.ImageURL)
	if err != nil {
		return respondAppError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}
