package server

import (
	"uplift/internal/models"
	"uplift/internal/service"

	"github.com/gofiber/fiber/v2"
)

// DecideRequest carries a decision for one or more submissions.
type DecideRequest struct {
	Decision models.Decision `json:"decision"`
	// IDs is only read by the bulk route.
	IDs []uint `json:"ids"`
}

// CreateSubmission records a new pending application.
func (s *Server) CreateSubmission(c *fiber.Ctx) error {
	actor, err := s.requireViewer(c)
	if err != nil {
		return respondAppError(c, err)
	}

	var req service.CreateSubmissionInput
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	submission, err := s.decisionService.Submit(c.UserContext(), actor.ID, req)
	if err != nil {
		return respondAppError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(submission)
}

// GetSubmission returns one submission.
func (s *Server) GetSubmission(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	actor, err := s.requireViewer(c)
	if err != nil {
		return respondAppError(c, err)
	}

	submission, err := s.decisionService.Get(c.UserContext(), id)
	if err != nil {
		return respondAppError(c, err)
	}
	// Visible to the applicant, the campaign owner, and admins.
	if submission.UserID != actor.ID {
		if err := s.decisionService.CanDecide(c.UserContext(), actor, id); err != nil {
			return respondAppError(c, err)
		}
	}
	return c.JSON(submission)
}

// DecideSubmission applies a decision to one submission. Accepting denies
// every sibling submission on the same skill request; the response lists
// every row the decision touched.
func (s *Server) DecideSubmission(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	actor, err := s.requireViewer(c)
	if err != nil {
		return respondAppError(c, err)
	}

	var req DecideRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if err := s.decisionService.CanDecide(c.UserContext(), actor, id); err != nil {
		return respondAppError(c, err)
	}

	affected, err := s.decisionService.Decide(c.UserContext(), id, req.Decision)
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(affected)
}

// DecideSubmissions applies one non-accept decision to a set of
// submissions.
func (s *Server) DecideSubmissions(c *fiber.Ctx) error {
	actor, err := s.requireViewer(c)
	if err != nil {
		return respondAppError(c, err)
	}

	var req DecideRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if len(req.IDs) > 0 {
		if err := s.decisionService.CanDecide(c.UserContext(), actor, req.IDs...); err != nil {
			return respondAppError(c, err)
		}
	}

	affected, err := s.decisionService.DecideMany(c.UserContext(), req.IDs, req.Decision)
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(affected)
}
