package service

import (
	"context"
	"errors"
	"log/slog"

	"uplift/internal/middleware"
	"uplift/internal/models"
	"uplift/internal/repository"

	"gorm.io/gorm"
)

// CreateSubmissionInput carries a new application for a skilled impact
// request. The decision is not part of the input: every submission starts
// out PENDING.
type CreateSubmissionInput struct {
	SkilledImpactRequestID uint   `json:"skilled_impact_request_id"`
	Pitch                  string `json:"pitch"`
}

// DecisionService owns the submission lifecycle: intake, lookup, and the
// PENDING -> ACCEPTED/DENIED state machine.
type DecisionService struct {
	submissions repository.SubmissionRepository
}

// NewDecisionService creates a decision service.
func NewDecisionService(submissions repository.SubmissionRepository) *DecisionService {
	return &DecisionService{submissions: submissions}
}

// Submit records a new pending application.
func (s *DecisionService) Submit(ctx context.Context, userID uint, in CreateSubmissionInput) (*models.ApplicationSubmission, error) {
	if in.SkilledImpactRequestID == 0 {
		return nil, models.NewValidationError("skilled_impact_request_id is required")
	}
	if in.Pitch == "" {
		return nil, models.NewValidationError("pitch is required")
	}

	submission := &models.ApplicationSubmission{
		SkilledImpactRequestID: in.SkilledImpactRequestID,
		UserID:                 userID,
		Pitch:                  in.Pitch,
	}
	if err := s.submissions.Create(ctx, submission); err != nil {
		return nil, models.NewInternalError(err)
	}
	return submission, nil
}

// Get returns one submission by id.
func (s *DecisionService) Get(ctx context.Context, id uint) (*models.ApplicationSubmission, error) {
	submission, err := s.submissions.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewNotFoundError("Submission", id)
	}
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return submission, nil
}

// ByCampaign returns every submission across a campaign's skilled impact
// requests.
func (s *DecisionService) ByCampaign(ctx context.Context, campaignID uint) ([]*models.ApplicationSubmission, error) {
	submissions, err := s.submissions.GetByCampaignID(ctx, campaignID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return submissions, nil
}

// CanDecide reports whether the actor may decide the listed submissions:
// admins always, otherwise the actor must own every campaign involved.
func (s *DecisionService) CanDecide(ctx context.Context, actor *models.User, ids ...uint) error {
	if actor == nil {
		return models.NewUnauthorizedError("authentication required")
	}
	if actor.IsAdmin {
		return nil
	}

	owners, err := s.submissions.CampaignOwners(ctx, ids)
	if err != nil {
		return models.NewInternalError(err)
	}
	for _, owner := range owners {
		if owner != actor.ID {
			return models.NewForbiddenError("only the campaign owner may decide submissions")
		}
	}
	return nil
}

// Decide applies a decision to one submission. Accepting denies every
// sibling on the same request atomically; the returned slice holds every
// row the decision touched.
func (s *DecisionService) Decide(ctx context.Context, id uint, decision models.Decision) ([]*models.ApplicationSubmission, error) {
	if !decision.Valid() {
		return nil, models.NewValidationError("decision must be one of PENDING, ACCEPTED, DENIED")
	}

	affected, err := s.submissions.Decide(ctx, id, decision)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewNotFoundError("Submission", id)
	}
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	middleware.SubmissionDecisions.WithLabelValues(string(decision)).Inc()
	middleware.Logger.InfoContext(ctx, "submission decided",
		slog.Uint64("submission_id", uint64(id)),
		slog.String("decision", string(decision)),
		slog.Int("affected", len(affected)))
	return affected, nil
}

// DecideMany applies one decision to a set of submissions. Accepting is
// a per-submission act, so the bulk path refuses it.
func (s *DecisionService) DecideMany(ctx context.Context, ids []uint, decision models.Decision) ([]*models.ApplicationSubmission, error) {
	if !decision.Valid() {
		return nil, models.NewValidationError("decision must be one of PENDING, ACCEPTED, DENIED")
	}
	if decision == models.DecisionAccepted {
		return nil, models.NewValidationError("accept submissions one at a time")
	}
	if len(ids) == 0 {
		return nil, models.NewNotFoundError("Submissions", 0)
	}

	affected, err := s.submissions.DecideMany(ctx, ids, decision)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewNotFoundError("Submissions", 0)
	}
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	middleware.SubmissionDecisions.WithLabelValues(string(decision)).Add(float64(len(affected)))
	return affected, nil
}
