package repository

import (
	"context"

	"uplift/internal/models"

	"gorm.io/gorm"
)

// SubmissionRepository defines the interface for application-submission
// data operations.
type SubmissionRepository interface {
	// Create persists a submission. The decision is always forced to
	// PENDING regardless of what the caller set.
	Create(ctx context.Context, submission *models.ApplicationSubmission) error
	GetByID(ctx context.Context, id uint) (*models.ApplicationSubmission, error)
	GetByCampaignID(ctx context.Context, campaignID uint) ([]*models.ApplicationSubmission, error)
	// Decide applies a decision to one submission. The ACCEPTED path runs
	// as a single transaction that also denies every sibling submission on
	// the same skilled impact request, and returns all affected rows.
	// Non-accept decisions update only the target row.
	Decide(ctx context.Context, id uint, decision models.Decision) ([]*models.ApplicationSubmission, error)
	// DecideMany applies one non-accept decision to every listed
	// submission in a single statement. Returns gorm.ErrRecordNotFound
	// when none of the ids exist.
	DecideMany(ctx context.Context, ids []uint, decision models.Decision) ([]*models.ApplicationSubmission, error)
	// CampaignOwners returns the distinct owner ids of the campaigns the
	// listed submissions belong to. Used for decide authorization.
	CampaignOwners(ctx context.Context, ids []uint) ([]uint, error)
}

type submissionRepository struct {
	db *gorm.DB
}

// NewSubmissionRepository creates a new submission repository.
func NewSubmissionRepository(db *gorm.DB) SubmissionRepository {
	return &submissionRepository{db: db}
}

func (r *submissionRepository) Create(ctx context.Context, submission *models.ApplicationSubmission) error {
	submission.Decision = models.DecisionPending
	return r.db.WithContext(ctx).Create(submission).Error
}

func (r *submissionRepository) GetByID(ctx context.Context, id uint) (*models.ApplicationSubmission, error) {
	var submission models.ApplicationSubmission
	if err := r.db.WithContext(ctx).Take(&submission, id).Error; err != nil {
		return nil, err
	}
	return &submission, nil
}

func (r *submissionRepository) GetByCampaignID(ctx context.Context, campaignID uint) ([]*models.ApplicationSubmission, error) {
	var submissions []*models.ApplicationSubmission
	err := r.db.WithContext(ctx).
		Joins("JOIN skilled_impact_requests ON skilled_impact_requests.id = application_submissions.skilled_impact_request_id").
		Where("skilled_impact_requests.campaign_id = ?", campaignID).
		Order("application_submissions.id").
		Find(&submissions).Error
	return submissions, err
}

func (r *submissionRepository) Decide(ctx context.Context, id uint, decision models.Decision) ([]*models.ApplicationSubmission, error) {
	var affected []*models.ApplicationSubmission

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Re-read inside the transaction so a concurrent accept serializes
		// behind this one (last writer wins).
		var target models.ApplicationSubmission
		if err := tx.Take(&target, id).Error; err != nil {
			return err
		}

		if decision == models.DecisionAccepted {
			if err := tx.Model(&models.ApplicationSubmission{}).
				Where("skilled_impact_request_id = ? AND id <> ?", target.SkilledImpactRequestID, target.ID).
				Update("decision", models.DecisionDenied).Error; err != nil {
				return err
			}
		}

		if err := tx.Model(&target).Update("decision", decision).Error; err != nil {
			return err
		}

		if decision == models.DecisionAccepted {
			return tx.Where("skilled_impact_request_id = ?", target.SkilledImpactRequestID).
				Order("id").
				Find(&affected).Error
		}

		affected = []*models.ApplicationSubmission{&target}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return affected, nil
}

func (r *submissionRepository) CampaignOwners(ctx context.Context, ids []uint) ([]uint, error) {
	var owners []uint
	err := r.db.WithContext(ctx).
		Model(&models.ApplicationSubmission{}).
		Distinct("campaigns.user_id").
		Joins("JOIN skilled_impact_requests ON skilled_impact_requests.id = application_submissions.skilled_impact_request_id").
		Joins("JOIN campaigns ON campaigns.id = skilled_impact_requests.campaign_id").
		Where("application_submissions.id IN ?", ids).
		Pluck("campaigns.user_id", &owners).Error
	return owners, err
}

func (r *submissionRepository) DecideMany(ctx context.Context, ids []uint, decision models.Decision) ([]*models.ApplicationSubmission, error) {
	var affected []*models.ApplicationSubmission

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.ApplicationSubmission{}).
			Where("id IN ?", ids).
			Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return gorm.ErrRecordNotFound
		}

		if err := tx.Model(&models.ApplicationSubmission{}).
			Where("id IN ?", ids).
			Update("decision", decision).Error; err != nil {
			return err
		}

		return tx.Where("id IN ?", ids).Order("id").Find(&affected).Error
	})
	if err != nil {
		return nil, err
	}
	return affected, nil
}
