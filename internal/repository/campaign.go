package repository

import (
	"context"

	"uplift/internal/cache"
	"uplift/internal/models"

	"gorm.io/gorm"
)

// CampaignRepository defines the interface for campaign data operations.
type CampaignRepository interface {
	// CreateWithPosts persists a campaign together with its skilled impact
	// requests and its original announcement post as one transaction. A
	// campaign is only published once that post exists.
	CreateWithPosts(ctx context.Context, campaign *models.Campaign, post *models.CampaignPost) error
	GetByID(ctx context.Context, id uint) (*models.Campaign, error)
	List(ctx context.Context) ([]*models.Campaign, error)
	GetByOwnerID(ctx context.Context, ownerID uint) ([]*models.Campaign, error)
	SearchBySkill(ctx context.Context, skill string) ([]*models.Campaign, error)
	Update(ctx context.Context, campaign *models.Campaign) error
	// DeleteCascade removes the campaign, its posts, comments, requests,
	// submissions and related reports in one transaction.
	DeleteCascade(ctx context.Context, id uint) error
}

type campaignRepository struct {
	db *gorm.DB
}

// NewCampaignRepository creates a new campaign repository.
func NewCampaignRepository(db *gorm.DB) CampaignRepository {
	return &campaignRepository{db: db}
}

func (r *campaignRepository) CreateWithPosts(ctx context.Context, campaign *models.Campaign, post *models.CampaignPost) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(campaign).Error; err != nil {
			return err
		}
		post.CampaignID = campaign.ID
		post.IsUpdate = false
		return tx.Create(post).Error
	})
	if err == nil {
		cache.InvalidateFeed(ctx)
	}
	return err
}

func (r *campaignRepository) GetByID(ctx context.Context, id uint) (*models.Campaign, error) {
	var campaign models.Campaign
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("SkilledImpactRequests").
		Take(&campaign, id).Error
	if err != nil {
		return nil, err
	}
	return &campaign, nil
}

func (r *campaignRepository) List(ctx context.Context) ([]*models.Campaign, error) {
	var campaigns []*models.Campaign
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&campaigns).Error
	return campaigns, err
}

func (r *campaignRepository) GetByOwnerID(ctx context.Context, ownerID uint) ([]*models.Campaign, error) {
	var campaigns []*models.Campaign
	err := r.db.WithContext(ctx).
		Where("user_id = ?", ownerID).
		Order("created_at DESC").
		Find(&campaigns).Error
	return campaigns, err
}

func (r *campaignRepository) SearchBySkill(ctx context.Context, skill string) ([]*models.Campaign, error) {
	var campaigns []*models.Campaign
	err := r.db.WithContext(ctx).
		Joins("JOIN skilled_impact_requests ON skilled_impact_requests.campaign_id = campaigns.id").
		Where("skilled_impact_requests.skill = ?", skill).
		Group("campaigns.id").
		Find(&campaigns).Error
	return campaigns, err
}

func (r *campaignRepository) Update(ctx context.Context, campaign *models.Campaign) error {
	if err := r.db.WithContext(ctx).Save(campaign).Error; err != nil {
		return err
	}
	cache.InvalidateCampaign(ctx, campaign.ID)
	cache.InvalidateFeed(ctx)
	return nil
}

func (r *campaignRepository) DeleteCascade(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var campaign models.Campaign
		if err := tx.Take(&campaign, id).Error; err != nil {
			return err
		}
		return deleteCampaignCascade(tx, campaign.ID)
	})
	if err == nil {
		cache.InvalidateCampaign(ctx, id)
		cache.InvalidateFeed(ctx)
	}
	return err
}
