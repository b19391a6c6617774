package service

import (
	"context"
	"errors"

	"uplift/internal/models"
	"uplift/internal/repository"

	"gorm.io/gorm"
)

// SkillInput describes one skilled impact request attached to a new
// campaign.
type SkillInput struct {
	Skill       string `json:"skill"`
	Description string `json:"description"`
}

// CreateCampaignInput carries everything needed to publish a campaign:
// the campaign itself, its skill requests, and the body of its original
// announcement post.
type CreateCampaignInput struct {
	Name         string       `json:"name"`
	Description  string       `json:"description"`
	CallToAction string       `json:"call_to_action"`
	Urgency      string       `json:"urgency"`
	ImageURL     string       `json:"image_url"`
	Skills       []SkillInput `json:"skills"`
	Announcement string       `json:"announcement"`
}

// UpdateCampaignInput holds the mutable campaign fields. Nil pointers
// leave the stored value untouched.
type UpdateCampaignInput struct {
	Name         *string `json:"name"`
	Description  *string `json:"description"`
	CallToAction *string `json:"call_to_action"`
	Urgency      *string `json:"urgency"`
	ImageURL     *string `json:"image_url"`
}

// CampaignService owns the campaign lifecycle.
type CampaignService struct {
	campaigns  repository.CampaignRepository
	users      repository.UserRepository
	moderation *ModerationService
}

// NewCampaignService creates a campaign service.
func NewCampaignService(campaigns repository.CampaignRepository, users repository.UserRepository, moderation *ModerationService) *CampaignService {
	return &CampaignService{campaigns: campaigns, users: users, moderation: moderation}
}

// Create publishes a new campaign owned by userID. The campaign, its
// skill requests and its announcement post are written in one
// transaction so the feed never sees a campaign without its original
// post.
func (s *CampaignService) Create(ctx context.Context, userID uint, in CreateCampaignInput) (*models.Campaign, error) {
	if in.Name == "" {
		return nil, models.NewValidationError("name is required")
	}
	if in.Description == "" {
		return nil, models.NewValidationError("description is required")
	}
	if in.CallToAction == "" {
		return nil, models.NewValidationError("call_to_action is required")
	}

	campaign := &models.Campaign{
		UserID:       userID,
		Name:         in.Name,
		Description:  in.Description,
		CallToAction: in.CallToAction,
		Urgency:      in.Urgency,
		ImageURL:     in.ImageURL,
	}
	for _, skill := range in.Skills {
		if skill.Skill == "" {
			return nil, models.NewValidationError("each skill request needs a skill name")
		}
		campaign.SkilledImpactRequests = append(campaign.SkilledImpactRequests, models.SkilledImpactRequest{
			Skill:       skill.Skill,
			Description: skill.Description,
		})
	}

	body := in.Announcement
	if body == "" {
		body = in.Description
	}
	post := &models.CampaignPost{Body: body, ImageURL: in.ImageURL}

	if err := s.campaigns.CreateWithPosts(ctx, campaign, post); err != nil {
		return nil, models.NewInternalError(err)
	}
	return campaign, nil
}

// Get returns one campaign if the viewer may see it. Campaigns of
// deactivated owners stay readable to admins only.
func (s *CampaignService) Get(ctx context.Context, id uint, viewer *models.User) (*models.Campaign, error) {
	campaign, err := s.campaigns.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewNotFoundError("Campaign", id)
	}
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	switch OwnerVisibility(campaign.User, viewer) {
	case VisibilityVisible:
		return campaign, nil
	case VisibilityHidden:
		return nil, models.NewForbiddenError("this campaign belongs to a deactivated account")
	default:
		return nil, models.NewNotFoundError("Campaign", id)
	}
}

// List returns every campaign, newest first.
func (s *CampaignService) List(ctx context.Context) ([]*models.Campaign, error) {
	campaigns, err := s.campaigns.List(ctx)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return campaigns, nil
}

// ByOwner returns one user's campaigns, subject to the owner visibility
// rule.
func (s *CampaignService) ByOwner(ctx context.Context, ownerID uint, viewer *models.User) ([]*models.Campaign, error) {
	owner, err := s.users.GetByID(ctx, ownerID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewNotFoundError("User", ownerID)
	}
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	switch OwnerVisibility(owner, viewer) {
	case VisibilityHidden:
		return nil, models.NewForbiddenError("this account is deactivated")
	case VisibilityNotFound:
		return nil, models.NewNotFoundError("User", ownerID)
	}

	campaigns, err := s.campaigns.GetByOwnerID(ctx, ownerID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return campaigns, nil
}

// SearchBySkill returns campaigns that have an open request for the
// given skill.
func (s *CampaignService) SearchBySkill(ctx context.Context, skill string) ([]*models.Campaign, error) {
	if skill == "" {
		return nil, models.NewValidationError("skill is required")
	}
	campaigns, err := s.campaigns.SearchBySkill(ctx, skill)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return campaigns, nil
}

// Update applies a partial update to a campaign the actor may modify.
func (s *CampaignService) Update(ctx context.Context, actor *models.User, id uint, in UpdateCampaignInput) (*models.Campaign, error) {
	campaign, err := s.campaigns.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewNotFoundError("Campaign", id)
	}
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	if !Can(actor, ActionUpdate, campaign.UserID) {
		return nil, models.NewForbiddenError("you may not modify this campaign")
	}

	if in.Name != nil {
		campaign.Name = *in.Name
	}
	if in.Description != nil {
		campaign.Description = *in.Description
	}
	if in.CallToAction != nil {
		campaign.CallToAction = *in.CallToAction
	}
	if in.Urgency != nil {
		campaign.Urgency = *in.Urgency
	}
	if in.ImageURL != nil {
		campaign.ImageURL = *in.ImageURL
	}

	if err := s.campaigns.Update(ctx, campaign); err != nil {
		return nil, models.NewInternalError(err)
	}
	return campaign, nil
}

// Delete removes a campaign and everything attached to it. An admin
// removing someone else's campaign triggers the moderation strike
// policy.
func (s *CampaignService) Delete(ctx context.Context, actor *models.User, id uint) error {
	campaign, err := s.campaigns.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NewNotFoundError("Campaign", id)
	}
	if err != nil {
		return models.NewInternalError(err)
	}
	if !Can(actor, ActionDelete, campaign.UserID) {
		return models.NewForbiddenError("you may not delete this campaign")
	}

	if err := s.campaigns.DeleteCascade(ctx, id); err != nil {
		return models.NewInternalError(err)
	}
	return s.moderation.RecordRemoval(ctx, actor, campaign.UserID)
}
