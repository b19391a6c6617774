// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"
	"time"

	"uplift/internal/cache"
	"uplift/internal/models"

	"gorm.io/gorm"
)

// feedColumns is the projection shared by every enriched-post query.
const feedColumns = "campaign_posts.id, campaign_posts.campaign_id, campaign_posts.body, " +
	"campaign_posts.image_url, campaign_posts.is_update, campaign_posts.created_at, " +
	"campaigns.name AS campaign_name, campaigns.urgency, campaigns.user_id AS owner_id, " +
	"users.location, users.profile_image, users.is_deactivated AS owner_deactivated, " +
	"conservationists.name AS org_name"

// PostRepository defines the interface for campaign-post data operations.
type PostRepository interface {
	Create(ctx context.Context, post *models.CampaignPost) error
	GetByID(ctx context.Context, id uint) (*models.FeedPost, error)
	// RecentWindow returns at most window enriched posts ordered newest
	// first, excluding posts older than since. Posts owned by deactivated
	// users are excluded unless includeDeactivated is set (admin view).
	RecentWindow(ctx context.Context, since time.Time, window int, includeDeactivated bool) ([]*models.FeedPost, error)
	// OwnerWindow returns every enriched post owned by ownerID, newest
	// first, with no cap and no deactivation filter.
	OwnerWindow(ctx context.Context, ownerID uint) ([]*models.FeedPost, error)
	UpdatesByCampaign(ctx context.Context, campaignID uint) ([]*models.FeedPost, error)
	OriginalByCampaign(ctx context.Context, campaignID uint) (*models.CampaignPost, error)
	// Delete removes an update post, or the whole campaign when id refers
	// to the original announcement post.
	Delete(ctx context.Context, id uint) error
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository.
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.CampaignPost) error {
	err := r.db.WithContext(ctx).Create(post).Error
	if err == nil {
		cache.InvalidateFeed(ctx)
	}
	return err
}

// enriched joins campaign posts to their campaign, owner and optional
// organization profile.
func (r *postRepository) enriched(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("campaign_posts").
		Select(feedColumns).
		Joins("JOIN campaigns ON campaigns.id = campaign_posts.campaign_id AND campaigns.deleted_at IS NULL").
		Joins("JOIN users ON users.id = campaigns.user_id").
		Joins("LEFT JOIN conservationists ON conservationists.user_id = users.id")
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.FeedPost, error) {
	var post models.FeedPost
	err := r.enriched(ctx).
		Where("campaign_posts.id = ?", id).
		Take(&post).Error
	if err != nil {
		return nil, err
	}
	if err := r.attachComments(ctx, []*models.FeedPost{&post}); err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) RecentWindow(ctx context.Context, since time.Time, window int, includeDeactivated bool) ([]*models.FeedPost, error) {
	var posts []*models.FeedPost
	q := r.enriched(ctx)
	if !includeDeactivated {
		q = q.Where("users.is_deactivated = ?", false)
	}
	err := q.
		Where("campaign_posts.created_at >= ?", since).
		Order("campaign_posts.created_at DESC, campaign_posts.id DESC").
		Limit(window).
		Scan(&posts).Error
	if err != nil {
		return nil, err
	}
	if err := r.attachComments(ctx, posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *postRepository) OwnerWindow(ctx context.Context, ownerID uint) ([]*models.FeedPost, error) {
	var posts []*models.FeedPost
	err := r.enriched(ctx).
		Where("campaigns.user_id = ?", ownerID).
		Order("campaign_posts.created_at DESC, campaign_posts.id DESC").
		Scan(&posts).Error
	if err != nil {
		return nil, err
	}
	if err := r.attachComments(ctx, posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *postRepository) UpdatesByCampaign(ctx context.Context, campaignID uint) ([]*models.FeedPost, error) {
	var posts []*models.FeedPost
	err := r.enriched(ctx).
		Where("campaign_posts.campaign_id = ? AND campaign_posts.is_update = ?", campaignID, true).
		Order("campaign_posts.created_at DESC, campaign_posts.id DESC").
		Scan(&posts).Error
	if err != nil {
		return nil, err
	}
	if err := r.attachComments(ctx, posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *postRepository) OriginalByCampaign(ctx context.Context, campaignID uint) (*models.CampaignPost, error) {
	var post models.CampaignPost
	err := r.db.WithContext(ctx).
		Where("campaign_id = ? AND is_update = ?", campaignID, false).
		Take(&post).Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post models.CampaignPost
		if err := tx.Take(&post, id).Error; err != nil {
			return err
		}

		// Removing the original announcement removes the whole campaign.
		if !post.IsUpdate {
			return deleteCampaignCascade(tx, post.CampaignID)
		}

		if err := tx.Where("post_id = ?", post.ID).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.CampaignPost{}, post.ID).Error
	})
	if err == nil {
		cache.InvalidateFeed(ctx)
		cache.InvalidatePost(ctx, id)
	}
	return err
}

// attachComments loads comments for the given posts in one query and
// groups them per post. Every post ends up with a non-nil comment list.
func (r *postRepository) attachComments(ctx context.Context, posts []*models.FeedPost) error {
	for _, p := range posts {
		p.Comments = []models.CommentView{}
	}
	if len(posts) == 0 {
		return nil
	}

	ids := make([]uint, 0, len(posts))
	byID := make(map[uint]*models.FeedPost, len(posts))
	for _, p := range posts {
		ids = append(ids, p.ID)
		byID[p.ID] = p
	}

	var comments []models.Comment
	if err := r.db.WithContext(ctx).
		Where("post_id IN ?", ids).
		Find(&comments).Error; err != nil {
		return err
	}

	for _, c := range comments {
		post := byID[c.PostID]
		if post == nil {
			continue
		}
		post.Comments = append(post.Comments, models.CommentView{
			ID:        c.ID,
			UserID:    c.UserID,
			CreatedAt: c.CreatedAt,
			Body:      c.Body,
		})
	}
	return nil
}
