package service

import (
	"context"
	"errors"
	"time"

	"uplift/internal/cache"
	"uplift/internal/middleware"
	"uplift/internal/models"
	"uplift/internal/repository"

	"gorm.io/gorm"
)

const (
	// DefaultPageSize is the number of posts per feed page when the client
	// does not ask for a size.
	DefaultPageSize = 8
	// DefaultFeedWindow caps how many recent posts the global feed will
	// ever page over.
	DefaultFeedWindow = 72
)

// FeedPage is one page of the feed plus the cursor for the next request:
// the creation time of the last post on this page.
type FeedPage struct {
	Posts      []*models.FeedPost `json:"posts"`
	NextCursor *time.Time         `json:"next_cursor,omitempty"`
}

// FeedService assembles feed pages from the enriched post window.
type FeedService struct {
	posts  repository.PostRepository
	window int
}

// NewFeedService creates a feed service paging over at most window posts.
func NewFeedService(posts repository.PostRepository, window int) *FeedService {
	if window <= 0 {
		window = DefaultFeedWindow
	}
	return &FeedService{posts: posts, window: window}
}

// GlobalPage returns one page of the global feed. A nil cursor means
// "everything older than now", so the newest page. since bounds the
// window's age; the zero value disables the bound. Admin viewers also see
// posts owned by deactivated accounts.
func (s *FeedService) GlobalPage(ctx context.Context, viewer *models.User, cursor *time.Time, pageSize int, since time.Time) (*FeedPage, error) {
	window, err := s.globalWindow(ctx, viewer, since)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	middleware.FeedPages.WithLabelValues("global").Inc()
	return paginate(window, cursor, pageSize), nil
}

// OwnerPage returns one page of a single owner's posts. Unlike the global
// feed the owner window is uncapped and ignores owner deactivation, so a
// user always sees their own history.
func (s *FeedService) OwnerPage(ctx context.Context, ownerID uint, cursor *time.Time, pageSize int) (*FeedPage, error) {
	posts, err := s.posts.OwnerWindow(ctx, ownerID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	middleware.FeedPages.WithLabelValues("owner").Inc()
	return paginate(posts, cursor, pageSize), nil
}

// GetPost returns one enriched post if the viewer may see it.
func (s *FeedService) GetPost(ctx context.Context, id uint, viewer *models.User) (*models.FeedPost, error) {
	post, err := s.posts.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewNotFoundError("Post", id)
	}
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	switch PostVisibility(post, viewer) {
	case VisibilityVisible:
		return post, nil
	case VisibilityHidden:
		return nil, models.NewForbiddenError("this post belongs to a deactivated account")
	default:
		return nil, models.NewNotFoundError("Post", id)
	}
}

// CampaignUpdates returns every update post of a campaign, newest first.
func (s *FeedService) CampaignUpdates(ctx context.Context, campaignID uint) ([]*models.FeedPost, error) {
	posts, err := s.posts.UpdatesByCampaign(ctx, campaignID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

// CreateUpdate appends an update post to a campaign the actor owns.
func (s *FeedService) CreateUpdate(ctx context.Context, actor *models.User, campaignID uint, body, imageURL string) (*models.CampaignPost, error) {
	if body == "" {
		return nil, models.NewValidationError("body is required")
	}
	original, err := s.posts.OriginalByCampaign(ctx, campaignID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewNotFoundError("Campaign", campaignID)
	}
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	owner, err := s.posts.GetByID(ctx, original.ID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	if !Can(actor, ActionUpdate, owner.OwnerID) {
		return nil, models.NewForbiddenError("you may not post updates to this campaign")
	}

	post := &models.CampaignPost{
		CampaignID: campaignID,
		Body:       body,
		ImageURL:   imageURL,
		IsUpdate:   true,
	}
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, models.NewInternalError(err)
	}
	return post, nil
}

// DeletePost removes a post. Deleting a campaign's original announcement
// removes the campaign and everything hanging off it.
func (s *FeedService) DeletePost(ctx context.Context, actor *models.User, id uint) error {
	post, err := s.posts.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NewNotFoundError("Post", id)
	}
	if err != nil {
		return models.NewInternalError(err)
	}
	if !Can(actor, ActionDelete, post.OwnerID) {
		return models.NewForbiddenError("you may not delete this post")
	}
	if err := s.posts.Delete(ctx, id); err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// globalWindow loads the capped global window, serving the default query
// from Redis when possible. Only the since-unbounded, non-admin window is
// cached; bounded and admin queries always hit the database.
func (s *FeedService) globalWindow(ctx context.Context, viewer *models.User, since time.Time) ([]*models.FeedPost, error) {
	admin := viewer != nil && viewer.IsAdmin
	if !since.IsZero() || admin {
		return s.posts.RecentWindow(ctx, since, s.window, admin)
	}

	var window []*models.FeedPost
	err := cache.Aside(ctx, cache.FeedKey(), &window, cache.FeedTTL, func() error {
		var ferr error
		window, ferr = s.posts.RecentWindow(ctx, time.Time{}, s.window, false)
		return ferr
	})
	return window, err
}

// paginate slices one page out of a newest-first window. The page starts
// at the first post strictly older than the cursor, or at the top of the
// window when the cursor is nil or nothing is older.
func paginate(window []*models.FeedPost, cursor *time.Time, pageSize int) *FeedPage {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	start := 0
	if cursor != nil {
		for i, p := range window {
			if p.CreatedAt.Before(*cursor) {
				start = i
				break
			}
		}
	}

	end := start + pageSize
	if end > len(window) {
		end = len(window)
	}

	page := &FeedPage{Posts: window[start:end]}
	if page.Posts == nil {
		page.Posts = []*models.FeedPost{}
	}
	if len(page.Posts) > 0 && end < len(window) {
		last := page.Posts[len(page.Posts)-1].CreatedAt
		page.NextCursor = &last
	}
	return page
}
