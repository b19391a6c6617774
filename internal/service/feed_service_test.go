package service

import (
	"context"
	"testing"
	"time"

	"uplift/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// stubPostRepository lets each test plug in just the calls it needs.
type stubPostRepository struct {
	createFunc       func(ctx context.Context, post *models.CampaignPost) error
	getByIDFunc      func(ctx context.Context, id uint) (*models.FeedPost, error)
	recentWindowFunc func(ctx context.Context, since time.Time, window int) ([]*models.FeedPost, error)
	ownerWindowFunc  func(ctx context.Context, ownerID uint) ([]*models.FeedPost, error)
	updatesFunc      func(ctx context.Context, campaignID uint) ([]*models.FeedPost, error)
	originalFunc     func(ctx context.Context, campaignID uint) (*models.CampaignPost, error)
	deleteFunc       func(ctx context.Context, id uint) error
}

func (s *stubPostRepository) Create(ctx context.Context, post *models.CampaignPost) error {
	return s.createFunc(ctx, post)
}

func (s *stubPostRepository) GetByID(ctx context.Context, id uint) (*models.FeedPost, error) {
	return s.getByIDFunc(ctx, id)
}

func (s *stubPostRepository) RecentWindow(ctx context.Context, since time.Time, window int, includeDeactivated bool) ([]*models.FeedPost, error) {
	return s.recentWindowFunc(ctx, since, window)
}

func (s *stubPostRepository) OwnerWindow(ctx context.Context, ownerID uint) ([]*models.FeedPost, error) {
	return s.ownerWindowFunc(ctx, ownerID)
}

func (s *stubPostRepository) UpdatesByCampaign(ctx context.Context, campaignID uint) ([]*models.FeedPost, error) {
	return s.updatesFunc(ctx, campaignID)
}

func (s *stubPostRepository) OriginalByCampaign(ctx context.Context, campaignID uint) (*models.CampaignPost, error) {
	return s.originalFunc(ctx, campaignID)
}

func (s *stubPostRepository) Delete(ctx context.Context, id uint) error {
	return s.deleteFunc(ctx, id)
}

// windowOf builds a newest-first window where post i was created i
// minutes before base.
func windowOf(base time.Time, n int) []*models.FeedPost {
	posts := make([]*models.FeedPost, n)
	for i := 0; i < n; i++ {
		posts[i] = &models.FeedPost{
			ID:        uint(n - i),
			CreatedAt: base.Add(-time.Duration(i) * time.Minute),
			Comments:  []models.CommentView{},
		}
	}
	return posts
}

func TestGlobalPageFirstPage(t *testing.T) {
	t.Parallel()

	base := time.Now()
	repo := &stubPostRepository{
		recentWindowFunc: func(_ context.Context, since time.Time, window int) ([]*models.FeedPost, error) {
			assert.True(t, since.IsZero())
			assert.Equal(t, 72, window)
			return windowOf(base, 20), nil
		},
	}
	svc := NewFeedService(repo, 72)

	page, err := svc.GlobalPage(context.Background(), nil, nil, 0, time.Time{})
	require.NoError(t, err)
	assert.Len(t, page.Posts, DefaultPageSize)
	assert.Equal(t, uint(20), page.Posts[0].ID)
	require.NotNil(t, page.NextCursor)
	assert.Equal(t, page.Posts[DefaultPageSize-1].CreatedAt, *page.NextCursor)
}

func TestGlobalPageCursorStartsStrictlyOlder(t *testing.T) {
	t.Parallel()

	base := time.Now()
	window := windowOf(base, 20)
	repo := &stubPostRepository{
		recentWindowFunc: func(context.Context, time.Time, int) ([]*models.FeedPost, error) {
			return window, nil
		},
	}
	svc := NewFeedService(repo, 72)

	// Cursor equal to post 15's timestamp: the page starts at the first
	// strictly older post, not at post 15 itself.
	cursor := window[5].CreatedAt
	page, err := svc.GlobalPage(context.Background(), nil, &cursor, 4, time.Time{})
	require.NoError(t, err)
	require.Len(t, page.Posts, 4)
	assert.Equal(t, window[6].ID, page.Posts[0].ID)
	assert.True(t, page.Posts[0].CreatedAt.Before(cursor))
}

func TestGlobalPageCursorOlderThanWindow(t *testing.T) {
	t.Parallel()

	base := time.Now()
	repo := &stubPostRepository{
		recentWindowFunc: func(context.Context, time.Time, int) ([]*models.FeedPost, error) {
			return windowOf(base, 5), nil
		},
	}
	svc := NewFeedService(repo, 72)

	// Nothing is strictly older than a cursor from before the window, so
	// paging restarts from the top.
	cursor := base.Add(-time.Hour)
	page, err := svc.GlobalPage(context.Background(), nil, &cursor, 3, time.Time{})
	require.NoError(t, err)
	require.Len(t, page.Posts, 3)
	assert.Equal(t, uint(5), page.Posts[0].ID)
}

func TestGlobalPageEmptyWindow(t *testing.T) {
	t.Parallel()

	repo := &stubPostRepository{
		recentWindowFunc: func(context.Context, time.Time, int) ([]*models.FeedPost, error) {
			return nil, nil
		},
	}
	svc := NewFeedService(repo, 72)

	page, err := svc.GlobalPage(context.Background(), nil, nil, 8, time.Time{})
	require.NoError(t, err)
	assert.NotNil(t, page.Posts)
	assert.Empty(t, page.Posts)
	assert.Nil(t, page.NextCursor)
}

func TestGlobalPageLastPageHasNoCursor(t *testing.T) {
	t.Parallel()

	base := time.Now()
	repo := &stubPostRepository{
		recentWindowFunc: func(context.Context, time.Time, int) ([]*models.FeedPost, error) {
			return windowOf(base, 10), nil
		},
	}
	svc := NewFeedService(repo, 72)

	cursor := base.Add(-6*time.Minute - time.Second)
	page, err := svc.GlobalPage(context.Background(), nil, &cursor, 8, time.Time{})
	require.NoError(t, err)
	assert.Len(t, page.Posts, 3)
	assert.Nil(t, page.NextCursor)
}

func TestOwnerPageSlices(t *testing.T) {
	t.Parallel()

	base := time.Now()
	repo := &stubPostRepository{
		ownerWindowFunc: func(_ context.Context, ownerID uint) ([]*models.FeedPost, error) {
			assert.Equal(t, uint(7), ownerID)
			return windowOf(base, 12), nil
		},
	}
	svc := NewFeedService(repo, 72)

	page, err := svc.OwnerPage(context.Background(), 7, nil, 5)
	require.NoError(t, err)
	assert.Len(t, page.Posts, 5)
	assert.Equal(t, uint(12), page.Posts[0].ID)
}

func TestGetPostVisibility(t *testing.T) {
	t.Parallel()

	admin := &models.User{ID: 1, IsAdmin: true}

	repo := &stubPostRepository{
		getByIDFunc: func(_ context.Context, id uint) (*models.FeedPost, error) {
			switch id {
			case 1:
				return &models.FeedPost{ID: 1, OwnerDeactivated: true}, nil
			case 2:
				return &models.FeedPost{ID: 2}, nil
			default:
				return nil, gorm.ErrRecordNotFound
			}
		},
	}
	svc := NewFeedService(repo, 72)

	_, err := svc.GetPost(context.Background(), 1, nil)
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "FORBIDDEN", appErr.Code)

	post, err := svc.GetPost(context.Background(), 1, admin)
	require.NoError(t, err)
	assert.Equal(t, uint(1), post.ID)

	post, err = svc.GetPost(context.Background(), 2, nil)
	require.NoError(t, err)
	assert.Equal(t, uint(2), post.ID)

	_, err = svc.GetPost(context.Background(), 99, nil)
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "NOT_FOUND", appErr.Code)
}

func TestDeletePostAuthorization(t *testing.T) {
	t.Parallel()

	owner := &models.User{ID: 5}
	stranger := &models.User{ID: 6}

	deleted := uint(0)
	repo := &stubPostRepository{
		getByIDFunc: func(_ context.Context, id uint) (*models.FeedPost, error) {
			return &models.FeedPost{ID: id, OwnerID: 5}, nil
		},
		deleteFunc: func(_ context.Context, id uint) error {
			deleted = id
			return nil
		},
	}
	svc := NewFeedService(repo, 72)

	err := svc.DeletePost(context.Background(), stranger, 3)
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "FORBIDDEN", appErr.Code)
	assert.Zero(t, deleted)

	require.NoError(t, svc.DeletePost(context.Background(), owner, 3))
	assert.Equal(t, uint(3), deleted)
}
