package models

import "time"

// CampaignPost is a feed-visible post: either a campaign's original
// announcement (IsUpdate=false) or a later update. Deleting the original
// post deletes the owning campaign; deleting an update deletes only that
// post.
type CampaignPost struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	CampaignID uint      `gorm:"not null;index" json:"campaign_id"`
	Campaign   *Campaign `gorm:"foreignKey:CampaignID" json:"campaign,omitempty"`
	Body       string    `gorm:"type:text" json:"body"`
	ImageURL   string    `json:"image_url"`
	IsUpdate   bool      `gorm:"default:false" json:"is_update"`
	Comments   []Comment `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"comments,omitempty"`
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Comment belongs to a campaign post. Comments are written elsewhere and
// consumed read-only by the feed.
type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PostID    uint      `gorm:"not null;index" json:"post_id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	User      *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Body      string    `gorm:"type:text;not null" json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// CommentView is the comment shape aggregated into feed rows.
type CommentView struct {
	ID        uint      `json:"id"`
	UserID    uint      `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	Body      string    `json:"body"`
}

// FeedPost is the read model produced by the feed queries: a campaign post
// enriched with campaign metadata, owner profile fields and aggregated
// comments. It is scanned from a join, never persisted.
type FeedPost struct {
	ID           uint      `json:"id"`
	CampaignID   uint      `json:"campaign_id"`
	Body         string    `json:"body"`
	ImageURL     string    `json:"image_url"`
	IsUpdate     bool      `json:"is_update"`
	CreatedAt    time.Time `json:"created_at"`
	CampaignName string    `json:"campaign_name"`
	Urgency      string    `json:"urgency"`
	OwnerID      uint      `json:"user_id"`
	Location     string    `json:"location"`
	ProfileImage string    `json:"profile_image"`
	OrgName      string    `json:"org_name"`
	// OwnerDeactivated feeds the visibility filter; never serialized.
	OwnerDeactivated bool `json:"-"`
	// Comments is always non-nil; posts without comments carry an empty list.
	Comments []CommentView `gorm:"-" json:"comments"`
}
