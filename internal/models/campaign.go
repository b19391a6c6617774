package models

import (
	"time"

	"gorm.io/gorm"
)

// Campaign is a request for volunteer help posted by an organization.
// Every campaign is announced by exactly one original CampaignPost
// (IsUpdate=false); later posts are updates.
type Campaign struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	UserID       uint   `gorm:"not null;index" json:"user_id"`
	User         *User  `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Name         string `gorm:"not null" json:"name"`
	Description  string `gorm:"type:text;not null" json:"description"`
	CallToAction string `gorm:"type:text" json:"call_to_action"`
	Urgency      string `json:"urgency"`
	ImageURL     string `json:"image_url"`
	// IsDeactivated mirrors owner deactivation but may also be set
	// independently by moderation.
	IsDeactivated         bool                   `gorm:"default:false" json:"is_deactivated"`
	SkilledImpactRequests []SkilledImpactRequest `gorm:"foreignKey:CampaignID;constraint:OnDelete:CASCADE" json:"skilled_impact_requests,omitempty"`
	Posts                 []CampaignPost         `gorm:"foreignKey:CampaignID;constraint:OnDelete:CASCADE" json:"posts,omitempty"`
	CreatedAt             time.Time              `json:"created_at"`
	UpdatedAt             time.Time              `json:"updated_at"`
	DeletedAt             gorm.DeletedAt         `gorm:"index" json:"-"`
}

// SkilledImpactRequest is a specific skill need attached to a campaign.
// At most one of its submissions may be ACCEPTED at any time.
type SkilledImpactRequest struct {
	ID          uint                    `gorm:"primaryKey" json:"id"`
	CampaignID  uint                    `gorm:"not null;index" json:"campaign_id"`
	Campaign    *Campaign               `gorm:"foreignKey:CampaignID" json:"campaign,omitempty"`
	Skill       string                  `gorm:"not null;index" json:"skill"`
	Description string                  `gorm:"type:text" json:"description"`
	Submissions []ApplicationSubmission `gorm:"foreignKey:SkilledImpactRequestID;constraint:OnDelete:CASCADE" json:"submissions,omitempty"`
	CreatedAt   time.Time               `json:"created_at"`
	UpdatedAt   time.Time               `json:"updated_at"`
}
