package models

import "time"

// Decision is the lifecycle state of an application submission. The set is
// closed: unknown values are rejected at the service boundary instead of
// being stored.
type Decision string

const (
	// DecisionPending is the initial state of every submission.
	DecisionPending Decision = "PENDING"
	// DecisionAccepted marks the single chosen volunteer for a request.
	DecisionAccepted Decision = "ACCEPTED"
	// DecisionDenied marks a rejected submission.
	DecisionDenied Decision = "DENIED"
)

// Valid reports whether d is one of the known decision states.
func (d Decision) Valid() bool {
	switch d {
	case DecisionPending, DecisionAccepted, DecisionDenied:
		return true
	}
	return false
}

// ApplicationSubmission is a volunteer's application against a skilled
// impact request.
type ApplicationSubmission struct {
	ID                     uint                  `gorm:"primaryKey" json:"id"`
	SkilledImpactRequestID uint                  `gorm:"not null;index" json:"skilled_impact_request_id"`
	SkilledImpactRequest   *SkilledImpactRequest `gorm:"foreignKey:SkilledImpactRequestID" json:"skilled_impact_request,omitempty"`
	UserID                 uint                  `gorm:"not null;index" json:"user_id"`
	User                   *User                 `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Pitch                  string                `gorm:"type:text" json:"pitch"`
	Decision               Decision              `gorm:"type:varchar(20);not null;default:'PENDING';index" json:"decision"`
	CreatedAt              time.Time             `json:"created_at"`
	UpdatedAt              time.Time             `json:"updated_at"`
}
