// Package service holds the application's business logic, composed from the
// repository layer.
package service

import "uplift/internal/models"

// Visibility is the tri-state outcome of the visibility filter. Handlers
// map it onto HTTP semantics: Hidden becomes 403, NotFound becomes 404.
type Visibility int

const (
	// VisibilityNotFound means the owning entity could not be resolved.
	VisibilityNotFound Visibility = iota
	// VisibilityHidden means the owner is deactivated and the viewer is
	// not an admin.
	VisibilityHidden
	// VisibilityVisible means anyone may see the entity.
	VisibilityVisible
)

// OwnerVisibility decides whether content owned by owner is visible to
// viewer. It is a pure predicate over already-fetched entities; a nil
// viewer is an anonymous request.
func OwnerVisibility(owner *models.User, viewer *models.User) Visibility {
	if owner == nil {
		return VisibilityNotFound
	}
	if !owner.IsDeactivated {
		return VisibilityVisible
	}
	if viewer != nil && viewer.IsAdmin {
		return VisibilityVisible
	}
	return VisibilityHidden
}

// PostVisibility applies the same rule to a feed row, which carries its
// owner's deactivation flag instead of the full user record.
func PostVisibility(post *models.FeedPost, viewer *models.User) Visibility {
	if post == nil {
		return VisibilityNotFound
	}
	if !post.OwnerDeactivated {
		return VisibilityVisible
	}
	if viewer != nil && viewer.IsAdmin {
		return VisibilityVisible
	}
	return VisibilityHidden
}

// Action names an operation checked by Can.
type Action string

const (
	ActionView   Action = "view"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Can is the single authorization capability shared by every mutating
// operation: admins may do anything, owners may act on their own
// resources, everyone may view.
func Can(viewer *models.User, action Action, ownerID uint) bool {
	if action == ActionView {
		return true
	}
	if viewer == nil {
		return false
	}
	if viewer.IsAdmin {
		return true
	}
	return viewer.ID == ownerID
}
