package service

import (
	"testing"

	"uplift/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestOwnerVisibility(t *testing.T) {
	t.Parallel()

	admin := &models.User{ID: 1, IsAdmin: true}
	viewer := &models.User{ID: 2}
	active := &models.User{ID: 3}
	deactivated := &models.User{ID: 4, IsDeactivated: true}

	tests := []struct {
		name   string
		owner  *models.User
		viewer *models.User
		want   Visibility
	}{
		{"active owner, anonymous viewer", active, nil, VisibilityVisible},
		{"active owner, regular viewer", active, viewer, VisibilityVisible},
		{"deactivated owner, anonymous viewer", deactivated, nil, VisibilityHidden},
		{"deactivated owner, regular viewer", deactivated, viewer, VisibilityHidden},
		{"deactivated owner, admin viewer", deactivated, admin, VisibilityVisible},
		{"missing owner", nil, admin, VisibilityNotFound},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, OwnerVisibility(tt.owner, tt.viewer))
		})
	}
}

func TestCan(t *testing.T) {
	t.Parallel()

	admin := &models.User{ID: 1, IsAdmin: true}
	owner := &models.User{ID: 2}
	other := &models.User{ID: 3}

	tests := []struct {
		name    string
		viewer  *models.User
		action  Action
		ownerID uint
		want    bool
	}{
		{"anyone may view", nil, ActionView, 2, true},
		{"anonymous may not delete", nil, ActionDelete, 2, false},
		{"owner may update own", owner, ActionUpdate, 2, true},
		{"owner may delete own", owner, ActionDelete, 2, true},
		{"non-owner may not update", other, ActionUpdate, 2, false},
		{"admin may delete anything", admin, ActionDelete, 2, true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Can(tt.viewer, tt.action, tt.ownerID))
		})
	}
}
