package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dtroode/boogle-server/internal/model"
)

func TestAuthorize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		role    model.Role
		allowed []model.Role
		wantErr error
	}{
		{name: "admin allowed", role: model.RoleAdmin, allowed: []model.Role{model.RoleAdmin}},
		{name: "one of several", role: model.RoleInstructor, allowed: []model.Role{model.RoleAdmin, model.RoleInstructor}},
		{name: "student forbidden", role: model.RoleStudent, allowed: []model.Role{model.RoleAdmin}, wantErr: model.ErrForbidden},
		{name: "empty set", role: model.RoleAdmin, wantErr: model.ErrForbidden},
		{name: "empty role", role: "", allowed: []model.Role{model.RoleStudent}, wantErr: model.ErrForbidden},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := Authorize(model.User{Role: tt.role}, tt.allowed...)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}
