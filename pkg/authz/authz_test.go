package authz

import (
	"testing"

	"github.com/feen1e/recipe-app-backend/pkg/enums"
	"github.com/google/uuid"
)

func TestCanMutate(t *testing.T) {
	owner := uuid.New()
	stranger := uuid.New()

	tests := []struct {
		name    string
		actor   Actor
		ownerID uuid.UUID
		want    bool
	}{
		{"owner may mutate", Actor{ID: owner, Role: enums.UserRoleUser}, owner, true},
		{"stranger may not", Actor{ID: stranger, Role: enums.UserRoleUser}, owner, false},
		{"admin may mutate anything", Actor{ID: stranger, Role: enums.UserRoleAdmin}, owner, true},
		{"zero actor id never matches", Actor{Role: enums.UserRoleUser}, uuid.Nil, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := CanMutate(tc.actor, tc.ownerID); got != tc.want {
				t.Fatalf("CanMutate = %v, want %v", got, tc.want)
			}
		})
	}
}
