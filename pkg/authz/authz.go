package authz

import (
	"github.com/feen1e/recipe-app-backend/pkg/enums"
	"github.com/google/uuid"
)

// Actor is the minimal caller shape the ownership rule needs.
type Actor struct {
	ID   uuid.UUID
	Role enums.UserRole
}

// CanMutate reports whether the actor may update or delete a resource owned
// by ownerID. Owners and admins may; nobody else. Every mutating service
// path goes through this single predicate.
func CanMutate(actor Actor, ownerID uuid.UUID) bool {
	if actor.Role == enums.UserRoleAdmin {
		return true
	}
	return actor.ID != uuid.Nil && actor.ID == ownerID
}
