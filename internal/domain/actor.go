package domain

import "github.com/google/uuid"

// ActorType distinguishes who is invoking an operation.
type ActorType string

const (
	ActorTypeUser   ActorType = "user"
	ActorTypeSeller ActorType = "seller"
	ActorTypeAdmin  ActorType = "admin"
)

// Actor is the authenticated identity passed explicitly into every
// core operation. Authorization is a precondition of the operation,
// not of the transport layer.
type Actor struct {
	ID    uuid.UUID
	Type  ActorType
	Name  string
	Email string
}

// IsAdmin reports whether the actor has admin rights.
func (a Actor) IsAdmin() bool {
	return a.Type == ActorTypeAdmin
}

// OwnsShop reports whether the actor is the seller owning shopID.
func (a Actor) OwnsShop(shopID uuid.UUID) bool {
	return a.Type == ActorTypeSeller && a.ID == shopID
}

// IsBuyer reports whether the actor is the buyer with buyerID.
func (a Actor) IsBuyer(buyerID uuid.UUID) bool {
	return a.Type == ActorTypeUser && a.ID == buyerID
}
