package access

import "little-lemon/order-svc/internal/domain"

type Role int

const (
	RoleCustomer Role = iota
	RoleDeliveryCrew
	RoleManager
)

func (r Role) String() string {
	switch r {
	case RoleManager:
		return "manager"
	case RoleDeliveryCrew:
		return "delivery-crew"
	default:
		return "customer"
	}
}

// Principal is the authenticated caller with its group memberships resolved.
type Principal struct {
	UserID       int64
	Username     string
	IsAdmin      bool
	Manager      bool
	DeliveryCrew bool
}

// Role collapses group membership into a single role. Manager takes
// precedence over Delivery crew; a user in neither group is a Customer.
func (p Principal) Role() Role {
	switch {
	case p.Manager:
		return RoleManager
	case p.DeliveryCrew:
		return RoleDeliveryCrew
	default:
		return RoleCustomer
	}
}

// NewPrincipal builds a principal from a user record and its group names.
func NewPrincipal(user domain.User, groups []string) Principal {
	p := Principal{
		UserID:   user.ID,
		Username: user.Username,
		IsAdmin:  user.IsStaff,
	}
	for _, g := range groups {
		switch g {
		case domain.GroupManager:
			p.Manager = true
		case domain.GroupDeliveryCrew:
			p.DeliveryCrew = true
		}
	}
	return p
}
