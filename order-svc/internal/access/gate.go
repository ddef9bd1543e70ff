package access

import "net/http"

type Resource string

const (
	MenuItems          Resource = "menu-items"
	MenuItem           Resource = "menu-item"
	Categories         Resource = "categories"
	ManagerRoster      Resource = "managers"
	ManagerEntry       Resource = "manager"
	DeliveryCrewRoster Resource = "delivery-crew"
	DeliveryCrewEntry  Resource = "delivery-crew-member"
	Cart               Resource = "cart"
	Orders             Resource = "orders"
	OrderDetail        Resource = "order"
)

// Policy describes who may use one verb of one resource.
// Admin lets site admins through regardless of role. Owner additionally
// requires the caller to own the object for the role match to count.
type Policy struct {
	Roles []Role
	Admin bool
	Owner bool
}

var (
	everyone     = []Role{RoleCustomer, RoleDeliveryCrew, RoleManager}
	managers     = []Role{RoleManager}
	staff        = []Role{RoleDeliveryCrew, RoleManager}
	customers    = []Role{RoleCustomer}
	anyUser      = Policy{Roles: everyone}
	managerAdmin = Policy{Roles: managers, Admin: true}
)

// Table is the permission table for the whole API. A (resource, verb)
// pair that is not listed is denied.
type Table map[Resource]map[string]Policy

func DefaultTable() Table {
	return Table{
		MenuItems: {
			http.MethodGet:  anyUser,
			http.MethodPost: managerAdmin,
		},
		MenuItem: {
			http.MethodGet:    anyUser,
			http.MethodPut:    managerAdmin,
			http.MethodPatch:  managerAdmin,
			http.MethodDelete: managerAdmin,
		},
		Categories: {
			http.MethodGet:  anyUser,
			http.MethodPost: managerAdmin,
		},
		ManagerRoster: {
			http.MethodGet:  managerAdmin,
			http.MethodPost: managerAdmin,
		},
		ManagerEntry: {
			http.MethodGet:    managerAdmin,
			http.MethodDelete: managerAdmin,
		},
		DeliveryCrewRoster: {
			http.MethodGet:  managerAdmin,
			http.MethodPost: managerAdmin,
		},
		DeliveryCrewEntry: {
			http.MethodGet:    managerAdmin,
			http.MethodDelete: managerAdmin,
		},
		Cart: {
			http.MethodGet:    anyUser,
			http.MethodPost:   anyUser,
			http.MethodDelete: anyUser,
		},
		Orders: {
			http.MethodGet: anyUser,
			// staff cannot place orders unless they are also site admins
			http.MethodPost: {Roles: customers, Admin: true},
		},
		OrderDetail: {
			http.MethodGet:    {Roles: customers, Admin: true, Owner: true},
			http.MethodPatch:  {Roles: staff, Admin: true},
			http.MethodPut:    managerAdmin,
			http.MethodDelete: managerAdmin,
		},
	}
}

type Gate struct {
	table Table
}

func NewGate(table Table) *Gate {
	return &Gate{table: table}
}

// Allowed reports whether p may perform verb on resource. ownerID is only
// consulted by policies that require ownership.
func (g *Gate) Allowed(p Principal, resource Resource, verb string, ownerID int64) bool {
	policy, ok := g.table[resource][verb]
	if !ok {
		return false
	}
	if policy.Admin && p.IsAdmin {
		return true
	}
	role := p.Role()
	for _, r := range policy.Roles {
		if r != role {
			continue
		}
		return !policy.Owner || p.UserID == ownerID
	}
	return false
}
