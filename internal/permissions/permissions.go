// Package permissions decides which actor may perform which action on which
// resource. Decisions are pure: they depend only on the actor, the resource,
// the action and, for object-level checks, the owner of the object.
package permissions

import "errors"

var (
	// ErrAuthenticationRequired is returned when an anonymous actor attempts a protected action.
	ErrAuthenticationRequired = errors.New("authentication credentials were not provided")
	// ErrPermissionDenied is returned when an authenticated actor lacks the role or ownership.
	ErrPermissionDenied = errors.New("you do not have permission to perform this action")
)

// Actor is the identity a request is performed as. The zero value is anonymous.
type Actor struct {
	UserID uint
	Staff  bool
}

// Anonymous reports whether the actor carries no identity.
func (a Actor) Anonymous() bool {
	return a.UserID == 0
}

type Resource string

const (
	Product    Resource = "product"
	Review     Resource = "product_review"
	Order      Resource = "order"
	Collection Resource = "product_collection"
)

type Action string

const (
	List     Action = "list"
	Retrieve Action = "retrieve"
	Create   Action = "create"
	Update   Action = "update"
	Delete   Action = "delete"
)

// Rule is the requirement an actor must satisfy for a (resource, action) pair.
type Rule int

const (
	Public Rule = iota
	Authenticated
	StaffOnly
	OwnerOrStaff
)

var rules = map[Resource]map[Action]Rule{
	Product: {
		List: Public, Retrieve: Public,
		Create: StaffOnly, Update: StaffOnly, Delete: StaffOnly,
	},
	Review: {
		List: Public, Retrieve: Public,
		Create: Authenticated, Update: OwnerOrStaff, Delete: OwnerOrStaff,
	},
	Order: {
		List: Authenticated, Retrieve: OwnerOrStaff,
		Create: Authenticated, Update: OwnerOrStaff, Delete: OwnerOrStaff,
	},
	Collection: {
		List: Public, Retrieve: Public,
		Create: StaffOnly, Update: StaffOnly, Delete: StaffOnly,
	},
}

// RuleFor returns the rule registered for the pair. Unknown pairs are staff only.
func RuleFor(res Resource, act Action) Rule {
	if r, ok := rules[res][act]; ok {
		return r
	}
	return StaffOnly
}

// Allow performs the resource-level check, before any object is loaded.
// Owner-or-staff rules only require authentication at this stage.
func Allow(actor Actor, res Resource, act Action) error {
	switch RuleFor(res, act) {
	case Public:
		return nil
	case Authenticated, OwnerOrStaff:
		if actor.Anonymous() {
			return ErrAuthenticationRequired
		}
		return nil
	default:
		return requireStaff(actor)
	}
}

// AllowObject performs both the resource-level and the object-level check
// for an object owned by ownerID.
func AllowObject(actor Actor, res Resource, act Action, ownerID uint) error {
	if err := Allow(actor, res, act); err != nil {
		return err
	}
	if RuleFor(res, act) != OwnerOrStaff {
		return nil
	}
	if actor.Staff || actor.UserID == ownerID {
		return nil
	}
	return ErrPermissionDenied
}

// ScopeToOwner reports whether listings for the actor must be limited to
// objects the actor owns.
func ScopeToOwner(actor Actor, res Resource) bool {
	return res == Order && !actor.Staff
}

func requireStaff(actor Actor) error {
	if actor.Anonymous() {
		return ErrAuthenticationRequired
	}
	if !actor.Staff {
		return ErrPermissionDenied
	}
	return nil
}
