// Package account holds the core's view of a platform user: role and balance owner.
// Registration and credentials live with the auth collaborator.
package account

import (
	"fmt"

	"dispatch/internal/pkg/errs"
)

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleUser    Role = "user"
	RoleShipper Role = "shipper"
)

func ParseRole(s string) (Role, error) {
	r := Role(s)
	switch r {
	case RoleAdmin, RoleUser, RoleShipper:
		return r, nil
	default:
		return "", errs.NewValueIsInvalidErrorWithCause("role", fmt.Errorf("%q is not a role", s))
	}
}

// CanDeliver reports whether the role may claim orders without promotion.
func (r Role) CanDeliver() bool {
	return r == RoleShipper
}

// CanBePromoted reports whether claiming an order should promote this role to shipper.
func (r Role) CanBePromoted() bool {
	return r == RoleUser
}
