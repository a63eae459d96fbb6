package services

// Identity is the resolved caller of a service operation. It is passed into
// every operation explicitly; the zero value is an unauthenticated caller.
type Identity struct {
	UserID      uint
	Role        string
	Permissions map[string]bool
}

// NewIdentity builds an identity from a role's permission list.
func NewIdentity(userID uint, role string, perms []string) Identity {
	set := make(map[string]bool, len(perms))
	for _, p := range perms {
		set[p] = true
	}
	return Identity{UserID: userID, Role: role, Permissions: set}
}

func (id Identity) Authenticated() bool { return id.UserID != 0 }

func (id Identity) Can(perm string) bool { return id.Permissions[perm] }

// Require fails with ErrUnauthenticated for an anonymous caller and with
// ErrForbidden when the role lacks perm.
func (id Identity) Require(perm string) error {
	if !id.Authenticated() {
		return ErrUnauthenticated
	}
	if !id.Can(perm) {
		return ErrForbidden
	}
	return nil
}
