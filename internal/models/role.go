package models

// Roles, ordered by capability: guest < user < admin.
const (
	RoleGuest Role = "guest"
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

type Role string

// ParseRole maps a stored string to a Role, defaulting to guest for
// anything unrecognized.
func ParseRole(s string) Role {
	switch Role(s) {
	case RoleUser:
		return RoleUser
	case RoleAdmin:
		return RoleAdmin
	default:
		return RoleGuest
	}
}

func (r Role) Valid() bool {
	return r == RoleGuest || r == RoleUser || r == RoleAdmin
}

// CanUpload reports whether the role may create documents.
func (r Role) CanUpload() bool {
	return r == RoleUser || r == RoleAdmin
}

// CanView reports whether the role may see a document in listings and
// download it. Private documents are visible to their owner and to
// admins only.
func (r Role) CanView(doc *Document, identityKey string) bool {
	if r == RoleAdmin {
		return true
	}
	if !doc.IsPrivate {
		return true
	}
	return r == RoleUser && doc.Owner.IdentityKey == identityKey
}

// CanDelete reports whether the role may delete a document. Admins may
// delete anything, users only their own documents, guests nothing.
func (r Role) CanDelete(doc *Document, identityKey string) bool {
	switch r {
	case RoleAdmin:
		return true
	case RoleUser:
		return doc.Owner.IdentityKey == identityKey
	default:
		return false
	}
}
