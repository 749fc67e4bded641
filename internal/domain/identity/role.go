package identity

import "errors"

var ErrUnknownRole = errors.New("unknown role")

// Role is supplied by the identity provider via JWT claims. The core
// trusts the (subjectId, role) pair as given but still checks per-booking
// ownership before allowing a transition.
type Role string

const (
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
	RoleAdmin   Role = "admin"
)

func NewRole(s string) (Role, error) {
	switch Role(s) {
	case RoleStudent, RoleTeacher, RoleAdmin:
		return Role(s), nil
	default:
		return "", ErrUnknownRole
	}
}

func (r Role) String() string {
	return string(r)
}
