// Package policy holds the role checks that decide which affordances a
// principal sees. It is the single source of truth for every view; callers
// must not compare role strings themselves.
//
// Every predicate treats a nil user or a missing role as the least
// privileged case.
package policy

import (
	"strings"
	"unicode"

	"careerpath_portal/models"
)

const (
	RoleStudent = "student"
	RoleAlumni  = "alumni"
	RoleAdmin   = "admin"
)

// DefaultDisplayRole is shown when the principal has no role.
const DefaultDisplayRole = "User"

const staffQualifier = " • Admin"

// Role returns the normalized role of u, or "" when u is nil.
func Role(u *models.User) string {
	if u == nil {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(u.Role))
}

// CanPostJourney reports whether u may share a career journey: alumni,
// admins and staff.
func CanPostJourney(u *models.User) bool {
	if u == nil {
		return false
	}
	switch Role(u) {
	case RoleAlumni, RoleAdmin:
		return true
	}
	return u.IsStaff
}

func IsStudent(u *models.User) bool {
	return Role(u) == RoleStudent
}

// CanEditComment mirrors the ownership flag supplied by the forum API.
func CanEditComment(_ *models.User, c models.Comment) bool {
	return c.IsOwner
}

// CanDeleteComment mirrors the can_delete flag supplied by the forum API,
// which covers owners and staff.
func CanDeleteComment(_ *models.User, c models.Comment) bool {
	return c.CanDelete
}

// ResolveDisplayRole renders the role badge: first letter upper case, the
// rest lower case, "User" when empty. Staff get an Admin qualifier appended
// to the base role.
func ResolveDisplayRole(u *models.User) string {
	if u == nil {
		return DefaultDisplayRole
	}
	display := Capitalize(u.Role)
	if display == "" {
		display = DefaultDisplayRole
	}
	if u.IsStaff {
		display += staffQualifier
	}
	return display
}

// Capitalize upper-cases the first letter of s and lower-cases the rest.
func Capitalize(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	r := []rune(strings.ToLower(s))
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

// Permissions bundles the affordances for a principal.
func Permissions(u *models.User) models.Permissions {
	return models.Permissions{
		LoggedIn:       u != nil,
		CanPostJourney: CanPostJourney(u),
		IsStudent:      IsStudent(u),
		DisplayRole:    ResolveDisplayRole(u),
	}
}

// CommentView decorates c with the actions u may attempt on it. AdminDelete
// marks a delete that is only available through staff rights.
func CommentView(u *models.User, c models.Comment) models.CommentView {
	role := c.AuthorRole
	if strings.TrimSpace(role) == "" {
		role = RoleStudent
	}
	canDelete := CanDeleteComment(u, c)
	return models.CommentView{
		Comment:           c,
		AuthorRoleDisplay: Capitalize(role),
		CanEdit:           CanEditComment(u, c),
		AdminDelete:       canDelete && !c.IsOwner && u != nil && u.IsStaff,
	}
}

// CommentRole is the author_role sent with a new or edited comment. It is
// taken from the account, never from user input.
func CommentRole(u *models.User) string {
	if r := Role(u); r != "" {
		return r
	}
	return RoleStudent
}
