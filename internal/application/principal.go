package application

import "github.com/example/agenda/internal/document"

// Principal identifies the user performing an operation.
type Principal struct {
	UserID string
	Role   document.Role
}

// IsAdmin reports whether the principal holds the administrator role.
func (p Principal) IsAdmin() bool {
	return p.Role == document.RoleAdmin
}

// PrincipalOf builds the principal for a stored user.
func PrincipalOf(u document.User) Principal {
	return Principal{UserID: u.ID, Role: u.Role}
}

// View names a screen of the agenda.
type View string

const (
	ViewAgenda  View = "agenda"
	ViewClients View = "clients"
	ViewFinance View = "finance"
	ViewUsers   View = "users"
	ViewConfig  View = "config"
)

// views lists every screen in navigation order with the roles allowed to open it.
var views = []struct {
	view  View
	roles []document.Role
}{
	{ViewAgenda, []document.Role{document.RoleAdmin, document.RoleAttendant}},
	{ViewClients, []document.Role{document.RoleAdmin, document.RoleAttendant}},
	{ViewFinance, []document.Role{document.RoleAdmin, document.RoleAttendant}},
	{ViewUsers, []document.Role{document.RoleAdmin}},
	{ViewConfig, []document.Role{document.RoleAdmin}},
}

// AccessibleViews returns the views a role may open, in navigation order.
func AccessibleViews(role document.Role) []View {
	out := make([]View, 0, len(views))
	for _, entry := range views {
		for _, r := range entry.roles {
			if r == role {
				out = append(out, entry.view)
				break
			}
		}
	}
	return out
}

// Authorize checks that the principal may access view. Unknown views are
// rejected.
func Authorize(p Principal, view View) error {
	if p.UserID == "" {
		return ErrUnauthenticated
	}
	for _, allowed := range AccessibleViews(p.Role) {
		if allowed == view {
			return nil
		}
	}
	return ErrUnauthorized
}
