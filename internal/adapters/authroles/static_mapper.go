package authroles

import (
	domainauth "github.com/pamphlets/pamphlets/internal/domain/auth"
)

// StaticRoleMapper maps provider groups to roles by string membership.
// Admin membership wins over author; anyone else is a visitor.
type StaticRoleMapper struct {
	AdminGroup  string
	AuthorGroup string
}

func (m StaticRoleMapper) Map(groups []string) domainauth.Role {
	for _, g := range groups {
		if m.AdminGroup != "" && g == m.AdminGroup {
			return domainauth.RoleAdmin
		}
	}
	for _, g := range groups {
		if m.AuthorGroup != "" && g == m.AuthorGroup {
			return domainauth.RoleAuthor
		}
	}
	return domainauth.RoleVisitor
}
