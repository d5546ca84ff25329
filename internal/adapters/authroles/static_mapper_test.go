package authroles

import (
	"testing"

	"github.com/stretchr/testify/assert"
	domainauth "github.com/pamphlets/pamphlets/internal/domain/auth"
)

func TestStaticRoleMapper_Map(t *testing.T) {
	mapper := StaticRoleMapper{AdminGroup: "admins", AuthorGroup: "authors"}

	tests := []struct {
		name   string
		groups []string
		want   domainauth.Role
	}{
		{name: "admin group", groups: []string{"admins"}, want: domainauth.RoleAdmin},
		{name: "author group", groups: []string{"authors"}, want: domainauth.RoleAuthor},
		{name: "admin wins over author", groups: []string{"authors", "admins"}, want: domainauth.RoleAdmin},
		{name: "unknown groups", groups: []string{"readers", "staff"}, want: domainauth.RoleVisitor},
		{name: "no groups", groups: nil, want: domainauth.RoleVisitor},
		{name: "empty groups", groups: []string{}, want: domainauth.RoleVisitor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, mapper.Map(tt.groups))
		})
	}
}

func TestStaticRoleMapper_EmptyConfigNeverMatches(t *testing.T) {
	mapper := StaticRoleMapper{}

	// An empty group name must not match empty strings in the claim.
	assert.Equal(t, domainauth.RoleVisitor, mapper.Map([]string{"", "admins"}))
}
