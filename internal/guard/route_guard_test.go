package guard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/pamphlets/pamphlets/internal/authstate"
	domainauth "github.com/pamphlets/pamphlets/internal/domain/auth"
)

func loadingSnapshot() authstate.Snapshot {
	return authstate.Snapshot{Loading: true, RoleLoading: true}
}

func guestSnapshot() authstate.Snapshot {
	return authstate.Snapshot{}
}

func subjectSnapshot(role domainauth.Role) authstate.Snapshot {
	return authstate.Snapshot{
		Subject: &domainauth.Subject{ID: "u1", Email: "u1@example.com", Role: role},
	}
}

func TestRouteTable_Classify(t *testing.T) {
	table := DefaultRouteTable()

	tests := []struct {
		path string
		want RouteClass
	}{
		{path: "/", want: RoutePublic},
		{path: "/login", want: RouteAuthOnly},
		{path: "/signup", want: RouteAuthOnly},
		{path: "/reset", want: RouteAuthOnly},
		{path: "/auth/callback", want: RouteAuthOnly},
		{path: "/signout", want: RouteAuthOnly},
		{path: "/dashboard", want: RouteProtected},
		{path: "/articles/new", want: RouteProtected},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, table.Classify(tt.path))
		})
	}
}

func TestRouteTable_Classify_PublicPrefixes(t *testing.T) {
	table := NewRouteTable(RouteTableConfig{
		Public:         []string{"/"},
		PublicPrefixes: []string{"/read/"},
		AuthOnly:       []string{"/login"},
	})

	assert.Equal(t, RoutePublic, table.Classify("/read/first-post"))
	assert.Equal(t, RouteProtected, table.Classify("/readers"))
}

func TestDecideRoute_LoadingSuspends(t *testing.T) {
	table := DefaultRouteTable()

	// While identity is unresolved no route decision is made, on any class.
	for _, path := range []string{"/", "/login", "/dashboard"} {
		d := table.DecideRoute(loadingSnapshot(), path)
		assert.Equal(t, DecisionLoading, d.Kind, "path %s", path)
		assert.False(t, d.Redirects())
	}
}

func TestDecideRoute_GuestOnPublicRenders(t *testing.T) {
	table := DefaultRouteTable()

	d := table.DecideRoute(guestSnapshot(), "/")

	assert.Equal(t, DecisionRender, d.Kind)
}

func TestDecideRoute_GuestOnAuthOnlyFunnelsThroughLogin(t *testing.T) {
	table := DefaultRouteTable()

	// Only public routes render for guests; auth-only targets still funnel
	// through the login URL.
	d := table.DecideRoute(guestSnapshot(), "/login")

	assert.Equal(t, DecisionRedirect, d.Kind)
	assert.Equal(t, "/login?redirect=%2Flogin", d.Target)
}

func TestDecideRoute_GuestOnProtectedRedirectsToLogin(t *testing.T) {
	table := DefaultRouteTable()

	d := table.DecideRoute(guestSnapshot(), "/dashboard")

	assert.Equal(t, DecisionRedirect, d.Kind)
	assert.True(t, d.Redirects())
	assert.Equal(t, "/login?redirect=%2Fdashboard", d.Target)
}

func TestDecideRoute_GuestRedirectEscapesPath(t *testing.T) {
	table := DefaultRouteTable()

	d := table.DecideRoute(guestSnapshot(), "/articles/first?tab=comments")

	assert.Equal(t, DecisionRedirect, d.Kind)
	assert.Equal(t, "/login?redirect=%2Farticles%2Ffirst%3Ftab%3Dcomments", d.Target)
}

func TestDecideRoute_SubjectOnProtectedRenders(t *testing.T) {
	table := DefaultRouteTable()

	d := table.DecideRoute(subjectSnapshot(domainauth.RoleVisitor), "/dashboard")

	assert.Equal(t, DecisionRender, d.Kind)
}

func TestDecideRoute_SubjectOnAuthOnlyBouncesHome(t *testing.T) {
	table := DefaultRouteTable()

	d := table.DecideRoute(subjectSnapshot(domainauth.RoleVisitor), "/login")

	assert.Equal(t, DecisionRedirect, d.Kind)
	assert.Equal(t, "/", d.Target)
}

func TestDecideRoute_SubjectOnHomeIsExempt(t *testing.T) {
	table := DefaultRouteTable()

	// Home is public but always bounce-exempt, otherwise every bounce would
	// loop forever.
	d := table.DecideRoute(subjectSnapshot(domainauth.RoleVisitor), "/")

	assert.Equal(t, DecisionRender, d.Kind)
}

func TestDecideRoute_SubjectOnExemptTransitionalRoutes(t *testing.T) {
	table := DefaultRouteTable()

	// Callback and signout are visited mid-transition by authenticated
	// subjects and must never bounce.
	for _, path := range []string{"/auth/callback", "/signout"} {
		d := table.DecideRoute(subjectSnapshot(domainauth.RoleAuthor), path)
		assert.Equal(t, DecisionRender, d.Kind, "path %s", path)
	}
}

func TestDecideRoute_RoleLoadingDoesNotBlockRouteDecision(t *testing.T) {
	table := DefaultRouteTable()
	snap := authstate.Snapshot{
		Subject:     &domainauth.Subject{ID: "u1", Email: "u1@example.com"},
		RoleLoading: true,
	}

	// Route classification only needs the identity facet.
	d := table.DecideRoute(snap, "/dashboard")

	assert.Equal(t, DecisionRender, d.Kind)
}

func TestNewRouteTable_Defaults(t *testing.T) {
	table := NewRouteTable(RouteTableConfig{})

	assert.Equal(t, "/", table.Home)
	assert.Equal(t, "/login", table.LoginURL)
	assert.True(t, table.exemptFromBounce("/"))
}
