package guard

// Package guard classifies navigation targets and decides whether a subject
// may see them. Decisions are pure functions over an authstate snapshot so
// they can be re-evaluated on every state change and tested in isolation.

import "strings"

// RouteClass is the access class of a navigation target.
type RouteClass int

const (
	// RoutePublic renders regardless of subject state.
	RoutePublic RouteClass = iota
	// RouteAuthOnly exists for unauthenticated users (login, signup, ...).
	RouteAuthOnly
	// RouteProtected requires a resolved, authenticated subject.
	RouteProtected
)

// RouteTable is the single configuration table mapping paths to classes.
// It also carries the bounce exemptions: targets an authenticated subject
// may visit even though they are public or auth-only, which is what keeps
// a freshly-redirected subject from being redirected again.
type RouteTable struct {
	Home     string
	LoginURL string

	public         map[string]struct{}
	publicPrefixes []string
	authOnly       map[string]struct{}
	exempt         map[string]struct{}
}

// RouteTableConfig enumerates the classification data for a RouteTable.
type RouteTableConfig struct {
	Home           string
	LoginURL       string
	Public         []string
	PublicPrefixes []string
	AuthOnly       []string
	// Exempt lists routes that never bounce an authenticated subject.
	// Home is always exempt.
	Exempt []string
}

// NewRouteTable builds a RouteTable from enumerated configuration.
func NewRouteTable(cfg RouteTableConfig) *RouteTable {
	t := &RouteTable{
		Home:           cfg.Home,
		LoginURL:       cfg.LoginURL,
		public:         make(map[string]struct{}),
		publicPrefixes: append([]string(nil), cfg.PublicPrefixes...),
		authOnly:       make(map[string]struct{}),
		exempt:         make(map[string]struct{}),
	}
	if t.Home == "" {
		t.Home = "/"
	}
	if t.LoginURL == "" {
		t.LoginURL = "/login"
	}
	for _, p := range cfg.Public {
		t.public[p] = struct{}{}
	}
	for _, p := range cfg.AuthOnly {
		t.authOnly[p] = struct{}{}
	}
	for _, p := range cfg.Exempt {
		t.exempt[p] = struct{}{}
	}
	t.exempt[t.Home] = struct{}{}
	return t
}

// DefaultRouteTable returns the platform's route classification: the home
// page is public; login, signup, password reset, the OAuth callback and
// sign-out are auth-only; everything else is protected. Callback and
// sign-out are transitional and never bounce.
func DefaultRouteTable() *RouteTable {
	return NewRouteTable(RouteTableConfig{
		Home:     "/",
		LoginURL: "/login",
		Public:   []string{"/"},
		AuthOnly: []string{"/login", "/signup", "/reset", "/auth/callback", "/signout"},
		Exempt:   []string{"/auth/callback", "/signout"},
	})
}

// Classify maps a path to exactly one route class.
func (t *RouteTable) Classify(path string) RouteClass {
	if _, ok := t.authOnly[path]; ok {
		return RouteAuthOnly
	}
	if _, ok := t.public[path]; ok {
		return RoutePublic
	}
	for _, prefix := range t.publicPrefixes {
		if strings.HasPrefix(path, prefix) {
			return RoutePublic
		}
	}
	return RouteProtected
}

// exemptFromBounce reports whether an authenticated subject may stay on path.
func (t *RouteTable) exemptFromBounce(path string) bool {
	_, ok := t.exempt[path]
	return ok
}
