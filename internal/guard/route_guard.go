package guard

import (
	"net/url"

	"github.com/pamphlets/pamphlets/internal/authstate"
)

// DecisionKind is the outcome of a guard evaluation.
type DecisionKind int

const (
	// DecisionLoading suspends: render a neutral loading indicator and
	// wait for the next state change. No redirect is issued yet.
	DecisionLoading DecisionKind = iota
	// DecisionRedirect navigates away; Target carries the destination.
	// The guard keeps rendering the loading indicator until navigation
	// completes and unmounts it.
	DecisionRedirect
	// DecisionRender shows the requested target.
	DecisionRender
)

// Decision is the result of evaluating a guard against a snapshot.
type Decision struct {
	Kind   DecisionKind
	Target string
}

// Redirects reports whether the decision navigates away.
func (d Decision) Redirects() bool { return d.Kind == DecisionRedirect }

// DecideRoute classifies the navigation target against the subject state:
//
//  1. identity still loading: suspend.
//  2. no subject on a non-public route: redirect to login, preserving the
//     requested path in the redirect query parameter.
//  3. a subject on a public or auth-only route that is not bounce-exempt:
//     redirect home.
//  4. otherwise render.
func (t *RouteTable) DecideRoute(snap authstate.Snapshot, path string) Decision {
	if snap.Loading {
		return Decision{Kind: DecisionLoading}
	}

	class := t.Classify(path)

	if snap.Subject == nil {
		if class != RoutePublic {
			return Decision{
				Kind:   DecisionRedirect,
				Target: t.LoginURL + "?redirect=" + url.QueryEscape(path),
			}
		}
		return Decision{Kind: DecisionRender}
	}

	if class != RouteProtected && !t.exemptFromBounce(path) {
		return Decision{Kind: DecisionRedirect, Target: t.Home}
	}
	return Decision{Kind: DecisionRender}
}
