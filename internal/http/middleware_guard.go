package httpx

import (
	"net/http"

	"github.com/pamphlets/pamphlets/internal/authstate"
	"github.com/pamphlets/pamphlets/internal/guard"
)

// PageGuard returns a middleware that applies route-table navigation rules
// to page requests: unauthenticated visitors are bounced to the login URL
// with the requested path preserved, and signed-in subjects are bounced off
// public and auth-only routes back home unless the route is exempt.
//
// The middleware resolves the session fully before deciding, so the snapshot
// it evaluates never carries a loading facet.
func PageGuard(table *guard.RouteTable, authSvc AuthServiceInterface) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			snap := snapshotFromRequest(r, authSvc)

			decision := table.DecideRoute(snap, r.URL.Path)
			if decision.Redirects() {
				http.Redirect(w, r, decision.Target, http.StatusSeeOther)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// snapshotFromRequest builds a fully-resolved auth snapshot from the request
// credential.
func snapshotFromRequest(r *http.Request, authSvc AuthServiceInterface) authstate.Snapshot {
	session := getSessionFromRequest(r, authSvc)
	if session == nil {
		return authstate.Snapshot{}
	}
	subject := session.Subject()
	return authstate.Snapshot{Subject: &subject}
}
