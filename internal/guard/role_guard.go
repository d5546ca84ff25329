package guard

import (
	"context"
	"net/url"

	"github.com/pamphlets/pamphlets/internal/authstate"
	domainauth "github.com/pamphlets/pamphlets/internal/domain/auth"
)

// ProtectConfig configures a role-gated view.
type ProtectConfig struct {
	// RedirectTo receives unauthenticated subjects. Defaults to "/login".
	RedirectTo string
	// Home receives subjects that fail a role check. Defaults to "/".
	Home string
	// RequireAdmin gates the view on the admin role.
	RequireAdmin bool
	// RequireAuthor gates the view on the author role; admin satisfies it.
	RequireAuthor bool
}

func (c ProtectConfig) redirectTo() string {
	if c.RedirectTo == "" {
		return "/login"
	}
	return c.RedirectTo
}

func (c ProtectConfig) home() string {
	if c.Home == "" {
		return "/"
	}
	return c.Home
}

// Guarded decorates a view of any type with a capability requirement. The
// wrapped view's contract is untouched: Resolve hands it back unchanged
// when the requirement is satisfied.
type Guarded[V any] struct {
	view V
	cfg  ProtectConfig
}

// Protect wraps view with the given requirement.
func Protect[V any](view V, cfg ProtectConfig) Guarded[V] {
	return Guarded[V]{view: view, cfg: cfg}
}

// Resolve evaluates the requirement against a snapshot for the requested
// path. The view is returned only when the decision is DecisionRender; in
// every other case the caller renders a loading state (and navigates when
// the decision redirects).
//
// The sequence, each step its own suspension point:
//
//  1. identity loading: suspend.
//  2. no subject: redirect to RedirectTo with the original path in the
//     redirectTo query parameter.
//  3. a role is required and still loading: suspend, never reject early.
//  4. admin required but role is not admin: redirect home.
//  5. author required but role is neither author nor admin: redirect home.
//  6. render.
func (g Guarded[V]) Resolve(snap authstate.Snapshot, path string) (V, Decision) {
	var zero V

	if snap.Loading {
		return zero, Decision{Kind: DecisionLoading}
	}

	if snap.Subject == nil {
		return zero, Decision{
			Kind:   DecisionRedirect,
			Target: g.cfg.redirectTo() + "?redirectTo=" + url.QueryEscape(path),
		}
	}

	if (g.cfg.RequireAdmin || g.cfg.RequireAuthor) && snap.RoleLoading {
		return zero, Decision{Kind: DecisionLoading}
	}

	if g.cfg.RequireAdmin && snap.Role() != domainauth.RoleAdmin {
		return zero, Decision{Kind: DecisionRedirect, Target: g.cfg.home()}
	}
	if g.cfg.RequireAuthor && !snap.Role().AtLeast(domainauth.RoleAuthor) {
		return zero, Decision{Kind: DecisionRedirect, Target: g.cfg.home()}
	}

	return g.view, Decision{Kind: DecisionRender}
}

// Watch re-evaluates the guard on every store change until ctx is done,
// emitting each decision. The caller acts on redirects and renders; a
// completed redirect should cancel ctx, which unmounts the watcher.
func (g Guarded[V]) Watch(
	ctx context.Context,
	store *authstate.Store,
	path string,
) <-chan Decision {
	out := make(chan Decision, 1)
	updates, cancel := store.Watch()

	go func() {
		defer close(out)
		defer cancel()

		_, d := g.Resolve(store.Snapshot(), path)
		out <- d

		for {
			select {
			case <-ctx.Done():
				return
			case snap, ok := <-updates:
				if !ok {
					return
				}
				_, d := g.Resolve(snap, path)
				select {
				case out <- d:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out
}

// GuestGuarded is the guest-only variant: it renders for unauthenticated
// subjects and redirects authenticated ones away.
type GuestGuarded[V any] struct {
	view V
	// RedirectTo receives authenticated subjects. Defaults to "/".
	RedirectTo string
}

// GuestOnly wraps a view that only unauthenticated subjects may see.
func GuestOnly[V any](view V, redirectTo string) GuestGuarded[V] {
	if redirectTo == "" {
		redirectTo = "/"
	}
	return GuestGuarded[V]{view: view, RedirectTo: redirectTo}
}

// Resolve suspends while identity loads, redirects a resolved subject away,
// and renders otherwise.
func (g GuestGuarded[V]) Resolve(snap authstate.Snapshot, _ string) (V, Decision) {
	var zero V

	if snap.Loading {
		return zero, Decision{Kind: DecisionLoading}
	}
	if snap.Subject != nil {
		return zero, Decision{Kind: DecisionRedirect, Target: g.RedirectTo}
	}
	return g.view, Decision{Kind: DecisionRender}
}
