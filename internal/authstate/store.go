package authstate

// Package authstate holds the session-scoped authentication state shared by
// all guards. Identity and role are two independently-loading facets: the
// role may resolve after the identity, and guards must be able to tell
// "identity resolved, role pending" apart from "nothing resolved yet".

import (
	"context"
	"log/slog"
	"sync"

	domainauth "github.com/pamphlets/pamphlets/internal/domain/auth"
	"github.com/pamphlets/pamphlets/internal/ports"
)

// Snapshot is an immutable view of the auth state at one point in time.
type Snapshot struct {
	// Subject is nil while identity is loading and after a resolution
	// that found no session.
	Subject *domainauth.Subject
	// Loading is true until identity resolution completes, whether it
	// yields a subject or an explicit "no session".
	Loading bool
	// RoleLoading is true until the role facet resolves. It is
	// independent of Loading.
	RoleLoading bool
}

// Authenticated reports whether identity resolved to a subject.
func (s Snapshot) Authenticated() bool { return !s.Loading && s.Subject != nil }

// Role returns the resolved role, or the zero Role while it is pending.
func (s Snapshot) Role() domainauth.Role {
	if s.Subject == nil {
		return ""
	}
	return s.Subject.Role
}

// IsAdmin reports whether the resolved subject holds the admin role.
func (s Snapshot) IsAdmin() bool { return s.Role() == domainauth.RoleAdmin }

// SessionResolver resolves an opaque credential into a session, or an error
// when no valid session exists. Implemented by service.AuthService.
type SessionResolver interface {
	GetSession(ctx context.Context, sessionID string) (*domainauth.Session, error)
}

// Store is the single source of truth for guard decisions. It is created at
// application root, lives for the whole session, and resets its fields on
// sign-out. Watchers are notified on every state change so guards
// re-evaluate reactively rather than polling.
type Store struct {
	mu       sync.Mutex
	snap     Snapshot
	watchers map[int]chan Snapshot
	nextID   int
	logger   *slog.Logger
}

// NewStore creates a Store in the unresolved state: both facets loading.
func NewStore(logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		snap:     Snapshot{Loading: true, RoleLoading: true},
		watchers: make(map[int]chan Snapshot),
		logger:   logger,
	}
}

// Snapshot returns the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap
}

// Watch registers a watcher. The returned channel receives a snapshot after
// every state change; stale notifications are coalesced so a slow watcher
// only ever sees the latest state. The cancel function releases the watcher.
func (s *Store) Watch() (<-chan Snapshot, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	ch := make(chan Snapshot, 1)
	s.watchers[id] = ch

	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if _, ok := s.watchers[id]; ok {
			delete(s.watchers, id)
			close(ch)
		}
	}
	return ch, cancel
}

// Resolve populates the store from a credential: identity first, then the
// role facet through the RoleLoader. An empty credential or a failed session
// lookup resolves to unauthenticated. Role load failures leave the subject
// authenticated with the role unresolved marked as visitor-level absent,
// so role-gated views reject rather than hang.
func (s *Store) Resolve(
	ctx context.Context,
	credential string,
	sessions SessionResolver,
	roles ports.RoleLoader,
) {
	if credential == "" {
		s.SetUnauthenticated()
		return
	}

	sess, err := sessions.GetSession(ctx, credential)
	if err != nil || sess == nil {
		if err != nil {
			s.logger.DebugContext(ctx, "session resolution failed", "error", err)
		}
		s.SetUnauthenticated()
		return
	}

	// Identity resolved; role still loading.
	s.SetIdentity(domainauth.Subject{ID: sess.SubjectID, Email: sess.Email})

	role, err := roles.LoadRole(ctx, sess.SubjectID)
	if err != nil {
		s.logger.WarnContext(ctx, "role resolution failed", "subject_id", sess.SubjectID, "error", err)
		// Fall back to the role snapshotted in the session at login.
		role = sess.Role
	}
	s.SetRole(role)
}

// SetIdentity records a resolved identity. The role facet stays loading
// unless the subject already carries a role.
func (s *Store) SetIdentity(sub domainauth.Subject) {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := sub
	s.snap = Snapshot{
		Subject:     &copied,
		Loading:     false,
		RoleLoading: !sub.RoleKnown(),
	}
	s.notifyLocked()
}

// SetRole records the resolved role facet. It is a no-op when no identity
// is present (a sign-out raced the role fetch).
func (s *Store) SetRole(role domainauth.Role) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.snap.Subject == nil {
		return
	}
	sub := *s.snap.Subject
	sub.Role = role
	s.snap = Snapshot{Subject: &sub, Loading: false, RoleLoading: false}
	s.notifyLocked()
}

// SetUnauthenticated records an explicit "no session" resolution.
func (s *Store) SetUnauthenticated() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap = Snapshot{Loading: false, RoleLoading: false}
	s.notifyLocked()
}

// SignOut synchronously resets the store to resolved-unauthenticated.
// No stale subject can be observed once this returns.
func (s *Store) SignOut() {
	s.SetUnauthenticated()
}

// notifyLocked pushes the current snapshot to every watcher, replacing any
// undelivered notification. Callers must hold s.mu.
func (s *Store) notifyLocked() {
	for _, ch := range s.watchers {
		select {
		case ch <- s.snap:
		default:
			// Drop the stale snapshot and deliver the latest.
			select {
			case <-ch:
			default:
			}
			ch <- s.snap
		}
	}
}
