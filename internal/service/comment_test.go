package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/google/uuid"
	domainauth "github.com/pamphlets/pamphlets/internal/domain/auth"
	"github.com/pamphlets/pamphlets/internal/domain/model"
	apperrors "github.com/pamphlets/pamphlets/internal/errors"
	authmocks "github.com/pamphlets/pamphlets/internal/mocks/auth"
)

// memoryCommentRepo is an in-memory CommentRepository for unit tests.
type memoryCommentRepo struct {
	comments map[string]*model.Comment
	err      error
}

func newMemoryCommentRepo() *memoryCommentRepo {
	return &memoryCommentRepo{comments: make(map[string]*model.Comment)}
}

func (r *memoryCommentRepo) Create(_ context.Context, authorID string, req *model.CreateCommentRequest) (*model.Comment, error) {
	if r.err != nil {
		return nil, r.err
	}
	c := &model.Comment{
		ID:        uuid.New().String(),
		ArticleID: req.ArticleID,
		AuthorID:  authorID,
		Body:      req.Body,
		CreatedAt: time.Now(),
	}
	r.comments[c.ID] = c
	return c, nil
}

func (r *memoryCommentRepo) ListByArticle(_ context.Context, articleID string, _, _ int) ([]*model.Comment, error) {
	if r.err != nil {
		return nil, r.err
	}
	var out []*model.Comment
	for _, c := range r.comments {
		if c.ArticleID == articleID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *memoryCommentRepo) Delete(_ context.Context, id string) error {
	if r.err != nil {
		return r.err
	}
	if _, ok := r.comments[id]; !ok {
		return apperrors.NotFoundf("comment %q not found", id)
	}
	delete(r.comments, id)
	return nil
}

type commentTestFixture struct {
	svc      *CommentService
	repo     *memoryCommentRepo
	sessions *authmocks.MemorySessionStore
}

func newCommentFixture(t *testing.T) *commentTestFixture {
	t.Helper()
	sessions := authmocks.NewMemorySessionStore()
	repo := newMemoryCommentRepo()
	gate := NewGate(&memoryStoreResolver{store: sessions}, nil)
	return &commentTestFixture{
		svc:      NewCommentService(gate, repo),
		repo:     repo,
		sessions: sessions,
	}
}

func (f *commentTestFixture) login(t *testing.T, credential, subjectID string, role domainauth.Role) {
	t.Helper()
	err := f.sessions.Save(context.Background(), domainauth.Session{
		ID:        credential,
		SubjectID: subjectID,
		Email:     subjectID + "@example.com",
		Role:      role,
		ExpiresAt: time.Now().Add(time.Hour),
	})
	require.NoError(t, err)
}

func TestCommentService_ListByArticle_Public(t *testing.T) {
	f := newCommentFixture(t)
	f.login(t, "cred-1", "u1", domainauth.RoleVisitor)

	created, err := f.svc.Create(context.Background(), "cred-1", &model.CreateCommentRequest{
		ArticleID: "a1",
		Body:      "nice read",
	})
	require.NoError(t, err)

	// No credential: reading comments is public.
	comments, err := f.svc.ListByArticle(context.Background(), "a1", 50, 0)

	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, created.ID, comments[0].ID)
}

func TestCommentService_Create_Unauthenticated(t *testing.T) {
	f := newCommentFixture(t)

	_, err := f.svc.Create(context.Background(), "", &model.CreateCommentRequest{
		ArticleID: "a1",
		Body:      "anonymous",
	})

	require.Error(t, err)
	assert.True(t, apperrors.IsUnauthenticated(err))
}

func TestCommentService_Create_VisitorAllowed(t *testing.T) {
	f := newCommentFixture(t)
	f.login(t, "cred-visitor", "u1", domainauth.RoleVisitor)

	comment, err := f.svc.Create(context.Background(), "cred-visitor", &model.CreateCommentRequest{
		ArticleID: "a1",
		Body:      "signed in, commenting",
	})

	require.NoError(t, err)
	assert.Equal(t, "u1", comment.AuthorID)
	assert.Equal(t, "a1", comment.ArticleID)
}

func TestCommentService_Create_InvalidRequest(t *testing.T) {
	f := newCommentFixture(t)
	f.login(t, "cred-1", "u1", domainauth.RoleVisitor)

	_, err := f.svc.Create(context.Background(), "cred-1", &model.CreateCommentRequest{
		ArticleID: "a1",
		Body:      "   ",
	})

	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}

func TestCommentService_Create_NilRequest(t *testing.T) {
	f := newCommentFixture(t)
	f.login(t, "cred-1", "u1", domainauth.RoleVisitor)

	_, err := f.svc.Create(context.Background(), "cred-1", nil)

	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}

func TestCommentService_Delete_AdminOnly(t *testing.T) {
	f := newCommentFixture(t)
	f.login(t, "cred-author", "u1", domainauth.RoleAuthor)

	comment, err := f.svc.Create(context.Background(), "cred-author", &model.CreateCommentRequest{
		ArticleID: "a1",
		Body:      "mine",
	})
	require.NoError(t, err)

	// Even the comment's own author cannot moderate.
	err = f.svc.Delete(context.Background(), "cred-author", comment.ID)

	require.Error(t, err)
	assert.True(t, apperrors.IsForbidden(err))
}

func TestCommentService_Delete_AdminSuccess(t *testing.T) {
	f := newCommentFixture(t)
	f.login(t, "cred-1", "u1", domainauth.RoleVisitor)
	f.login(t, "cred-admin", "admin-1", domainauth.RoleAdmin)

	comment, err := f.svc.Create(context.Background(), "cred-1", &model.CreateCommentRequest{
		ArticleID: "a1",
		Body:      "to be removed",
	})
	require.NoError(t, err)

	err = f.svc.Delete(context.Background(), "cred-admin", comment.ID)

	require.NoError(t, err)
	comments, err := f.svc.ListByArticle(context.Background(), "a1", 50, 0)
	require.NoError(t, err)
	assert.Empty(t, comments)
}

func TestCommentService_Delete_NotFound(t *testing.T) {
	f := newCommentFixture(t)
	f.login(t, "cred-admin", "admin-1", domainauth.RoleAdmin)

	err := f.svc.Delete(context.Background(), "cred-admin", "no-such-comment")

	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}
