// Package mocks provides mock implementations for testing the pamphlets services.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks for our repository interfaces.
// The mocks are generated using go:generate directives and provide a fluent API for setting up test expectations.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	defer ctrl.Finish()
//	mockRepo := mocks.NewMockUserRepository(ctrl)
//	mockRepo.EXPECT().GetByID(gomock.Any(), "u1").Return(user, nil)
package mocks

// Generate mock for UserRepository interface from internal/service package.
// This creates MockUserRepository with methods for all UserRepository interface methods:
// GetByID, List, DeleteAndReassign
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=user_repository_mock.go github.com/pamphlets/pamphlets/internal/service UserRepository

// Generate mock for ArticleRepository interface from internal/service package.
// This creates MockArticleRepository with methods for all ArticleRepository interface methods:
// Create, GetBySlug, ListPublished, Update
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=article_repository_mock.go github.com/pamphlets/pamphlets/internal/service ArticleRepository
