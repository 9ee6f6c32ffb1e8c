package stack

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/jspahr/publish/internal/hosting"
)

type MockHost struct {
	mock.Mock
}

// FindBranches implements hosting.Host.
func (m *MockHost) FindBranches(ctx context.Context, prefix string) ([]hosting.BranchRef, error) {
	args := m.Called(ctx, prefix)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]hosting.BranchRef), args.Error(1)
}

// FindReview implements hosting.Host.
func (m *MockHost) FindReview(ctx context.Context, branchName string) (*hosting.Review, error) {
	args := m.Called(ctx, branchName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*hosting.Review), args.Error(1)
}

// PushBranch implements hosting.Host.
func (m *MockHost) PushBranch(ctx context.Context, branchName string, commitHash string) error {
	args := m.Called(ctx, branchName, commitHash)
	return args.Error(0)
}

// DeleteBranch implements hosting.Host.
func (m *MockHost) DeleteBranch(ctx context.Context, branchName string) error {
	args := m.Called(ctx, branchName)
	return args.Error(0)
}

// CreateReview implements hosting.Host.
func (m *MockHost) CreateReview(ctx context.Context, sourceBranch, targetBranch, title, body string) (*hosting.Review, error) {
	args := m.Called(ctx, sourceBranch, targetBranch, title, body)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*hosting.Review), args.Error(1)
}

// UpdateReviewTarget implements hosting.Host.
func (m *MockHost) UpdateReviewTarget(ctx context.Context, reviewID int, targetBranch string) error {
	args := m.Called(ctx, reviewID, targetBranch)
	return args.Error(0)
}

// CloseReview implements hosting.Host.
func (m *MockHost) CloseReview(ctx context.Context, reviewID int) error {
	args := m.Called(ctx, reviewID)
	return args.Error(0)
}
