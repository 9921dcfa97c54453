package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

type fakeDirectoryRepo struct {
	byScope map[domain.ReviewerScope][]domain.User
	queried []domain.ReviewerScope
}

func (f *fakeDirectoryRepo) FindReviewers(_ context.Context, scope domain.ReviewerScope, unitID, departmentID *int64) ([]domain.User, error) {
	f.queried = append(f.queried, scope)
	if scope == domain.ReviewerScopeUnit && unitID == nil {
		return nil, nil
	}
	if scope == domain.ReviewerScopeDepartment && departmentID == nil {
		return nil, nil
	}
	return f.byScope[scope], nil
}

func int64Ptr(v int64) *int64 { return &v }

func TestRequiresApprovalFor(t *testing.T) {
	router := NewApprovalRouter(nil, zap.NewNop())

	tests := []struct {
		name  string
		role  domain.Role
		input ApprovalPolicyInput
		want  bool
	}{
		{"technician bypasses approval", domain.RoleTechnician, ApprovalPolicyInput{IsKasda: true}, false},
		{"admin bypasses approval", domain.RoleAdmin, ApprovalPolicyInput{OverrideRequired: true}, false},
		{"requester override", domain.RoleRequester, ApprovalPolicyInput{OverrideRequired: true}, true},
		{"requester kasda", domain.RoleRequester, ApprovalPolicyInput{IsKasda: true}, true},
		{"requester high impact", domain.RoleRequester, ApprovalPolicyInput{Impact: domain.BusinessImpactHigh}, true},
		{"requester critical impact", domain.RoleRequester, ApprovalPolicyInput{Impact: domain.BusinessImpactCritical}, true},
		{"requester template flag", domain.RoleRequester, ApprovalPolicyInput{TemplateRequires: true}, true},
		{"requester default", domain.RoleRequester, ApprovalPolicyInput{Impact: domain.BusinessImpactLow}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, router.RequiresApprovalFor(tt.role, tt.input))
		})
	}
}

func TestSelectReviewerPrefersUnitScope(t *testing.T) {
	directory := &fakeDirectoryRepo{byScope: map[domain.ReviewerScope][]domain.User{
		domain.ReviewerScopeUnit:       {{ID: 20, Role: domain.RoleManager}},
		domain.ReviewerScopeDepartment: {{ID: 30, Role: domain.RoleManager}},
		domain.ReviewerScopeGlobal:     {{ID: 40, Role: domain.RoleAdmin}},
	}}
	router := NewApprovalRouter(directory, zap.NewNop())
	creator := &domain.User{ID: 1, UnitID: int64Ptr(5), DepartmentID: int64Ptr(2)}

	reviewer, err := router.SelectReviewer(context.Background(), creator)
	require.NoError(t, err)
	require.NotNil(t, reviewer)
	assert.Equal(t, int64(20), reviewer.ID)
	assert.Equal(t, []domain.ReviewerScope{domain.ReviewerScopeUnit}, directory.queried)
}

func TestSelectReviewerFallsThroughEmptyTiers(t *testing.T) {
	directory := &fakeDirectoryRepo{byScope: map[domain.ReviewerScope][]domain.User{
		domain.ReviewerScopeGlobal: {{ID: 40, Role: domain.RoleAdmin}},
	}}
	router := NewApprovalRouter(directory, zap.NewNop())
	creator := &domain.User{ID: 1, UnitID: int64Ptr(5), DepartmentID: int64Ptr(2)}

	reviewer, err := router.SelectReviewer(context.Background(), creator)
	require.NoError(t, err)
	require.NotNil(t, reviewer)
	assert.Equal(t, int64(40), reviewer.ID)
	assert.Equal(t, []domain.ReviewerScope{
		domain.ReviewerScopeUnit,
		domain.ReviewerScopeDepartment,
		domain.ReviewerScopeGlobal,
	}, directory.queried)
}

func TestSelectReviewerSkipsUnitWhenCreatorHasNone(t *testing.T) {
	directory := &fakeDirectoryRepo{byScope: map[domain.ReviewerScope][]domain.User{
		domain.ReviewerScopeDepartment: {{ID: 30, Role: domain.RoleManager}},
	}}
	router := NewApprovalRouter(directory, zap.NewNop())
	creator := &domain.User{ID: 1, DepartmentID: int64Ptr(2)}

	reviewer, err := router.SelectReviewer(context.Background(), creator)
	require.NoError(t, err)
	require.NotNil(t, reviewer)
	assert.Equal(t, int64(30), reviewer.ID)
}

func TestSelectReviewerReturnsNilWhenNobodyAvailable(t *testing.T) {
	directory := &fakeDirectoryRepo{byScope: map[domain.ReviewerScope][]domain.User{}}
	router := NewApprovalRouter(directory, zap.NewNop())
	creator := &domain.User{ID: 1, UnitID: int64Ptr(5), DepartmentID: int64Ptr(2)}

	reviewer, err := router.SelectReviewer(context.Background(), creator)
	require.NoError(t, err)
	assert.Nil(t, reviewer)
}
