package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

// ApprovalRouter decides whether a ticket needs business approval and
// selects a reviewer through the unit -> department -> global fallback
// chain.
type ApprovalRouter struct {
	directory repository.DirectoryRepository
	logger    *zap.Logger
}

// NewApprovalRouter constructs the router.
func NewApprovalRouter(directory repository.DirectoryRepository, logger *zap.Logger) *ApprovalRouter {
	return &ApprovalRouter{directory: directory, logger: logger}
}

// ApprovalPolicyInput carries the ticket flags the policy reads.
type ApprovalPolicyInput struct {
	OverrideRequired bool
	IsKasda          bool
	Impact           domain.BusinessImpact
	TemplateRequires bool
}

// RequiresApprovalFor implements the approval policy. Staff roles bypass
// approval entirely; requester tickets default to requiring approval.
func (r *ApprovalRouter) RequiresApprovalFor(role domain.Role, input ApprovalPolicyInput) bool {
	if role != domain.RoleRequester {
		return false
	}
	if input.OverrideRequired {
		return true
	}
	if input.IsKasda {
		return true
	}
	if input.Impact == domain.BusinessImpactHigh || input.Impact == domain.BusinessImpactCritical {
		return true
	}
	if input.TemplateRequires {
		return true
	}
	// Requester tickets require approval unless something above said
	// otherwise; the final fallback is true.
	return true
}

// scopeChain is the ordered list of lookup tiers; each tier is queried
// only when the previous one yields zero candidates.
var scopeChain = []domain.ReviewerScope{
	domain.ReviewerScopeUnit,
	domain.ReviewerScopeDepartment,
	domain.ReviewerScopeGlobal,
}

// SelectReviewer picks the reviewer for a ticket created by creator.
// Returns nil (and no error) when no tier has any candidate; the caller
// leaves the ticket pending without an approval record.
func (r *ApprovalRouter) SelectReviewer(ctx context.Context, creator *domain.User) (*domain.User, error) {
	for _, scope := range scopeChain {
		candidates, err := r.directory.FindReviewers(ctx, scope, creator.UnitID, creator.DepartmentID)
		if err != nil {
			return nil, apperrors.MapError(err)
		}
		if len(candidates) == 0 {
			continue
		}
		reviewer := candidates[0]
		r.logger.Info("reviewer selected",
			zap.Int64("creator_id", creator.ID),
			zap.String("scope", string(scope)),
			zap.Int64("reviewer_id", reviewer.ID),
			zap.String("reviewer_role", string(reviewer.Role)))
		return &reviewer, nil
	}
	r.logger.Warn("no reviewer available at any scope; ticket stays pending approval",
		zap.Int64("creator_id", creator.ID))
	return nil, nil
}
