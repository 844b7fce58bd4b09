package service

import (
	"context"

	"github.com/homebuilt/warranty-service/internal/domain"
	"github.com/homebuilt/warranty-service/internal/repository"
	apperrors "github.com/homebuilt/warranty-service/pkg/util/errorutil"
)

// ReferenceService exposes builder groups and homeowners to internal users.
type ReferenceService struct {
	groups     repository.BuilderGroupRepository
	homeowners repository.HomeownerRepository
}

// NewReferenceService constructs the service.
func NewReferenceService(groups repository.BuilderGroupRepository, homeowners repository.HomeownerRepository) *ReferenceService {
	return &ReferenceService{groups: groups, homeowners: homeowners}
}

// ListBuilderGroups returns every builder group. Builders only see their own.
func (s *ReferenceService) ListBuilderGroups(ctx context.Context, actor *domain.Account) ([]domain.BuilderGroup, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthorized("account required")
	}
	if actor.Role == domain.AccountRoleHomeowner {
		return nil, apperrors.NewForbidden("access denied")
	}
	if actor.Role == domain.AccountRoleBuilder {
		if actor.BuilderID == nil {
			return []domain.BuilderGroup{}, nil
		}
		group, err := s.groups.GetByID(ctx, *actor.BuilderID)
		if err != nil {
			return nil, apperrors.MapError(err)
		}
		return []domain.BuilderGroup{*group}, nil
	}
	groups, err := s.groups.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return groups, nil
}

// ListHomeowners returns homeowners, optionally restricted to one builder group.
func (s *ReferenceService) ListHomeowners(ctx context.Context, actor *domain.Account, builderGroup *string) ([]domain.Homeowner, error) {
	if err := requireInternal(actor); err != nil {
		return nil, err
	}
	homeowners, err := s.homeowners.List(ctx, builderGroup)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return homeowners, nil
}
