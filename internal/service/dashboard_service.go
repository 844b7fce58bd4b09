package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/homebuilt/warranty-service/internal/analytics"
	"github.com/homebuilt/warranty-service/internal/cache"
	"github.com/homebuilt/warranty-service/internal/config"
	"github.com/homebuilt/warranty-service/internal/domain"
	"github.com/homebuilt/warranty-service/internal/events"
	"github.com/homebuilt/warranty-service/internal/observability"
	"github.com/homebuilt/warranty-service/internal/repository"
	apperrors "github.com/homebuilt/warranty-service/pkg/util/errorutil"
)

// DashboardService loads a consistent snapshot and runs the analytics engine
// over it.
type DashboardService struct {
	reader  repository.DashboardReader
	groups  repository.BuilderGroupRepository
	cache   cache.SnapshotCache
	metrics *observability.Metrics
	logger  *zap.Logger
	cfg     config.AnalyticsConfig
	now     func() time.Time
}

// DashboardDependencies bundles collaborators for the dashboard service.
// Cache and Metrics are optional.
type DashboardDependencies struct {
	Reader           repository.DashboardReader
	BuilderGroupRepo repository.BuilderGroupRepository
	Cache            cache.SnapshotCache
	Metrics          *observability.Metrics
	Logger           *zap.Logger
	Config           config.AnalyticsConfig
	Clock            func() time.Time
}

// NewDashboardService constructs the service.
func NewDashboardService(deps DashboardDependencies) *DashboardService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	return &DashboardService{
		reader:  deps.Reader,
		groups:  deps.BuilderGroupRepo,
		cache:   deps.Cache,
		metrics: deps.Metrics,
		logger:  logger,
		cfg:     deps.Config,
		now:     clock,
	}
}

// Metrics returns the dashboard snapshot for builderGroup. Builder accounts
// are always pinned to their own group.
func (s *DashboardService) Metrics(ctx context.Context, actor *domain.Account, builderGroup string) (*analytics.Snapshot, error) {
	group, err := s.resolveGroup(ctx, actor, builderGroup)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	var (
		gen       cache.Generation
		cacheable bool
	)
	if s.cache != nil {
		snap, g, err := s.cache.Get(ctx, group)
		switch {
		case err != nil:
			s.logger.Warn("snapshot cache read failed", zap.String("builder_group", group), zap.Error(err))
		case snap != nil:
			s.metrics.RecordSnapshot(group, true, time.Since(start))
			return snap, nil
		default:
			gen, cacheable = g, true
		}
	}

	data, err := s.reader.ReadDashboard(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	snap := analytics.Compute(analytics.Input{
		Claims:       data.Claims,
		Homeowners:   data.Homeowners,
		Messages:     data.Messages,
		BuilderGroup: group,
		Now:          s.now(),
		ActiveWindow: s.cfg.ActiveWindow(),
	})
	elapsed := time.Since(start)
	s.metrics.RecordSnapshot(group, false, elapsed)
	if len(snap.Warnings) > 0 {
		s.logger.Info("dashboard data quality warnings",
			zap.String("builder_group", group),
			zap.Int("count", len(snap.Warnings)))
	}
	s.logger.Debug("dashboard snapshot computed",
		zap.String("builder_group", group),
		zap.Int("claims", snap.TotalClaims),
		zap.Duration("duration", elapsed))

	if cacheable {
		if err := s.cache.Set(ctx, group, gen, snap, s.cfg.CacheTTL()); err != nil {
			s.logger.Warn("snapshot cache write failed", zap.String("builder_group", group), zap.Error(err))
		}
	}
	return &snap, nil
}

// RegisterInvalidation drops cached snapshots whenever claim data changes.
func (s *DashboardService) RegisterInvalidation(dispatcher events.Dispatcher) {
	if dispatcher == nil || s.cache == nil {
		return
	}
	for _, t := range []events.EventType{
		events.EventClaimSubmitted,
		events.EventClaimStatusChanged,
		events.EventClaimClassified,
		events.EventClaimEvaluated,
		events.EventClaimDeleted,
		events.EventClaimMessageRecorded,
		events.EventClaimCommentAdded,
		events.EventProposedDateAdded,
		events.EventProposedDateResponded,
	} {
		dispatcher.Subscribe(t, s.invalidate)
	}
}

func (s *DashboardService) invalidate(ctx context.Context, event events.Event) error {
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Warn("snapshot cache invalidation failed", zap.String("event_type", string(event.Type)), zap.Error(err))
		return err
	}
	return nil
}

func (s *DashboardService) resolveGroup(ctx context.Context, actor *domain.Account, requested string) (string, error) {
	if actor == nil {
		return "", apperrors.NewUnauthorized("account required")
	}
	switch actor.Role {
	case domain.AccountRoleBuilder:
		if actor.BuilderID == nil {
			return "", apperrors.NewForbidden("account not linked to a builder group")
		}
		return *actor.BuilderID, nil
	case domain.AccountRoleStaff, domain.AccountRoleAdmin:
	default:
		return "", apperrors.NewForbidden("dashboard not available for this role")
	}

	requested = strings.TrimSpace(requested)
	if requested == "" || requested == analytics.AllBuilderGroups {
		return analytics.AllBuilderGroups, nil
	}
	if s.groups == nil {
		return requested, nil
	}
	if _, err := s.groups.GetByID(ctx, requested); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", apperrors.NewNotFound("builder group", map[string]any{"builder_group": requested})
		}
		return "", apperrors.MapError(err)
	}
	return requested, nil
}
