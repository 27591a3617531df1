package service

import (
	"context"

	"github.com/clockleaf/timesheet/internal/timesheet/domain"
	"github.com/clockleaf/timesheet/internal/timesheet/store"
)

// AnalyticsService exposes the read-only SUM aggregates. No date bounds
// means all time; bounds are inclusive calendar days.
type AnalyticsService struct {
	Store store.Store
}

func (s *AnalyticsService) TimeByProject(ctx context.Context, r domain.DateRange) ([]domain.ProjectTime, error) {
	return s.Store.Analytics().TimeByProject(ctx, r)
}

func (s *AnalyticsService) TimeByProjectTotal(ctx context.Context, r domain.DateRange) ([]domain.ProjectTotal, error) {
	return s.Store.Analytics().TimeByProjectTotal(ctx, r)
}

func (s *AnalyticsService) TimeByUser(ctx context.Context, r domain.DateRange) ([]domain.UserProjectTime, error) {
	return s.Store.Analytics().TimeByUser(ctx, r)
}

func (s *AnalyticsService) TimeByUserTotal(ctx context.Context, r domain.DateRange) ([]domain.UserTime, error) {
	return s.Store.Analytics().TimeByUserTotal(ctx, r)
}

func (s *AnalyticsService) TimeByClientType(ctx context.Context, r domain.DateRange) ([]domain.ClientTypeTime, error) {
	return s.Store.Analytics().TimeByClientType(ctx, r)
}
