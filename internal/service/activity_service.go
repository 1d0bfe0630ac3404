package service

import (
	"context"

	"flourerp/internal/model"
	"flourerp/internal/repository"
)

type ActivityService interface {
	ListRecent(ctx context.Context, limit int) ([]model.ActivityLog, error)
}

type activityService struct {
	repo repository.ActivityRepository
}

func NewActivityService(repo repository.ActivityRepository) ActivityService {
	return &activityService{repo: repo}
}

func (s *activityService) ListRecent(ctx context.Context, limit int) ([]model.ActivityLog, error) {
	return s.repo.ListRecent(ctx, limit)
}
