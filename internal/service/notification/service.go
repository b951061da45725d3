// Package notification exposes the user-facing notification inbox. Rows are
// written by the fan-out worker; users only read and mark them.
package notification

import (
	"context"

	"github.com/google/uuid"

	"lapor-warga/internal/domain"
	"lapor-warga/internal/repository"
)

type Service interface {
	List(ctx context.Context, userID uuid.UUID, unreadOnly bool, params domain.PaginationParams) (domain.PaginatedResponse[domain.Notification], error)
	MarkAsRead(ctx context.Context, id, userID uuid.UUID) error
	MarkAllAsRead(ctx context.Context, userID uuid.UUID) error
	UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error)
}

type service struct {
	notifRepo repository.NotificationRepository
}

func NewService(notifRepo repository.NotificationRepository) Service {
	return &service{notifRepo: notifRepo}
}

func (s *service) List(ctx context.Context, userID uuid.UUID, unreadOnly bool, params domain.PaginationParams) (domain.PaginatedResponse[domain.Notification], error) {
	notifications, total, err := s.notifRepo.ListByUser(ctx, userID, unreadOnly, params)
	if err != nil {
		return domain.PaginatedResponse[domain.Notification]{}, err
	}
	return domain.NewPaginatedResponse(notifications, params.Page, params.PageSize, total), nil
}

func (s *service) MarkAsRead(ctx context.Context, id, userID uuid.UUID) error {
	return s.notifRepo.MarkAsRead(ctx, id, userID)
}

func (s *service) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	return s.notifRepo.MarkAllAsRead(ctx, userID)
}

func (s *service) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.notifRepo.CountUnread(ctx, userID)
}
