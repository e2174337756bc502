package service

import (
	"context"

	"keyportal-backend/internal/domain"
	"keyportal-backend/internal/repository"
)

type notificationService struct {
	noteRepo repository.NotificationRepository
}

func NewNotificationService(noteRepo repository.NotificationRepository) NotificationService {
	return &notificationService{noteRepo: noteRepo}
}

func (s *notificationService) GetNotifications(ctx context.Context, operatorID int32, page, pageSize int32) ([]domain.Notification, int32, error) {
	offset := (page - 1) * pageSize
	return s.noteRepo.List(ctx, operatorID, pageSize, offset)
}

func (s *notificationService) MarkAsRead(ctx context.Context, operatorID, notificationID int32) error {
	return s.noteRepo.MarkAsRead(ctx, notificationID, operatorID)
}
