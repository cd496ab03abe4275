package service

import (
	"context"
	"fmt"

	"github.com/moosahu/chemistry-bot-sub002/internal/storage"
)

// UserService содержит логику работы с пользователями бота.
type UserService struct {
	store storage.UserStore
}

// NewUserService создает новый экземпляр UserService
func NewUserService(store storage.UserStore) *UserService {
	return &UserService{store: store}
}

// Touch регистрирует пользователя при первом контакте и обновляет
// его данные и отметку активности при последующих.
func (s *UserService) Touch(ctx context.Context, userID int64, username, firstName, lastName string) error {
	if err := s.store.UpsertUser(ctx, userID, username, firstName, lastName); err != nil {
		return fmt.Errorf("failed to touch user %d: %w", userID, err)
	}
	return nil
}

// AllIDs возвращает идентификаторы всех пользователей (для рассылки).
func (s *UserService) AllIDs(ctx context.Context) ([]int64, error) {
	ids, err := s.store.AllUserIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list user ids: %w", err)
	}
	return ids, nil
}
