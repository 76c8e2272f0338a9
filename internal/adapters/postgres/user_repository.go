package postgres

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/turnoshq/queue-service/internal/domain"
	"gorm.io/gorm"
)

type userRepository struct {
	db *gorm.DB
}

func (r *userRepository) Create(ctx context.Context, user domain.User) (domain.User, error) {
	rec := userModel{
		UserID:       user.UserID,
		Username:     strings.ToLower(user.Username),
		PasswordHash: user.PasswordHash,
		Role:         string(user.Role),
		DisplayName:  user.DisplayName,
		CreatedAt:    user.CreatedAt,
		UpdatedAt:    user.UpdatedAt,
	}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return domain.User{}, mapError(err)
	}
	return toDomainUser(rec), nil
}

func (r *userRepository) GetByID(ctx context.Context, userID uuid.UUID) (domain.User, error) {
	var rec userModel
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Take(&rec).Error; err != nil {
		return domain.User{}, mapError(err)
	}
	return toDomainUser(rec), nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (domain.User, error) {
	var rec userModel
	if err := r.db.WithContext(ctx).Where("username = ?", strings.ToLower(username)).Take(&rec).Error; err != nil {
		return domain.User{}, mapError(err)
	}
	return toDomainUser(rec), nil
}

func (r *userRepository) List(ctx context.Context) ([]domain.User, error) {
	var recs []userModel
	if err := r.db.WithContext(ctx).Order("username ASC").Find(&recs).Error; err != nil {
		return nil, mapError(err)
	}
	items := make([]domain.User, 0, len(recs))
	for _, rec := range recs {
		items = append(items, toDomainUser(rec))
	}
	return items, nil
}
