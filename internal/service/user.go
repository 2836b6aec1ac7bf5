package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/foodfriend/backend/internal/model"
	"github.com/foodfriend/backend/internal/types"
)

// UserService keeps the local user table in step with the identity provider.
type UserService struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewUserService(db *gorm.DB, logger *zap.Logger) *UserService {
	return &UserService{db: db, logger: logger}
}

// Upsert creates the user if the id is not known yet. A repeated delivery
// for an existing id is ignored and reported with created=false.
func (s *UserService) Upsert(ctx context.Context, u types.IdentityUser) (bool, error) {
	user := model.User{
		ID:        u.ID,
		Email:     u.PrimaryEmail(),
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}

	res := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, DoNothing: true}).
		Omit(clause.Associations).
		Create(&user)
	if res.Error != nil {
		if isUniqueViolation(res.Error) {
			return false, nil
		}
		return false, persistErr("upsert user", res.Error)
	}

	created := res.RowsAffected > 0
	if created {
		s.logger.Info("user created", zap.String("user_id", u.ID))
	} else {
		s.logger.Debug("duplicate user delivery ignored", zap.String("user_id", u.ID))
	}
	return created, nil
}

// Get loads a user by id.
func (s *UserService) Get(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, persistErr("get user", err)
	}
	return &user, nil
}

// Delete removes a user together with their recipes and meals.
func (s *UserService) Delete(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&model.User{})
	if res.Error != nil {
		return persistErr("delete user", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrUserNotFound
	}
	s.logger.Info("user deleted", zap.String("user_id", id))
	return nil
}
