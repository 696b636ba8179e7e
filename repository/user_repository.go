package repository

import (
	"context"

	"github.com/DkshLuvsDucks/FCS-Project-Social-Media-App-sub000/models"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return errors.Wrap(err, "userRepo.Create")
	}
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, errors.Wrap(err, "userRepo.FindByID")
	}
	return &user, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, errors.Wrap(err, "userRepo.FindByEmail")
	}
	return &user, nil
}

// SetMessageEnable reports false when the user does not exist.
func (r *UserRepository) SetMessageEnable(ctx context.Context, id uint, enable bool) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", id).
		Update("message_enable", enable)
	if res.Error != nil {
		return false, errors.Wrap(res.Error, "userRepo.SetMessageEnable")
	}
	return res.RowsAffected == 1, nil
}

// FindByIDs returns the users indexed by id; unknown ids are simply absent.
func (r *UserRepository) FindByIDs(ctx context.Context, ids []uint) (map[uint]models.User, error) {
	out := make(map[uint]models.User, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	var users []models.User
	err := r.db.WithContext(ctx).
		Select("id", "user_name", "profile_picture").
		Where("id IN ?", ids).
		Find(&users).Error
	if err != nil {
		return nil, errors.Wrap(err, "userRepo.FindByIDs")
	}
	for _, u := range users {
		out[u.ID] = u
	}
	return out, nil
}
