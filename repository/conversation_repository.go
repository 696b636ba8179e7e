package repository

import (
	"context"

	"github.com/DkshLuvsDucks/FCS-Project-Social-Media-App-sub000/models"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ConversationRepository struct {
	db *gorm.DB
}

func NewConversationRepository(db *gorm.DB) *ConversationRepository {
	return &ConversationRepository{db: db}
}

func (r *ConversationRepository) FindByID(ctx context.Context, id uint) (*models.Conversation, error) {
	var conv models.Conversation
	if err := r.db.WithContext(ctx).First(&conv, "id = ?", id).Error; err != nil {
		return nil, errors.Wrap(err, "conversationRepo.FindByID")
	}
	return &conv, nil
}

// FindByPair looks the conversation up under either ordering of the pair.
func (r *ConversationRepository) FindByPair(ctx context.Context, a, b uint) (*models.Conversation, error) {
	var conv models.Conversation
	err := r.db.WithContext(ctx).
		Where("(user1_id = ? AND user2_id = ?) OR (user1_id = ? AND user2_id = ?)", a, b, b, a).
		First(&conv).Error
	if err != nil {
		return nil, errors.Wrap(err, "conversationRepo.FindByPair")
	}
	return &conv, nil
}

// FindOrCreate returns the conversation between a and b, creating it when
// needed. The insert is guarded by the unique pair_key index, so concurrent
// callers for the same pair all end up reading the same row.
func (r *ConversationRepository) FindOrCreate(ctx context.Context, a, b uint) (*models.Conversation, error) {
	conv, err := r.FindByPair(ctx, a, b)
	if err == nil {
		return conv, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	candidate := models.NewConversation(a, b)
	err = r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "pair_key"}},
			DoNothing: true,
		}).
		Create(&candidate).Error
	if err != nil {
		return nil, errors.Wrap(err, "conversationRepo.FindOrCreate.Insert")
	}

	var stored models.Conversation
	if err := r.db.WithContext(ctx).Where("pair_key = ?", candidate.PairKey).First(&stored).Error; err != nil {
		return nil, errors.Wrap(err, "conversationRepo.FindOrCreate.Reload")
	}
	return &stored, nil
}

func (r *ConversationRepository) ListForUser(ctx context.Context, userID uint) ([]models.Conversation, error) {
	var convs []models.Conversation
	err := r.db.WithContext(ctx).
		Where("user1_id = ? OR user2_id = ?", userID, userID).
		Order("id DESC").
		Find(&convs).Error
	if err != nil {
		return nil, errors.Wrap(err, "conversationRepo.ListForUser")
	}
	return convs, nil
}
