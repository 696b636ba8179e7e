package repository

import (
	"context"
	"time"

	"github.com/DkshLuvsDucks/FCS-Project-Social-Media-App-sub000/models"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// Party selects which side of a message a soft delete applies to.
type Party int

const (
	PartySender Party = iota
	PartyReceiver
)

func (p Party) column() string {
	if p == PartySender {
		return "deleted_for_sender"
	}
	return "deleted_for_receiver"
}

type MessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

// visibleTo restricts a query to messages userID has not deleted for themselves.
func visibleTo(userID uint) func(*gorm.DB) *gorm.DB {
	return func(q *gorm.DB) *gorm.DB {
		return q.Where(
			"((sender_id = ? AND deleted_for_sender = ?) OR (receiver_id = ? AND deleted_for_receiver = ?))",
			userID, false, userID, false,
		)
	}
}

// Create inserts the message and bumps the conversation's activity time in
// the same transaction.
func (r *MessageRepository) Create(ctx context.Context, msg *models.Message) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(msg).Error; err != nil {
			return errors.Wrap(err, "messageRepo.Create.Insert")
		}
		err := tx.Model(&models.Conversation{}).
			Where("id = ?", msg.ConversationID).
			Update("last_message_at", msg.CreatedAt).Error
		if err != nil {
			return errors.Wrap(err, "messageRepo.Create.TouchConversation")
		}
		return nil
	})
}

func (r *MessageRepository) FindByID(ctx context.Context, id uint) (*models.Message, error) {
	var msg models.Message
	if err := r.db.WithContext(ctx).First(&msg, "id = ?", id).Error; err != nil {
		return nil, errors.Wrap(err, "messageRepo.FindByID")
	}
	return &msg, nil
}

// ListVisible returns the conversation's messages userID can see, oldest first.
func (r *MessageRepository) ListVisible(ctx context.Context, conversationID, userID uint) ([]models.Message, error) {
	var msgs []models.Message
	err := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Scopes(visibleTo(userID)).
		Order("created_at ASC, id ASC").
		Find(&msgs).Error
	if err != nil {
		return nil, errors.Wrap(err, "messageRepo.ListVisible")
	}
	return msgs, nil
}

// LastVisible returns nil when userID can see nothing in the conversation.
func (r *MessageRepository) LastVisible(ctx context.Context, conversationID, userID uint) (*models.Message, error) {
	var msgs []models.Message
	err := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Scopes(visibleTo(userID)).
		Order("created_at DESC, id DESC").
		Limit(1).
		Find(&msgs).Error
	if err != nil {
		return nil, errors.Wrap(err, "messageRepo.LastVisible")
	}
	if len(msgs) == 0 {
		return nil, nil
	}
	return &msgs[0], nil
}

func (r *MessageRepository) CountUnread(ctx context.Context, conversationID, receiverID uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Message{}).
		Where("conversation_id = ? AND receiver_id = ? AND is_read = ? AND deleted_for_receiver = ?",
			conversationID, receiverID, false, false).
		Count(&n).Error
	if err != nil {
		return 0, errors.Wrap(err, "messageRepo.CountUnread")
	}
	return n, nil
}

func (r *MessageRepository) CountUnreadTotal(ctx context.Context, receiverID uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Message{}).
		Where("receiver_id = ? AND is_read = ? AND deleted_for_receiver = ?", receiverID, false, false).
		Count(&n).Error
	if err != nil {
		return 0, errors.Wrap(err, "messageRepo.CountUnreadTotal")
	}
	return n, nil
}

// MarkRead flips unread messages addressed to receiverID to read and
// returns how many rows actually changed. Already read messages and
// messages addressed to someone else are left alone.
func (r *MessageRepository) MarkRead(ctx context.Context, receiverID uint, ids []uint, at time.Time) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).Model(&models.Message{}).
		Where("id IN ? AND receiver_id = ? AND is_read = ? AND deleted_for_receiver = ?", ids, receiverID, false, false).
		Updates(map[string]interface{}{"is_read": true, "read_at": at})
	if res.Error != nil {
		return 0, errors.Wrap(res.Error, "messageRepo.MarkRead")
	}
	return res.RowsAffected, nil
}

func (r *MessageRepository) MarkConversationRead(ctx context.Context, conversationID, receiverID uint, at time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Model(&models.Message{}).
		Where("conversation_id = ? AND receiver_id = ? AND is_read = ? AND deleted_for_receiver = ?",
			conversationID, receiverID, false, false).
		Updates(map[string]interface{}{"is_read": true, "read_at": at})
	if res.Error != nil {
		return 0, errors.Wrap(res.Error, "messageRepo.MarkConversationRead")
	}
	return res.RowsAffected, nil
}

// UpdateBody persists an edit: body (plain or envelope) and edit markers.
// The row must still belong to the sender, be visible to them and have been
// created after editableAfter. It reports false when no row matched.
func (r *MessageRepository) UpdateBody(ctx context.Context, msg *models.Message, editableAfter time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.Message{}).
		Where("id = ? AND sender_id = ? AND deleted_for_sender = ? AND created_at > ?",
			msg.ID, msg.SenderID, false, editableAfter).
		Updates(map[string]interface{}{
			"content":           msg.Content,
			"encrypted_content": msg.EncryptedContent,
			"iv":                msg.IV,
			"algorithm":         msg.Algorithm,
			"hmac":              msg.HMAC,
			"is_edited":         msg.IsEdited,
			"edited_at":         msg.EditedAt,
		})
	if res.Error != nil {
		return false, errors.Wrap(res.Error, "messageRepo.UpdateBody")
	}
	return res.RowsAffected == 1, nil
}

// SoftDelete sets the party's flag. It reports false when the flag was
// already set.
func (r *MessageRepository) SoftDelete(ctx context.Context, id uint, party Party) (bool, error) {
	col := party.column()
	res := r.db.WithContext(ctx).Model(&models.Message{}).
		Where("id = ? AND "+col+" = ?", id, false).
		Update(col, true)
	if res.Error != nil {
		return false, errors.Wrap(res.Error, "messageRepo.SoftDelete")
	}
	return res.RowsAffected == 1, nil
}

// ClaimMediaPurge marks the media of a message deleted by both parties as
// purged. Exactly one caller gets true for a given message.
func (r *MessageRepository) ClaimMediaPurge(ctx context.Context, id uint) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.Message{}).
		Where("id = ? AND deleted_for_sender = ? AND deleted_for_receiver = ? AND media_purged = ? AND media_url <> ?",
			id, true, true, false, "").
		Update("media_purged", true)
	if res.Error != nil {
		return false, errors.Wrap(res.Error, "messageRepo.ClaimMediaPurge")
	}
	return res.RowsAffected == 1, nil
}

// HardDeleteResult tells whether the row went away and whether this call
// took over the purge of its media.
type HardDeleteResult struct {
	Deleted    bool
	PurgeMedia bool
}

// HardDelete removes a message sent by senderID and detaches replies to it.
// The media purge is claimed in the same transaction, so it never races a
// claim made by a concurrent soft delete.
func (r *MessageRepository) HardDelete(ctx context.Context, id, senderID uint) (HardDeleteResult, error) {
	var out HardDeleteResult
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&models.Message{}).
			Where("reply_to_id = ?", id).
			Update("reply_to_id", nil).Error
		if err != nil {
			return errors.Wrap(err, "messageRepo.HardDelete.DetachReplies")
		}

		claim := tx.Model(&models.Message{}).
			Where("id = ? AND sender_id = ? AND media_purged = ? AND media_url <> ?", id, senderID, false, "").
			Update("media_purged", true)
		if claim.Error != nil {
			return errors.Wrap(claim.Error, "messageRepo.HardDelete.ClaimMedia")
		}

		res := tx.Where("id = ? AND sender_id = ?", id, senderID).Delete(&models.Message{})
		if res.Error != nil {
			return errors.Wrap(res.Error, "messageRepo.HardDelete.Delete")
		}
		out.Deleted = res.RowsAffected == 1
		out.PurgeMedia = out.Deleted && claim.RowsAffected == 1
		return nil
	})
	if err != nil {
		return HardDeleteResult{}, err
	}
	return out, nil
}
