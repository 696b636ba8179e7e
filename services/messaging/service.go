package messaging

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/DkshLuvsDucks/FCS-Project-Social-Media-App-sub000/apperrors"
	"github.com/DkshLuvsDucks/FCS-Project-Social-Media-App-sub000/encryption"
	"github.com/DkshLuvsDucks/FCS-Project-Social-Media-App-sub000/models"
	"github.com/DkshLuvsDucks/FCS-Project-Social-Media-App-sub000/repository"
	"github.com/DkshLuvsDucks/FCS-Project-Social-Media-App-sub000/utils"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// EncryptedPlaceholder replaces bodies that fail to decrypt in listings.
const EncryptedPlaceholder = "[Encrypted Message]"

// MaxMarkReadBatch bounds the number of ids accepted by MarkRead.
const MaxMarkReadBatch = 500

type MessageStore interface {
	Create(ctx context.Context, msg *models.Message) error
	FindByID(ctx context.Context, id uint) (*models.Message, error)
	ListVisible(ctx context.Context, conversationID, userID uint) ([]models.Message, error)
	LastVisible(ctx context.Context, conversationID, userID uint) (*models.Message, error)
	CountUnread(ctx context.Context, conversationID, receiverID uint) (int64, error)
	CountUnreadTotal(ctx context.Context, receiverID uint) (int64, error)
	MarkRead(ctx context.Context, receiverID uint, ids []uint, at time.Time) (int64, error)
	MarkConversationRead(ctx context.Context, conversationID, receiverID uint, at time.Time) (int64, error)
	UpdateBody(ctx context.Context, msg *models.Message, editableAfter time.Time) (bool, error)
	SoftDelete(ctx context.Context, id uint, party repository.Party) (bool, error)
	ClaimMediaPurge(ctx context.Context, id uint) (bool, error)
	HardDelete(ctx context.Context, id, senderID uint) (repository.HardDeleteResult, error)
}

type ConversationStore interface {
	FindByPair(ctx context.Context, a, b uint) (*models.Conversation, error)
	FindOrCreate(ctx context.Context, a, b uint) (*models.Conversation, error)
	ListForUser(ctx context.Context, userID uint) ([]models.Conversation, error)
}

type UserStore interface {
	FindByID(ctx context.Context, id uint) (*models.User, error)
	FindByIDs(ctx context.Context, ids []uint) (map[uint]models.User, error)
}

type Cipher interface {
	Encrypt(plaintext string, senderID, receiverID uint) (encryption.Envelope, error)
	Decrypt(env encryption.Envelope, senderID, receiverID uint) (string, error)
}

// Purger removes the stored attachment behind a media URL.
type Purger interface {
	Purge(ctx context.Context, mediaURL string)
}

type Options struct {
	EncryptMessages bool
	EditWindow      time.Duration
	Now             func() time.Time
}

type Service struct {
	messages      MessageStore
	conversations ConversationStore
	users         UserStore
	cipher        Cipher
	purger        Purger

	encrypt    bool
	editWindow time.Duration
	now        func() time.Time
}

func NewService(messages MessageStore, conversations ConversationStore, users UserStore, cipher Cipher, purger Purger, opts Options) (*Service, error) {
	if cipher == nil {
		return nil, errors.New("messaging: cipher is required")
	}
	if purger == nil {
		return nil, errors.New("messaging: purger is required")
	}
	if opts.EditWindow <= 0 {
		opts.EditWindow = DefaultEditWindow
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Service{
		messages:      messages,
		conversations: conversations,
		users:         users,
		cipher:        cipher,
		purger:        purger,
		encrypt:       opts.EncryptMessages,
		editWindow:    opts.EditWindow,
		now:           opts.Now,
	}, nil
}

type SendInput struct {
	SenderID   uint
	ReceiverID uint
	Content    string
	MediaURL   string
	MediaType  string
	ReplyToID  *uint
}

func (s *Service) SendMessage(ctx context.Context, in SendInput) (*models.MessageResponse, error) {
	content := in.Content
	if strings.TrimSpace(content) == "" {
		content = ""
	}
	mediaURL := strings.TrimSpace(in.MediaURL)
	if content == "" && mediaURL == "" {
		return nil, apperrors.ErrEmptyMessage
	}
	if in.SenderID == in.ReceiverID {
		return nil, apperrors.ErrSelfMessage
	}

	receiver, err := s.users.FindByID(ctx, in.ReceiverID)
	if err != nil {
		return nil, notFoundOr(err, apperrors.ErrReceiverNotFound, "find receiver")
	}
	if !receiver.MessageEnable {
		return nil, apperrors.ErrMessagesDisabled
	}

	var conv *models.Conversation
	if in.ReplyToID != nil {
		conv, err = s.replyConversation(ctx, in)
		if err != nil {
			return nil, err
		}
	} else {
		conv, err = s.conversations.FindOrCreate(ctx, in.SenderID, in.ReceiverID)
		if err != nil {
			return nil, apperrors.ErrPersistence("resolve conversation", err)
		}
	}

	msg := &models.Message{
		ConversationID: conv.ID,
		SenderID:       in.SenderID,
		ReceiverID:     in.ReceiverID,
		ReplyToID:      in.ReplyToID,
		MediaURL:       mediaURL,
		MediaType:      in.MediaType,
		CreatedAt:      s.now(),
	}
	if content != "" && s.encrypt {
		env, err := s.cipher.Encrypt(content, in.SenderID, in.ReceiverID)
		if err != nil {
			return nil, err
		}
		setEnvelope(msg, env)
	} else {
		msg.Content = content
	}

	if err := s.messages.Create(ctx, msg); err != nil {
		utils.LogErrorWithUser(in.SenderID, err, "Error while saving private message")
		return nil, apperrors.ErrPersistence("save message", err)
	}

	utils.LogSuccessWithUser(in.SenderID, "Private message sent")
	resp := msg.ToResponse(in.SenderID, content)
	return &resp, nil
}

// replyConversation checks the reply target without creating anything. A
// pair with no conversation yet cannot hold the target.
func (s *Service) replyConversation(ctx context.Context, in SendInput) (*models.Conversation, error) {
	target, err := s.messages.FindByID(ctx, *in.ReplyToID)
	if err != nil {
		return nil, notFoundOr(err, apperrors.ErrReplyTargetMissing, "find reply target")
	}
	conv, err := s.conversations.FindByPair(ctx, in.SenderID, in.ReceiverID)
	if err != nil {
		return nil, notFoundOr(err, apperrors.ErrReplyOutsideConv, "find conversation")
	}
	if target.ConversationID != conv.ID {
		return nil, apperrors.ErrReplyOutsideConv
	}
	return conv, nil
}

// ListConversation returns the messages between userID and otherID that
// userID can still see, oldest first. Bodies that fail to decrypt are
// replaced by EncryptedPlaceholder.
func (s *Service) ListConversation(ctx context.Context, userID, otherID uint) ([]models.MessageResponse, error) {
	if userID == otherID {
		return nil, apperrors.ErrSelfMessage
	}

	out := []models.MessageResponse{}
	conv, err := s.conversations.FindByPair(ctx, userID, otherID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return out, nil
		}
		return nil, apperrors.ErrPersistence("find conversation", err)
	}

	msgs, err := s.messages.ListVisible(ctx, conv.ID, userID)
	if err != nil {
		return nil, apperrors.ErrPersistence("list messages", err)
	}
	for i := range msgs {
		out = append(out, msgs[i].ToResponse(userID, s.bodyForListing(&msgs[i])))
	}
	return out, nil
}

// GetMessage returns one message. Unlike listings, a body that fails to
// decrypt is reported as an error.
func (s *Service) GetMessage(ctx context.Context, userID, messageID uint) (*models.MessageResponse, error) {
	msg, err := s.visibleMessage(ctx, userID, messageID)
	if err != nil {
		return nil, err
	}
	body, err := s.body(msg)
	if err != nil {
		return nil, err
	}
	resp := msg.ToResponse(userID, body)
	return &resp, nil
}

func (s *Service) EditMessage(ctx context.Context, userID, messageID uint, content string) (*models.MessageResponse, error) {
	if strings.TrimSpace(content) == "" {
		return nil, apperrors.InvalidArg("content cannot be empty")
	}

	msg, err := s.messages.FindByID(ctx, messageID)
	if err != nil {
		return nil, notFoundOr(err, apperrors.ErrMessageNotFound, "find message")
	}

	now := s.now()
	if err := CheckEdit(msg, userID, now, s.editWindow); err != nil {
		return nil, err
	}

	if msg.IsEncrypted() || s.encrypt {
		env, err := s.cipher.Encrypt(content, msg.SenderID, msg.ReceiverID)
		if err != nil {
			return nil, err
		}
		ApplyEncryptedEdit(msg, env, now)
	} else {
		ApplyEdit(msg, content, now)
	}

	updated, err := s.messages.UpdateBody(ctx, msg, now.Add(-s.editWindow))
	if err != nil {
		utils.LogErrorWithUser(userID, err, "Error while editing private message")
		return nil, apperrors.ErrPersistence("edit message", err)
	}
	if !updated {
		return nil, apperrors.ErrMessageNotFound
	}

	utils.LogSuccessWithUser(userID, "Private message edited")
	resp := msg.ToResponse(userID, content)
	return &resp, nil
}

// DeleteMessage applies a delete for userID. Attachments are purged once
// the message is gone for both parties.
func (s *Service) DeleteMessage(ctx context.Context, userID, messageID uint, scope DeleteScope) error {
	msg, err := s.messages.FindByID(ctx, messageID)
	if err != nil {
		return notFoundOr(err, apperrors.ErrMessageNotFound, "find message")
	}

	action, err := PlanDelete(msg, userID, scope)
	if err != nil {
		return err
	}

	switch action {
	case ActionNone:
		return nil

	case ActionHardDelete:
		res, err := s.messages.HardDelete(ctx, msg.ID, userID)
		if err != nil {
			utils.LogErrorWithUser(userID, err, "Error while deleting private message")
			return apperrors.ErrPersistence("delete message", err)
		}
		if !res.Deleted {
			return apperrors.ErrMessageNotFound
		}
		if res.PurgeMedia {
			s.purger.Purge(context.WithoutCancel(ctx), msg.MediaURL)
		}

	default:
		party := repository.PartySender
		if action == ActionDeleteForReceiver {
			party = repository.PartyReceiver
		}
		if _, err := s.messages.SoftDelete(ctx, msg.ID, party); err != nil {
			utils.LogErrorWithUser(userID, err, "Error while deleting private message")
			return apperrors.ErrPersistence("delete message", err)
		}
		if msg.HasMedia() {
			claimed, err := s.messages.ClaimMediaPurge(ctx, msg.ID)
			if err != nil {
				utils.LogErrorWithUser(userID, err, "Error while claiming media purge")
				return apperrors.ErrPersistence("claim media purge", err)
			}
			if claimed {
				s.purger.Purge(context.WithoutCancel(ctx), msg.MediaURL)
			}
		}
	}

	utils.LogSuccessWithUser(userID, "Private message deleted")
	return nil
}

// MarkRead marks the given messages addressed to userID as read and
// returns how many changed state.
func (s *Service) MarkRead(ctx context.Context, userID uint, ids []uint) (int64, error) {
	if len(ids) > MaxMarkReadBatch {
		return 0, apperrors.InvalidArg("too many message ids")
	}
	n, err := s.messages.MarkRead(ctx, userID, ids, s.now())
	if err != nil {
		return 0, apperrors.ErrPersistence("mark read", err)
	}
	return n, nil
}

func (s *Service) MarkConversationRead(ctx context.Context, userID, otherID uint) (int64, error) {
	conv, err := s.conversations.FindByPair(ctx, userID, otherID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, apperrors.ErrPersistence("find conversation", err)
	}
	n, err := s.messages.MarkConversationRead(ctx, conv.ID, userID, s.now())
	if err != nil {
		return 0, apperrors.ErrPersistence("mark conversation read", err)
	}
	return n, nil
}

func (s *Service) UnreadTotal(ctx context.Context, userID uint) (int64, error) {
	n, err := s.messages.CountUnreadTotal(ctx, userID)
	if err != nil {
		return 0, apperrors.ErrPersistence("count unread", err)
	}
	return n, nil
}

func (s *Service) visibleMessage(ctx context.Context, userID, messageID uint) (*models.Message, error) {
	msg, err := s.messages.FindByID(ctx, messageID)
	if err != nil {
		return nil, notFoundOr(err, apperrors.ErrMessageNotFound, "find message")
	}
	if !msg.VisibleTo(userID) {
		return nil, apperrors.ErrMessageNotFound
	}
	return msg, nil
}

func (s *Service) body(msg *models.Message) (string, error) {
	if !msg.IsEncrypted() {
		return msg.Content, nil
	}
	return s.cipher.Decrypt(envelopeOf(msg), msg.SenderID, msg.ReceiverID)
}

func (s *Service) bodyForListing(msg *models.Message) string {
	body, err := s.body(msg)
	if err != nil {
		utils.LogWarn(logrus.Fields{
			"message_id": msg.ID,
			"code":       apperrors.CodeOf(err),
		}, "Could not decrypt private message")
		return EncryptedPlaceholder
	}
	return body
}

func notFoundOr(err error, notFound error, op string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound
	}
	return apperrors.ErrPersistence(op, err)
}
