package messaging

import (
	"strings"
	"time"

	"github.com/DkshLuvsDucks/FCS-Project-Social-Media-App-sub000/apperrors"
	"github.com/DkshLuvsDucks/FCS-Project-Social-Media-App-sub000/encryption"
	"github.com/DkshLuvsDucks/FCS-Project-Social-Media-App-sub000/models"
)

const DefaultEditWindow = 15 * time.Minute

type DeleteScope string

const (
	ScopeSelf     DeleteScope = "self"
	ScopeEveryone DeleteScope = "everyone"
)

// ParseDeleteScope defaults to "self" when s is empty.
func ParseDeleteScope(s string) (DeleteScope, error) {
	switch DeleteScope(strings.ToLower(strings.TrimSpace(s))) {
	case "", ScopeSelf:
		return ScopeSelf, nil
	case ScopeEveryone:
		return ScopeEveryone, nil
	}
	return "", apperrors.ErrInvalidDeleteScope
}

// DeleteAction is the transition a delete request resolves to.
type DeleteAction int

const (
	ActionNone DeleteAction = iota
	ActionHardDelete
	ActionDeleteForSender
	ActionDeleteForReceiver
)

// CheckEdit enforces who may edit a message and until when.
func CheckEdit(msg *models.Message, actorID uint, now time.Time, window time.Duration) error {
	if msg.SenderID != actorID && msg.ReceiverID != actorID {
		return apperrors.ErrNotParticipant
	}
	if msg.DeletedForBoth() {
		return apperrors.ErrMessageNotFound
	}
	if msg.SenderID != actorID {
		return apperrors.ErrNotSender
	}
	if msg.DeletedForSender {
		return apperrors.ErrMessageNotFound
	}
	if now.Sub(msg.CreatedAt) >= window {
		return apperrors.ErrEditWindowExpired
	}
	return nil
}

// ApplyEdit stores a new plaintext body and marks the message edited.
// Encrypted messages go through ApplyEncryptedEdit instead.
func ApplyEdit(msg *models.Message, content string, now time.Time) {
	msg.Content = content
	msg.EncryptedContent = ""
	msg.IV = ""
	msg.Algorithm = ""
	msg.HMAC = ""
	markEdited(msg, now)
}

func ApplyEncryptedEdit(msg *models.Message, env encryption.Envelope, now time.Time) {
	msg.Content = ""
	setEnvelope(msg, env)
	markEdited(msg, now)
}

func setEnvelope(msg *models.Message, env encryption.Envelope) {
	msg.EncryptedContent = env.Ciphertext
	msg.IV = env.IV
	msg.Algorithm = env.Algorithm
	msg.HMAC = env.HMAC
}

func envelopeOf(msg *models.Message) encryption.Envelope {
	return encryption.Envelope{
		Ciphertext: msg.EncryptedContent,
		IV:         msg.IV,
		Algorithm:  msg.Algorithm,
		HMAC:       msg.HMAC,
	}
}

func markEdited(msg *models.Message, now time.Time) {
	editedAt := now
	msg.IsEdited = true
	msg.EditedAt = &editedAt
}

// PlanDelete decides what a delete request does. deletedForBoth is
// absorbing: a repeated "self" delete is a no-op, "everyone" no longer
// finds the message.
func PlanDelete(msg *models.Message, actorID uint, scope DeleteScope) (DeleteAction, error) {
	if msg.SenderID != actorID && msg.ReceiverID != actorID {
		return ActionNone, apperrors.ErrNotParticipant
	}

	if scope == ScopeEveryone {
		if msg.SenderID != actorID {
			return ActionNone, apperrors.ErrNotSender
		}
		if msg.DeletedForBoth() {
			return ActionNone, apperrors.ErrMessageNotFound
		}
		return ActionHardDelete, nil
	}

	if msg.SenderID == actorID {
		if msg.DeletedForSender {
			return ActionNone, nil
		}
		return ActionDeleteForSender, nil
	}
	if msg.DeletedForReceiver {
		return ActionNone, nil
	}
	return ActionDeleteForReceiver, nil
}
