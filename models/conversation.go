package models

import (
	"fmt"
	"time"
)

// PairKey is the canonical form of an unordered pair of user ids: the
// smaller id always comes first.
func PairKey(a, b uint) string {
	if a > b {
		a, b = b, a
	}
	return fmt.Sprintf("%d-%d", a, b)
}

// Conversation is the single thread between two users. PairKey holds the
// canonical "min-max" form of the two ids and is unique, so each unordered
// pair has at most one row.
type Conversation struct {
	ID            uint       `json:"id" gorm:"primarykey"`
	User1ID       uint       `json:"user1Id" gorm:"column:user1_id;not null;index"`
	User2ID       uint       `json:"user2Id" gorm:"column:user2_id;not null;index"`
	PairKey       string     `json:"-" gorm:"column:pair_key;size:64;not null;uniqueIndex"`
	LastMessageAt *time.Time `json:"lastMessageAt,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

func (Conversation) TableName() string {
	return "conversations"
}

func NewConversation(a, b uint) Conversation {
	return Conversation{User1ID: a, User2ID: b, PairKey: PairKey(a, b)}
}

func (c Conversation) HasParticipant(userID uint) bool {
	return c.User1ID == userID || c.User2ID == userID
}

// Counterpart returns the other participant. The caller must be one of them.
func (c Conversation) Counterpart(userID uint) uint {
	if c.User1ID == userID {
		return c.User2ID
	}
	return c.User1ID
}

// ConversationSummary is one row of a user's inbox
type ConversationSummary struct {
	ConversationID uint             `json:"conversationId"`
	OtherUser      UserSummary      `json:"otherUser"`
	LastMessage    *MessageResponse `json:"lastMessage"`
	UnreadCount    int64            `json:"unreadCount"`
	LastActivityAt time.Time        `json:"lastActivityAt"`
}
