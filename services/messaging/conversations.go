package messaging

import (
	"context"
	"sort"

	"github.com/DkshLuvsDucks/FCS-Project-Social-Media-App-sub000/apperrors"
	"github.com/DkshLuvsDucks/FCS-Project-Social-Media-App-sub000/models"
)

// ResolveConversation returns the single conversation between userID and
// otherID, creating it on first use. Concurrent calls for the same pair
// return the same conversation.
func (s *Service) ResolveConversation(ctx context.Context, userID, otherID uint) (*models.Conversation, error) {
	if userID == otherID {
		return nil, apperrors.ErrSelfMessage
	}
	if _, err := s.users.FindByID(ctx, otherID); err != nil {
		return nil, notFoundOr(err, apperrors.NotFound("user not found"), "find user")
	}
	conv, err := s.conversations.FindOrCreate(ctx, userID, otherID)
	if err != nil {
		return nil, apperrors.ErrPersistence("resolve conversation", err)
	}
	return conv, nil
}

// ListConversations summarises every conversation of userID, most recently
// active first.
func (s *Service) ListConversations(ctx context.Context, userID uint) ([]models.ConversationSummary, error) {
	convs, err := s.conversations.ListForUser(ctx, userID)
	if err != nil {
		return nil, apperrors.ErrPersistence("list conversations", err)
	}

	ids := make([]uint, 0, len(convs))
	for _, c := range convs {
		ids = append(ids, c.Counterpart(userID))
	}
	users, err := s.users.FindByIDs(ctx, ids)
	if err != nil {
		return nil, apperrors.ErrPersistence("load participants", err)
	}

	out := make([]models.ConversationSummary, 0, len(convs))
	for _, c := range convs {
		otherID := c.Counterpart(userID)
		other, ok := users[otherID]
		if !ok {
			other = models.User{}
			other.ID = otherID
		}

		summary := models.ConversationSummary{
			ConversationID: c.ID,
			OtherUser:      other.Summary(),
			LastActivityAt: c.CreatedAt,
		}

		last, err := s.messages.LastVisible(ctx, c.ID, userID)
		if err != nil {
			return nil, apperrors.ErrPersistence("load last message", err)
		}
		if last != nil {
			resp := last.ToResponse(userID, s.bodyForListing(last))
			summary.LastMessage = &resp
			summary.LastActivityAt = last.CreatedAt
		}

		summary.UnreadCount, err = s.messages.CountUnread(ctx, c.ID, userID)
		if err != nil {
			return nil, apperrors.ErrPersistence("count unread", err)
		}
		out = append(out, summary)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].LastActivityAt.Equal(out[j].LastActivityAt) {
			return out[i].LastActivityAt.After(out[j].LastActivityAt)
		}
		return out[i].ConversationID > out[j].ConversationID
	})
	return out, nil
}
