// services/conversations.go - Inbox aggregation and direct messages
package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"scoutlink/models"
)

// Conversation summarizes every message exchanged with one partner.
type Conversation struct {
	User        models.UserSummary `json:"user"`
	LastMessage models.Message     `json:"lastMessage"`
	UnreadCount int                `json:"unreadCount"`
}

// AggregateConversations groups userID's messages by partner. The most recent
// message of a conversation is the one with the greatest CreatedAt, the higher
// id winning on equal timestamps. Unread counts only include messages
// addressed to userID. Partners missing from partners are summarized by id
// only. The result is ordered by most recent message first.
func AggregateConversations(userID uint, messages []models.Message, partners map[uint]*models.User) []Conversation {
	byPartner := make(map[uint]*Conversation)

	for _, msg := range messages {
		partnerID := msg.PartnerID(userID)
		conv, ok := byPartner[partnerID]
		if !ok {
			conv = &Conversation{User: partnerSummary(partnerID, partners), LastMessage: msg}
			byPartner[partnerID] = conv
		} else if newerThan(msg, conv.LastMessage) {
			conv.LastMessage = msg
		}
		if msg.ReceiverID == userID && !msg.IsRead {
			conv.UnreadCount++
		}
	}

	conversations := make([]Conversation, 0, len(byPartner))
	for _, conv := range byPartner {
		conversations = append(conversations, *conv)
	}
	sort.Slice(conversations, func(i, j int) bool {
		return newerThan(conversations[i].LastMessage, conversations[j].LastMessage)
	})
	return conversations
}

func newerThan(a, b models.Message) bool {
	if a.CreatedAt.Equal(b.CreatedAt) {
		return a.ID > b.ID
	}
	return a.CreatedAt.After(b.CreatedAt)
}

func partnerSummary(id uint, partners map[uint]*models.User) models.UserSummary {
	if u, ok := partners[id]; ok && u != nil {
		return u.PublicSummary()
	}
	return models.UserSummary{ID: id}
}

type MessageService struct {
	store Store
}

func NewMessageService(store Store) *MessageService {
	return &MessageService{store: store}
}

// Conversations returns userID's inbox.
func (s *MessageService) Conversations(ctx context.Context, userID uint) ([]Conversation, error) {
	messages, err := s.store.ListMessagesForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load messages: %w", err)
	}

	ids := make([]uint, 0)
	seen := make(map[uint]bool)
	for i := range messages {
		p := messages[i].PartnerID(userID)
		if !seen[p] {
			seen[p] = true
			ids = append(ids, p)
		}
	}
	partners, err := s.store.GetUsersByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	return AggregateConversations(userID, messages, partners), nil
}

// Thread returns every message between userID and partnerID, oldest first,
// and marks the ones addressed to userID as read. The returned messages
// reflect the marking. Calling it again changes nothing.
func (s *MessageService) Thread(ctx context.Context, userID, partnerID uint) ([]models.Message, error) {
	var thread []models.Message
	err := s.store.WithTx(ctx, func(tx Store) error {
		if _, err := tx.GetUser(ctx, partnerID); err != nil {
			return err
		}

		messages, err := tx.ListMessagesBetween(ctx, userID, partnerID)
		if err != nil {
			return err
		}

		var unread []uint
		for i := range messages {
			if messages[i].ReceiverID == userID && !messages[i].IsRead {
				unread = append(unread, messages[i].ID)
				messages[i].IsRead = true
			}
		}
		if _, err := tx.MarkMessagesRead(ctx, userID, unread); err != nil {
			return fmt.Errorf("mark messages read: %w", err)
		}
		thread = messages
		return nil
	})
	if err != nil {
		return nil, err
	}
	return thread, nil
}

// Send stores a message from senderID to receiverID.
func (s *MessageService) Send(ctx context.Context, senderID, receiverID uint, content string) (*models.Message, error) {
	if senderID == receiverID {
		return nil, fmt.Errorf("%w: cannot send a message to yourself", ErrInvalidInput)
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("%w: message content is required", ErrInvalidInput)
	}
	if _, err := s.store.GetUser(ctx, receiverID); err != nil {
		return nil, err
	}

	msg := &models.Message{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Content:    content,
	}
	if err := s.store.CreateMessage(ctx, msg); err != nil {
		return nil, fmt.Errorf("create message: %w", err)
	}
	return msg, nil
}

// UnreadCount is the number of unread messages addressed to userID.
func (s *MessageService) UnreadCount(ctx context.Context, userID uint) (int64, error) {
	return s.store.CountUnread(ctx, userID)
}
