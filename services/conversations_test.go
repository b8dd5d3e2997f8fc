package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"scoutlink/models"
)

func TestAggregateConversations_Empty(t *testing.T) {
	got := AggregateConversations(1, nil, nil)
	if got == nil {
		t.Fatal("expected non-nil empty slice")
	}
	if len(got) != 0 {
		t.Fatalf("got %d conversations, want 0", len(got))
	}
}

func TestAggregateConversations(t *testing.T) {
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	const me = 1
	partners := map[uint]*models.User{
		2: {ID: 2, Email: "b@example.com", FirstName: "Bea", Role: models.RoleScout},
		3: {ID: 3, Email: "c@example.com", FirstName: "Cal", Role: models.RoleAcademy},
	}

	messages := []models.Message{
		{ID: 1, SenderID: me, ReceiverID: 2, Content: "Hi", CreatedAt: base},
		{ID: 2, SenderID: 2, ReceiverID: me, Content: "Hello back", CreatedAt: base.Add(time.Minute)},
		{ID: 3, SenderID: 3, ReceiverID: me, Content: "Trial invite", CreatedAt: base.Add(3 * time.Minute), IsRead: true},
		{ID: 4, SenderID: 2, ReceiverID: me, Content: "Interested in trial?", CreatedAt: base.Add(2 * time.Minute)},
		{ID: 5, SenderID: me, ReceiverID: 3, Content: "Thanks", CreatedAt: base.Add(3 * time.Minute)},
	}

	got := AggregateConversations(me, messages, partners)
	if len(got) != 2 {
		t.Fatalf("got %d conversations, want 2", len(got))
	}

	// Partner 3 has the latest message; id 5 wins the timestamp tie with id 3.
	if got[0].User.ID != 3 || got[0].LastMessage.ID != 5 {
		t.Errorf("first conversation = partner %d msg %d, want partner 3 msg 5", got[0].User.ID, got[0].LastMessage.ID)
	}
	if got[0].UnreadCount != 0 {
		t.Errorf("partner 3 unread = %d, want 0", got[0].UnreadCount)
	}

	if got[1].User.ID != 2 || got[1].LastMessage.Content != "Interested in trial?" {
		t.Errorf("second conversation = partner %d %q", got[1].User.ID, got[1].LastMessage.Content)
	}
	if got[1].UnreadCount != 2 {
		t.Errorf("partner 2 unread = %d, want 2", got[1].UnreadCount)
	}
	if got[1].User.Email != "" {
		t.Error("partner summary should not expose email")
	}
	if got[1].User.FirstName != "Bea" {
		t.Errorf("partner first name = %q", got[1].User.FirstName)
	}
}

func TestAggregateConversations_UnreadOnlyCountsIncoming(t *testing.T) {
	now := time.Now()
	messages := []models.Message{
		{ID: 1, SenderID: 1, ReceiverID: 2, CreatedAt: now},
		{ID: 2, SenderID: 1, ReceiverID: 2, CreatedAt: now.Add(time.Second)},
	}
	got := AggregateConversations(1, messages, nil)
	if len(got) != 1 {
		t.Fatalf("got %d conversations, want 1", len(got))
	}
	if got[0].UnreadCount != 0 {
		t.Errorf("unread = %d, want 0 for outgoing messages", got[0].UnreadCount)
	}
	if got[0].User.ID != 2 {
		t.Errorf("unknown partner should still be summarized by id, got %d", got[0].User.ID)
	}
}

func TestMessageService_InboxScenario(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	svc := NewMessageService(store)

	a := createUser(t, store, models.RolePlayer)
	b := createUser(t, store, models.RoleScout)

	t1 := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	createMessage(t, store, a.ID, b.ID, "Hi", t1)
	createMessage(t, store, b.ID, a.ID, "Hello back", t1.Add(time.Minute))
	createMessage(t, store, b.ID, a.ID, "Interested in trial?", t1.Add(2*time.Minute))

	convs, err := svc.Conversations(ctx, a.ID)
	if err != nil {
		t.Fatalf("Conversations() error = %v", err)
	}
	if len(convs) != 1 {
		t.Fatalf("got %d conversations, want 1", len(convs))
	}
	if convs[0].LastMessage.Content != "Interested in trial?" {
		t.Errorf("lastMessage = %q", convs[0].LastMessage.Content)
	}
	if convs[0].UnreadCount != 2 {
		t.Errorf("unreadCount = %d, want 2", convs[0].UnreadCount)
	}

	thread, err := svc.Thread(ctx, a.ID, b.ID)
	if err != nil {
		t.Fatalf("Thread() error = %v", err)
	}
	if len(thread) != 3 {
		t.Fatalf("thread has %d messages, want 3", len(thread))
	}
	if thread[0].Content != "Hi" || thread[2].Content != "Interested in trial?" {
		t.Errorf("thread not in ascending order: %q ... %q", thread[0].Content, thread[2].Content)
	}
	for _, m := range thread {
		if m.ReceiverID == a.ID && !m.IsRead {
			t.Errorf("message %d should be returned as read", m.ID)
		}
	}

	convs, err = svc.Conversations(ctx, a.ID)
	if err != nil {
		t.Fatalf("Conversations() error = %v", err)
	}
	if convs[0].UnreadCount != 0 {
		t.Errorf("unreadCount after opening thread = %d, want 0", convs[0].UnreadCount)
	}

	// B has not opened the thread, so A's message is still unread for B.
	n, err := svc.UnreadCount(ctx, b.ID)
	if err != nil {
		t.Fatalf("UnreadCount() error = %v", err)
	}
	if n != 1 {
		t.Errorf("B unread = %d, want 1", n)
	}

	if _, err := svc.Thread(ctx, a.ID, b.ID); err != nil {
		t.Fatalf("second Thread() error = %v", err)
	}
}

func TestMessageService_ThreadUnknownPartner(t *testing.T) {
	store := newTestStore(t)
	svc := NewMessageService(store)
	a := createUser(t, store, models.RolePlayer)

	_, err := svc.Thread(context.Background(), a.ID, 9999)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Thread() error = %v, want ErrNotFound", err)
	}
}

func TestMessageService_Send(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	svc := NewMessageService(store)
	a := createUser(t, store, models.RolePlayer)
	b := createUser(t, store, models.RoleScout)

	tests := []struct {
		name     string
		receiver uint
		content  string
		wantErr  error
	}{
		{"ok", b.ID, "Hello", nil},
		{"self", a.ID, "Hello", ErrInvalidInput},
		{"blank", b.ID, "   ", ErrInvalidInput},
		{"unknown receiver", 4242, "Hello", ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, err := svc.Send(ctx, a.ID, tt.receiver, tt.content)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Send() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Send() error = %v", err)
			}
			if msg.ID == 0 || msg.IsRead {
				t.Errorf("unexpected message %+v", msg)
			}
		})
	}
}
