package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"scoutlink/database"
	"scoutlink/models"
)

func newTestStore(t *testing.T) *GormStore {
	t.Helper()
	return NewGormStore(database.OpenTest(t))
}

var userSeq int

func createUser(t *testing.T, store Store, role models.Role) *models.User {
	t.Helper()
	userSeq++
	user := &models.User{
		Email:        fmt.Sprintf("user%d@example.com", userSeq),
		PasswordHash: "x",
		FirstName:    "First",
		LastName:     fmt.Sprintf("Last%d", userSeq),
		Role:         role,
	}
	if err := store.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

func createMessage(t *testing.T, store Store, from, to uint, content string, at time.Time) *models.Message {
	t.Helper()
	msg := &models.Message{SenderID: from, ReceiverID: to, Content: content, CreatedAt: at}
	if err := store.CreateMessage(context.Background(), msg); err != nil {
		t.Fatalf("create message: %v", err)
	}
	return msg
}

func createTrial(t *testing.T, store Store, creatorID uint) *models.Trial {
	t.Helper()
	trial := &models.Trial{
		CreatorID:    creatorID,
		Title:        "U18 Open Trial",
		Organization: "Riverside Academy",
		Location:     "Leeds",
		Date:         time.Now().Add(14 * 24 * time.Hour).UTC(),
	}
	if err := store.CreateTrial(context.Background(), trial); err != nil {
		t.Fatalf("create trial: %v", err)
	}
	return trial
}
