// handlers/messages.go - Inbox, threads and sending
package handlers

import (
	"scoutlink/metrics"
	"scoutlink/middleware"
	"scoutlink/utils"

	"github.com/gofiber/fiber/v2"
)

type SendMessageRequest struct {
	ReceiverID uint   `json:"receiverId" validate:"required"`
	Content    string `json:"content" validate:"required,max=5000"`
}

// GetConversations returns one summary per partner, most recent first.
func GetConversations(c *fiber.Ctx) error {
	p, err := middleware.MustPrincipal(c)
	if err != nil {
		return err
	}
	convs, err := messageService.Conversations(c.UserContext(), p.UserID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(convs)
}

func GetUnreadCount(c *fiber.Ctx) error {
	p, err := middleware.MustPrincipal(c)
	if err != nil {
		return err
	}
	n, err := messageService.UnreadCount(c.UserContext(), p.UserID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"count": n})
}

// GetThread returns the conversation with :userId and marks it read.
func GetThread(c *fiber.Ctx) error {
	p, err := middleware.MustPrincipal(c)
	if err != nil {
		return err
	}
	partnerID, err := utils.ParamID(c, "userId")
	if err != nil {
		return err
	}
	thread, err := messageService.Thread(c.UserContext(), p.UserID, partnerID)
	if err != nil {
		return fail(c, err, "User not found")
	}
	return c.JSON(thread)
}

func SendMessage(c *fiber.Ctx) error {
	p, err := middleware.MustPrincipal(c)
	if err != nil {
		return err
	}
	var req SendMessageRequest
	if err := parseBody(c, &req); err != nil {
		return fail(c, err)
	}

	msg, err := messageService.Send(c.UserContext(), p.UserID, req.ReceiverID, req.Content)
	if err != nil {
		return fail(c, err, "Receiver not found")
	}
	metrics.MessagesSent.Inc()
	return c.Status(fiber.StatusCreated).JSON(msg)
}
