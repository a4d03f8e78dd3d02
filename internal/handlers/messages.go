package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/nexus/zapcampaign/internal/models"
	"github.com/nexus/zapcampaign/internal/whatsapp"
)

type MessageHandler struct {
	Service *whatsapp.Service
}

func NewMessageHandler(s *whatsapp.Service) *MessageHandler {
	return &MessageHandler{Service: s}
}

// Send handles GET /send?number=...&message=...
func (h *MessageHandler) Send(c *fiber.Ctx) error {
	const failed = "Failed to send message"

	var q models.SendQuery
	if err := c.QueryParser(&q); err != nil {
		return badRequest(c, failed, "Invalid query")
	}

	msgID, err := h.Service.SendToNumber(c.UserContext(), q.Number, q.Message)
	if err != nil {
		return fail(c, failed, err)
	}
	return c.JSON(fiber.Map{"status": "Message sent", "messageId": msgID})
}

func (h *MessageHandler) SendMessages(c *fiber.Ctx) error {
	const failed = "Failed to send messages"

	var req models.SendMessagesRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, failed, "Invalid JSON")
	}
	if len(req.Names) == 0 {
		return badRequest(c, failed, "names required")
	}

	report, err := h.Service.SendText(c.UserContext(), req.Names, req.Message)
	if err != nil {
		return fail(c, failed, err)
	}
	return c.JSON(fiber.Map{"status": "Messages sent", "results": report})
}

func (h *MessageHandler) SendPoll(c *fiber.Ctx) error {
	const failed = "Failed to send poll"

	var req models.SendPollRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, failed, "Invalid JSON")
	}
	if len(req.Names) == 0 {
		return badRequest(c, failed, "names required")
	}

	report, err := h.Service.SendPoll(c.UserContext(), req.Names, req.Poll())
	if err != nil {
		return fail(c, failed, err)
	}
	return c.JSON(fiber.Map{"status": "Poll sent", "results": report})
}

func (h *MessageHandler) SendMessageAndPoll(c *fiber.Ctx) error {
	const failed = "Failed to send message and poll"

	var req models.SendMessageAndPollRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, failed, "Invalid JSON")
	}
	if len(req.Names) == 0 {
		return badRequest(c, failed, "names required")
	}

	report, err := h.Service.SendTextThenPoll(c.UserContext(), req.Names, req.Message, req.Poll())
	if err != nil {
		return fail(c, failed, err)
	}
	return c.JSON(fiber.Map{"status": "Message and poll sent", "results": report})
}

func (h *MessageHandler) SendGroupMessage(c *fiber.Ctx) error {
	const failed = "Failed to send message to group"

	var req models.SendGroupMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, failed, "Invalid JSON")
	}

	msgID, err := h.Service.SendGroupMessage(c.UserContext(), req.GroupID, req.Message)
	if err != nil {
		return fail(c, failed, err)
	}
	return c.JSON(fiber.Map{"status": "Message sent to group", "messageId": msgID})
}
