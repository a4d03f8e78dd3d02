package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/nexus/zapcampaign/internal/models"
	"github.com/nexus/zapcampaign/internal/whatsapp"
)

type GroupHandler struct {
	Service *whatsapp.Service
}

func NewGroupHandler(s *whatsapp.Service) *GroupHandler {
	return &GroupHandler{Service: s}
}

func (h *GroupHandler) Create(c *fiber.Ctx) error {
	const failed = "Failed to create group"

	var req models.CreateGroupRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, failed, "Invalid JSON")
	}

	result, err := h.Service.CreateGroup(c.UserContext(), req.Spec())
	if err != nil {
		return fail(c, failed, err)
	}
	if err := whatsapp.CreateError(result); err != nil {
		code := fiber.StatusBadGateway
		if errors.Is(err, whatsapp.ErrNoParticipants) {
			code = fiber.StatusUnprocessableEntity
		}
		return c.Status(code).JSON(fiber.Map{"status": failed, "error": err.Error(), "results": result})
	}

	return c.JSON(fiber.Map{"status": "Group created", "groupId": result.GroupID, "results": result})
}

func (h *GroupHandler) CreateMultiple(c *fiber.Ctx) error {
	const failed = "Failed to create groups"

	var req models.CreateMultipleGroupsRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, failed, "Invalid JSON")
	}

	results, err := h.Service.CreateGroups(c.UserContext(), whatsapp.BatchFromRequest(req))
	if err != nil {
		if whatsapp.IsValidation(err) {
			return fail(c, failed, err)
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": failed, "error": err.Error(), "results": results})
	}

	return c.JSON(fiber.Map{"status": "Groups created", "results": results})
}

// ProcessGroupData handles POST /process-group-data: one group per event
// followed by the event's messages.
func (h *GroupHandler) ProcessGroupData(c *fiber.Ctx) error {
	const failed = "Failed to create groups and send messages"

	var req models.ProcessGroupDataRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, failed, "Invalid JSON")
	}

	results, err := h.Service.CreateGroupsAndSendMessages(c.UserContext(), req.Data)
	if err != nil {
		if whatsapp.IsValidation(err) {
			return fail(c, failed, err)
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": failed, "error": err.Error(), "results": results})
	}

	return c.JSON(fiber.Map{"status": "Groups created and messages sent", "results": results})
}
