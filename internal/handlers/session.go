package handlers

import (
	"encoding/base64"

	"github.com/gofiber/fiber/v2"
	"github.com/skip2/go-qrcode"

	"github.com/nexus/zapcampaign/internal/whatsapp"
)

type SessionHandler struct {
	Service *whatsapp.Service
}

func NewSessionHandler(s *whatsapp.Service) *SessionHandler {
	return &SessionHandler{Service: s}
}

// QRCode returns the pairing code currently waiting to be scanned, raw and
// as a PNG data URI.
func (h *SessionHandler) QRCode(c *fiber.Ctx) error {
	code, ok := h.Service.QRCode()
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "QR Code not available"})
	}

	png, err := qrcode.Encode(code, qrcode.Low, 512)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to generate QR Image"})
	}

	return c.JSON(fiber.Map{
		"qrCode": code,
		"image":  "data:image/png;base64," + base64.StdEncoding.EncodeToString(png),
	})
}

func (h *SessionHandler) ConnectionStatus(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"connected": h.Service.Connected()})
}

func (h *SessionHandler) ListContacts(c *fiber.Ctx) error {
	contacts, err := h.Service.ListContacts(c.UserContext())
	if err != nil {
		return fail(c, "Failed to list contacts", err)
	}
	return c.JSON(fiber.Map{"contacts": contacts})
}

func (h *SessionHandler) Logout(c *fiber.Ctx) error {
	if err := h.Service.Logout(c.UserContext()); err != nil {
		return fail(c, "Failed to log out", err)
	}
	return c.JSON(fiber.Map{"status": "Logged out"})
}
