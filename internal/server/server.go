package server

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"github.com/nexus/zapcampaign/config"
	"github.com/nexus/zapcampaign/internal/handlers"
	"github.com/nexus/zapcampaign/internal/middleware"
	"github.com/nexus/zapcampaign/internal/store"
	"github.com/nexus/zapcampaign/internal/whatsapp"
)

func NewServer(cfg *config.Config, waService *whatsapp.Service, tasks *store.TaskStore, log *zap.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "ZapCampaign API",
		BodyLimit:             cfg.BodyLimitMB * 1024 * 1024,
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, apikey, X-API-Key",
	}))
	app.Use(logger.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	sessionHandler := handlers.NewSessionHandler(waService)
	msgHandler := handlers.NewMessageHandler(waService)
	groupHandler := handlers.NewGroupHandler(waService)
	taskHandler := handlers.NewTaskHandler(tasks, log.Named("tasks"))

	api := app.Group("/", middleware.APIKey(cfg.GlobalApiKey, log.Named("auth")))

	// === SESSÃO ===
	api.Get("/getQRCode", sessionHandler.QRCode)
	api.Get("/connectionStatus", sessionHandler.ConnectionStatus)
	api.Get("/listContacts", sessionHandler.ListContacts)
	api.Post("/logout", sessionHandler.Logout)

	// === MENSAGENS ===
	api.Get("/send", msgHandler.Send)
	api.Post("/sendMessage", msgHandler.SendMessages)
	api.Post("/sendBulk", msgHandler.SendMessages)
	api.Post("/sendPoll", msgHandler.SendPoll)
	api.Post("/sendMessageAndPoll", msgHandler.SendMessageAndPoll)
	api.Post("/sendGroupMessage", msgHandler.SendGroupMessage)

	// === GRUPOS ===
	api.Post("/createGroup", groupHandler.Create)
	api.Post("/createMultipleGroups", groupHandler.CreateMultiple)
	api.Post("/process-group-data", groupHandler.ProcessGroupData)

	// === TAREFAS ===
	api.Post("/upload", taskHandler.Upload)
	api.Get("/tasks", taskHandler.List)
	api.Get("/tasks/:lote", taskHandler.ListByLote)

	return app
}
