package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/nexus/zapcampaign/internal/ingest"
	"github.com/nexus/zapcampaign/internal/store"
)

type TaskHandler struct {
	store *store.TaskStore
	log   *zap.Logger
	now   func() time.Time
}

func NewTaskHandler(s *store.TaskStore, log *zap.Logger) *TaskHandler {
	return &TaskHandler{store: s, log: log, now: time.Now}
}

// Upload stores the first file of a multipart upload as a new batch.
func (h *TaskHandler) Upload(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "No file uploaded"})
	}

	var name string
	var found bool
	for field, files := range form.File {
		if len(files) > 0 {
			name, found = field, true
			break
		}
	}
	if !found {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "No file uploaded"})
	}
	fh := form.File[name][0]

	f, err := fh.Open()
	if err != nil {
		h.log.Error("error opening upload", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to process the file"})
	}
	defer f.Close()

	rows, err := ingest.Parse(fh.Filename, f)
	if err != nil {
		h.log.Error("error processing file", zap.String("file", fh.Filename), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to process the file"})
	}

	lote := ingest.BatchTag(h.now())
	tasks := ingest.ProcessTasks(rows, lote)

	stored, err := h.store.SaveBatch(c.UserContext(), tasks)
	if err != nil {
		h.log.Error("error storing tasks", zap.String("lote", lote), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to process the file"})
	}
	h.log.Info("tasks stored", zap.String("lote", lote), zap.Int64("stored", stored), zap.Int("rows", len(rows)))

	return c.JSON(fiber.Map{
		"status": "Data stored in database",
		"lote":   lote,
		"count":  stored,
		"data":   tasks,
	})
}

func (h *TaskHandler) List(c *fiber.Ctx) error {
	tasks, err := h.store.List(c.UserContext())
	if err != nil {
		h.log.Error("error fetching tasks", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch tasks"})
	}
	return c.JSON(tasks)
}

func (h *TaskHandler) ListByLote(c *fiber.Ctx) error {
	tasks, err := h.store.ListByLote(c.UserContext(), c.Params("lote"))
	if err != nil {
		h.log.Error("error fetching tasks", zap.String("lote", c.Params("lote")), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch tasks"})
	}
	return c.JSON(tasks)
}
