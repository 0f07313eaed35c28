package catalog

import (
	"bytes"

	"rowsync/core/logger"
	"rowsync/core/resource"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for catalog imports and exports.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the catalog routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/catalog")
	group.Post("/import", h.HandleImport)
	group.Post("/import/:object", h.HandleImportFromStorage)
	group.Get("/export", h.HandleExport)
	group.Post("/export/:object", h.HandleExportToStorage)
	group.Get("/datasets", h.HandleListDatasets)
}

type rowReport struct {
	ImportType string   `json:"import_type"`
	ObjectRepr string   `json:"object_repr,omitempty"`
	ObjectID   any      `json:"object_id,omitempty"`
	Diff       []string `json:"diff,omitempty"`
	Errors     []string `json:"errors,omitempty"`
}

type importReport struct {
	RunID       string         `json:"run_id"`
	DryRun      bool           `json:"dry_run"`
	HasErrors   bool           `json:"has_errors"`
	Totals      map[string]int `json:"totals"`
	DiffHeaders []string       `json:"diff_headers"`
	Rows        []rowReport    `json:"rows"`
	BaseErrors  []string       `json:"base_errors,omitempty"`
}

func (h *Handler) buildReport(runID string, dryRun bool, result *resource.Result) importReport {
	report := importReport{
		RunID:       runID,
		DryRun:      dryRun,
		HasErrors:   result.HasErrors(),
		Totals:      make(map[string]int),
		DiffHeaders: h.service.DiffHeaders(),
		Rows:        make([]rowReport, 0, len(result.Rows)),
	}
	for it, n := range result.Totals() {
		report.Totals[string(it)] = n
	}
	for _, row := range result.Rows {
		rr := rowReport{
			ImportType: string(row.ImportType),
			ObjectRepr: row.ObjectRepr,
			ObjectID:   row.ObjectID,
			Diff:       row.Diff,
		}
		for _, e := range row.Errors {
			rr.Errors = append(rr.Errors, e.Error())
		}
		report.Rows = append(report.Rows, rr)
	}
	for _, e := range result.BaseErrors {
		report.BaseErrors = append(report.BaseErrors, e.Error())
	}
	return report
}

// HandleImport imports the CSV dataset in the request body. With
// dry_run=1 the import is simulated and only the report is returned.
func (h *Handler) HandleImport(c *fiber.Ctx) error {
	runID := uuid.NewString()
	dryRun := c.QueryBool("dry_run")
	l := logger.WithRayID(h.service.logger, c).With(zap.String("run_id", runID))

	result, err := h.service.Import(c.Context(), bytes.NewReader(c.Body()), ImportParams{DryRun: dryRun})
	if err != nil {
		l.Error("Import failed", zap.Error(err))
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(h.buildReport(runID, dryRun, result))
}

// HandleImportFromStorage imports a dataset object from the bucket.
// remove=1 deletes the object after a clean, non-dry run.
func (h *Handler) HandleImportFromStorage(c *fiber.Ctx) error {
	runID := uuid.NewString()
	object := c.Params("object")
	params := ImportParams{
		DryRun:            c.QueryBool("dry_run"),
		RemoveAfterImport: c.QueryBool("remove"),
	}
	l := logger.WithRayID(h.service.logger, c).With(zap.String("run_id", runID))

	result, err := h.service.ImportFromStorage(c.Context(), object, params)
	if err != nil {
		l.Error("Storage import failed", zap.String("object", object), zap.Error(err))
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(h.buildReport(runID, params.DryRun, result))
}

// HandleExport streams the books table as a CSV download.
func (h *Handler) HandleExport(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	var buf bytes.Buffer
	if err := h.service.Export(c.Context(), &buf); err != nil {
		l.Error("Export failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	c.Set(fiber.HeaderContentType, "text/csv")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="books.csv"`)
	return c.Send(buf.Bytes())
}

// HandleExportToStorage writes the books table as a CSV object into the
// bucket.
func (h *Handler) HandleExportToStorage(c *fiber.Ctx) error {
	object := c.Params("object")
	l := logger.WithRayID(h.service.logger, c)

	if err := h.service.ExportToStorage(c.Context(), object); err != nil {
		l.Error("Storage export failed", zap.String("object", object), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{"object": object})
}

// HandleListDatasets lists the dataset objects available for import.
func (h *Handler) HandleListDatasets(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	names, err := h.service.ListDatasets(c.Context())
	if err != nil {
		l.Error("Listing datasets failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{"datasets": names})
}
