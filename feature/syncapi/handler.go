package syncapi

import (
	"strconv"

	"github.com/mtrifilo/psychic-homily-web-sub009/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const defaultPerPage = 100

// Handler handles HTTP requests for the replication API.
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes registers the export and import routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	app.Get("/export/shows", h.HandleExportShows)
	app.Get("/export/artists", h.HandleExportArtists)
	app.Get("/export/venues", h.HandleExportVenues)
	app.Get("/export/show-slugs", h.HandleExportShowSlugs)

	app.Post("/import/shows", h.HandleImportShows)
	app.Post("/import/artists", h.HandleImportArtists)
	app.Post("/import/venues", h.HandleImportVenues)
}

// HandleExportShows returns one page of shows as self-contained candidates.
func (h *Handler) HandleExportShows(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)
	status, page, perPage := listParams(c)

	resp, err := h.service.ExportShows(c.Context(), status, page, perPage)
	if err != nil {
		l.Error("Show export failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(resp)
}

// HandleExportArtists returns one page of artists.
func (h *Handler) HandleExportArtists(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)
	_, page, perPage := listParams(c)

	resp, err := h.service.ExportArtists(c.Context(), page, perPage)
	if err != nil {
		l.Error("Artist export failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(resp)
}

// HandleExportVenues returns one page of venues.
func (h *Handler) HandleExportVenues(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)
	_, page, perPage := listParams(c)

	resp, err := h.service.ExportVenues(c.Context(), page, perPage)
	if err != nil {
		l.Error("Venue export failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(resp)
}

// HandleExportShowSlugs returns every show slug for the status filter.
func (h *Handler) HandleExportShowSlugs(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)
	status := c.Query("status", "approved")

	resp, err := h.service.ExportShowSlugs(c.Context(), status)
	if err != nil {
		l.Error("Slug export failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(resp)
}

// HandleImportShows runs a batch of candidate shows through the import
// pipeline and returns the per-record outcomes.
func (h *Handler) HandleImportShows(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)

	var req ImportShowsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	resp := h.service.ImportShows(c.Context(), req)
	l.Info("Show batch imported",
		zap.Bool("dry_run", req.DryRun),
		zap.Int("total", resp.Result.Shows.Total),
		zap.Int("imported", resp.Result.Shows.Imported),
		zap.Int("duplicates", resp.Result.Shows.Duplicates),
		zap.Int("errors", resp.Result.Shows.Errors),
	)
	return c.JSON(resp)
}

// HandleImportArtists imports a batch of candidate artists.
func (h *Handler) HandleImportArtists(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)

	var req ImportArtistsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	resp := h.service.ImportArtists(c.Context(), req)
	l.Info("Artist batch imported",
		zap.Bool("dry_run", req.DryRun),
		zap.Int("total", resp.Result.Artists.Total),
	)
	return c.JSON(resp)
}

// HandleImportVenues imports a batch of candidate venues.
func (h *Handler) HandleImportVenues(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)

	var req ImportVenuesRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	resp := h.service.ImportVenues(c.Context(), req)
	l.Info("Venue batch imported",
		zap.Bool("dry_run", req.DryRun),
		zap.Int("total", resp.Result.Venues.Total),
	)
	return c.JSON(resp)
}

func listParams(c *fiber.Ctx) (status string, page, perPage int) {
	status = c.Query("status", "approved")
	page, _ = strconv.Atoi(c.Query("page", "1"))
	if page < 1 {
		page = 1
	}
	perPage, _ = strconv.Atoi(c.Query("per_page", strconv.Itoa(defaultPerPage)))
	if perPage < 1 || perPage > 500 {
		perPage = defaultPerPage
	}
	return status, page, perPage
}
