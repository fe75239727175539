package graduates

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nova-graduation/backend/internal/attendees"
	"github.com/nova-graduation/backend/pkg/response"
)

// Handler handles the admin review endpoints.
type Handler struct {
	repo         *Repository
	attendeeRepo *attendees.Repository
	logger       *zap.Logger
}

// NewHandler creates a graduates handler.
func NewHandler(repo *Repository, attendeeRepo *attendees.Repository, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{repo: repo, attendeeRepo: attendeeRepo, logger: logger}
}

// List handles GET /admin/registrations. Returns all graduates with their
// attendee counts, newest registration first; ?promotion= narrows to one
// cohort.
func (h *Handler) List(c *gin.Context) {
	list, err := h.repo.List(c.Request.Context(), c.Query("promotion"))
	if err != nil {
		h.logger.Error("list registrations failed", zap.Error(err))
		response.Internal(c, "failed to load registrations")
		return
	}
	response.OK(c, list)
}

// GetByID handles GET /admin/registrations/:id. Returns one graduate with
// the full attendee list.
func (h *Handler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid graduate id")
		return
	}

	g, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("get graduate failed", zap.Error(err), zap.String("id", id.String()))
		response.Internal(c, "failed to load registration")
		return
	}
	if g == nil {
		response.NotFound(c, "graduate not found")
		return
	}

	guests, err := h.attendeeRepo.ListByGraduate(c.Request.Context(), g.ID)
	if err != nil {
		h.logger.Error("list attendees failed", zap.Error(err), zap.String("graduate_id", id.String()))
		response.Internal(c, "failed to load registration")
		return
	}
	response.OK(c, gin.H{"graduate": g, "attendees": guests})
}

// Stats handles GET /admin/stats. Returns registration totals for the
// dashboard.
func (h *Handler) Stats(c *gin.Context) {
	stats, err := h.repo.GetStats(c.Request.Context())
	if err != nil {
		h.logger.Error("load stats failed", zap.Error(err))
		response.Internal(c, "failed to load stats")
		return
	}
	response.OK(c, stats)
}
