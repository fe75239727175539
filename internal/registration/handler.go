package registration

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/nova-graduation/backend/pkg/response"
)

// Handler handles the public registration endpoints.
type Handler struct {
	svc    *Service
	logger *zap.Logger
}

// NewHandler creates a registration handler.
func NewHandler(svc *Service, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{svc: svc, logger: logger}
}

// UpdateLevel3Request is the body for PUT /registration/level3/:token.
type UpdateLevel3Request struct {
	Attendees []AttendeeEntry `json:"attendees"`
}

// SubmitLevel1 handles POST /registration/level1. Records the attendance
// answer and, for attending graduates, mails the guest registration link.
func (h *Handler) SubmitLevel1(c *gin.Context) {
	var req Level1Input
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	g, err := h.svc.SubmitLevel1(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, ErrGraduateNotFound) {
			response.NotFound(c, "graduate not found")
			return
		}
		h.logger.Error("level 1 submit failed", zap.Error(err), zap.String("email", req.Email))
		response.Internal(c, "failed to submit registration")
		return
	}
	response.OK(c, gin.H{"graduate": g})
}

// SubmitLevel2 handles POST /registration/level2/:token. Replaces the guest
// list and mails the summary with the amendment link.
func (h *Handler) SubmitLevel2(c *gin.Context) {
	token := c.Param("token")

	var req Level2Input
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	stored, err := h.svc.SubmitLevel2(c.Request.Context(), token, req)
	if err != nil {
		if errors.Is(err, ErrInvalidToken) {
			response.NotFound(c, "invalid or expired token")
			return
		}
		h.logger.Error("level 2 submit failed", zap.Error(err))
		response.Internal(c, "failed to register attendees")
		return
	}
	response.OK(c, gin.H{"attendees": stored})
}

// GetLevel3 handles GET /registration/level3/:token. Returns the graduate
// and current guest list for the amendment page.
func (h *Handler) GetLevel3(c *gin.Context) {
	view, err := h.svc.GetLevel3(c.Request.Context(), c.Param("token"))
	if err != nil {
		if errors.Is(err, ErrInvalidToken) {
			response.NotFound(c, "invalid or expired token")
			return
		}
		h.logger.Error("level 3 fetch failed", zap.Error(err))
		response.Internal(c, "failed to load registration")
		return
	}
	response.OK(c, view)
}

// UpdateLevel3 handles PUT /registration/level3/:token. Amends guest details
// and marks the registration complete.
func (h *Handler) UpdateLevel3(c *gin.Context) {
	token := c.Param("token")

	var req UpdateLevel3Request
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	view, err := h.svc.UpdateLevel3(c.Request.Context(), token, req.Attendees)
	if err != nil {
		if errors.Is(err, ErrInvalidToken) {
			response.NotFound(c, "invalid or expired token")
			return
		}
		h.logger.Error("level 3 update failed", zap.Error(err))
		response.Internal(c, "failed to update registration")
		return
	}
	response.OK(c, view)
}
