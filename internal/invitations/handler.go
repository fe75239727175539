package invitations

import (
	"github.com/gin-gonic/gin"

	"github.com/nova-graduation/backend/pkg/response"
)

// Handler handles the admin invitation endpoints.
type Handler struct {
	svc *Service
}

// NewHandler creates an invitations handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// GenerateRequest is the body for POST /admin/generate-invitations.
type GenerateRequest struct {
	Invitations []InviteEntry `json:"invitations" binding:"required,min=1"`
}

// SendRequest is the body for POST /admin/send-invitations.
type SendRequest struct {
	Emails []string `json:"emails" binding:"required,min=1"`
}

// Generate handles POST /admin/generate-invitations. Upserts each entry and
// returns its token and registration link, one result per entry.
func (h *Handler) Generate(c *gin.Context) {
	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invitations list required")
		return
	}

	results := h.svc.Generate(c.Request.Context(), req.Invitations)
	response.OK(c, gin.H{"results": results})
}

// Send handles POST /admin/send-invitations. Dispatches the invitation email
// for each address using its stored token.
func (h *Handler) Send(c *gin.Context) {
	var req SendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "emails list required")
		return
	}

	results, sent := h.svc.Send(c.Request.Context(), req.Emails)
	response.OK(c, gin.H{"results": results, "sent": sent})
}
