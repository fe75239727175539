package admins

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nova-graduation/backend/internal/auth"
	"github.com/nova-graduation/backend/internal/models"
	"github.com/nova-graduation/backend/pkg/response"
	"github.com/nova-graduation/backend/pkg/utils"
)

// AdminStore is the administrator persistence consumed by the handler.
type AdminStore interface {
	GetByUsername(ctx context.Context, username string) (*models.Administrator, error)
	GetByUsernameOrEmail(ctx context.Context, username, email string) (*models.Administrator, error)
	Create(ctx context.Context, username, email, passwordHash, role string) (*models.Administrator, error)
	TouchLastLogin(ctx context.Context, id uuid.UUID) error
	UpdateFields(ctx context.Context, id uuid.UUID, email, role, passwordHash *string) error
}

// CreateRequest is the body for POST /admin/create.
type CreateRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
	Email    string `json:"email" binding:"required,email"`
}

// LoginRequest is the body for POST /admin/login.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UpsertRequest is the body for POST /admin/users.
type UpsertRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// TokenResponse is the login response with the bearer token.
type TokenResponse struct {
	Token string                `json:"token"`
	Admin *models.Administrator `json:"admin"`
}

// Handler handles administrator account endpoints.
type Handler struct {
	store  AdminStore
	jwt    *auth.JWTService
	logger *zap.Logger
}

// NewHandler creates an admins handler.
func NewHandler(store AdminStore, jwt *auth.JWTService, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{store: store, jwt: jwt, logger: logger}
}

// Create handles POST /admin/create. Creates an administrator account with
// the admin role.
func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	existing, err := h.store.GetByUsernameOrEmail(c.Request.Context(), req.Username, req.Email)
	if err != nil {
		h.logger.Error("admin lookup failed", zap.Error(err))
		response.Internal(c, "failed to create administrator")
		return
	}
	if existing != nil {
		response.BadRequest(c, "username or email already registered")
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		h.logger.Error("hash password failed", zap.Error(err))
		response.Internal(c, "failed to create administrator")
		return
	}

	admin, err := h.store.Create(c.Request.Context(), req.Username, req.Email, hash, models.RoleAdmin)
	if err != nil {
		h.logger.Error("create administrator failed", zap.Error(err), zap.String("username", req.Username))
		response.Internal(c, "failed to create administrator")
		return
	}
	response.Created(c, gin.H{"admin": admin})
}

// Login handles POST /admin/login. Unknown usernames and wrong passwords get
// the same answer.
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "username and password required")
		return
	}

	admin, err := h.store.GetByUsername(c.Request.Context(), req.Username)
	if err != nil {
		h.logger.Error("admin lookup failed", zap.Error(err))
		response.Internal(c, "login failed")
		return
	}
	if admin == nil || !utils.CheckPassword(req.Password, admin.PasswordHash) {
		response.Unauthorized(c, "invalid username or password")
		return
	}

	if err := h.store.TouchLastLogin(c.Request.Context(), admin.ID); err != nil {
		h.logger.Warn("update last_login failed", zap.Error(err), zap.String("username", admin.Username))
	}

	token, err := h.jwt.Generate(admin.ID, admin.Username, admin.Role)
	if err != nil {
		h.logger.Error("generate token failed", zap.Error(err))
		response.Internal(c, "login failed")
		return
	}
	response.OK(c, TokenResponse{Token: token, Admin: admin})
}

// Upsert handles POST /admin/users. Inserts a new administrator or applies a
// partial update carrying only the fields that differ from the stored row.
func (h *Handler) Upsert(c *gin.Context) {
	var req UpsertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	existing, err := h.store.GetByUsernameOrEmail(c.Request.Context(), req.Username, req.Email)
	if err != nil {
		h.logger.Error("admin lookup failed", zap.Error(err))
		response.Internal(c, "failed to save administrator")
		return
	}

	if existing == nil {
		if req.Password == "" {
			response.BadRequest(c, "password is required for a new administrator")
			return
		}
		role := req.Role
		if role == "" {
			role = models.RoleAdmin
		}
		hash, err := utils.HashPassword(req.Password)
		if err != nil {
			h.logger.Error("hash password failed", zap.Error(err))
			response.Internal(c, "failed to save administrator")
			return
		}
		admin, err := h.store.Create(c.Request.Context(), req.Username, req.Email, hash, role)
		if err != nil {
			h.logger.Error("create administrator failed", zap.Error(err), zap.String("username", req.Username))
			response.Internal(c, "failed to save administrator")
			return
		}
		response.Created(c, gin.H{"admin": admin, "created": true})
		return
	}

	var email, role, passwordHash *string
	if req.Email != existing.Email {
		email = &req.Email
	}
	if req.Role != "" && req.Role != existing.Role {
		role = &req.Role
	}
	if req.Password != "" && !utils.CheckPassword(req.Password, existing.PasswordHash) {
		hash, err := utils.HashPassword(req.Password)
		if err != nil {
			h.logger.Error("hash password failed", zap.Error(err))
			response.Internal(c, "failed to save administrator")
			return
		}
		passwordHash = &hash
	}

	if email == nil && role == nil && passwordHash == nil {
		response.OK(c, gin.H{"admin": existing, "updated": false})
		return
	}

	if err := h.store.UpdateFields(c.Request.Context(), existing.ID, email, role, passwordHash); err != nil {
		h.logger.Error("update administrator failed", zap.Error(err), zap.String("username", existing.Username))
		response.Internal(c, "failed to save administrator")
		return
	}

	if email != nil {
		existing.Email = *email
	}
	if role != nil {
		existing.Role = *role
	}
	response.OK(c, gin.H{"admin": existing, "updated": true})
}
