package handler

import (
    "context"
    "net/http"
    "strconv"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/airnavops/flight-billing/internal/config"
    "github.com/airnavops/flight-billing/internal/model"
    "github.com/airnavops/flight-billing/internal/repository"
)

// UserHandler serves admin-only user management.
type UserHandler struct {
    Cfg   config.Config
    Users *repository.UserRepo
}

func NewUserHandler(cfg config.Config, u *repository.UserRepo) *UserHandler {
    return &UserHandler{Cfg: cfg, Users: u}
}

type userResp struct {
    ID        uint64    `json:"id"`
    Email     string    `json:"email"`
    Name      string    `json:"name"`
    Role      string    `json:"role"`
    IsActive  bool      `json:"isActive"`
    CreatedAt time.Time `json:"createdAt"`
}

func toUserResp(u model.User) userResp {
    return userResp{
        ID: u.ID, Email: u.Email, Name: u.Name, Role: u.Role,
        IsActive: u.IsActive, CreatedAt: u.CreatedAt,
    }
}

// List returns every account.
func (h *UserHandler) List(c echo.Context) error {
    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    users, err := h.Users.List(ctx)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list users failed"})
    }
    resp := make([]userResp, 0, len(users))
    for _, u := range users {
        resp = append(resp, toUserResp(u))
    }
    return c.JSON(http.StatusOK, echo.Map{"data": resp})
}

type createUserReq struct {
    Email    string `json:"email"`
    Name     string `json:"name"`
    Password string `json:"password"`
    Role     string `json:"role"` // ADMIN | OPERATOR | VIEWER
}

// Create lets an admin provision an account with any role; this is the
// only path that grants OPERATOR or ADMIN.
func (h *UserHandler) Create(c echo.Context) error {
    var req createUserReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    req.Email = strings.ToLower(strings.TrimSpace(req.Email))
    req.Name = strings.TrimSpace(req.Name)
    if req.Email == "" || req.Password == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/password required"})
    }
    role := strings.ToUpper(strings.TrimSpace(req.Role))
    if role != model.RoleAdmin && role != model.RoleOperator && role != model.RoleViewer {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "role must be ADMIN, OPERATOR or VIEWER"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    uid, err := h.Users.Create(ctx, req.Email, req.Name, req.Password, role, h.Cfg.BcryptCost)
    if err != nil {
        if err == repository.ErrEmailExists {
            return c.JSON(http.StatusConflict, echo.Map{"error": "email already exists"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create user failed"})
    }

    u, err := h.Users.GetByID(ctx, uid)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load user failed"})
    }
    return c.JSON(http.StatusCreated, toUserResp(u))
}

// contextUserID recovers the authenticated user id set by the JWT
// middleware. JSON numeric claims decode as float64; string subjects
// are parsed for completeness.
func contextUserID(c echo.Context) (uint64, bool) {
    switch v := c.Get("user_id").(type) {
    case float64:
        return uint64(v), true
    case uint64:
        return v, true
    case string:
        id, err := strconv.ParseUint(v, 10, 64)
        return id, err == nil
    }
    return 0, false
}

type setActiveReq struct {
    IsActive bool `json:"isActive"`
}

// SetActive enables or disables an account. Admins cannot disable
// themselves, which keeps at least the acting admin able to log in.
func (h *UserHandler) SetActive(c echo.Context) error {
    id, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    var req setActiveReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    if uid, ok := contextUserID(c); ok && uid == id && !req.IsActive {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "cannot disable your own account"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    if err := h.Users.SetActive(ctx, id, req.IsActive); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update user failed"})
    }
    u, err := h.Users.GetByID(ctx, id)
    if err != nil {
        return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
    }
    return c.JSON(http.StatusOK, toUserResp(u))
}
