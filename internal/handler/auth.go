package handler

import (
    "context"      // provides context with cancellation for DB calls
    "database/sql" // sentinel errors from the repository layer
    "log"          // reports swallowed mail failures
    "net/http"     // HTTP status codes and primitives
    "net/mail"     // RFC 5322 address validation
    "strings"      // string manipulation utilities
    "time"         // timeouts for DB calls

    "github.com/labstack/echo/v4" // Echo framework for HTTP routing

    "github.com/virasat-labs/heritage-archive/internal/config"     // app configuration
    "github.com/virasat-labs/heritage-archive/internal/queue"      // mailer used for reset links
    "github.com/virasat-labs/heritage-archive/internal/repository" // DB repositories
    "github.com/virasat-labs/heritage-archive/internal/utils"      // helper functions (hashing, token issuing)
)

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
	Cfg         config.Config
	Users       *repository.UserRepo
	Resets      *repository.ResetTokenRepo
	Submissions *repository.SubmissionRepo
	Mailer      queue.Mailer
}

func NewAuthHandler(cfg config.Config, u *repository.UserRepo, r *repository.ResetTokenRepo, s *repository.SubmissionRepo, m queue.Mailer) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: u, Resets: r, Submissions: s, Mailer: m}
}

// ----- DTOs -----

type registerReq struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}
type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
type forgotReq struct {
	Email string `json:"email"`
}
type resetReq struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

func validEmail(s string) bool {
	_, err := mail.ParseAddress(s)
	return err == nil
}

// Register: create contributor and return a bearer token immediately.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errs("Invalid body"))
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, errs("Name is required"))
	}
	if !validEmail(req.Email) {
		return c.JSON(http.StatusBadRequest, errs("Please include a valid email"))
	}
	if err := utils.ValidatePassword(req.Password); err != nil {
		return c.JSON(http.StatusBadRequest, errs(err.Error()))
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	uid, err := h.Users.Create(ctx, req.Name, req.Email, req.Password, h.Cfg.BcryptCost)
	if err != nil {
		if err == repository.ErrEmailExists {
			return c.JSON(http.StatusBadRequest, errs("Email already registered"))
		}
		return c.JSON(http.StatusInternalServerError, errs("Server error"))
	}

	tok, err := utils.NewUserToken(h.Cfg.JWTSecret, uid, h.Cfg.TokenTTLDays)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, errs("Server error"))
	}
	return c.JSON(http.StatusOK, echo.Map{"token": tok.Token})
}

// Login: verify credentials and return a token.  The same message covers
// unknown email and wrong password so account existence is not leaked.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errs("Invalid body"))
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if !validEmail(req.Email) {
		return c.JSON(http.StatusBadRequest, errs("Please include a valid email"))
	}
	if req.Password == "" {
		return c.JSON(http.StatusBadRequest, errs("Password is required"))
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusBadRequest, errs("Invalid credentials"))
		}
		return c.JSON(http.StatusInternalServerError, errs("Server error"))
	}
	if !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return c.JSON(http.StatusBadRequest, errs("Invalid credentials"))
	}

	tok, err := utils.NewUserToken(h.Cfg.JWTSecret, u.ID, h.Cfg.TokenTTLDays)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, errs("Server error"))
	}
	return c.JSON(http.StatusOK, echo.Map{"token": tok.Token})
}

// ForgotPassword: always answers success-shaped so the response does not
// reveal whether the email exists.  When it does, a single-use reset
// token is stored hashed with a one-hour expiry and a link is mailed;
// mail failure is downgraded to a soft status field, never an error.
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req forgotReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errs("Invalid body"))
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if !validEmail(req.Email) {
		return c.JSON(http.StatusBadRequest, errs("Please include a valid email"))
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	resp := echo.Map{"message": "If that email exists, a reset link has been sent"}

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		// Unknown email and database trouble look the same to the caller.
		if err != sql.ErrNoRows {
			log.Printf("forgot-password: lookup failed: %v", err)
		}
		return c.JSON(http.StatusOK, resp)
	}

	raw, exp, err := utils.NewResetToken()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, errs("Server error"))
	}
	if err := h.Resets.Store(ctx, u.ID, utils.HashResetRaw(raw), exp); err != nil {
		return c.JSON(http.StatusInternalServerError, errs("Server error"))
	}

	base := strings.TrimRight(h.Cfg.FrontendBaseURL, "/")
	resetURL := base + "/reset-password?token=" + raw

	switch {
	case h.Mailer == nil || !h.Mailer.Configured():
		resp["email"] = "not_configured"
	default:
		if err := h.Mailer.Send(u.Email, "Reset your password",
			"Click the link to reset your password: "+resetURL); err != nil {
			log.Printf("forgot-password: mail send failed: %v", err)
			resp["email"] = "error_sending"
		} else {
			resp["email"] = "sent"
		}
	}
	// Outside production the raw token is echoed back to ease manual testing.
	if h.Cfg.Env != "prod" {
		resp["token"] = raw
	}
	return c.JSON(http.StatusOK, resp)
}

// ResetPassword: consume a valid token and store the new password.
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req resetReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Token) == "" {
		return c.JSON(http.StatusBadRequest, errs("Token is required"))
	}
	if err := utils.ValidatePassword(req.Password); err != nil {
		return c.JSON(http.StatusBadRequest, errs(err.Error()))
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	userID, err := h.Resets.Consume(ctx, utils.HashResetRaw(strings.TrimSpace(req.Token)))
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusBadRequest, errs("Invalid or expired token"))
		}
		return c.JSON(http.StatusInternalServerError, errs("Server error"))
	}
	if err := h.Users.UpdatePassword(ctx, userID, req.Password, h.Cfg.BcryptCost); err != nil {
		return c.JSON(http.StatusInternalServerError, errs("Server error"))
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Password has been reset"})
}

// Me returns the authenticated contributor's profile.
func (h *AuthHandler) Me(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, errs("Invalid token"))
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, errs("User not found"))
		}
		return c.JSON(http.StatusInternalServerError, errs("Server error"))
	}
	return c.JSON(http.StatusOK, echo.Map{
		"id":        u.ID,
		"name":      u.Name,
		"email":     u.Email,
		"createdAt": u.CreatedAt,
	})
}

// DeleteMe removes the contributor account together with all their
// submissions.  The two deletes run in one transaction; published
// approved_content copies are not removed.
func (h *AuthHandler) DeleteMe(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, errs("Invalid token"))
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	tx, err := h.Users.DB.BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, errs("Server error"))
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if err := h.Submissions.DeleteAllForUserTx(ctx, tx, uid); err != nil {
		return c.JSON(http.StatusInternalServerError, errs("Server error"))
	}
	if err := h.Users.DeleteTx(ctx, tx, uid); err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, errs("User not found"))
		}
		return c.JSON(http.StatusInternalServerError, errs("Server error"))
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, errs("Server error"))
	}
	committed = true
	return c.JSON(http.StatusOK, echo.Map{"message": "Account deleted"})
}
