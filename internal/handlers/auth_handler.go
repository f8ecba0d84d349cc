package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-desk/internal/config"
	"github.com/BruksfildServices01/barber-desk/internal/httperr"
	"github.com/BruksfildServices01/barber-desk/internal/middleware"
	"github.com/BruksfildServices01/barber-desk/internal/models"
	"github.com/BruksfildServices01/barber-desk/internal/timezone"
	"github.com/BruksfildServices01/barber-desk/internal/validators"
)

type AuthHandler struct {
	db     *gorm.DB
	config *config.Config

	// emailDomainOK is swapped in tests to avoid DNS lookups.
	emailDomainOK func(string) bool
	now           func() time.Time
}

func NewAuthHandler(db *gorm.DB, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		db:            db,
		config:        cfg,
		emailDomainOK: validators.IsEmailDomainValid,
		now:           time.Now,
	}
}

// --------- Requests ---------

type RegisterRequest struct {
	BarbershopName     string `json:"barbershop_name" binding:"required"`
	BarbershopSlug     string `json:"barbershop_slug" binding:"required"`
	BarbershopPhone    string `json:"barbershop_phone"`
	BarbershopAddress  string `json:"barbershop_address"`
	BarbershopTimezone string `json:"barbershop_timezone"`

	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Phone    string `json:"phone"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// --------- Responses ---------

type SessionUser struct {
	ID           uint     `json:"id"`
	Name         string   `json:"name"`
	Email        string   `json:"email"`
	Phone        string   `json:"phone"`
	Roles        []string `json:"roles"`
	BarbershopID uint     `json:"barbershop_id"`
}

type SessionResponse struct {
	User         SessionUser        `json:"user"`
	Barbershop   *models.Barbershop `json:"barbershop,omitempty"`
	Token        string             `json:"token"`
	RefreshToken string             `json:"refresh_token"`
}

func sessionUser(u *models.User) SessionUser {
	roles := u.RoleList()
	if roles == nil {
		roles = []string{}
	}
	return SessionUser{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		Phone:        u.Phone,
		Roles:        roles,
		BarbershopID: u.BarbershopID,
	}
}

// --------- Handlers ---------

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	slug := validators.NormalizeSlug(req.BarbershopSlug)
	if !validators.IsSlugValid(slug) {
		httperr.BadRequest(c, "invalid_slug", "Endereço da barbearia inválido.")
		return
	}

	email := validators.NormalizeEmail(req.Email)
	if !validators.IsEmailSyntaxValid(email) || !h.emailDomainOK(email) {
		httperr.BadRequest(c, "invalid_email_domain", "O domínio do e-mail informado não parece ser válido.")
		return
	}

	tz := strings.TrimSpace(req.BarbershopTimezone)
	if tz == "" {
		tz = timezone.DefaultTimezone
	}
	if !timezone.IsValid(tz) {
		httperr.BadRequest(c, "invalid_timezone", "Fuso horário inválido.")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		httperr.Internal(c, "failed_to_hash_password", "Erro ao processar senha.")
		return
	}

	shop := models.Barbershop{
		Name:     req.BarbershopName,
		Slug:     slug,
		Phone:    req.BarbershopPhone,
		Address:  req.BarbershopAddress,
		Timezone: tz,
	}
	user := models.User{
		Name:         req.Name,
		Email:        email,
		PasswordHash: string(hashed),
		Phone:        req.Phone,
		Roles:        models.JoinRoles(models.RoleBarbershopAdmin),
		Active:       true,
	}

	err = h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		var count int64
		tx.Model(&models.Barbershop{}).Where("slug = ?", slug).Count(&count)
		if count > 0 {
			return httperr.ErrBusiness("slug_already_exists")
		}
		tx.Model(&models.User{}).Where("email = ?", email).Count(&count)
		if count > 0 {
			return httperr.ErrBusiness("email_already_exists")
		}

		if err := tx.Create(&shop).Error; err != nil {
			return err
		}
		user.BarbershopID = shop.ID
		return tx.Create(&user).Error
	})
	if err != nil {
		if httperr.IsUniqueViolation(err) {
			err = httperr.ErrBusiness("email_already_exists")
		}
		respondError(c, err, "failed_to_register")
		return
	}

	h.respondSession(c, http.StatusCreated, &user, &shop)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	email := validators.NormalizeEmail(req.Email)

	var user models.User
	if err := h.db.WithContext(c.Request.Context()).
		Preload("Barbershop").
		Where("email = ?", email).
		First(&user).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.Unauthorized(c, "invalid_credentials", "E-mail ou senha inválidos.")
			return
		}
		httperr.Internal(c, "internal_error", "Erro interno. Tente novamente.")
		return
	}

	if !user.Active {
		httperr.Unauthorized(c, "invalid_credentials", "E-mail ou senha inválidos.")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		httperr.Unauthorized(c, "invalid_credentials", "E-mail ou senha inválidos.")
		return
	}

	h.respondSession(c, http.StatusOK, &user, &user.Barbershop)
}

// Refresh trades a refresh token for a new token pair. Roles are read
// again from the database.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	claims, err := middleware.ParseToken(h.config, req.RefreshToken, middleware.TokenRefresh)
	if err != nil {
		httperr.Unauthorized(c, "invalid_refresh_token", "Sessão expirada. Faça login novamente.")
		return
	}
	uid, err := claims.UserID()
	if err != nil {
		httperr.Unauthorized(c, "invalid_refresh_token", "Sessão expirada. Faça login novamente.")
		return
	}

	var user models.User
	if err := h.db.WithContext(c.Request.Context()).
		Preload("Barbershop").
		First(&user, uid).Error; err != nil || !user.Active {
		httperr.Unauthorized(c, "invalid_refresh_token", "Sessão expirada. Faça login novamente.")
		return
	}

	h.respondSession(c, http.StatusOK, &user, &user.Barbershop)
}

func (h *AuthHandler) respondSession(c *gin.Context, status int, user *models.User, shop *models.Barbershop) {
	now := h.now()

	token, err := middleware.IssueToken(h.config, user, middleware.TokenAccess, now)
	if err != nil {
		httperr.Internal(c, "failed_to_generate_token", "Erro ao gerar sessão.")
		return
	}
	refresh, err := middleware.IssueToken(h.config, user, middleware.TokenRefresh, now)
	if err != nil {
		httperr.Internal(c, "failed_to_generate_token", "Erro ao gerar sessão.")
		return
	}

	c.JSON(status, SessionResponse{
		User:         sessionUser(user),
		Barbershop:   shop,
		Token:        token,
		RefreshToken: refresh,
	})
}
