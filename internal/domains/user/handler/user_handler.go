package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"music-catalog-backend/internal/domains/user"
	"music-catalog-backend/internal/shared/middleware"
	"music-catalog-backend/internal/shared/pagination"
	"music-catalog-backend/internal/shared/response"
	"music-catalog-backend/internal/validation"
	"music-catalog-backend/pkg/logger"
)

var messages = validation.Messages{
	"required":      "Campo obrigatório",
	"min":           "Mínimo de caracteres não atingido",
	"max":           "Máximo de caracteres excedido",
	"integer":       "O valor deve ser um inteiro válido",
	"email":         "Insira um e-mail válido",
	"confirmed":     "As senhas não conferem",
	"id.exists":     "Este usuário não existe",
	"direction.in":  `O valor deve ser "asc" ou "desc"`,
	"columnName.in": `O valor deve ser "id", "email" ou "name"`,
	"page.above":    "O valor mínimo é 0",
	"perPage.above": "O valor mínimo é 3",
}

const msgEmailTaken = "Este e-mail já está em uso"
const msgWrongPassword = "Senha atual incorreta"

var (
	storeRules = validation.RuleSet{
		{Field: "name", Rules: "required|max:80"},
		{Field: "email", Rules: "required|email|max:120|min:6"},
		{Field: "password", Rules: "required|min:6"},
	}
	updateRules = validation.RuleSet{
		{Field: "name", Rules: "required|max:80"},
	}
	passwordRules = validation.RuleSet{
		{Field: "old_password", Rules: "required"},
		{Field: "password", Rules: "required|min:6|confirmed"},
	}
	idRules = validation.RuleSet{
		{Field: "id", Rules: "required|exists:users,id"},
	}
	indexRules = pagination.Rules("id", "email", "name")
)

type UserHandler struct {
	service   user.Service
	validator *validation.Validator
}

func NewUserHandler(service user.Service, validator *validation.Validator) *UserHandler {
	return &UserHandler{service: service, validator: validator}
}

// Login handles POST /login. The body carries either email and password
// or a refreshToken. Every failure maps to the same 401 so nothing
// leaks about which part was wrong.
func (h *UserHandler) Login(c *gin.Context) {
	var body map[string]interface{}
	_ = c.ShouldBindJSON(&body)

	var tokens *user.AuthTokens
	var err error

	if refresh := validation.ToString(body["refreshToken"]); refresh != "" {
		tokens, err = h.service.Refresh(c.Request.Context(), refresh)
	} else {
		email := validation.ToString(body["email"])
		password := validation.ToString(body["password"])
		if email == "" || password == "" {
			response.LoginFailure(c)
			return
		}
		tokens, err = h.service.Login(c.Request.Context(), email, password)
	}

	if err != nil {
		if !errors.Is(err, user.ErrInvalidCredentials) {
			logger.Error("login", err)
		}
		response.LoginFailure(c)
		return
	}

	c.JSON(http.StatusOK, tokens)
}

// Index handles GET /users. The authenticated caller is left out of the
// listing.
func (h *UserHandler) Index(c *gin.Context) {
	callerID, _ := middleware.UserID(c)
	data := pagination.Collect(c)

	errs, err := h.validator.ValidateAll(c.Request.Context(), data, indexRules, messages)
	if err != nil {
		logger.Error("user index validation", err)
		response.RequestFailure(c)
		return
	}
	if len(errs) > 0 {
		response.ValidationErrors(c, http.StatusBadRequest, errs)
		return
	}

	page, err := h.service.List(c.Request.Context(), pagination.FromData(data), callerID)
	if err != nil {
		logger.Error("user index", err)
		response.RequestFailure(c)
		return
	}

	c.JSON(http.StatusOK, page)
}

// Store handles POST /users, the public registration endpoint.
func (h *UserHandler) Store(c *gin.Context) {
	var body map[string]interface{}
	_ = c.ShouldBindJSON(&body)
	data := validation.Only(body, "name", "email", "password")

	errs, err := h.validator.ValidateAll(c.Request.Context(), data, storeRules, messages)
	if err != nil {
		logger.Error("user store validation", err)
		response.RequestFailure(c)
		return
	}
	if len(errs) > 0 {
		response.ValidationErrors(c, http.StatusBadRequest, errs)
		return
	}

	u, err := h.service.Create(c.Request.Context(),
		validation.ToString(data["name"]),
		validation.ToString(data["email"]),
		validation.ToString(data["password"]),
	)
	if err != nil {
		if errors.Is(err, user.ErrEmailTaken) {
			response.FieldFailure(c, "email", msgEmailTaken, "unique")
			return
		}
		logger.Error("user store", err)
		response.RequestFailure(c)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"user":    u,
		"message": "Usuário criado com sucesso",
	})
}

// Show handles GET /users/:id.
func (h *UserHandler) Show(c *gin.Context) {
	id, ok := h.validateID(c, http.StatusNotFound)
	if !ok {
		return
	}

	u, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		logger.Error("user show", err)
		response.RequestFailure(c)
		return
	}

	c.JSON(http.StatusOK, u)
}

// ShowAuthenticated handles GET /users/authenticated.
func (h *UserHandler) ShowAuthenticated(c *gin.Context) {
	callerID, ok := middleware.UserID(c)
	if !ok {
		response.Unauthorized(c)
		return
	}

	u, err := h.service.Get(c.Request.Context(), callerID)
	if err != nil {
		logger.Error("authenticated user show", err)
		response.RequestFailure(c)
		return
	}

	c.JSON(http.StatusOK, u)
}

// Update handles PUT /users/:id. Only the name is writable; the email
// is fixed at registration.
func (h *UserHandler) Update(c *gin.Context) {
	var body map[string]interface{}
	_ = c.ShouldBindJSON(&body)
	data := validation.Only(body, "name")
	data["id"] = c.Param("id")

	rules := append(validation.RuleSet{}, updateRules...)
	rules = append(rules, idRules...)

	errs, err := h.validator.ValidateAll(c.Request.Context(), data, rules, messages)
	if err != nil {
		logger.Error("user update validation", err)
		response.RequestFailure(c)
		return
	}
	if len(errs) > 0 {
		response.ValidationErrors(c, http.StatusBadRequest, errs)
		return
	}

	id, _ := validation.ToInt64(data["id"])
	u, err := h.service.UpdateName(c.Request.Context(), id, validation.ToString(data["name"]))
	if err != nil {
		logger.Error("user update", err)
		response.RequestFailure(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":    u,
		"message": "Usuário atualizado com sucesso",
	})
}

// UpdateAuthenticated handles PUT /users/authenticated.
func (h *UserHandler) UpdateAuthenticated(c *gin.Context) {
	callerID, ok := middleware.UserID(c)
	if !ok {
		response.Unauthorized(c)
		return
	}

	var body map[string]interface{}
	_ = c.ShouldBindJSON(&body)
	data := validation.Only(body, "name")

	errs, err := h.validator.ValidateAll(c.Request.Context(), data, updateRules, messages)
	if err != nil {
		logger.Error("authenticated user update validation", err)
		response.RequestFailure(c)
		return
	}
	if len(errs) > 0 {
		response.ValidationErrors(c, http.StatusBadRequest, errs)
		return
	}

	u, err := h.service.UpdateName(c.Request.Context(), callerID, validation.ToString(data["name"]))
	if err != nil {
		logger.Error("authenticated user update", err)
		response.RequestFailure(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":    u,
		"message": "Usuário atualizado com sucesso",
	})
}

// UpdatePassword handles PUT /users/password. The new password must be
// confirmed and the current one re-entered.
func (h *UserHandler) UpdatePassword(c *gin.Context) {
	callerID, ok := middleware.UserID(c)
	if !ok {
		response.Unauthorized(c)
		return
	}

	var body map[string]interface{}
	_ = c.ShouldBindJSON(&body)
	data := validation.Only(body, "old_password", "password", "password_confirmation")

	errs, err := h.validator.ValidateAll(c.Request.Context(), data, passwordRules, messages)
	if err != nil {
		logger.Error("password update validation", err)
		response.RequestFailure(c)
		return
	}
	if len(errs) > 0 {
		response.ValidationErrors(c, http.StatusBadRequest, errs)
		return
	}

	err = h.service.ChangePassword(c.Request.Context(), callerID,
		validation.ToString(data["old_password"]),
		validation.ToString(data["password"]),
	)
	if err != nil {
		if errors.Is(err, user.ErrInvalidCredentials) {
			response.FieldFailure(c, "old_password", msgWrongPassword, "old_password")
			return
		}
		logger.Error("password update", err)
		response.RequestFailure(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Usuário atualizado com sucesso"})
}

// Destroy handles DELETE /users/:id. The user's refresh tokens go with
// the row.
func (h *UserHandler) Destroy(c *gin.Context) {
	id, ok := h.validateID(c, http.StatusNotFound)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		logger.Error("user destroy", err)
		response.RequestFailure(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Usuário apagado com sucesso"})
}

func (h *UserHandler) validateID(c *gin.Context, failStatus int) (int64, bool) {
	data := map[string]interface{}{"id": c.Param("id")}

	errs, err := h.validator.ValidateAll(c.Request.Context(), data, idRules, messages)
	if err != nil {
		logger.Error("user id validation", err)
		response.RequestFailure(c)
		return 0, false
	}
	if len(errs) > 0 {
		response.ValidationErrors(c, failStatus, errs)
		return 0, false
	}

	id, _ := validation.ToInt64(data["id"])
	return id, true
}
