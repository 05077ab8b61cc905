package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"music-catalog-backend/internal/domains/artist"
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
	"id.exists":     "Este artista não existe",
	"direction.in":  `O valor deve ser "asc" ou "desc"`,
	"columnName.in": `O valor deve ser "id" ou "name"`,
	"page.above":    "O valor mínimo é 0",
	"perPage.above": "O valor mínimo é 3",
}

var (
	storeRules = validation.RuleSet{
		{Field: "name", Rules: "required|max:120|min:3"},
	}
	idRules = validation.RuleSet{
		{Field: "id", Rules: "required|exists:artists,id"},
	}
	indexRules = pagination.Rules("id", "name")
)

type ArtistHandler struct {
	service   artist.Service
	validator *validation.Validator
}

func NewArtistHandler(service artist.Service, validator *validation.Validator) *ArtistHandler {
	return &ArtistHandler{service: service, validator: validator}
}

// Index handles GET /artists.
func (h *ArtistHandler) Index(c *gin.Context) {
	data := pagination.Collect(c)

	errs, err := h.validator.ValidateAll(c.Request.Context(), data, indexRules, messages)
	if err != nil {
		logger.Error("artist index validation", err)
		response.RequestFailure(c)
		return
	}
	if len(errs) > 0 {
		response.ValidationErrors(c, http.StatusBadRequest, errs)
		return
	}

	page, err := h.service.List(c.Request.Context(), pagination.FromData(data))
	if err != nil {
		logger.Error("artist index", err)
		response.RequestFailure(c)
		return
	}

	c.JSON(http.StatusOK, page)
}

// Store handles POST /artists.
func (h *ArtistHandler) Store(c *gin.Context) {
	var body map[string]interface{}
	_ = c.ShouldBindJSON(&body)
	data := validation.Only(body, "name")

	errs, err := h.validator.ValidateAll(c.Request.Context(), data, storeRules, messages)
	if err != nil {
		logger.Error("artist store validation", err)
		response.RequestFailure(c)
		return
	}
	if len(errs) > 0 {
		response.ValidationErrors(c, http.StatusBadRequest, errs)
		return
	}

	a, err := h.service.Create(c.Request.Context(), validation.ToString(data["name"]))
	if err != nil {
		logger.Error("artist store", err)
		response.RequestFailure(c)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"artist":  a,
		"message": "Artista criado com sucesso",
	})
}

// Show handles GET /artists/:id, loading the artist with its albums and
// their images.
func (h *ArtistHandler) Show(c *gin.Context) {
	id, ok := h.validateID(c, http.StatusNotFound)
	if !ok {
		return
	}

	detail, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		logger.Error("artist show", err)
		response.RequestFailure(c)
		return
	}

	c.JSON(http.StatusOK, detail)
}

// Update handles PUT /artists/:id.
func (h *ArtistHandler) Update(c *gin.Context) {
	var body map[string]interface{}
	_ = c.ShouldBindJSON(&body)
	data := validation.Only(body, "name")
	data["id"] = c.Param("id")

	rules := append(validation.RuleSet{}, storeRules...)
	rules = append(rules, idRules...)

	errs, err := h.validator.ValidateAll(c.Request.Context(), data, rules, messages)
	if err != nil {
		logger.Error("artist update validation", err)
		response.RequestFailure(c)
		return
	}
	if len(errs) > 0 {
		response.ValidationErrors(c, http.StatusBadRequest, errs)
		return
	}

	id, _ := validation.ToInt64(data["id"])
	a, err := h.service.Update(c.Request.Context(), id, validation.ToString(data["name"]))
	if err != nil {
		logger.Error("artist update", err)
		response.RequestFailure(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"artist":  a,
		"message": "Artista atualizado com sucesso",
	})
}

// Destroy handles DELETE /artists/:id. Deleting an artist removes its
// albums, their images and the image blobs.
func (h *ArtistHandler) Destroy(c *gin.Context) {
	id, ok := h.validateID(c, http.StatusNotFound)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		logger.Error("artist destroy", err)
		response.RequestFailure(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Artista apagado com sucesso"})
}

func (h *ArtistHandler) validateID(c *gin.Context, failStatus int) (int64, bool) {
	data := map[string]interface{}{"id": c.Param("id")}

	errs, err := h.validator.ValidateAll(c.Request.Context(), data, idRules, messages)
	if err != nil {
		logger.Error("artist id validation", err)
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
