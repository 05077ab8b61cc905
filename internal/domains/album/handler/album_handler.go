package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"music-catalog-backend/internal/domains/album"
	"music-catalog-backend/internal/shared/pagination"
	"music-catalog-backend/internal/shared/response"
	"music-catalog-backend/internal/validation"
	"music-catalog-backend/pkg/logger"
)

var messages = validation.Messages{
	"required":         "Campo obrigatório",
	"min":              "Mínimo de caracteres não atingido",
	"max":              "Máximo de caracteres excedido",
	"integer":          "O valor deve ser um inteiro válido",
	"range":            "O ano deve estar contido em 1800-2021",
	"artist_id.exists": "Este artista não existe",
	"id.exists":        "Este álbum não existe",
	"direction.in":     `O valor deve ser "asc" ou "desc"`,
	"columnName.in":    `O valor deve ser "id", "name" ou "year"`,
	"page.above":       "O valor mínimo é 0",
	"perPage.above":    "O valor mínimo é 3",
}

var (
	storeRules = validation.RuleSet{
		{Field: "name", Rules: "required|max:120|min:3"},
		{Field: "artist_id", Rules: "required|exists:artists,id"},
		{Field: "year", Rules: "integer|range:1800,2021"},
	}
	idRules = validation.RuleSet{
		{Field: "id", Rules: "required|exists:albums,id"},
	}
	indexRules = pagination.Rules("id", "name", "year")
)

type AlbumHandler struct {
	service   album.Service
	validator *validation.Validator
}

func NewAlbumHandler(service album.Service, validator *validation.Validator) *AlbumHandler {
	return &AlbumHandler{service: service, validator: validator}
}

// Index handles GET /albums. The search term matches the album name and
// the artist name.
func (h *AlbumHandler) Index(c *gin.Context) {
	data := pagination.Collect(c)

	errs, err := h.validator.ValidateAll(c.Request.Context(), data, indexRules, messages)
	if err != nil {
		logger.Error("album index validation", err)
		response.RequestFailure(c)
		return
	}
	if len(errs) > 0 {
		response.ValidationErrors(c, http.StatusBadRequest, errs)
		return
	}

	page, err := h.service.List(c.Request.Context(), pagination.FromData(data))
	if err != nil {
		logger.Error("album index", err)
		response.RequestFailure(c)
		return
	}

	c.JSON(http.StatusOK, page)
}

// Store handles POST /albums.
func (h *AlbumHandler) Store(c *gin.Context) {
	var body map[string]interface{}
	_ = c.ShouldBindJSON(&body)
	data := validation.Only(body, "name", "artist_id", "year")

	errs, err := h.validator.ValidateAll(c.Request.Context(), data, storeRules, messages)
	if err != nil {
		logger.Error("album store validation", err)
		response.RequestFailure(c)
		return
	}
	if len(errs) > 0 {
		response.ValidationErrors(c, http.StatusBadRequest, errs)
		return
	}

	a, err := h.service.Create(c.Request.Context(), fields(data))
	if err != nil {
		logger.Error("album store", err)
		response.RequestFailure(c)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"album":   a,
		"message": "Álbum criado com sucesso",
	})
}

// Show handles GET /albums/:id, loading the album with its artist and
// images.
func (h *AlbumHandler) Show(c *gin.Context) {
	id, ok := h.validateID(c, http.StatusNotFound)
	if !ok {
		return
	}

	detail, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		logger.Error("album show", err)
		response.RequestFailure(c)
		return
	}

	c.JSON(http.StatusOK, detail)
}

// Update handles PUT /albums/:id. An omitted year keeps the stored
// value.
func (h *AlbumHandler) Update(c *gin.Context) {
	var body map[string]interface{}
	_ = c.ShouldBindJSON(&body)
	data := validation.Only(body, "name", "artist_id", "year")
	data["id"] = c.Param("id")

	rules := append(validation.RuleSet{}, storeRules...)
	rules = append(rules, idRules...)

	errs, err := h.validator.ValidateAll(c.Request.Context(), data, rules, messages)
	if err != nil {
		logger.Error("album update validation", err)
		response.RequestFailure(c)
		return
	}
	if len(errs) > 0 {
		response.ValidationErrors(c, http.StatusBadRequest, errs)
		return
	}

	id, _ := validation.ToInt64(data["id"])
	a, err := h.service.Update(c.Request.Context(), id, fields(data))
	if err != nil {
		logger.Error("album update", err)
		response.RequestFailure(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"album":   a,
		"message": "Álbum atualizado com sucesso",
	})
}

// Destroy handles DELETE /albums/:id. Deleting an album removes its
// images and their blobs.
func (h *AlbumHandler) Destroy(c *gin.Context) {
	id, ok := h.validateID(c, http.StatusNotFound)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		logger.Error("album destroy", err)
		response.RequestFailure(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Álbum apagado com sucesso"})
}

func (h *AlbumHandler) validateID(c *gin.Context, failStatus int) (int64, bool) {
	data := map[string]interface{}{"id": c.Param("id")}

	errs, err := h.validator.ValidateAll(c.Request.Context(), data, idRules, messages)
	if err != nil {
		logger.Error("album id validation", err)
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

func fields(data map[string]interface{}) album.Fields {
	f := album.Fields{Name: validation.ToString(data["name"])}
	f.ArtistID, _ = validation.ToInt64(data["artist_id"])
	if year, ok := validation.ToInt64(data["year"]); ok {
		y := int(year)
		f.Year = &y
	}
	return f
}
