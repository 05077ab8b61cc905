package handler

import (
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"music-catalog-backend/internal/domains/image"
	"music-catalog-backend/internal/shared/response"
	"music-catalog-backend/internal/validation"
	"music-catalog-backend/pkg/logger"
)

var messages = validation.Messages{
	"required":        "Campo obrigatório",
	"album_id.exists": "Este álbum não existe",
	"id.exists":       "Esta imagem não existe",
	"images.min":      "Insira pelo menos uma imagem",
	"fileExt":         "Apenas as extensões PNG e JPG são aceitas",
	"fileSize":        "O tamanho máximo da imagem é 2MB",
}

var (
	storeRules = validation.RuleSet{
		{Field: "album_id", Rules: "required|exists:albums,id"},
	}
	idRules = validation.RuleSet{
		{Field: "id", Rules: "required|exists:images,id"},
	}
)

var allowedExts = map[string]bool{"jpg": true, "png": true}

type ImageHandler struct {
	service     image.Service
	validator   *validation.Validator
	maxFileSize int64
}

func NewImageHandler(service image.Service, validator *validation.Validator, maxFileSize int64) *ImageHandler {
	return &ImageHandler{service: service, validator: validator, maxFileSize: maxFileSize}
}

// Store handles POST /images: multipart with an album_id field and one
// or more files under "images". Invalid files are reported per file; the
// valid ones are stored anyway. A batch with nothing storable is a 400.
func (h *ImageHandler) Store(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		response.ValidationErrors(c, http.StatusBadRequest, []validation.FieldError{
			{Field: "images", Message: messages["images.min"], Validation: "min"},
		})
		return
	}

	data := map[string]interface{}{}
	if albumID := c.PostForm("album_id"); albumID != "" {
		data["album_id"] = albumID
	}

	errs, err := h.validator.ValidateAll(c.Request.Context(), data, storeRules, messages)
	if err != nil {
		logger.Error("image store validation", err)
		response.RequestFailure(c)
		return
	}

	files := form.File["images"]
	uploads, fileErrs := h.checkFiles(files)
	errs = append(errs, fileErrs...)

	if len(errs) > 0 && len(uploads) == 0 {
		response.ValidationErrors(c, http.StatusBadRequest, errs)
		return
	}
	// The album_id must hold even when some files are fine.
	for _, e := range errs {
		if e.Field == "album_id" {
			response.ValidationErrors(c, http.StatusBadRequest, errs)
			return
		}
	}

	albumID, _ := validation.ToInt64(data["album_id"])
	stored, err := h.service.Store(c.Request.Context(), albumID, uploads)
	if err != nil {
		logger.Error("image store", err)
		response.RequestFailure(c)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"images":  stored,
		"message": "Salvo com sucesso",
	})
}

// Destroy handles DELETE /images/:id.
func (h *ImageHandler) Destroy(c *gin.Context) {
	data := map[string]interface{}{"id": c.Param("id")}

	errs, err := h.validator.ValidateAll(c.Request.Context(), data, idRules, messages)
	if err != nil {
		logger.Error("image id validation", err)
		response.RequestFailure(c)
		return
	}
	if len(errs) > 0 {
		response.ValidationErrors(c, http.StatusBadRequest, errs)
		return
	}

	id, _ := validation.ToInt64(data["id"])
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		logger.Error("image destroy", err)
		response.RequestFailure(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Imagem apagada com sucesso"})
}

// checkFiles splits the batch into storable uploads and per-file errors.
func (h *ImageHandler) checkFiles(files []*multipart.FileHeader) ([]image.Upload, []validation.FieldError) {
	if len(files) == 0 {
		return nil, []validation.FieldError{
			{Field: "images", Message: messages["images.min"], Validation: "min"},
		}
	}

	var uploads []image.Upload
	var errs []validation.FieldError

	for _, fh := range files {
		ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(fh.Filename), "."))
		if !allowedExts[ext] {
			errs = append(errs, validation.FieldError{
				Field: "images", Message: messages["fileExt"], Validation: "fileExt",
			})
			continue
		}
		if fh.Size > h.maxFileSize {
			errs = append(errs, validation.FieldError{
				Field: "images", Message: messages["fileSize"], Validation: "fileSize",
			})
			continue
		}

		header := fh
		uploads = append(uploads, image.Upload{
			Ext:         ext,
			ContentType: header.Header.Get("Content-Type"),
			Size:        header.Size,
			Open: func() (io.ReadCloser, error) {
				return header.Open()
			},
		})
	}

	return uploads, errs
}
