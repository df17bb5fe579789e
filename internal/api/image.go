package api

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/recipehub/backend/internal/middleware"
	"github.com/recipehub/backend/internal/service"
)

// maxImageSize caps recipe image uploads at 5 MiB.
const maxImageSize = 5 << 20

// ImageHandler accepts recipe image uploads.
type ImageHandler struct {
	imageService *service.ImageService
	auth         middleware.Authenticator
}

func NewImageHandler(imageService *service.ImageService, auth middleware.Authenticator) *ImageHandler {
	return &ImageHandler{imageService: imageService, auth: auth}
}

func (h *ImageHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/recipes/:id/image", middleware.AuthMiddleware(h.auth), h.Upload)
}

func (h *ImageHandler) Upload(c *gin.Context) {
	principal, _ := middleware.CurrentPrincipal(c)
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image file is required"})
		return
	}
	if fileHeader.Size > maxImageSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image exceeds the 5 MiB limit"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read image file"})
		return
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(io.LimitReader(file, maxImageSize))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read image file"})
		return
	}

	imageURL, err := h.imageService.UploadRecipeImage(c.Request.Context(), principal, id, fileHeader.Filename, data)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"image_url": imageURL})
}
