package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/daskousik/blog-api/internal/api/metrics"
	"github.com/daskousik/blog-api/internal/api/middleware"
	"github.com/daskousik/blog-api/internal/infrastructure/storage"
)

// allowedImageTypes is the mime allowlist for uploads. Anything else is
// dropped silently, mirroring a filter that rejects the file without
// failing the request.
var allowedImageTypes = map[string]struct{}{
	"image/png":  {},
	"image/jpg":  {},
	"image/jpeg": {},
}

// UploadHandler handles the out-of-band image upload endpoint.
type UploadHandler struct {
	images *storage.ImageStore
}

func NewUploadHandler(images *storage.ImageStore) *UploadHandler {
	return &UploadHandler{images: images}
}

type uploadResponse struct {
	Message  string `json:"message"`
	FilePath string `json:"filePath,omitempty"`
}

// Upload stores a single image file ahead of a createPost/updatePost
// mutation.
//
// @Summary      Upload a post image
// @Tags         images
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        image    formData  file    false  "Image file (png, jpg or jpeg)"
// @Param        oldPath  formData  string  false  "Previously stored path to clean up"
// @Success      200      {object}  uploadResponse  "No acceptable file was provided"
// @Success      201      {object}  uploadResponse
// @Failure      401      {object}  map[string]string
// @Failure      500      {object}  map[string]string
// @Router       /post-image [put]
func (h *UploadHandler) Upload(c echo.Context) error {
	if _, ok := middleware.IdentityFrom(c.Request().Context()); !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
	}

	file, err := c.FormFile("image")
	if err != nil {
		metrics.UploadsTotal.WithLabelValues("rejected").Inc()
		return c.JSON(http.StatusOK, uploadResponse{Message: "no image provided"})
	}
	if !acceptable(file.Header.Get("Content-Type")) {
		metrics.UploadsTotal.WithLabelValues("rejected").Inc()
		return c.JSON(http.StatusOK, uploadResponse{Message: "no image provided"})
	}

	src, err := file.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	// Replacing an image: the caller sends the path of the one being
	// superseded so it can be cleaned up as a side effect.
	if oldPath := c.FormValue("oldPath"); oldPath != "" {
		h.images.Remove(oldPath)
	}

	storedPath, err := h.images.Save(src, file.Filename)
	if err != nil {
		metrics.UploadsTotal.WithLabelValues("error").Inc()
		return err
	}

	metrics.UploadsTotal.WithLabelValues("stored").Inc()
	return c.JSON(http.StatusCreated, uploadResponse{Message: "image stored", FilePath: storedPath})
}

func acceptable(contentType string) bool {
	_, ok := allowedImageTypes[contentType]
	return ok
}
