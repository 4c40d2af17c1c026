package controllers

import (
	"bytes"
	"errors"
	"io"
	"net/http"

	"github.com/google/uuid"

	"github.com/shashiranjanraj/storefront/pkg/ctx"
	"github.com/shashiranjanraj/storefront/pkg/logger"
	"github.com/shashiranjanraj/storefront/pkg/storage"
)

const maxImageBytes = 10 << 20

// imageTypes maps sniffed content types to the extension files are stored
// under. The client's file name and declared type are ignored.
var imageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// UploadController stores product images on the configured disk.
type UploadController struct {
	disk storage.Disk
}

func NewUploadController(disk storage.Disk) *UploadController {
	return &UploadController{disk: disk}
}

// Image POST /api/admin/images (multipart field "image")
func (h *UploadController) Image(c *ctx.Context) {
	c.R.Body = http.MaxBytesReader(c.W, c.R.Body, maxImageBytes)
	if err := c.R.ParseMultipartForm(maxImageBytes); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			c.Error(http.StatusRequestEntityTooLarge, "Image is too large")
			return
		}
		c.Error(http.StatusBadRequest, "Expected a multipart form with an image field")
		return
	}

	file, header, err := c.R.FormFile("image")
	if err != nil {
		c.Error(http.StatusBadRequest, "image is required")
		return
	}
	defer file.Close()

	head := make([]byte, 512)
	n, err := io.ReadFull(file, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		c.Error(http.StatusBadRequest, "Could not read image")
		return
	}
	head = head[:n]

	contentType := http.DetectContentType(head)
	ext, ok := imageTypes[contentType]
	if !ok {
		c.Error(http.StatusBadRequest, "Only JPEG, PNG, GIF and WebP images are accepted")
		return
	}
	name := "products/" + uuid.NewString() + ext

	if err := h.disk.PutStream(c.Context(), name, io.MultiReader(bytes.NewReader(head), file), contentType); err != nil {
		logger.WithCtx(c.Context()).Error("image upload failed", "path", name, "error", err)
		c.Error(http.StatusInternalServerError, "Could not store image")
		return
	}

	logger.WithCtx(c.Context()).Info("image uploaded", "path", name, "bytes", header.Size)
	c.JSON(http.StatusCreated, map[string]any{"url": h.disk.URL(name), "path": name})
}
