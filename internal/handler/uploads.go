package handler

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ticketing-console/labeldesigner/internal/layout"
	"github.com/ticketing-console/labeldesigner/internal/models"
)

// readUpload reads a multipart file, enforcing the upload size limit and
// that the content is an image.
func (h *Handler) readUpload(fh *multipart.FileHeader) ([]byte, string, error) {
	if h.maxUpload > 0 && fh.Size > h.maxUpload {
		return nil, "", fmt.Errorf("%w: %s exceeds %d bytes", layout.ErrInvalidValue, fh.Filename, h.maxUpload)
	}

	f, err := fh.Open()
	if err != nil {
		return nil, "", fmt.Errorf("failed to open %s: %w", fh.Filename, err)
	}
	defer f.Close()

	r := io.Reader(f)
	if h.maxUpload > 0 {
		r = io.LimitReader(f, h.maxUpload+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read %s: %w", fh.Filename, err)
	}
	if h.maxUpload > 0 && int64(len(data)) > h.maxUpload {
		return nil, "", fmt.Errorf("%w: %s exceeds %d bytes", layout.ErrInvalidValue, fh.Filename, h.maxUpload)
	}

	contentType := http.DetectContentType(data)
	if !strings.HasPrefix(contentType, "image/") {
		return nil, "", fmt.Errorf("%w: %s is not an image (%s)", layout.ErrInvalidValue, fh.Filename, contentType)
	}
	return data, contentType, nil
}

// Upload stores several images at once. Files are uploaded in parallel and
// every file gets its own result; one failure never aborts the others.
func (h *Handler) Upload(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		badRequest(c, "expected a multipart form: "+err.Error())
		return
	}
	files := form.File["files"]
	if len(files) == 0 {
		badRequest(c, "no files were uploaded")
		return
	}

	ctx := c.Request.Context()
	results := make([]models.UploadResult, len(files))

	var g errgroup.Group
	for i, fh := range files {
		i, fh := i, fh
		g.Go(func() error {
			results[i].Filename = fh.Filename

			data, contentType, err := h.readUpload(fh)
			if err == nil {
				results[i].URL, err = h.api.Upload(ctx, fh.Filename, contentType, data)
			}
			if err != nil {
				h.logger.Warn("Upload failed", zap.String("filename", fh.Filename), zap.Error(err))
				results[i].Error = err.Error()
			}
			return nil
		})
	}
	_ = g.Wait()

	c.JSON(http.StatusOK, models.UploadsResponse{Data: results})
}

// UploadImage uploads an image for an image placement and points the
// placement at it. On failure the placement keeps its previous image.
func (h *Handler) UploadImage(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	pid := c.Param("pid")

	var key string
	_ = s.Do(func(ed *layout.Editor) error {
		if p, found := ed.Document().Placement(pid); found {
			key = p.Key
		}
		return nil
	})
	if key == "" {
		h.respondError(c, "upload image", fmt.Errorf("%w: %s", layout.ErrPlacementNotFound, pid))
		return
	}
	if layout.KindOf(key) != layout.KindImage {
		badRequest(c, "placement "+pid+" does not hold an image")
		return
	}

	fh, err := c.FormFile("file")
	if err != nil {
		badRequest(c, "expected a file field: "+err.Error())
		return
	}
	data, contentType, err := h.readUpload(fh)
	if err != nil {
		h.respondError(c, "upload image", err)
		return
	}

	// Upload without holding the editor lock.
	url, err := h.api.Upload(c.Request.Context(), fh.Filename, contentType, data)
	if err != nil {
		h.logger.Error("Failed to upload image",
			zap.String("session_id", s.ID),
			zap.String("placement_id", pid),
			zap.Error(err),
		)
		c.JSON(http.StatusBadGateway, models.ErrorResponse{
			Error:   "upload_failed",
			Message: "failed to upload image: " + err.Error(),
		})
		return
	}

	h.edit(c, "upload image", http.StatusOK, func(ed *layout.Editor) error {
		return ed.Document().UpdateProperty(pid, "imageUrl", url)
	})
}
