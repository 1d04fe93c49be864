package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/planframe/planframe/internal/assets"
	"github.com/planframe/planframe/internal/middleware"
	"github.com/planframe/planframe/internal/visibility"
	"go.uber.org/zap"
)

// Media uploads are capped well above any platform's limit; the point is
// bounding memory per request, not policing content length precisely.
const maxUploadBytes = 512 << 20

// AssetHandler handles media uploads to object storage.
type AssetHandler struct {
	store    *assets.Store
	maxBytes int64
	logger   *zap.Logger
}

func NewAssetHandler(store *assets.Store, logger *zap.Logger) *AssetHandler {
	return &AssetHandler{store: store, maxBytes: maxUploadBytes, logger: logger}
}

type uploadResponse struct {
	URL string `json:"url"`
}

// Upload handles POST /v1/assets (multipart: file + workspace_id field).
// Staff only; the workspace must be visible to the uploader.
func (h *AssetHandler) Upload(c *gin.Context) {
	// The cap must be in place before any form access: the first PostForm
	// or FormFile call parses and buffers the entire multipart body.
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBytes)

	role := middleware.GetRole(c)
	if !role.IsAccountManager() {
		c.JSON(http.StatusForbidden, gin.H{"error": "staff access required"})
		return
	}

	if _, err := c.MultipartForm(); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "upload exceeds size limit"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid multipart request"})
		return
	}

	workspaceID, err := uuid.Parse(c.PostForm("workspace_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "workspace_id form field is required"})
		return
	}
	if !visibility.Workspace(workspaceID, role, middleware.GetFacts(c)) {
		c.JSON(http.StatusNotFound, gin.H{"error": "workspace not found"})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file form field is required"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.logger.Error("failed to open upload", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "upload failed"})
		return
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	url, err := h.store.Upload(c.Request.Context(), workspaceID, fileHeader.Filename, contentType, file)
	if err != nil {
		h.logger.Error("failed to upload asset", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "upload failed"})
		return
	}

	c.JSON(http.StatusCreated, uploadResponse{URL: url})
}
