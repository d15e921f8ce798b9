package api

import (
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/AnweshaPanigrahi/File-integrity/internal/hash"
	"github.com/AnweshaPanigrahi/File-integrity/internal/monitor"
)

// maxUploadSize caps uploads at 100MB
const maxUploadSize = 100 * 1024 * 1024

// Handler contains all HTTP handlers
type Handler struct {
	Registry *monitor.Registry
	Watcher  *monitor.Watcher
	Changes  *monitor.ChangeLog
	Logger   *zap.Logger
}

// NewHandler creates a new handler instance
func NewHandler(registry *monitor.Registry, watcher *monitor.Watcher, changes *monitor.ChangeLog, logger *zap.Logger) *Handler {
	return &Handler{
		Registry: registry,
		Watcher:  watcher,
		Changes:  changes,
		Logger:   logger,
	}
}

// HashUpload handles POST /api/hash: multipart file + algorithm field
func (h *Handler) HashUpload(c *gin.Context) {
	data, ok := h.readUpload(c)
	if !ok {
		return
	}

	algo, ok := h.parseAlgorithm(c)
	if !ok {
		return
	}

	digest, err := hash.Sum(data, algo)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.Logger.Info("hashed upload",
		zap.String("algorithm", string(algo)),
		zap.Int("size_bytes", len(data)))

	c.JSON(http.StatusOK, gin.H{
		"algorithm":  algo,
		"digest":     digest,
		"size_bytes": len(data),
	})
}

// VerifyUpload handles POST /api/verify: multipart file + algorithm +
// checksum fields
func (h *Handler) VerifyUpload(c *gin.Context) {
	data, ok := h.readUpload(c)
	if !ok {
		return
	}

	algo, ok := h.parseAlgorithm(c)
	if !ok {
		return
	}

	verification, err := hash.Verify(data, algo, c.PostForm("checksum"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.Logger.Info("verified upload",
		zap.String("algorithm", string(algo)),
		zap.Bool("match", verification.Match))

	c.JSON(http.StatusOK, verification)
}

// HealthCheck returns server health status
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "time": time.Now()})
}

// APIInfo returns API documentation for programmatic clients
func (h *Handler) APIInfo(c *gin.Context) {
	endpoints := []gin.H{
		{"method": "GET", "path": "/health", "description": "Health check"},
		{"method": "GET", "path": "/api", "description": "API documentation"},

		// Hashing
		{"method": "POST", "path": "/api/hash", "description": "Hash an uploaded file", "body": "file (multipart), algorithm (sha256/md5)"},
		{"method": "POST", "path": "/api/verify", "description": "Verify an uploaded file against a checksum", "body": "file (multipart), algorithm, checksum"},

		// Directory monitoring
		{"method": "POST", "path": "/api/directories", "description": "Register a directory for monitoring", "body": "path"},
		{"method": "GET", "path": "/api/directories/:name/changes", "description": "Rescan a directory and report changes"},
		{"method": "GET", "path": "/api/directories/:name/files", "description": "List tracked files in a directory"},
		{"method": "DELETE", "path": "/api/directories/:name", "description": "Unregister a directory"},
	}

	c.JSON(http.StatusOK, gin.H{
		"name":      "file-integrity",
		"endpoints": endpoints,
	})
}

// readUpload pulls the multipart "file" field fully into memory
func (h *Handler) readUpload(c *gin.Context) ([]byte, bool) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file provided"})
		return nil, false
	}
	defer file.Close()

	if header.Size > maxUploadSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File too large (max 100MB)"})
		return nil, false
	}

	data, err := io.ReadAll(file)
	if err != nil {
		h.Logger.Warn("failed to read upload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read file"})
		return nil, false
	}
	if len(data) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Empty file"})
		return nil, false
	}

	return data, true
}

func (h *Handler) parseAlgorithm(c *gin.Context) (hash.Algorithm, bool) {
	algo, err := hash.Parse(c.PostForm("algorithm"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return "", false
	}
	return algo, true
}
