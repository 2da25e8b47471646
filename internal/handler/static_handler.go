package handler

import (
	"net/http"
	"os"
	"path"
	"path/filepath"

	"gptading/backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

const indexFile = "index.html"

// StaticHandler serves the built front end from a directory
type StaticHandler struct {
	webDir   string
	fallback []byte
	log      *logger.Logger
}

// NewStaticHandler serves files under webDir. fallback is the shell used when
// webDir has no index.html.
func NewStaticHandler(webDir string, fallback []byte, log *logger.Logger) *StaticHandler {
	return &StaticHandler{webDir: webDir, fallback: fallback, log: log}
}

// Index handles GET /
func (h *StaticHandler) Index(c *gin.Context) {
	h.writeIndex(c, http.StatusOK)
}

// NotFound serves an existing asset, otherwise the shell with status 404
func (h *StaticHandler) NotFound(c *gin.Context) {
	if c.Request.Method == http.MethodGet || c.Request.Method == http.MethodHead {
		if file, ok := h.resolve(c.Request.URL.Path); ok {
			c.File(file)
			return
		}
	}
	h.writeIndex(c, http.StatusNotFound)
}

// resolve maps a URL path to a regular file inside webDir
func (h *StaticHandler) resolve(urlPath string) (string, bool) {
	clean := path.Clean("/" + urlPath)
	if clean == "/" {
		return "", false
	}
	file := filepath.Join(h.webDir, filepath.FromSlash(clean))
	info, err := os.Stat(file)
	if err != nil || info.IsDir() {
		return "", false
	}
	return file, true
}

func (h *StaticHandler) writeIndex(c *gin.Context, status int) {
	body, err := os.ReadFile(filepath.Join(h.webDir, indexFile))
	if err != nil {
		if !os.IsNotExist(err) {
			h.log.Warnf("Failed to read %s: %v", indexFile, err)
		}
		body = h.fallback
	}
	c.Data(status, "text/html; charset=utf-8", body)
}
