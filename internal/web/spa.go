// Package web serves the compiled single page application.
package web

import (
	"bytes"
	"io"
	"io/fs"
	"log"
	"net/http"
	"path"
	"strings"

	"github.com/labstack/echo/v4"
)

const (
	// contentTypeHTML is the Content-Type header value for HTML responses
	contentTypeHTML = "text/html; charset=utf-8"

	// contentTypeWasm is the MIME type browsers require for streaming compilation
	contentTypeWasm = "application/wasm"

	// cacheControlNoCache keeps clients from holding on to a stale HTML shell
	cacheControlNoCache = "no-cache, no-store, must-revalidate"
)

// SPAHandler serves static assets and falls back to the default document for
// every path that is not an asset, so client-side routing can take over.
type SPAHandler struct {
	assets fs.FS
	index  string
	ignore []string
}

// NewSPAHandler creates a handler serving assets with index as the default document.
// Files whose extension is listed in ignore are never served.
func NewSPAHandler(assets fs.FS, index string, ignore []string) *SPAHandler {
	return &SPAHandler{
		assets: assets,
		index:  strings.TrimPrefix(index, "/"),
		ignore: ignore,
	}
}

// ServeApp serves the requested asset or the default document
func (h *SPAHandler) ServeApp(c echo.Context) error {
	name := strings.TrimPrefix(path.Clean("/"+c.Request().URL.Path), "/")
	if name == "" || name == h.index || h.ignored(name) {
		return h.serveIndex(c)
	}

	info, err := fs.Stat(h.assets, name)
	if err != nil {
		return h.serveIndex(c)
	}
	if info.IsDir() {
		name = path.Join(name, h.index)
		if info, err = fs.Stat(h.assets, name); err != nil || info.IsDir() {
			return h.serveIndex(c)
		}
	}

	return h.serveFile(c, name, info)
}

func (h *SPAHandler) serveFile(c echo.Context, name string, info fs.FileInfo) error {
	file, err := h.assets.Open(name)
	if err != nil {
		return h.serveIndex(c)
	}
	defer closeWithLog(file, name)

	content, ok := file.(io.ReadSeeker)
	if !ok {
		data, err := io.ReadAll(file)
		if err != nil {
			log.Printf("Failed to read asset %s: %v", name, err)
			return echo.NewHTTPError(http.StatusInternalServerError, "Failed to read asset")
		}
		content = bytes.NewReader(data)
	}

	http.ServeContent(c.Response(), c.Request(), info.Name(), info.ModTime(), content)
	return nil
}

func (h *SPAHandler) serveIndex(c echo.Context) error {
	content, err := fs.ReadFile(h.assets, h.index)
	if err != nil {
		log.Printf("Failed to read default document %s: %v", h.index, err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load page")
	}

	// The fallback is always HTML, even for a missing .wasm path
	header := c.Response().Header()
	header.Set(echo.HeaderContentType, contentTypeHTML)
	header.Set(echo.HeaderCacheControl, cacheControlNoCache)
	header.Set("Pragma", "no-cache")
	header.Set("Expires", "0")

	return c.Blob(http.StatusOK, contentTypeHTML, content)
}

func (h *SPAHandler) ignored(name string) bool {
	ext := path.Ext(name)
	for _, ignored := range h.ignore {
		if strings.EqualFold(ext, ignored) {
			return true
		}
	}
	return false
}

// WasmContentType forces the wasm MIME type on .wasm requests; some platforms'
// extension tables map it to application/octet-stream.
func WasmContentType() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if strings.HasSuffix(c.Request().URL.Path, ".wasm") {
				c.Response().Header().Set(echo.HeaderContentType, contentTypeWasm)
			}
			return next(c)
		}
	}
}

func closeWithLog(f fs.File, name string) {
	if err := f.Close(); err != nil {
		log.Printf("Error closing %s: %v", name, err)
	}
}
