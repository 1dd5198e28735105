package handlers

import (
	"io/fs"
	"net/http"

	"myflix"

	"github.com/gin-gonic/gin"
)

const documentationPage = "documentation.html"

func publicFS() fs.FS {
	sub, err := fs.Sub(myflix.Public, "public")
	if err != nil {
		// only fails on a malformed path literal
		panic(err)
	}
	return sub
}

// welcome godoc
// @Summary  Welcome page
// @Tags     system
// @Produce  plain
// @Success  200  {string}  string
// @Router   / [get]
func (h *Handler) welcome(c *gin.Context) {
	c.String(http.StatusOK, "Welcome to myFlix Homepage")
}

// documentation godoc
// @Summary  API documentation page
// @Tags     system
// @Produce  html
// @Success  200  {string}  string
// @Router   /documentation [get]
func (h *Handler) documentation(c *gin.Context) {
	page, err := fs.ReadFile(publicFS(), documentationPage)
	if err != nil {
		h.respondError(c, err, "documentation_read_failed")
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", page)
}

// health godoc
// @Summary  Health check
// @Tags     system
// @Produce  json
// @Success  200  {object}  map[string]string
// @Router   /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
