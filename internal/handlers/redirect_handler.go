package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// RedirectHandler permanently moves every request to another origin
type RedirectHandler struct {
	target string
}

func NewRedirectHandler(target string) *RedirectHandler {
	return &RedirectHandler{target: strings.TrimRight(target, "/")}
}

// Redirect keeps the path and query of the original request
func (h *RedirectHandler) Redirect(c *gin.Context) {
	c.Redirect(http.StatusMovedPermanently, h.target+c.Request.RequestURI)
}
