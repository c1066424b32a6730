package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/tanisheesh/portfolio-api/internal/models"
	"github.com/tanisheesh/portfolio-api/internal/services"
)

// unknownIdentity is shared by every caller without an origin header
const unknownIdentity = "unknown"

type ContactHandler struct {
	service services.ContactServiceInterface
}

func NewContactHandler(service services.ContactServiceInterface) *ContactHandler {
	return &ContactHandler{service: service}
}

// Submit handles POST /api/contact
func (h *ContactHandler) Submit(c *gin.Context) {
	result := h.service.Submit(c.Request.Context(), CallerIdentity(c.Request), c.Request.Body)

	if result.Outcome != models.OutcomeSent {
		attachError(c, result.Err)
	}
	c.JSON(result.Outcome.StatusCode(), result.Response())
}

// CallerIdentity is the last X-Forwarded-For hop, then X-Real-IP, then "unknown".
// The last hop is the one appended by the proxy in front; earlier hops come
// from the client and would let it pick its own rate-limit bucket.
func CallerIdentity(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		last := forwarded[strings.LastIndex(forwarded, ",")+1:]
		if ip := strings.TrimSpace(last); ip != "" {
			return ip
		}
	}
	if realIP := strings.TrimSpace(r.Header.Get("X-Real-IP")); realIP != "" {
		return realIP
	}
	return unknownIdentity
}
