package web

import (
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yourusername/tile-inventory/internal/domain/constants"
)

// toast is a one-shot notification shown after a redirect.
type toast struct {
	Kind    string `json:"k"` // success, warning, danger, info
	Title   string `json:"t"`
	Message string `json:"m,omitempty"`
}

func setFlash(c *gin.Context, kind, title, message string) {
	raw, err := json.Marshal(toast{Kind: kind, Title: title, Message: message})
	if err != nil {
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(constants.FlashCookieName, base64.RawURLEncoding.EncodeToString(raw), 60, "/", "", false, true)
}

// popFlash reads and clears the pending toast.
func popFlash(c *gin.Context) *toast {
	v, err := c.Cookie(constants.FlashCookieName)
	if err != nil || v == "" {
		return nil
	}
	c.SetCookie(constants.FlashCookieName, "", -1, "/", "", false, true)
	raw, err := base64.RawURLEncoding.DecodeString(v)
	if err != nil {
		return nil
	}
	var t toast
	if err := json.Unmarshal(raw, &t); err != nil {
		return nil
	}
	return &t
}

func flashSuccess(c *gin.Context, title, message string) { setFlash(c, "success", title, message) }

func flashWarning(c *gin.Context, title, message string) { setFlash(c, "warning", title, message) }

func flashError(c *gin.Context, title, message string) { setFlash(c, "danger", title, message) }
