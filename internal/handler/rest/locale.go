package rest

import (
	"github.com/gin-gonic/gin"
	goi18n "github.com/nicksnyder/go-i18n/i18n"

	"github.com/webitel/video-exporter/internal/locale"
)

const translateKey = "video_exporter.translate"

// Localize resolves the request's translate func from Accept-Language.
func Localize(tr *locale.Translator) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(translateKey, tr.Tfunc(c.GetHeader("Accept-Language")))
		c.Next()
	}
}

func translator(c *gin.Context) goi18n.TranslateFunc {
	if v, ok := c.Get(translateKey); ok {
		if T, ok := v.(goi18n.TranslateFunc); ok {
			return T
		}
	}
	return goi18n.IdentityTfunc()
}
