package app

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/folio/internal/config"
	"github.com/simp-lee/folio/internal/pkg"
)

// errorPage returns the page template for a status code. Client errors
// without a page of their own share the 400 page.
func errorPage(code int) string {
	switch {
	case code == http.StatusNotFound:
		return "errors/404.html"
	case code >= 400 && code < 500:
		return "errors/400.html"
	default:
		return "errors/500.html"
	}
}

// renderError answers a failed page request. Clients that prefer JSON get the
// response envelope, everyone else an error page. If the page cannot be
// rendered the reply is plain text.
func renderError(c *gin.Context, code int, message string, site config.SiteConfig) {
	if wantsJSON(c) {
		c.JSON(code, pkg.Response{Code: code, Message: message})
		return
	}

	defer func() {
		if r := recover(); r != nil {
			c.Data(code, "text/plain; charset=utf-8", []byte(fmt.Sprintf("%d %s", code, http.StatusText(code))))
		}
	}()
	c.HTML(code, errorPage(code), gin.H{"Site": site, "Status": code, "Message": message})
}

// wantsJSON reports whether the Accept header ranks JSON above HTML. An empty
// or wildcard header counts as a browser.
func wantsJSON(c *gin.Context) bool {
	return c.NegotiateFormat(gin.MIMEHTML, gin.MIMEJSON) == gin.MIMEJSON
}
