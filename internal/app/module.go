package app

import "github.com/gin-gonic/gin"

// Module defines the contract for a self-registering business module.
// api is public JSON, admin is JSON behind the bearer token check and pages
// is server-rendered HTML behind the CSRF check.
type Module interface {
	RegisterRoutes(api, admin, pages *gin.RouterGroup)
}
