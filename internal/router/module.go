package router

import "github.com/gin-gonic/gin"

// Module is one feature slice (auth, profile, farmers, crops, dashboard) that
// mounts its routes and per-route middleware on the group it is given.
type Module interface {
	Register(rg *gin.RouterGroup)
}
