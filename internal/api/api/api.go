package api

import (
	"github.com/gin-contrib/cors"
	"github.com/wb-go/wbf/ginext"

	"engineersday/cmd/middleware"
	"engineersday/internal/service"
)

type Routers struct {
	Service service.Service
}

func NewRouters(r *Routers) *ginext.Engine {
	app := ginext.New("release")

	app.Use(middleware.LoggingMiddleware())
	app.Use(cors.Default())
	apiGroup := app.Group("/v1")

	apiGroup.POST("/events/:id/register", r.Service.Register)
	apiGroup.GET("/events/:id", r.Service.GetInfo)
	apiGroup.GET("/events", r.Service.GetAllEvents)
	apiGroup.GET("/status", r.Service.Status)
	apiGroup.GET("/admin/registrations/export", r.Service.ExportRegistrations)

	app.GET("/", func(c *ginext.Context) {
		c.File("./frontend/index.html")
	})
	app.Static("/frontend", "./frontend")

	return app
}
