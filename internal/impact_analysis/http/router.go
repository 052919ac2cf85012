package http

import "github.com/gin-gonic/gin"

// Register registers the impact analysis routes.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.POST("/services", h.CreateService)
	rg.GET("/services", h.ListServices)
	rg.GET("/services/:id", h.GetService)
	rg.PATCH("/services/:id", h.UpdateService)
	rg.DELETE("/services/:id", h.DeleteService)

	rg.GET("/services/:id/impact", h.AnalyzeImpact)
	rg.GET("/services/:id/impact/graph.dot", h.ImpactDOT)

	rg.GET("/services/:id/dependencies", h.ListDependencies)
	rg.POST("/dependencies", h.CreateDependency)
	rg.DELETE("/dependencies/:id", h.DeleteDependency)

	rg.POST("/services/:id/versions", h.AddVersion)
	rg.GET("/services/:id/versions", h.ListVersions)

	rg.GET("/views/dependency-summary", h.DependencySummary)
	rg.GET("/views/cross-team-dependencies", h.CrossTeamDependencies)
}
