package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/GoSim-25-26J-441/impact-analysis-backend/internal/impact_analysis/domain"
	"github.com/GoSim-25-26J-441/impact-analysis-backend/internal/impact_analysis/visualization"
	"github.com/gin-gonic/gin"
)

// AnalyzeImpact serves GET /services/:id/impact?type=full&max_depth=3.
func (h *Handler) AnalyzeImpact(c *gin.Context) {
	res, ok := h.runAnalysis(c)
	if !ok {
		return
	}
	c.Header("X-Cache", cacheHeader(res))
	c.JSON(http.StatusOK, gin.H{"ok": true, "analysis": res})
}

// ImpactDOT serves the same analysis rendered as Graphviz.
func (h *Handler) ImpactDOT(c *gin.Context) {
	res, ok := h.runAnalysis(c)
	if !ok {
		return
	}
	title := res.ServiceName + " (" + string(res.AnalysisType) + ")"
	c.Header("X-Cache", cacheHeader(res))
	c.Data(http.StatusOK, "text/vnd.graphviz; charset=utf-8", []byte(visualization.ToDOT(res.VisualizationData, title)))
}

func (h *Handler) runAnalysis(c *gin.Context) (*domain.ImpactAnalysisResult, bool) {
	serviceID := c.Param("id")
	if serviceID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "service ID is required"})
		return nil, false
	}

	analysisType := domain.AnalysisType(strings.ToLower(c.DefaultQuery("type", string(domain.AnalysisFull))))
	depth := h.defaultDepth
	if raw := c.Query("max_depth"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > h.analyzer.MaxDepthLimit() {
			c.JSON(http.StatusBadRequest, gin.H{
				"ok":              false,
				"error":           domain.ErrInvalidDepth.Error(),
				"max_depth_limit": h.analyzer.MaxDepthLimit(),
			})
			return nil, false
		}
		depth = n
	}

	res, err := h.analyzer.AnalyzeImpact(c.Request.Context(), serviceID, analysisType, depth)
	if err != nil {
		writeError(c, err)
		return nil, false
	}
	return res, true
}

func cacheHeader(res *domain.ImpactAnalysisResult) string {
	if res.FromCache {
		return "HIT"
	}
	return "MISS"
}

func (h *Handler) CreateService(c *gin.Context) {
	var req createServiceReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}
	svc := &domain.Service{
		ID:            strings.TrimSpace(req.ID),
		Name:          req.Name,
		TeamID:        req.TeamID,
		RepositoryURL: req.RepositoryURL,
		Description:   req.Description,
		ServiceType:   req.ServiceType,
		Status:        domain.ServiceStatus(req.Status),
		Metadata:      domain.Attrs(req.Metadata),
	}
	if err := h.store.CreateService(c.Request.Context(), svc); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true, "service": svc})
}

func (h *Handler) ListServices(c *gin.Context) {
	f := domain.ServiceFilter{
		TeamID: c.Query("team_id"),
		Status: domain.ServiceStatus(c.Query("status")),
	}
	items, err := h.store.ListServices(c.Request.Context(), f)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "services": items})
}

func (h *Handler) GetService(c *gin.Context) {
	svc, err := h.store.GetService(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "service": svc})
}

func (h *Handler) UpdateService(c *gin.Context) {
	var req domain.ServiceUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}
	svc, err := h.store.UpdateService(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "service": svc})
}

func (h *Handler) DeleteService(c *gin.Context) {
	if err := h.store.DeleteService(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) CreateDependency(c *gin.Context) {
	var req createDependencyReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}
	dep := &domain.Dependency{
		SourceServiceID: req.SourceServiceID,
		TargetServiceID: req.TargetServiceID,
		DependencyType:  domain.DependencyType(req.DependencyType),
		Criticality:     domain.Criticality(req.Criticality),
		Description:     req.Description,
		Metadata:        domain.Attrs(req.Metadata),
	}
	if err := h.store.CreateDependency(c.Request.Context(), dep); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true, "dependency": dep})
}

func (h *Handler) ListDependencies(c *gin.Context) {
	items, err := h.store.ListDependencies(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "dependencies": items})
}

func (h *Handler) DeleteDependency(c *gin.Context) {
	if err := h.store.DeleteDependency(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) AddVersion(c *gin.Context) {
	var req addVersionReq
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Version) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}
	v := &domain.ServiceVersion{
		ServiceID:       c.Param("id"),
		Version:         strings.TrimSpace(req.Version),
		ReleaseNotes:    req.ReleaseNotes,
		BreakingChanges: req.BreakingChanges,
		Metadata:        domain.Attrs(req.Metadata),
	}
	if req.DeploymentDate != nil {
		v.DeploymentDate = *req.DeploymentDate
	}
	if err := h.store.AddVersion(c.Request.Context(), v); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true, "version": v})
}

func (h *Handler) ListVersions(c *gin.Context) {
	items, err := h.store.ListVersions(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "versions": items})
}

func (h *Handler) DependencySummary(c *gin.Context) {
	items, err := h.store.DependencySummaries(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "summary": items})
}

func (h *Handler) CrossTeamDependencies(c *gin.Context) {
	items, err := h.store.CrossTeamDependencies(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "dependencies": items})
}

func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	msg := "internal error"
	switch {
	case errors.Is(err, domain.ErrServiceNotFound), errors.Is(err, domain.ErrDependencyNotFound):
		status, msg = http.StatusNotFound, err.Error()
	case errors.Is(err, domain.ErrDuplicateService), errors.Is(err, domain.ErrDuplicateDependency):
		status, msg = http.StatusConflict, err.Error()
	case errors.Is(err, domain.ErrInvalidDepth),
		errors.Is(err, domain.ErrInvalidAnalysisType),
		errors.Is(err, domain.ErrSelfDependency),
		errors.Is(err, domain.ErrInvalidCriticality),
		errors.Is(err, domain.ErrInvalidStatus),
		errors.Is(err, domain.ErrInvalidDependency),
		errors.Is(err, domain.ErrInvalidService):
		status, msg = http.StatusBadRequest, err.Error()
	}
	c.JSON(status, gin.H{"ok": false, "error": msg})
}
