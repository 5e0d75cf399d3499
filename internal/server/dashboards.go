package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Skufu/medplat/internal/auth"
	"github.com/Skufu/medplat/internal/store"
)

type dashboardRequest struct {
	ID      string          `json:"id"`
	Name    string          `json:"name"`
	Widgets *[]store.Widget `json:"widgets"`
}

func (a *API) listDashboards(c *gin.Context) {
	user, _ := auth.CurrentUser(c)
	dashboards, err := a.store.ListDashboards(c.Request.Context(), user.Username)
	if err != nil {
		writeError(c, err, "Failed to fetch dashboards")
		return
	}
	c.JSON(http.StatusOK, gin.H{"dashboards": dashboards})
}

func (a *API) getDashboard(c *gin.Context) {
	user, _ := auth.CurrentUser(c)
	d, err := a.store.GetDashboard(c.Request.Context(), user.Username, c.Param("id"))
	if err != nil {
		writeError(c, err, "Failed to fetch dashboard")
		return
	}
	c.JSON(http.StatusOK, gin.H{"dashboard": d})
}

// saveDashboard creates a dashboard, or updates the caller's dashboard when
// an id is given.
// @Summary Save dashboard
// @Tags dashboards
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dashboardRequest true "Dashboard"
// @Success 200 {object} map[string]interface{} "dashboard"
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/dashboards [post]
func (a *API) saveDashboard(c *gin.Context) {
	var req dashboardRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Name) == "" || req.Widgets == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name and widgets required"})
		return
	}

	user, _ := auth.CurrentUser(c)
	d := &store.Dashboard{
		ID:      req.ID,
		Owner:   user.Username,
		Name:    req.Name,
		Widgets: *req.Widgets,
	}
	if err := a.store.SaveDashboard(c.Request.Context(), d); err != nil {
		writeError(c, err, "Failed to save dashboard")
		return
	}
	c.JSON(http.StatusOK, gin.H{"dashboard": d})
}

func (a *API) deleteDashboard(c *gin.Context) {
	user, _ := auth.CurrentUser(c)
	if err := a.store.DeleteDashboard(c.Request.Context(), user.Username, c.Param("id")); err != nil {
		writeError(c, err, "Failed to delete dashboard")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
