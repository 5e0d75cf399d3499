package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Skufu/medplat/internal/analytics"
	"github.com/Skufu/medplat/internal/forecast"
	"github.com/Skufu/medplat/internal/query"
)

type queryRequest struct {
	Query string `json:"query"`
}

// query answers a keyword query over the stored rows.
// @Summary Keyword query
// @Description Understands "fields", total/sum, average/mean, min, max and "by <field>".
// @Tags analytics
// @Accept json
// @Produce json
// @Param body body queryRequest true "Query text"
// @Success 200 {object} query.Result
// @Failure 400 {object} map[string]interface{}
// @Router /api/ai/nlp [post]
func (a *API) query(c *gin.Context) {
	var req queryRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Query) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"reply": "Query is required.", "error": "Query is required."})
		return
	}

	rows, fields, err := a.loadRows(c.Request.Context())
	if err != nil {
		writeError(c, err, "Failed to process query")
		return
	}

	res, err := query.Run(req.Query, rows, fields)
	if err != nil {
		writeError(c, err, "Failed to process query")
		return
	}
	c.JSON(http.StatusOK, res)
}

type anomalyRequest struct {
	Field     string `json:"field"`
	Threshold any    `json:"threshold"`
}

// anomaly flags rows far from the mean of a numeric field.
// @Summary Anomaly detection
// @Tags analytics
// @Accept json
// @Produce json
// @Param body body anomalyRequest true "Field and optional threshold"
// @Success 200 {object} analytics.AnomalyReport
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /anomaly [post]
func (a *API) anomaly(c *gin.Context) {
	var req anomalyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	if req.Field == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing field parameter"})
		return
	}

	rows, _, err := a.loadRows(c.Request.Context())
	if err != nil {
		writeError(c, err, "Failed to detect anomalies")
		return
	}

	report, err := analytics.DetectAnomalies(rows, req.Field, analytics.Threshold(req.Threshold))
	if err != nil {
		writeError(c, err, "Failed to detect anomalies")
		return
	}
	c.JSON(http.StatusOK, report)
}

// forecast runs the external forecasting process over (date, value) pairs.
// @Summary Forecast
// @Tags analytics
// @Accept json
// @Produce json
// @Param body body forecast.Request true "Field, periods and frequency"
// @Success 200 {object} forecast.Result
// @Failure 400 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /forecast [post]
func (a *API) forecast(c *gin.Context) {
	var req forecast.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	if req.Field == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing field parameter"})
		return
	}

	rows, _, err := a.loadRows(c.Request.Context())
	if err != nil {
		writeError(c, err, "Failed to run forecast")
		return
	}

	res, err := a.forecaster.Forecast(c.Request.Context(), rows, req)
	if err != nil {
		writeError(c, err, "Failed to run forecast")
		return
	}
	c.JSON(http.StatusOK, res)
}
