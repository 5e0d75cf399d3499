package server

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Skufu/medplat/internal/analytics"
	"github.com/Skufu/medplat/internal/dataset"
	"github.com/Skufu/medplat/internal/ingest"
)

// upload stores rows from a multipart file or a JSON body.
// @Summary Upload data
// @Description Accepts a CSV, JSON or XLSX file in the "file" form field, or a JSON array body.
// @Tags data
// @Accept mpfd,json
// @Produce json
// @Security BearerAuth
// @Param file formData file false "CSV, JSON or XLSX file"
// @Success 200 {object} map[string]interface{} "status, inserted_count, batch_id"
// @Failure 400 {object} map[string]interface{} "Unsupported file type or no data"
// @Failure 403 {object} map[string]interface{} "Admins only"
// @Router /api/upload [post]
func (a *API) upload(c *gin.Context) {
	var (
		rows   []dataset.Row
		source string
		err    error
	)

	if strings.HasPrefix(c.ContentType(), "multipart/") {
		fh, ferr := c.FormFile("file")
		if ferr != nil {
			if tooLarge(ferr) {
				writeError(c, ferr, "")
				return
			}
			c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
			return
		}
		source = fh.Filename

		format, ferr := ingest.FormatFromName(fh.Filename)
		if ferr != nil {
			writeError(c, ferr, "")
			return
		}
		f, ferr := fh.Open()
		if ferr != nil {
			writeError(c, ferr, "Failed to process file")
			return
		}
		defer f.Close()
		rows, err = ingest.Parse(format, f)
	} else {
		source = "request body"
		rows, err = ingest.ParseJSON(c.Request.Body)
		if errors.Is(err, ingest.ErrMalformed) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload", "details": err.Error()})
			return
		}
	}
	if err != nil {
		writeError(c, err, "Failed to process file")
		return
	}

	batchID := uuid.NewString()
	n, err := a.store.InsertRows(c.Request.Context(), batchID, rows)
	if err != nil {
		writeError(c, err, "Failed to store data")
		return
	}
	a.logger.Info("rows uploaded", "source", source, "batch", batchID, "count", n)

	c.JSON(http.StatusOK, gin.H{
		"status":         "uploaded",
		"inserted_count": n,
		"batch_id":       batchID,
	})
}

// listData returns stored rows, capped at the configured data limit.
// @Summary List rows
// @Tags data
// @Produce json
// @Param limit query int false "Maximum rows to return"
// @Success 200 {object} map[string]interface{} "data"
// @Router /api/data [get]
func (a *API) listData(c *gin.Context) {
	limit := a.opts.DataLimit
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n < limit {
			limit = n
		}
	}

	rows, err := a.store.ListRows(c.Request.Context(), limit)
	if err != nil {
		writeError(c, err, "Failed to fetch data")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": rows})
}

func (a *API) fields(c *gin.Context) {
	_, fields, err := a.loadRows(c.Request.Context())
	if err != nil {
		writeError(c, err, "Failed to fetch data")
		return
	}
	c.JSON(http.StatusOK, fields)
}

// summary describes the whole collection; ?format=text renders plain text.
// @Summary Data summary
// @Tags data
// @Produce json,plain
// @Param format query string false "json or text"
// @Success 200 {object} analytics.Summary
// @Router /api/data/summary [get]
func (a *API) summary(c *gin.Context) {
	rows, fields, err := a.loadRows(c.Request.Context())
	if err != nil {
		writeError(c, err, "Failed to summarize data")
		return
	}
	s := analytics.Summarize(rows, fields)
	if strings.EqualFold(c.Query("format"), "text") {
		c.String(http.StatusOK, s.Text())
		return
	}
	c.JSON(http.StatusOK, s)
}

func (a *API) deleteData(c *gin.Context) {
	n, err := a.store.DeleteRows(c.Request.Context())
	if err != nil {
		writeError(c, err, "Failed to delete data")
		return
	}
	a.logger.Info("rows deleted", "count", n)
	c.JSON(http.StatusOK, gin.H{"status": "deleted", "deleted_count": n})
}

// chart groups rows by x and sums y.
// @Summary Chart series
// @Tags analytics
// @Produce json
// @Param x query string false "Group field"
// @Param y query string false "Value field"
// @Param interval query string false "none, monthly, half-yearly or yearly"
// @Success 200 {object} analytics.Series
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/chart [get]
func (a *API) chart(c *gin.Context) {
	interval, err := analytics.ParseInterval(c.Query("interval"))
	if err != nil {
		writeError(c, err, "")
		return
	}

	rows, fields, err := a.loadRows(c.Request.Context())
	if err != nil {
		writeError(c, err, "Failed to fetch data")
		return
	}

	series, err := analytics.BuildSeries(rows, fields, c.Query("x"), c.Query("y"), interval)
	if err != nil {
		writeError(c, err, "Failed to build chart")
		return
	}
	c.JSON(http.StatusOK, series)
}
