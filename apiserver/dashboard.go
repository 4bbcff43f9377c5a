package apiserver

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/netrixframework/kbandit/log"
	"github.com/netrixframework/kbandit/random"
	"github.com/netrixframework/kbandit/report"
)

func (srv *APIServer) setupChartRoutes(group *gin.RouterGroup) {
	group.GET("/rewards", srv.handleRewardsChart)
	group.GET("/optimal", srv.handleOptimalChart)
	group.GET("/distribution/:index", srv.handleDistributionChart)
}

func (srv *APIServer) renderChart(c *gin.Context, chart report.Renderer) {
	buf := new(bytes.Buffer)
	if err := chart.Render(buf); err != nil {
		srv.Logger.With(log.LogParams{"error": err}).Error("Failed to render chart")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to render chart"})
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

func (srv *APIServer) handleRewardsChart(c *gin.Context) {
	result, ok := srv.withResult(c)
	if !ok {
		return
	}
	srv.renderChart(c, report.RewardsChart(result))
}

func (srv *APIServer) handleOptimalChart(c *gin.Context) {
	result, ok := srv.withResult(c)
	if !ok {
		return
	}
	srv.renderChart(c, report.OptimalChart(result))
}

func (srv *APIServer) handleDistributionChart(c *gin.Context) {
	result, ok := srv.withResult(c)
	if !ok {
		return
	}
	index, ok := srv.configParam(c, result)
	if !ok {
		return
	}
	// same samples on every request
	src := random.NewSource(random.Derive(result.Seed, uint64(index)))
	srv.renderChart(c, report.DistributionChart(result.Configs[index], report.DistributionSamples, src))
}
