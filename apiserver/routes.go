package apiserver

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/netrixframework/kbandit/simulation"
)

// withResult answers 503 when no result is published yet
func (srv *APIServer) withResult(c *gin.Context) (*simulation.Result, bool) {
	result, ok := srv.getResult()
	if !ok {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "simulation still running"})
		return nil, false
	}
	return result, true
}

// configParam returns the configuration named by the `index` route param
func (srv *APIServer) configParam(c *gin.Context, result *simulation.Result) (int, bool) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "index must be an integer"})
		return 0, false
	}
	if index < 0 || index >= len(result.Configs) {
		c.JSON(http.StatusNotFound, gin.H{"error": "configuration does not exist"})
		return 0, false
	}
	return index, true
}

func (srv *APIServer) handleResults(c *gin.Context) {
	result, ok := srv.withResult(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, result)
}

func (srv *APIServer) handleResultGet(c *gin.Context) {
	result, ok := srv.withResult(c)
	if !ok {
		return
	}
	index, ok := srv.configParam(c, result)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, result.Configs[index])
}

func (srv *APIServer) handleSummary(c *gin.Context) {
	result, ok := srv.withResult(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"seed":      result.Seed,
		"k":         result.K,
		"runs":      result.Runs,
		"timesteps": result.Timesteps,
		"summaries": result.Summaries(),
	})
}
