package apiserver

import (
	goctx "context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/netrixframework/kbandit/log"
	"github.com/netrixframework/kbandit/simulation"
)

// DefaultAddr is the default address of the APIServer
const DefaultAddr = "0.0.0.0:7074"

// APIServer runs a HTTP server exposing the result of a simulation as JSON
// and as charts
type APIServer struct {
	router *gin.Engine
	server *http.Server
	addr   string

	result *simulation.Result
	lock   *sync.RWMutex

	Logger *log.Logger
}

// NewAPIServer instantiates APIServer. Routes answer 503 until SetResult is called
func NewAPIServer(addr string, logger *log.Logger) *APIServer {
	if addr == "" {
		addr = DefaultAddr
	}
	if logger == nil {
		logger = log.DefaultLogger
	}
	server := &APIServer{
		addr:   addr,
		lock:   new(sync.RWMutex),
		Logger: logger.With(log.LogParams{"service": "APIServer"}),
	}
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(server.logMiddleware)

	router.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/results")
	})
	router.GET("/results", server.handleResults)
	router.GET("/results/:index", server.handleResultGet)
	router.GET("/summary", server.handleSummary)
	server.setupChartRoutes(router.Group("/charts"))

	server.router = router
	server.server = &http.Server{
		Addr:    server.addr,
		Handler: router,
	}

	return server
}

// Handler returns the router, for embedding the routes elsewhere
func (a *APIServer) Handler() http.Handler {
	return a.router
}

// SetResult publishes the result of a simulation
func (a *APIServer) SetResult(result *simulation.Result) {
	a.lock.Lock()
	defer a.lock.Unlock()
	a.result = result
}

func (a *APIServer) getResult() (*simulation.Result, bool) {
	a.lock.RLock()
	defer a.lock.RUnlock()
	return a.result, a.result != nil
}

func (a *APIServer) logMiddleware(c *gin.Context) {
	start := time.Now()
	path := c.Request.URL.Path
	raw := c.Request.URL.RawQuery

	// Process request
	c.Next()

	end := time.Now()
	if raw != "" {
		path = path + "?" + raw
	}
	a.Logger.With(log.LogParams{
		"timestamp":   end,
		"latency":     end.Sub(start).String(),
		"client_ip":   c.ClientIP(),
		"method":      c.Request.Method,
		"status_code": c.Writer.Status(),
		"error":       c.Errors.ByType(gin.ErrorTypePrivate).String(),
		"body_size":   c.Writer.Size(),
		"path":        path,
	}).Debug("Handled request")
}

// Start starts the APIServer in the background
func (a *APIServer) Start() {
	go func() {
		a.Logger.With(log.LogParams{
			"addr": a.addr,
		}).Info("API server starting!")
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.Logger.With(log.LogParams{
				"addr": a.addr,
				"err":  err,
			}).Fatal("API server closed!")
		}
	}()
}

// Stop shuts the APIServer down, waiting up to 5 seconds for open requests
func (a *APIServer) Stop() {
	ctx, cancel := goctx.WithTimeout(goctx.Background(), 5*time.Second)
	defer cancel()
	if err := a.server.Shutdown(ctx); err != nil {
		a.Logger.Error("API server forcefully shutdown")
	}
	a.Logger.Info("API server stopped!")
}
