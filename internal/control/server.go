// Control surface: the user-facing panel, rendered as a localhost HTTP API.
// It only talks to the coordinator through the bus, mirroring the popup's
// isolation from the page.

package control

import (
	"errors"
	"net/http"
	"sync/atomic"

	"go-autofill-automation/internal/bus"
	"go-autofill-automation/internal/coordinator"
	"go-autofill-automation/internal/store"

	"github.com/gin-gonic/gin"
)

// ErrRunInProgress is returned while an autofill run is outstanding.
var ErrRunInProgress = errors.New("an autofill run is already in progress")

type Server struct {
	bus   *bus.Bus
	store *store.Store

	//the trigger is disabled while a run is outstanding; no two runs may
	//hit the same page concurrently
	running atomic.Bool
}

func New(b *bus.Bus, st *store.Store) *Server {
	return &Server{bus: b, store: st}
}

func (s *Server) Router() *gin.Engine {
	r := gin.Default()

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	r.GET("/platform", func(c *gin.Context) {
		platform, err := s.bus.Request(c.Request.Context(), bus.KindDetectPlatform, nil)
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"platform": platform})
	})

	r.GET("/settings", func(c *gin.Context) {
		settings, err := s.bus.Request(c.Request.Context(), bus.KindGetSettings, nil)
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, settings)
	})

	r.PATCH("/settings", func(c *gin.Context) {
		var settings store.Settings
		if err := c.ShouldBindJSON(&settings); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		updated, err := s.bus.Request(c.Request.Context(), bus.KindUpdateSettings, settings)
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, updated)
	})

	r.GET("/activity", func(c *gin.Context) {
		c.JSON(http.StatusOK, s.store.Activity())
	})

	r.POST("/autofill", func(c *gin.Context) {
		if !s.running.CompareAndSwap(false, true) {
			c.JSON(http.StatusConflict, gin.H{"error": ErrRunInProgress.Error()})
			return
		}
		defer s.running.Store(false)

		var req coordinator.StartRequest
		if c.Request.ContentLength > 0 {
			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
		}

		result, err := s.bus.Request(c.Request.Context(), bus.KindAutofillStart, req)
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, result)
	})

	return r
}

func (s *Server) Run(addr string) error {
	return s.Router().Run(addr)
}
