// Package status serves a small HTTP introspection surface for the bot.
package status

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Server exposes health and uptime endpoints.
type Server struct {
	db      *gorm.DB
	started time.Time
	guilds  func() int
}

// New constructs a Server. guilds reports the current guild count and may be
// nil when the gateway is not wired yet.
func New(conn *gorm.DB, guilds func() int) *Server {
	return &Server{db: conn, started: time.Now(), guilds: guilds}
}

// Router builds the gin router for the status surface.
func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.GET("/healthz", s.healthz)
	router.GET("/statusz", s.statusz)
	return router
}

// healthz checks database connectivity and returns status.
func (s *Server) healthz(c *gin.Context) {
	sqlDB, err := s.db.DB()
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"ok": false})
		return
	}
	if errPing := sqlDB.PingContext(c.Request.Context()); errPing != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"ok": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// statusz reports uptime and gateway reach.
func (s *Server) statusz(c *gin.Context) {
	guilds := 0
	if s.guilds != nil {
		guilds = s.guilds()
	}
	c.JSON(http.StatusOK, gin.H{
		"ok":     true,
		"uptime": time.Since(s.started).Round(time.Second).String(),
		"guilds": guilds,
	})
}
