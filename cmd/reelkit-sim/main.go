// reelkit-sim is a local stand-in for the Reelkit backend. It seeds a few
// projects and walks each render through its lifecycle one stage per
// reconcile call, so the dashboard and poller can be exercised end to end
// without a real account.
package main

import (
	"fmt"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	cors "github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/reelkithq/reelkit/pkg/domain"
)

const simToken = "sim-token"

type store struct {
	mu       sync.Mutex
	projects []domain.Project
}

func seedProject(name string, status domain.Status, ageHours int) domain.Project {
	p := domain.Project{
		ID:        uuid.NewString(),
		Name:      name,
		Status:    status,
		CreatedAt: time.Now().Add(-time.Duration(ageHours) * time.Hour),
	}
	switch status {
	case domain.StatusProcessing:
		p.Video = &domain.Video{
			URL:      "processing_" + p.ID,
			Status:   domain.StatusProcessing,
			URLState: domain.URLSentinelProcessing,
		}
	case domain.StatusCompleted:
		p.Video = &domain.Video{
			URL:      "https://cdn.reelkit.com/renders/" + p.ID + ".mp4",
			Status:   domain.StatusCompleted,
			Duration: 27.5,
			URLState: domain.URLReady,
		}
		p.ViewsCount = 142
	}
	return p
}

func newStore() *store {
	return &store{projects: []domain.Project{
		seedProject("Spring sale blast", domain.StatusCompleted, 72),
		seedProject("Launch teaser", domain.StatusProcessing, 1),
		seedProject("Holiday promo", domain.StatusPending, 0),
	}}
}

// advance walks one project one lifecycle stage. Returns true when the
// project just reached a terminal state.
func advance(p *domain.Project) bool {
	switch p.Status {
	case domain.StatusCreated, domain.StatusPending:
		p.Status = domain.StatusProcessing
		p.Video = &domain.Video{
			URL:      "processing_" + p.ID,
			Status:   domain.StatusProcessing,
			URLState: domain.URLSentinelProcessing,
		}
	case domain.StatusProcessing:
		p.Status = domain.StatusRendering
		p.Video.Status = domain.StatusRendering
	case domain.StatusRendering:
		p.Status = domain.StatusCompleted
		p.Video = &domain.Video{
			URL:      "https://cdn.reelkit.com/renders/" + p.ID + ".mp4",
			Status:   domain.StatusCompleted,
			Duration: 31.0,
			URLState: domain.URLReady,
		}
		return true
	}
	return false
}

func authRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token := strings.TrimPrefix(header, "Bearer ")
		if header == "" || token != simToken {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
			return
		}
		c.Next()
	}
}

func main() {
	log.SetFormatter(&log.JSONFormatter{})
	log.SetLevel(log.InfoLevel)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8787"
	}

	s := newStore()
	router := gin.Default()
	router.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"http://localhost:3000"},
		AllowMethods:  []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization"},
		MaxAge:        12 * time.Hour,
	}))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	api.Use(authRequired())
	{
		api.GET("/projects", func(c *gin.Context) {
			s.mu.Lock()
			projects := make([]domain.Project, len(s.projects))
			copy(projects, s.projects)
			s.mu.Unlock()
			c.JSON(http.StatusOK, gin.H{"success": true, "projects": projects})
		})

		api.POST("/projects", func(c *gin.Context) {
			var req struct {
				Name        string `json:"name"`
				Script      string `json:"script"`
				AvatarID    string `json:"avatar_id"`
				VoiceID     string `json:"voice_id"`
				AspectRatio string `json:"aspect_ratio"`
			}
			if err := c.ShouldBindJSON(&req); err != nil || req.Name == "" {
				c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
				return
			}
			p := domain.Project{
				ID:        uuid.NewString(),
				Name:      req.Name,
				Status:    domain.StatusPending,
				CreatedAt: time.Now(),
			}
			s.mu.Lock()
			s.projects = append([]domain.Project{p}, s.projects...)
			s.mu.Unlock()
			log.WithField("id", p.ID).Info("project created")
			c.JSON(http.StatusCreated, p)
		})

		api.PATCH("/projects/:id", func(c *gin.Context) {
			var req struct {
				Name string `json:"name"`
			}
			if err := c.ShouldBindJSON(&req); err != nil || req.Name == "" {
				c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
				return
			}
			id := c.Param("id")
			s.mu.Lock()
			defer s.mu.Unlock()
			for i := range s.projects {
				if s.projects[i].ID == id {
					s.projects[i].Name = req.Name
					c.JSON(http.StatusOK, s.projects[i])
					return
				}
			}
			c.JSON(http.StatusNotFound, gin.H{"error": "project not found"})
		})

		api.DELETE("/projects/:id", func(c *gin.Context) {
			id := c.Param("id")
			s.mu.Lock()
			defer s.mu.Unlock()
			for i := range s.projects {
				if s.projects[i].ID == id {
					s.projects = append(s.projects[:i], s.projects[i+1:]...)
					c.Status(http.StatusNoContent)
					return
				}
			}
			c.JSON(http.StatusNotFound, gin.H{"error": "project not found"})
		})

		api.POST("/creatify/check-all-pending-videos", func(c *gin.Context) {
			s.mu.Lock()
			updated, checked := 0, 0
			for i := range s.projects {
				if !s.projects[i].InFlight() {
					continue
				}
				checked++
				if advance(&s.projects[i]) {
					updated++
				}
			}
			s.mu.Unlock()
			log.WithFields(log.Fields{"updated": updated, "checked": checked}).Info("reconcile")
			c.JSON(http.StatusOK, gin.H{"updated": updated, "checked": checked})
		})

		api.GET("/creatify/avatars", func(c *gin.Context) {
			c.JSON(http.StatusOK, []domain.Avatar{
				{ID: "av-maya", Name: "Maya", Gender: "female"},
				{ID: "av-jon", Name: "Jon", Gender: "male"},
				{ID: "av-luna", Name: "Luna", Gender: "female", Premium: true},
			})
		})

		api.GET("/creatify/voices", func(c *gin.Context) {
			c.JSON(http.StatusOK, []domain.Voice{
				{ID: "vo-calm", Name: "Calm", Language: "en-US", Gender: "female"},
				{ID: "vo-upbeat", Name: "Upbeat", Language: "en-US", Gender: "male"},
				{ID: "vo-posh", Name: "Posh", Language: "en-GB", Gender: "female"},
			})
		})
	}

	fmt.Printf("reelkit-sim listening on :%s (token: %s)\n", port, simToken)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
