// Package api exposes the HTTP surface: meeting ingestion plus the manual
// triggers for the cycles the scheduler runs on its own.
package api

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/sovanghoshh/minutemate/internal/transcribe"
	"github.com/sovanghoshh/minutemate/pkg/models"
)

// Ingestor runs the meeting pipeline for one transcript.
type Ingestor interface {
	Process(ctx context.Context, title, transcript string) *models.MeetingRecord
}

// CommitLister fetches the repository's recent commits.
type CommitLister interface {
	ListCommits(ctx context.Context) ([]models.Commit, error)
	Repo() string
}

// Sweeper reconciles commits against tracker tasks.
type Sweeper interface {
	Sweep(ctx context.Context, commits []models.Commit) int
}

// StandupRunner runs one standup cycle.
type StandupRunner interface {
	Run(ctx context.Context) error
}

// Bootstrapper creates the tracker database when it doesn't exist yet.
type Bootstrapper interface {
	EnsureDatabase(ctx context.Context, parentPageID string) (string, error)
}

// Deps carries everything the handlers delegate to.
type Deps struct {
	Transcriber  transcribe.Transcriber
	Pipeline     Ingestor
	Commits      CommitLister
	Matcher      Sweeper
	Standup      StandupRunner
	Tracker      Bootstrapper
	ParentPageID string
}

// Server represents the API server
type Server struct {
	echo *echo.Echo
	port int
	deps Deps
}

// NewServer creates a new API server
func NewServer(port int, deps Deps) *Server {
	e := echo.New()
	e.HideBanner = true

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	server := &Server{
		echo: e,
		port: port,
		deps: deps,
	}

	// Setup routes
	server.setupRoutes()

	return server
}

// setupRoutes configures all API endpoints
func (s *Server) setupRoutes() {
	s.echo.GET("/", s.home)
	s.echo.GET("/health", s.health)
	s.echo.POST("/transcribe", s.transcribeMeeting)
	s.echo.GET("/check-commits", s.checkCommits)
	s.echo.GET("/commit-history", s.commitHistory)
	s.echo.GET("/send-standup", s.sendStandup)
	s.echo.GET("/init-db", s.initDatabase)
}

// Start begins the API server and blocks until an interrupt, then shuts
// down gracefully.
func (s *Server) Start() error {
	go func() {
		if err := s.echo.Start(fmt.Sprintf(":%d", s.port)); err != nil && err != http.ErrServerClosed {
			s.echo.Logger.Fatal("shutting down the server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return s.echo.Shutdown(ctx)
}
