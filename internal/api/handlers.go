package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

func (s *Server) home(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":  "running",
		"message": "MinuteMate unified meeting system",
		"endpoints": map[string]string{
			"/":               "Home page with API status",
			"/health":         "Health check",
			"/transcribe":     "[POST] Upload audio for transcription and summary",
			"/check-commits":  "Manually check commits and update matching tasks",
			"/commit-history": "Show full commit history for the repository",
			"/send-standup":   "Manually send the daily standup",
			"/init-db":        "Manually initialize the tracker database",
		},
	})
}

func (s *Server) health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// transcribeMeeting accepts an audio upload, transcribes it, and runs the
// meeting pipeline on the transcript.
func (s *Server) transcribeMeeting(c echo.Context) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "no file uploaded"})
	}
	title := c.FormValue("meetingTitle")
	if title == "" {
		title = "Untitled Meeting"
	}

	audio, err := fileHeader.Open()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to read uploaded file"})
	}
	defer audio.Close()

	transcript, err := s.deps.Transcriber.Transcribe(c.Request().Context(), fileHeader.Filename, audio)
	if err != nil {
		log.Error().Err(err).Str("meeting", title).Msg("transcription failed")
		return c.JSON(http.StatusBadGateway, map[string]string{"error": fmt.Sprintf("transcription failed: %v", err)})
	}

	rec := s.deps.Pipeline.Process(c.Request().Context(), title, transcript)
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":  "success",
		"meeting": rec,
	})
}

// checkCommits runs one manual reconciliation sweep over the full commit
// page.
func (s *Server) checkCommits(c echo.Context) error {
	ctx := c.Request().Context()
	commits, err := s.deps.Commits.ListCommits(ctx)
	if err != nil {
		return c.JSON(http.StatusBadGateway, map[string]string{"error": fmt.Sprintf("commit fetch failed: %v", err)})
	}
	updated := s.deps.Matcher.Sweep(ctx, commits)
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":          "success",
		"commits_checked": len(commits),
		"tasks_updated":   updated,
	})
}

func (s *Server) commitHistory(c echo.Context) error {
	commits, err := s.deps.Commits.ListCommits(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusBadGateway, map[string]string{"error": fmt.Sprintf("commit fetch failed: %v", err)})
	}

	history := make([]map[string]string, 0, len(commits))
	for _, commit := range commits {
		author := commit.AuthorLogin
		if author == "" {
			author = "Unknown"
		}
		history = append(history, map[string]string{
			"sha":     commit.ShortSHA(),
			"author":  author,
			"date":    commit.AuthoredAt.Format(time.RFC3339),
			"message": commit.Message,
		})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":        "success",
		"repository":    s.deps.Commits.Repo(),
		"total_commits": len(history),
		"commits":       history,
	})
}

func (s *Server) sendStandup(c echo.Context) error {
	if err := s.deps.Standup.Run(c.Request().Context()); err != nil {
		return c.JSON(http.StatusBadGateway, map[string]string{"error": fmt.Sprintf("standup cycle failed: %v", err)})
	}
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "success",
		"message": "standup cycle completed",
	})
}

func (s *Server) initDatabase(c echo.Context) error {
	id, err := s.deps.Tracker.EnsureDatabase(c.Request().Context(), s.deps.ParentPageID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": fmt.Sprintf("database bootstrap failed: %v", err)})
	}
	return c.JSON(http.StatusOK, map[string]string{
		"status":      "success",
		"database_id": id,
	})
}
