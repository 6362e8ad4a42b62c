// Package meeting turns raw meeting transcripts into summaries, tracker
// tasks, and chat posts.
package meeting

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/sovanghoshh/minutemate/internal/identity"
	"github.com/sovanghoshh/minutemate/internal/summarizer"
	"github.com/sovanghoshh/minutemate/internal/tracker"
	"github.com/sovanghoshh/minutemate/pkg/models"
)

// taskDueDays is how far out newly extracted action items are due.
const taskDueDays = 7

// formattedFallback is posted in place of the readable summary when the
// model call for it fails.
const formattedFallback = "_Summary unavailable (generation error)._"

// Poster delivers a message to a chat channel.
type Poster interface {
	PostMessage(ctx context.Context, channel, text string) error
}

// Pipeline processes one transcript end to end: structured and formatted
// summaries, task creation, and chat delivery.
type Pipeline struct {
	ai       summarizer.Summarizer
	resolver *identity.Resolver
	store    tracker.Store
	poster   Poster
	channel  string
}

// NewPipeline creates a meeting pipeline. poster may be nil when chat
// delivery is not configured.
func NewPipeline(ai summarizer.Summarizer, resolver *identity.Resolver, store tracker.Store, poster Poster, channel string) *Pipeline {
	return &Pipeline{
		ai:       ai,
		resolver: resolver,
		store:    store,
		poster:   poster,
		channel:  channel,
	}
}

// Process runs the full pipeline for one transcript and returns the record
// of what happened. It never fails outright: generation, task creation, and
// delivery problems are logged and reflected in the returned record, and the
// formatted summary is still posted to chat even when the structured parse
// failed.
func (p *Pipeline) Process(ctx context.Context, title, transcript string) *models.MeetingRecord {
	rec := &models.MeetingRecord{
		ID:         uuid.New().String(),
		Title:      title,
		Timestamp:  time.Now().UTC(),
		Transcript: transcript,
	}

	raw, err := p.ai.Summarize(ctx, BuildStructuredPrompt(transcript))
	if err != nil {
		log.Error().Err(err).Str("meeting", title).Msg("structured summary generation failed")
	} else {
		structured, parseErr := ParseSummary(raw)
		if parseErr != nil {
			log.Error().Err(parseErr).Str("meeting", title).Msg("structured summary parse failed")
		} else {
			rec.Structured = structured
		}
	}

	formatted, err := p.ai.Summarize(ctx, BuildFormattedPrompt(transcript))
	if err != nil {
		log.Error().Err(err).Str("meeting", title).Msg("formatted summary generation failed")
		formatted = formattedFallback
	}
	rec.FormattedSummary = formatted

	if rec.Structured != nil {
		rec.TasksCreated = p.createTasks(ctx, rec.Structured.ActionItems)
	}

	p.deliver(ctx, rec)
	return rec
}

// createTasks files every extracted action item as a To Do task. The due
// date is stamped here, one week out, rather than trusted from the model.
func (p *Pipeline) createTasks(ctx context.Context, items []models.ActionItem) int {
	due := time.Now().AddDate(0, 0, taskDueDays)
	created := 0
	for _, item := range items {
		taskTitle := strings.TrimSpace(item.Task)
		if taskTitle == "" {
			log.Warn().Msg("skipping action item with empty task text")
			continue
		}
		assignee := p.resolver.ResolveAssignee(item.Assignee)
		id, err := p.store.CreateTask(ctx, taskTitle, assignee, models.StatusToDo, &due)
		if err != nil {
			log.Error().Err(err).Str("task", taskTitle).Msg("failed to create tracker task")
			continue
		}
		log.Info().
			Str("task", taskTitle).
			Str("assignee", assignee).
			Str("page_id", id).
			Msg("created tracker task from action item")
		created++
	}
	return created
}

func (p *Pipeline) deliver(ctx context.Context, rec *models.MeetingRecord) {
	if p.poster == nil || p.channel == "" {
		log.Warn().Msg("chat delivery not configured, skipping meeting summary post")
		return
	}
	message := fmt.Sprintf("*Meeting Summary: %s*\n\n%s", rec.Title, rec.FormattedSummary)
	if err := p.poster.PostMessage(ctx, p.channel, message); err != nil {
		log.Error().Err(err).Str("meeting", rec.Title).Msg("failed to post meeting summary to chat")
		return
	}
	log.Info().Str("meeting", rec.Title).Msg("meeting summary sent to chat")
}
