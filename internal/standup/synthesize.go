package standup

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/sovanghoshh/minutemate/internal/chat"
	"github.com/sovanghoshh/minutemate/internal/summarizer"
	"github.com/sovanghoshh/minutemate/pkg/models"
)

// ReportPlaceholder stands in for a person's report when the summarization
// call fails. One bad call must not sink the whole digest.
const ReportPlaceholder = "_Update unavailable (summary error)_"

// Synthesizer writes one standup report per person from their activity.
type Synthesizer struct {
	ai summarizer.Summarizer
}

// NewSynthesizer creates a synthesizer backed by the given model.
func NewSynthesizer(ai summarizer.Summarizer) *Synthesizer {
	return &Synthesizer{ai: ai}
}

// BuildReportPrompt renders the fixed three-section standup template around
// one person's commits and tasks.
func BuildReportPrompt(bundle *models.ActivityBundle) string {
	var commits strings.Builder
	for _, message := range bundle.CommitMessages {
		fmt.Fprintf(&commits, "- %s\n", message)
	}
	var tasks strings.Builder
	for _, task := range bundle.Tasks {
		fmt.Fprintf(&tasks, "- %s (%s)\n", task.Title, task.Status)
	}

	return fmt.Sprintf(`Generate a concise standup update in this exact format (no bullet numbers, no extra lines):

✅ What I did:
- [List completed items]

🚧 In progress:
- [List WIP items]

❌ Blockers:
- [List blockers or "None"]

Base this on:
GitHub Commits:
%sNotion Tasks:
%s`, commits.String(), tasks.String())
}

// Report generates the standup report for one person's activity.
func (s *Synthesizer) Report(ctx context.Context, bundle *models.ActivityBundle) (string, error) {
	raw, err := s.ai.Summarize(ctx, BuildReportPrompt(bundle))
	if err != nil {
		return "", err
	}
	return normalizeReport(raw), nil
}

// ReportAll generates a report for every bundle, keyed by display name. A
// failed summarization becomes the placeholder and the batch continues.
func (s *Synthesizer) ReportAll(ctx context.Context, bundles map[string]*models.ActivityBundle) map[string]string {
	reports := make(map[string]string, len(bundles))
	for name, bundle := range bundles {
		report, err := s.Report(ctx, bundle)
		if err != nil {
			log.Error().Err(err).Str("person", name).Msg("standup summarization failed")
			reports[name] = ReportPlaceholder
			continue
		}
		reports[name] = report
	}
	return reports
}

// normalizeReport tidies model output: models sometimes bullet with "•"
// despite instructions, and pad with blank lines.
func normalizeReport(raw string) string {
	cleaned := strings.ReplaceAll(strings.TrimSpace(raw), "• ", "- ")
	var lines []string
	for _, line := range strings.Split(cleaned, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	return strings.Join(lines, "\n")
}

// sortedNames returns report keys in the digest's stable order.
func sortedNames(reports map[string]string) []string {
	names := make([]string, 0, len(reports))
	for name := range reports {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ComposeBatch joins the per-person reports into the digest's fallback
// text. Reports are ordered alphabetically by display name so the digest
// reads the same every day regardless of map iteration order.
func ComposeBatch(reports map[string]string) string {
	var b strings.Builder
	b.WriteString("📅 Daily Standup Update\n\n")
	for _, name := range sortedNames(reports) {
		fmt.Fprintf(&b, "%s:\n%s\n\n", name, reports[name])
	}
	return strings.TrimSpace(b.String())
}

// BuildBlocks renders the digest as Block Kit blocks: a header, then a
// section pair and divider per person, in the same order as ComposeBatch.
func BuildBlocks(reports map[string]string) []chat.Block {
	blocks := []chat.Block{chat.HeaderBlock("Daily Standup")}
	for _, name := range sortedNames(reports) {
		blocks = append(blocks,
			chat.SectionBlock(fmt.Sprintf("*👤 %s*", name)),
			chat.SectionBlock(reports[name]),
			chat.DividerBlock(),
		)
	}
	return blocks
}
