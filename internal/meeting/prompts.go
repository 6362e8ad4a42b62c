package meeting

import "fmt"

// BuildStructuredPrompt asks the model for machine-readable meeting data.
// Due dates are deliberately excluded from the requested format; the
// pipeline stamps them server-side so the model cannot hallucinate dates.
func BuildStructuredPrompt(transcript string) string {
	return fmt.Sprintf(`Analyze this meeting transcript and provide a structured summary in JSON format.
Transcript: %s
Required format: {"summary": "...", "topics": [], "action_items": [{"task": "...", "assignee": "..."}]}

Rules: Extract action items and assignees. Do NOT include due dates in the JSON - they will be added automatically. Output ONLY valid JSON.`, transcript)
}

// BuildFormattedPrompt asks the model for the human-readable summary that
// gets posted to the team channel.
func BuildFormattedPrompt(transcript string) string {
	return fmt.Sprintf(`Analyze this meeting transcript and provide a detailed summary formatted with markdown.
Transcript: %s
Include:
1. A concise summary.
2. Main topics.
3. Action items.
4. Important details.`, transcript)
}
