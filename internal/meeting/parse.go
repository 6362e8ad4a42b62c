package meeting

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kaptinlin/jsonrepair"
	"github.com/rs/zerolog/log"

	"github.com/sovanghoshh/minutemate/pkg/models"
)

// ParseSummary turns a raw model response into a structured meeting summary.
// It strips markdown code fences, unmarshals strictly, and falls back to a
// repair pass for the malformed-but-salvageable JSON models sometimes emit.
// A response whose shape doesn't resemble a meeting summary at all is
// rejected rather than returned as an empty struct.
func ParseSummary(raw string) (*models.MeetingSummary, error) {
	jsonStr := extractJSON(raw)
	if jsonStr == "" {
		return nil, fmt.Errorf("no JSON object found in response (%d chars)", len(raw))
	}

	var summary models.MeetingSummary
	if err := json.Unmarshal([]byte(jsonStr), &summary); err != nil {
		repaired, repairErr := jsonrepair.JSONRepair(jsonStr)
		if repairErr != nil {
			return nil, fmt.Errorf("failed to parse structured summary: %w", err)
		}
		log.Debug().
			Int("original_length", len(jsonStr)).
			Int("repaired_length", len(repaired)).
			Msg("structured summary needed JSON repair")
		if err := json.Unmarshal([]byte(repaired), &summary); err != nil {
			return nil, fmt.Errorf("failed to parse structured summary after repair: %w", err)
		}
	}

	if strings.TrimSpace(summary.Summary) == "" && len(summary.ActionItems) == 0 {
		return nil, fmt.Errorf("response JSON does not match the summary shape")
	}
	return &summary, nil
}

// extractJSON pulls the JSON object out of a model response, tolerating
// markdown code fences and prose around the object.
func extractJSON(response string) string {
	trimmed := strings.TrimSpace(response)

	if start := strings.Index(trimmed, "```"); start != -1 {
		rest := trimmed[start:]
		open := strings.Index(rest, "{")
		end := strings.LastIndex(rest, "}")
		if open == -1 || end <= open {
			return ""
		}
		return rest[open : end+1]
	}

	open := strings.Index(trimmed, "{")
	end := strings.LastIndex(trimmed, "}")
	if open == -1 || end <= open {
		return ""
	}
	return trimmed[open : end+1]
}
