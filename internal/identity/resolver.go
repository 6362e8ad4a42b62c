package identity

import (
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/xrash/smetrics"

	"github.com/sovanghoshh/minutemate/pkg/models"
)

// DefaultThreshold is the minimum similarity score a candidate must reach
// before a raw name is attributed to a known person.
const DefaultThreshold = 70

// Resolver matches free-form names (meeting transcripts, model output)
// against the directory's known names.
type Resolver struct {
	dir       *Directory
	threshold float64
}

// NewResolver returns a resolver over dir using DefaultThreshold.
func NewResolver(dir *Directory) *Resolver {
	return &Resolver{dir: dir, threshold: DefaultThreshold}
}

// Resolve finds the person whose known name is closest to raw. It returns
// false when raw is blank, the directory is empty, or no candidate scores
// at or above the threshold. When several candidates tie on the best score,
// the first registered one wins.
func (r *Resolver) Resolve(raw string) (models.Person, bool) {
	name := strings.TrimSpace(raw)
	if name == "" {
		return models.Person{}, false
	}
	lowered := strings.ToLower(name)

	var best models.Person
	bestScore := 0.0
	for _, kn := range r.dir.KnownNames() {
		score := Ratio(lowered, strings.ToLower(kn.Name))
		if score > bestScore {
			best = kn.Person
			bestScore = score
		}
	}

	if bestScore < r.threshold {
		return models.Person{}, false
	}
	return best, true
}

// ResolveAssignee resolves raw to the person's tracker name, or to the
// fallback assignee when no one matches closely enough.
func (r *Resolver) ResolveAssignee(raw string) string {
	person, ok := r.Resolve(raw)
	if !ok {
		if strings.TrimSpace(raw) != "" {
			log.Debug().Str("name", raw).Msg("no close match for name, falling back to unassigned")
		}
		return models.UnassignedName
	}
	return person.TrackerName
}

// Ratio scores the similarity of two strings on a 0-100 scale as the
// normalized indel distance: 100 * (1 - distance/(len(a)+len(b))).
// Identical strings score 100, fully disjoint ones 0.
func Ratio(a, b string) float64 {
	if len(a) == 0 || len(b) == 0 {
		if len(a) == len(b) {
			return 100
		}
		return 0
	}
	// Substitution cost 2 makes Wagner-Fischer count insertions and
	// deletions only, which is the indel distance.
	dist := smetrics.WagnerFischer(a, b, 1, 1, 2)
	total := len(a) + len(b)
	return 100 * float64(total-dist) / float64(total)
}
