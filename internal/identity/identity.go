// Package identity maps team members across the task tracker, the
// source-control host, and the chat tool. A single person usually has a
// different handle in each system; this package is the one place that
// knows they are the same human.
package identity

import (
	"fmt"
	"strings"

	"github.com/sovanghoshh/minutemate/internal/config"
	"github.com/sovanghoshh/minutemate/pkg/models"
)

// KnownName pairs one display string with the person it identifies.
// A person contributes up to two known names: the tracker spelling and
// the chat display name.
type KnownName struct {
	Name   string
	Person models.Person
}

// Directory indexes configured team members by their per-system handles.
type Directory struct {
	byLogin       map[string]models.Person
	byTrackerName map[string]models.Person
	known         []KnownName
}

// NewDirectory builds a directory from the given members. Handles must be
// unique per system among the members; the first violation is returned as
// an error. An empty member list yields a usable empty directory.
func NewDirectory(members []models.Person) (*Directory, error) {
	d := &Directory{
		byLogin:       make(map[string]models.Person),
		byTrackerName: make(map[string]models.Person),
	}
	seenSlackID := make(map[string]bool)
	seenDisplay := make(map[string]bool)

	for i, m := range members {
		if m.TrackerName == "" && m.GitHubLogin == "" && m.SlackID == "" && m.SlackDisplayName == "" {
			return nil, fmt.Errorf("member %d has no handles", i)
		}

		if m.GitHubLogin != "" {
			key := strings.ToLower(m.GitHubLogin)
			if _, exists := d.byLogin[key]; exists {
				return nil, fmt.Errorf("duplicate source-control login %q", m.GitHubLogin)
			}
			d.byLogin[key] = m
		}

		if m.TrackerName != "" {
			if _, exists := d.byTrackerName[m.TrackerName]; exists {
				return nil, fmt.Errorf("duplicate tracker name %q", m.TrackerName)
			}
			d.byTrackerName[m.TrackerName] = m
			d.known = append(d.known, KnownName{Name: m.TrackerName, Person: m})
		}

		if m.SlackID != "" {
			if seenSlackID[m.SlackID] {
				return nil, fmt.Errorf("duplicate chat id %q", m.SlackID)
			}
			seenSlackID[m.SlackID] = true
		}

		if m.SlackDisplayName != "" {
			if seenDisplay[m.SlackDisplayName] {
				return nil, fmt.Errorf("duplicate chat display name %q", m.SlackDisplayName)
			}
			seenDisplay[m.SlackDisplayName] = true
			if m.SlackDisplayName != m.TrackerName {
				d.known = append(d.known, KnownName{Name: m.SlackDisplayName, Person: m})
			}
		}
	}

	return d, nil
}

// FromConfig builds a Directory from the configured team members, registered
// in sorted member-key order so lookups behave the same across restarts.
func FromConfig(cfg *config.Config) (*Directory, error) {
	members := make([]models.Person, 0, len(cfg.Team.Members))
	for _, key := range cfg.MemberKeys() {
		members = append(members, cfg.Team.Members[key])
	}
	return NewDirectory(members)
}

// LookupLogin finds the person behind a source-control login.
// The match is case-insensitive, as host logins are.
func (d *Directory) LookupLogin(login string) (models.Person, bool) {
	if login == "" {
		return models.Person{}, false
	}
	p, ok := d.byLogin[strings.ToLower(login)]
	return p, ok
}

// LookupTrackerName finds the person behind an exact tracker name spelling.
func (d *Directory) LookupTrackerName(name string) (models.Person, bool) {
	p, ok := d.byTrackerName[name]
	return p, ok
}

// KnownNames returns every registered display string in registration order.
func (d *Directory) KnownNames() []KnownName {
	return d.known
}

// Size returns the number of registered display strings.
func (d *Directory) Size() int {
	return len(d.known)
}
