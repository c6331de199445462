// Package model contains the domain types shared between the dataset
// decoder, the result store and the comparison orchestrator.
package model

import (
	"fmt"
	"math"
)

// Unranked marks a participation without a placement. Valid placements
// start at 1.
const Unranked = -1

// MissingScore returns the sentinel used for an absent score.
func MissingScore() float64 { return math.NaN() }

// Gender is the categorical gender code of a competitor record.
type Gender int8

// Gender codes as encoded in the results table.
const (
	GenderFemale      Gender = -1
	GenderUnspecified Gender = 0
	GenderMale        Gender = 1
)

// ParseGender validates a raw gender code.
func ParseGender(code int) (Gender, error) {
	switch g := Gender(code); g {
	case GenderFemale, GenderUnspecified, GenderMale:
		return g, nil
	default:
		return 0, fmt.Errorf("gender code %d out of range", code)
	}
}

func (g Gender) String() string {
	switch g {
	case GenderFemale:
		return "female"
	case GenderMale:
		return "male"
	default:
		return "unspecified"
	}
}

// Participation is one competitor's result in one competition.
type Participation struct {
	Score      float64 // NaN when missing
	Placement  int     // Unranked when missing
	Provenance string  // region the competitor represented; empty when unknown
}

// HasScore reports whether the score is present.
func (p Participation) HasScore() bool { return !math.IsNaN(p.Score) }

// Ranked reports whether a placement is present.
func (p Participation) Ranked() bool { return p.Placement != Unranked }

// CompetitorRecord is a decoded row of the results table.
type CompetitorRecord struct {
	ID             int
	Name           string
	Gender         Gender
	EnrollmentYear int
	// Participations is keyed by canonical competition name.
	Participations map[string]Participation
}

// Participated reports whether the competitor has an entry for competition.
func (r *CompetitorRecord) Participated(competition string) bool {
	_, ok := r.Participations[competition]
	return ok
}

// Result returns the participation for competition.
func (r *CompetitorRecord) Result(competition string) (Participation, bool) {
	p, ok := r.Participations[competition]
	return p, ok
}
