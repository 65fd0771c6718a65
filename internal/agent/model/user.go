package model

import (
	"fmt"
	"slices"
	"strings"
)

type TeachingStyle string

const (
	TeachingDirect           TeachingStyle = "Direct"
	TeachingSocratic         TeachingStyle = "Socratic"
	TeachingVisual           TeachingStyle = "Visual"
	TeachingFlippedClassroom TeachingStyle = "Flipped Classroom"
)

type EmotionalState string

const (
	EmotionFocused  EmotionalState = "Focused"
	EmotionAnxious  EmotionalState = "Anxious"
	EmotionConfused EmotionalState = "Confused"
	EmotionTired    EmotionalState = "Tired"
)

// MasteryLevel is one of four ordered bands, lowest first.
type MasteryLevel string

const (
	MasteryFoundation MasteryLevel = "Levels 1-3: Foundation building"
	MasteryDeveloping MasteryLevel = "Levels 4-6: Developing competence"
	MasteryAdvanced   MasteryLevel = "Levels 7-9: Advanced application"
	MasteryFull       MasteryLevel = "Level 10: Full mastery"
)

var (
	teachingStyles  = []TeachingStyle{TeachingDirect, TeachingSocratic, TeachingVisual, TeachingFlippedClassroom}
	emotionalStates = []EmotionalState{EmotionFocused, EmotionAnxious, EmotionConfused, EmotionTired}
	masteryLevels   = []MasteryLevel{MasteryFoundation, MasteryDeveloping, MasteryAdvanced, MasteryFull}
)

func TeachingStyles() []TeachingStyle   { return slices.Clone(teachingStyles) }
func EmotionalStates() []EmotionalState { return slices.Clone(emotionalStates) }
func MasteryLevels() []MasteryLevel     { return slices.Clone(masteryLevels) }

func (t TeachingStyle) Valid() bool  { return slices.Contains(teachingStyles, t) }
func (e EmotionalState) Valid() bool { return slices.Contains(emotionalStates, e) }
func (m MasteryLevel) Valid() bool   { return slices.Contains(masteryLevels, m) }

// IsNegative reports whether the state should bias extraction toward easier settings.
func (e EmotionalState) IsNegative() bool {
	return e == EmotionAnxious || e == EmotionConfused || e == EmotionTired
}

// Rank returns the 0-based position of the band, or -1 when unknown.
func (m MasteryLevel) Rank() int {
	return slices.Index(masteryLevels, m)
}

// Band returns the "Levels x-y" prefix of the mastery description.
func (m MasteryLevel) Band() string {
	band, _, _ := strings.Cut(string(m), ":")
	return strings.TrimSpace(band)
}

// UserState is the inferred behavioural profile re-computed each turn.
type UserState struct {
	TeachingStyle  TeachingStyle  `json:"teaching_style"`
	EmotionalState EmotionalState `json:"emotional_state"`
	MasteryLevel   MasteryLevel   `json:"mastery_level"`
}

// DefaultUserState is used when nothing has been persisted yet.
func DefaultUserState() UserState {
	return UserState{
		TeachingStyle:  TeachingDirect,
		EmotionalState: EmotionFocused,
		MasteryLevel:   MasteryDeveloping,
	}
}

// Validate checks every field against its closed enumeration.
func (s UserState) Validate() error {
	if !s.TeachingStyle.Valid() {
		return fmt.Errorf("teaching_style %q is not a known style", s.TeachingStyle)
	}
	if !s.EmotionalState.Valid() {
		return fmt.Errorf("emotional_state %q is not a known state", s.EmotionalState)
	}
	if !s.MasteryLevel.Valid() {
		return fmt.Errorf("mastery_level %q is not a known band", s.MasteryLevel)
	}
	return nil
}

// UserInfo combines the semi-static identity with the current UserState.
type UserInfo struct {
	UserID         string         `json:"user_id"`
	Name           string         `json:"name"`
	GradeLevel     string         `json:"grade_level,omitempty"`
	TeachingStyle  TeachingStyle  `json:"teaching_style"`
	EmotionalState EmotionalState `json:"emotional_state"`
	MasteryLevel   MasteryLevel   `json:"mastery_level"`
}

func NewUserInfo(profile UserProfileConfig, state UserState) UserInfo {
	return UserInfo{
		UserID:         profile.UserID,
		Name:           profile.Name,
		GradeLevel:     profile.GradeLevel,
		TeachingStyle:  state.TeachingStyle,
		EmotionalState: state.EmotionalState,
		MasteryLevel:   state.MasteryLevel,
	}
}

func (u UserInfo) State() UserState {
	return UserState{
		TeachingStyle:  u.TeachingStyle,
		EmotionalState: u.EmotionalState,
		MasteryLevel:   u.MasteryLevel,
	}
}
