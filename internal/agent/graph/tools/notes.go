package tools

import (
	"context"
	"fmt"
)

type NoteMakerInput struct {
	LearnerContext
	Topic            string `json:"topic" validate:"required"`
	Subject          string `json:"subject" validate:"required"`
	NoteTakingStyle  string `json:"note_taking_style" validate:"required,oneof=outline bullet_points narrative structured"`
	IncludeExamples  *bool  `json:"include_examples"`
	IncludeAnalogies *bool  `json:"include_analogies"`
}

type NoteSection struct {
	Title     string   `json:"title"`
	Content   string   `json:"content"`
	KeyPoints []string `json:"key_points"`
	Examples  []string `json:"examples,omitempty"`
	Analogies []string `json:"analogies,omitempty"`
}

type NoteResult struct {
	Topic             string        `json:"topic"`
	Title             string        `json:"title"`
	Summary           string        `json:"summary"`
	NoteSections      []NoteSection `json:"note_sections"`
	KeyConcepts       []string      `json:"key_concepts"`
	NoteTakingStyle   string        `json:"note_taking_style"`
	AdaptationDetails string        `json:"adaptation_details"`
}

func (e *Executor) makeNotes(_ context.Context, in *NoteMakerInput) (*ToolResponse, error) {
	if resp := e.check(ToolNoteMaker, in); resp != nil {
		return resp, nil
	}

	section := NoteSection{
		Title:     fmt.Sprintf("Introduction to %s", in.Topic),
		Content:   fmt.Sprintf("Core ideas of %s within %s, laid out as %s notes.", in.Topic, in.Subject, in.NoteTakingStyle),
		KeyPoints: []string{"Definition", "Key processes", "Why it matters"},
	}
	if boolOr(in.IncludeExamples, true) {
		section.Examples = []string{fmt.Sprintf("An everyday example of %s.", in.Topic)}
	}
	if boolOr(in.IncludeAnalogies, false) {
		section.Analogies = []string{fmt.Sprintf("%s works a bit like a factory turning inputs into outputs.", in.Topic)}
	}

	return success(ToolNoteMaker, NoteResult{
		Topic:             in.Topic,
		Title:             fmt.Sprintf("%s: %s notes", in.Subject, in.Topic),
		Summary:           fmt.Sprintf("Your notes on %s are ready.", in.Topic),
		NoteSections:      []NoteSection{section},
		KeyConcepts:       []string{in.Topic, in.Subject},
		NoteTakingStyle:   in.NoteTakingStyle,
		AdaptationDetails: adaptation("Notes", in.UserInfo),
	}), nil
}
