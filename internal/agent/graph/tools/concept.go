package tools

import (
	"context"
	"fmt"
	"net/http"
	"slices"
	"strings"
)

// placeholderConcepts are rejected by the explainer as too vague to explain.
var placeholderConcepts = []string{"test", "testing", "example", "placeholder", "something", "anything", "asdf", "foo", "bar"}

type ConceptInput struct {
	LearnerContext
	ConceptToExplain string `json:"concept_to_explain" validate:"required"`
	CurrentTopic     string `json:"current_topic" validate:"required"`
	DesiredDepth     string `json:"desired_depth" validate:"required,oneof=basic intermediate advanced comprehensive"`
}

type ConceptResult struct {
	Concept           string   `json:"concept"`
	Explanation       string   `json:"explanation"`
	Examples          []string `json:"examples"`
	RelatedConcepts   []string `json:"related_concepts"`
	PracticeQuestions []string `json:"practice_questions"`
	Depth             string   `json:"depth"`
	AdaptationDetails string   `json:"adaptation_details"`
}

func (e *Executor) explainConcept(_ context.Context, in *ConceptInput) (*ToolResponse, error) {
	if resp := e.check(ToolConceptExplainer, in); resp != nil {
		return resp, nil
	}
	if slices.Contains(placeholderConcepts, strings.ToLower(strings.TrimSpace(in.ConceptToExplain))) {
		return rejection(ToolConceptExplainer, http.StatusBadRequest,
			fmt.Sprintf("%q is too vague to explain; name a specific concept", in.ConceptToExplain),
			[]FieldViolation{{Field: "concept_to_explain", Rule: "specific"}}), nil
	}

	return success(ToolConceptExplainer, ConceptResult{
		Concept:     in.ConceptToExplain,
		Explanation: fmt.Sprintf("A %s explanation of %s in the context of %s.", in.DesiredDepth, in.ConceptToExplain, in.CurrentTopic),
		Examples:    []string{fmt.Sprintf("Where %s shows up in %s.", in.ConceptToExplain, in.CurrentTopic)},
		RelatedConcepts: []string{
			in.CurrentTopic,
		},
		PracticeQuestions: []string{fmt.Sprintf("How would you describe %s in your own words?", in.ConceptToExplain)},
		Depth:             in.DesiredDepth,
		AdaptationDetails: adaptation("Explanation", in.UserInfo),
	}), nil
}
