package tools

import (
	"context"
	"fmt"
)

type FlashcardInput struct {
	LearnerContext
	Topic           string `json:"topic" validate:"required"`
	Count           int    `json:"count" validate:"required,min=1,max=20"`
	Difficulty      string `json:"difficulty" validate:"required,oneof=easy medium hard"`
	Subject         string `json:"subject" validate:"required"`
	IncludeExamples *bool  `json:"include_examples"`
}

type Flashcard struct {
	Title    string `json:"title"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Example  string `json:"example,omitempty"`
}

type FlashcardResult struct {
	Flashcards        []Flashcard `json:"flashcards"`
	Topic             string      `json:"topic"`
	Subject           string      `json:"subject"`
	Difficulty        string      `json:"difficulty"`
	AdaptationDetails string      `json:"adaptation_details"`
}

func (e *Executor) generateFlashcards(_ context.Context, in *FlashcardInput) (*ToolResponse, error) {
	if resp := e.check(ToolFlashcardGenerator, in); resp != nil {
		return resp, nil
	}

	withExamples := boolOr(in.IncludeExamples, true)
	cards := make([]Flashcard, 0, in.Count)
	for i := 1; i <= in.Count; i++ {
		card := Flashcard{
			Title:    fmt.Sprintf("Key Term %d in %s", i, in.Topic),
			Question: fmt.Sprintf("What is an essential idea of %s (%s)?", in.Topic, in.Subject),
			Answer:   fmt.Sprintf("A %s-level summary of %s.", in.Difficulty, in.Topic),
		}
		if withExamples {
			card.Example = fmt.Sprintf("A worked example drawn from %s.", in.Subject)
		}
		cards = append(cards, card)
	}

	return success(ToolFlashcardGenerator, FlashcardResult{
		Flashcards:        cards,
		Topic:             in.Topic,
		Subject:           in.Subject,
		Difficulty:        in.Difficulty,
		AdaptationDetails: adaptation("Flashcards", in.UserInfo),
	}), nil
}
