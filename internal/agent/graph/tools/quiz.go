package tools

import (
	"context"
	"fmt"
)

const defaultQuestionCount = 10

type QuizInput struct {
	LearnerContext
	Topic         string   `json:"topic" validate:"required"`
	Subject       string   `json:"subject" validate:"required"`
	Difficulty    string   `json:"difficulty" validate:"required,oneof=beginner intermediate expert"`
	QuestionTypes []string `json:"question_types" validate:"required,min=1,dive,oneof=multiple_choice true_false short_answer"`
	QuestionCount int      `json:"question_count" validate:"omitempty,min=5,max=25"`
}

type QuizQuestion struct {
	Number   int      `json:"number"`
	Type     string   `json:"type"`
	Question string   `json:"question"`
	Options  []string `json:"options,omitempty"`
	Answer   string   `json:"answer"`
}

type QuizResult struct {
	Topic             string         `json:"topic"`
	Subject           string         `json:"subject"`
	Difficulty        string         `json:"difficulty"`
	Questions         []QuizQuestion `json:"questions"`
	AdaptationDetails string         `json:"adaptation_details"`
}

func (e *Executor) generateQuiz(_ context.Context, in *QuizInput) (*ToolResponse, error) {
	if in.QuestionCount == 0 {
		in.QuestionCount = defaultQuestionCount
	}
	if resp := e.check(ToolQuizGenerator, in); resp != nil {
		return resp, nil
	}

	questions := make([]QuizQuestion, 0, in.QuestionCount)
	for i := 0; i < in.QuestionCount; i++ {
		kind := in.QuestionTypes[i%len(in.QuestionTypes)]
		q := QuizQuestion{
			Number:   i + 1,
			Type:     kind,
			Question: fmt.Sprintf("Question %d about %s (%s).", i+1, in.Topic, in.Subject),
		}
		switch kind {
		case "multiple_choice":
			q.Options = []string{"A", "B", "C", "D"}
			q.Answer = "A"
		case "true_false":
			q.Options = []string{"True", "False"}
			q.Answer = "True"
		default:
			q.Answer = fmt.Sprintf("A short answer about %s.", in.Topic)
		}
		questions = append(questions, q)
	}

	return success(ToolQuizGenerator, QuizResult{
		Topic:             in.Topic,
		Subject:           in.Subject,
		Difficulty:        in.Difficulty,
		Questions:         questions,
		AdaptationDetails: adaptation("Quiz", in.UserInfo),
	}), nil
}
