package tools

import (
	"encoding/json"
	"strconv"

	"github.com/cloudwego/eino/schema"
	"github.com/invopop/jsonschema"
	"github.com/samber/lo"

	errx "github.com/tutor-orchestrator/server/internal/core/error"
)

const (
	ToolNoteMaker          = "NoteMakerTool"
	ToolFlashcardGenerator = "FlashcardGeneratorTool"
	ToolConceptExplainer   = "ConceptExplainerTool"
	ToolQuizGenerator      = "QuizGeneratorTool"
)

type FieldType string

const (
	TypeString  FieldType = "string"
	TypeInteger FieldType = "integer"
	TypeBoolean FieldType = "boolean"
	TypeArray   FieldType = "array"
)

// Field describes one named parameter of a tool. Arrays are arrays of strings.
type Field struct {
	Name     string
	Type     FieldType
	Desc     string
	Enum     []string
	Min      *int
	Max      *int
	Required bool
	Default  any
}

// Schema is the static parameter shape of one tool. Fields keep declaration order.
type Schema struct {
	Name        string
	DisplayName string
	Desc        string
	Fields      []Field
}

func (s *Schema) Field(name string) (Field, bool) {
	return lo.Find(s.Fields, func(f Field) bool { return f.Name == name })
}

// RequiredFields returns the names of required fields in declaration order.
func (s *Schema) RequiredFields() []string {
	return lo.FilterMap(s.Fields, func(f Field, _ int) (string, bool) {
		return f.Name, f.Required
	})
}

// ToolInfo converts the schema into an Eino tool descriptor.
func (s *Schema) ToolInfo() *schema.ToolInfo {
	params := make(map[string]*schema.ParameterInfo, len(s.Fields))
	for _, f := range s.Fields {
		p := &schema.ParameterInfo{
			Type:     schema.DataType(f.Type),
			Desc:     f.Desc,
			Required: f.Required,
		}
		if f.Type == TypeArray {
			p.ElemInfo = &schema.ParameterInfo{Type: schema.String, Enum: f.Enum}
		} else {
			p.Enum = f.Enum
		}
		params[f.Name] = p
	}
	return &schema.ToolInfo{
		Name:        s.Name,
		Desc:        s.Desc,
		ParamsOneOf: schema.NewParamsOneOfByParams(params),
	}
}

// JSONSchema renders the extraction output shape of the tool.
func (s *Schema) JSONSchema() *jsonschema.Schema {
	props := jsonschema.NewProperties()
	for _, f := range s.Fields {
		props.Set(f.Name, f.jsonSchema())
	}
	return &jsonschema.Schema{
		Type:        "object",
		Title:       s.Name,
		Description: s.Desc,
		Properties:  props,
		Required:    s.RequiredFields(),
	}
}

func (f Field) jsonSchema() *jsonschema.Schema {
	js := &jsonschema.Schema{
		Type:        string(f.Type),
		Description: f.Desc,
		Default:     f.Default,
	}
	enum := lo.Map(f.Enum, func(v string, _ int) any { return v })
	if f.Type == TypeArray {
		js.Items = &jsonschema.Schema{Type: string(TypeString), Enum: enum}
	} else if len(enum) > 0 {
		js.Enum = enum
	}
	if f.Min != nil {
		js.Minimum = json.Number(strconv.Itoa(*f.Min))
	}
	if f.Max != nil {
		js.Maximum = json.Number(strconv.Itoa(*f.Max))
	}
	return js
}

// Registry is the closed enumeration of known tools.
type Registry struct {
	schemas []*Schema
	byName  map[string]*Schema
}

func NewRegistry(schemas ...*Schema) *Registry {
	r := &Registry{byName: make(map[string]*Schema, len(schemas))}
	for _, s := range schemas {
		if _, dup := r.byName[s.Name]; dup {
			continue
		}
		r.schemas = append(r.schemas, s)
		r.byName[s.Name] = s
	}
	return r
}

// Names returns tool names in registration order.
func (r *Registry) Names() []string {
	return lo.Map(r.schemas, func(s *Schema, _ int) string { return s.Name })
}

func (r *Registry) Schemas() []*Schema {
	return append([]*Schema(nil), r.schemas...)
}

func (r *Registry) Has(name string) bool {
	_, ok := r.byName[name]
	return ok
}

// Lookup returns the schema for name or an errx.ErrUnknownTool error.
func (r *Registry) Lookup(name string) (*Schema, error) {
	s, ok := r.byName[name]
	if !ok {
		return nil, errx.UnknownTool(name)
	}
	return s, nil
}

// DisplayName falls back to the tool name for unknown tools.
func (r *Registry) DisplayName(name string) string {
	if s, ok := r.byName[name]; ok && s.DisplayName != "" {
		return s.DisplayName
	}
	return name
}

// Descriptor is the public description of one tool.
type Descriptor struct {
	Name        string             `json:"name"`
	DisplayName string             `json:"display_name"`
	Description string             `json:"description"`
	Parameters  *jsonschema.Schema `json:"parameters"`
}

// Descriptors returns every tool description in registration order.
func (r *Registry) Descriptors() []Descriptor {
	return lo.Map(r.schemas, func(s *Schema, _ int) Descriptor {
		return Descriptor{Name: s.Name, DisplayName: s.DisplayName, Description: s.Desc, Parameters: s.JSONSchema()}
	})
}

func intPtr(v int) *int { return &v }

// DefaultRegistry returns the four educational tools.
func DefaultRegistry() *Registry {
	return NewRegistry(
		&Schema{
			Name:        ToolNoteMaker,
			DisplayName: "Note Maker",
			Desc:        "Creates structured study notes on a topic, formatted in the requested note-taking style.",
			Fields: []Field{
				{Name: "topic", Type: TypeString, Required: true, Desc: "The main topic for the notes, e.g. 'Photosynthesis'."},
				{Name: "subject", Type: TypeString, Required: true, Desc: "The academic subject the topic belongs to, e.g. 'Biology'."},
				{Name: "note_taking_style", Type: TypeString, Required: true, Enum: []string{"outline", "bullet_points", "narrative", "structured"},
					Desc: "How the notes should be laid out."},
				{Name: "include_examples", Type: TypeBoolean, Default: true, Desc: "Whether to include worked examples."},
				{Name: "include_analogies", Type: TypeBoolean, Default: false, Desc: "Whether to include analogies."},
			},
		},
		&Schema{
			Name:        ToolFlashcardGenerator,
			DisplayName: "Flashcard Generator",
			Desc:        "Generates question/answer flashcards for active recall practice.",
			Fields: []Field{
				{Name: "topic", Type: TypeString, Required: true, Desc: "The topic to build flashcards for."},
				{Name: "count", Type: TypeInteger, Required: true, Min: intPtr(1), Max: intPtr(20), Desc: "How many flashcards to generate (1-20)."},
				{Name: "difficulty", Type: TypeString, Required: true, Enum: []string{"easy", "medium", "hard"}, Desc: "Difficulty of the flashcards."},
				{Name: "subject", Type: TypeString, Required: true, Desc: "The academic subject, e.g. 'Biology'."},
				{Name: "include_examples", Type: TypeBoolean, Default: true, Desc: "Whether each card should carry an example."},
			},
		},
		&Schema{
			Name:        ToolConceptExplainer,
			DisplayName: "Concept Explainer",
			Desc:        "Explains a single concept at the requested depth with examples and related concepts.",
			Fields: []Field{
				{Name: "concept_to_explain", Type: TypeString, Required: true, Desc: "The specific concept the student wants explained."},
				{Name: "current_topic", Type: TypeString, Required: true, Desc: "The broader topic the concept belongs to."},
				{Name: "desired_depth", Type: TypeString, Required: true, Enum: []string{"basic", "intermediate", "advanced", "comprehensive"},
					Desc: "How deep the explanation should go."},
			},
		},
		&Schema{
			Name:        ToolQuizGenerator,
			DisplayName: "Quiz Generator",
			Desc:        "Builds a practice quiz with the requested question types.",
			Fields: []Field{
				{Name: "topic", Type: TypeString, Required: true, Desc: "The topic the quiz covers."},
				{Name: "subject", Type: TypeString, Required: true, Desc: "The academic subject, e.g. 'Chemistry'."},
				{Name: "difficulty", Type: TypeString, Required: true, Enum: []string{"beginner", "intermediate", "expert"}, Desc: "Difficulty of the quiz."},
				{Name: "question_types", Type: TypeArray, Required: true, Enum: []string{"multiple_choice", "true_false", "short_answer"},
					Desc: "One or more question formats."},
				{Name: "question_count", Type: TypeInteger, Min: intPtr(5), Max: intPtr(25), Default: 10, Desc: "Number of questions (5-25)."},
			},
		},
	)
}
