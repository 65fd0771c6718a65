package graph

import (
	"context"
	"fmt"

	einocb "github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/compose"

	"github.com/tutor-orchestrator/server/internal/agent/graph/nodes"
	"github.com/tutor-orchestrator/server/internal/agent/graph/tools"
	"github.com/tutor-orchestrator/server/internal/agent/model"
	"github.com/tutor-orchestrator/server/internal/agent/oracle"
	logx "github.com/tutor-orchestrator/server/pkg/logger"
)

const graphName = "TutorPipeline"

// Runner executes one turn of the compiled pipeline.
type Runner interface {
	Invoke(ctx context.Context, in model.TurnInput) (*model.TurnResult, error)
}

// Config holds everything needed to compose the pipeline.
type Config struct {
	Oracle       oracle.Oracle
	Registry     *tools.Registry
	Conversation model.ConversationConfig
	// Callbacks observes every run; nil disables observation.
	Callbacks einocb.Handler
}

// GraphBuilder handles the construction of the pipeline graph
type GraphBuilder struct {
	deps  nodes.Deps
	graph *compose.Graph[model.TurnInput, *model.TurnResult]
}

type graphRunner struct {
	runnable  compose.Runnable[model.TurnInput, *model.TurnResult]
	callbacks einocb.Handler
}

func (r *graphRunner) Invoke(ctx context.Context, in model.TurnInput) (*model.TurnResult, error) {
	var opts []compose.Option
	if r.callbacks != nil {
		opts = append(opts, compose.WithCallbacks(r.callbacks))
	}
	out, err := r.runnable.Invoke(ctx, in, opts...)
	if err != nil {
		return nil, err
	}
	if out == nil {
		return nil, fmt.Errorf("pipeline returned no result")
	}
	return out, nil
}

// BuildPipeline compiles the classify, extract, validate pipeline and returns a Runner.
func BuildPipeline(ctx context.Context, cfg Config) (Runner, error) {
	if cfg.Oracle == nil {
		return nil, fmt.Errorf("oracle is nil")
	}
	if cfg.Registry == nil {
		return nil, fmt.Errorf("tool registry is nil")
	}

	builder := &GraphBuilder{
		deps: nodes.Deps{
			Oracle:   cfg.Oracle,
			Registry: cfg.Registry,
			MaxTurns: cfg.Conversation.Prompt.MaxTurns,
		},
		graph: compose.NewGraph[model.TurnInput, *model.TurnResult](
			compose.WithGenLocalState(func(ctx context.Context) *model.PipelineState {
				return &model.PipelineState{}
			}),
		),
	}

	if err := builder.addNodes(); err != nil {
		return nil, err
	}
	if err := builder.addEdges(); err != nil {
		return nil, err
	}
	if err := builder.addBranches(); err != nil {
		return nil, err
	}

	runnable, err := builder.compile(ctx)
	if err != nil {
		return nil, err
	}
	logx.Debug().Msg("Pipeline built successfully")
	return &graphRunner{runnable: runnable, callbacks: cfg.Callbacks}, nil
}

// addNodes adds all processing nodes to the graph
func (b *GraphBuilder) addNodes() error {
	steps := []struct {
		name string
		add  func() error
	}{
		{nodes.NodeClassify, func() error {
			return b.graph.AddLambdaNode(nodes.NodeClassify, nodes.NewClassifyNode(b.deps),
				compose.WithStatePreHandler(nodes.NewClassifyPreHandler()),
				compose.WithStatePostHandler(nodes.NewClassifyPostHandler()),
			)
		}},
		{nodes.NodeExtract, func() error {
			return b.graph.AddLambdaNode(nodes.NodeExtract, nodes.NewExtractNode(b.deps),
				compose.WithStatePostHandler(nodes.NewExtractPostHandler()),
			)
		}},
		{nodes.NodeValidate, func() error {
			return b.graph.AddLambdaNode(nodes.NodeValidate, nodes.NewValidateNode(b.deps),
				compose.WithStatePostHandler(nodes.NewValidatePostHandler()),
			)
		}},
		{nodes.NodeRespondTools, func() error {
			return b.graph.AddLambdaNode(nodes.NodeRespondTools, nodes.NewRespondToolsNode(b.deps))
		}},
		{nodes.NodeRequestInfo, func() error {
			return b.graph.AddLambdaNode(nodes.NodeRequestInfo, nodes.NewRequestInfoNode(b.deps))
		}},
		{nodes.NodeNoMatch, func() error {
			return b.graph.AddLambdaNode(nodes.NodeNoMatch, nodes.NewNoMatchNode())
		}},
	}

	for _, s := range steps {
		if err := s.add(); err != nil {
			logx.Error().Err(err).Str("node", s.name).Msg("Error adding node")
			return fmt.Errorf("error adding node %s: %w", s.name, err)
		}
	}
	return nil
}

// addEdges creates the main flow connections between nodes
func (b *GraphBuilder) addEdges() error {
	edges := [][2]string{
		{compose.START, nodes.NodeClassify},
		{nodes.NodeClassify, nodes.NodeExtract},
		{nodes.NodeExtract, nodes.NodeValidate},
		{nodes.NodeRespondTools, compose.END},
		{nodes.NodeRequestInfo, compose.END},
		{nodes.NodeNoMatch, compose.END},
	}

	for _, edge := range edges {
		if err := b.graph.AddEdge(edge[0], edge[1]); err != nil {
			logx.Error().Err(err).Str("from", edge[0]).Str("to", edge[1]).Msg("Error adding edge")
			return fmt.Errorf("error adding edge %s -> %s: %w", edge[0], edge[1], err)
		}
	}
	return nil
}

// addBranches adds the single outcome branch after validation
func (b *GraphBuilder) addBranches() error {
	outcomeBranch := compose.NewGraphBranch(
		nodes.NewOutcomeCondition(),
		map[string]bool{
			nodes.NodeRespondTools: true,
			nodes.NodeRequestInfo:  true,
			nodes.NodeNoMatch:      true,
		},
	)
	if err := b.graph.AddBranch(nodes.NodeValidate, outcomeBranch); err != nil {
		logx.Error().Err(err).Msg("Error adding outcome branch")
		return fmt.Errorf("error adding outcome branch: %w", err)
	}
	return nil
}

// compile finalizes and compiles the graph
func (b *GraphBuilder) compile(ctx context.Context) (compose.Runnable[model.TurnInput, *model.TurnResult], error) {
	runnable, err := b.graph.Compile(ctx,
		compose.WithMaxRunSteps(10),
		compose.WithGraphName(graphName),
	)
	if err != nil {
		logx.Error().Err(err).Msg("Error compiling graph")
		return nil, fmt.Errorf("error compiling graph: %w", err)
	}

	logx.Debug().Msg("Graph compiled successfully")
	return runnable, nil
}
