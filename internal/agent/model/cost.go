package model

import (
	"strings"

	"github.com/cloudwego/eino/schema"
)

// Pricing is the USD price per 1M text tokens.
type Pricing struct {
	InputPerM  float64
	OutputPerM float64
}

// Cost is the USD price of one inference call.
type Cost struct {
	Input  float64
	Output float64
}

func (c Cost) Total() float64 { return c.Input + c.Output }

var defaultPricing = map[string]Pricing{
	"gemini-2.5-pro":        {InputPerM: 1.25, OutputPerM: 10.00},
	"gemini-2.5-flash":      {InputPerM: 0.30, OutputPerM: 2.50},
	"gemini-2.5-flash-lite": {InputPerM: 0.10, OutputPerM: 0.40},
	"gemini-2.0-flash":      {InputPerM: 0.10, OutputPerM: 0.40},
	"gemini-2.0-flash-lite": {InputPerM: 0.075, OutputPerM: 0.30},
}

// ResolvePricing matches the longest known model prefix so dated and
// preview variants ("gemini-2.5-flash-preview-09-2025") price like their
// family. Unknown models are free.
func ResolvePricing(model string) Pricing {
	model = strings.ToLower(strings.TrimPrefix(model, "models/"))
	var (
		best  string
		price Pricing
	)
	for name, p := range defaultPricing {
		if strings.HasPrefix(model, name) && len(name) > len(best) {
			best, price = name, p
		}
	}
	return price
}

func ComputeCost(usage *schema.TokenUsage, p Pricing) Cost {
	if usage == nil {
		return Cost{}
	}
	return Cost{
		Input:  p.InputPerM * float64(usage.PromptTokens) / 1_000_000.0,
		Output: p.OutputPerM * float64(usage.CompletionTokens) / 1_000_000.0,
	}
}
