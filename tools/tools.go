// Package tools provides the concrete tools shipped with the planact CLI.
//
// Every tool validates its own parameters against the JSON Schema derived from its
// descriptor: each declared parameter is required and must match its type label. A
// validation failure wraps planact.ErrInvalidParams.
package tools

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/rickchristie/planact"
	"github.com/rickchristie/planact/schema"
)

// Tool set names accepted by Set.
const (
	SetMath    = "math"
	SetDogs    = "dogs"
	SetWeather = "weather"
	SetAll     = "all"
)

// newTool builds a planact.Tool whose parameters are checked against info.InputParams
// before fn runs.
func newTool(
	info planact.ToolDescriptor,
	fn func(ctx context.Context, params map[string]any) (map[string]any, error),
) *planact.ToolFunc {
	s := schema.MustFromParams(info.InputParams)
	return planact.NewToolFunc(info, func(ctx context.Context, params map[string]any) (map[string]any, error) {
		if err := s.Validate(params); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", planact.ErrInvalidParams, info.Name, err)
		}
		return fn(ctx, params)
	})
}

// Set returns the tools of the named set.
//
//	math     CalculateTool
//	dogs     AverageDogWeightTool, CalculateTool
//	weather  WeatherTool, NewsSearchTool
//	all      every tool
func Set(name string) ([]planact.Tool, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case SetMath:
		return []planact.Tool{NewCalculateTool()}, nil
	case SetDogs:
		return []planact.Tool{NewAverageDogWeightTool(), NewCalculateTool()}, nil
	case SetWeather:
		return []planact.Tool{NewWeatherTool(), NewNewsSearchTool()}, nil
	case SetAll:
		return []planact.Tool{
			NewCalculateTool(),
			NewAverageDogWeightTool(),
			NewWeatherTool(),
			NewNewsSearchTool(),
		}, nil
	default:
		return nil, fmt.Errorf("unknown tool set %q, expected one of %s", name, strings.Join(SetNames(), ", "))
	}
}

// SetNames returns the accepted tool set names, sorted.
func SetNames() []string {
	names := []string{SetMath, SetDogs, SetWeather, SetAll}
	sort.Strings(names)
	return names
}
