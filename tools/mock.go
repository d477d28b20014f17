package tools

import (
	"context"
	"fmt"

	"github.com/rickchristie/planact"
)

// Tool names.
const (
	AverageDogWeightToolName = "AverageDogWeightTool"
	WeatherToolName          = "WeatherTool"
	NewsSearchToolName       = "NewsSearchTool"
)

// -----------------------------------------------------------------------------
// Mock data
// -----------------------------------------------------------------------------

const defaultDogWeight = "An average dog weighs 50 lbs"

var dogWeights = map[string]string{
	"Scottish Terrier": "Scottish Terriers average 20 lbs",
	"Border Collie":    "Border Collies average weight is 37 lbs",
	"Toy Poodle":       "Toy Poodles average weight is 7 lbs",
}

type weather struct {
	temperature float64
	conditions  string
}

var defaultWeather = weather{temperature: 18.0, conditions: "unknown"}

var weatherByCity = map[string]weather{
	"New York": {temperature: 20.5, conditions: "partly cloudy"},
	"London":   {temperature: 15.0, conditions: "rainy"},
	"Tokyo":    {temperature: 25.0, conditions: "sunny"},
}

// -----------------------------------------------------------------------------
// Tools
// -----------------------------------------------------------------------------

// NewAverageDogWeightTool returns a tool that looks up the average weight of a dog breed.
// Breed names match exactly; unknown breeds get a generic answer.
func NewAverageDogWeightTool() *planact.ToolFunc {
	return newTool(
		planact.ToolDescriptor{
			Name:         AverageDogWeightToolName,
			Description:  "Returns the average weight of a specific dog breed.",
			InputParams:  map[string]string{"name": "str"},
			OutputFormat: map[string]string{"weight": "str"},
		},
		func(ctx context.Context, params map[string]any) (map[string]any, error) {
			name, _ := params["name"].(string)
			weight, ok := dogWeights[name]
			if !ok {
				weight = defaultDogWeight
			}
			return map[string]any{"weight": weight}, nil
		},
	)
}

// NewWeatherTool returns a tool that reports mock weather for a city.
func NewWeatherTool() *planact.ToolFunc {
	return newTool(
		planact.ToolDescriptor{
			Name:         WeatherToolName,
			Description:  "Gets current weather for a given city",
			InputParams:  map[string]string{"city": "str"},
			OutputFormat: map[string]string{"temperature": "float", "conditions": "str"},
		},
		func(ctx context.Context, params map[string]any) (map[string]any, error) {
			city, _ := params["city"].(string)
			if city == "" {
				return nil, fmt.Errorf("%w: city is required", planact.ErrInvalidParams)
			}
			w, ok := weatherByCity[city]
			if !ok {
				w = defaultWeather
			}
			return map[string]any{"temperature": w.temperature, "conditions": w.conditions}, nil
		},
	)
}

// NewNewsSearchTool returns a tool that produces mock headlines about a topic.
func NewNewsSearchTool() *planact.ToolFunc {
	return newTool(
		planact.ToolDescriptor{
			Name:         NewsSearchToolName,
			Description:  "Searches for recent news about a topic",
			InputParams:  map[string]string{"topic": "str"},
			OutputFormat: map[string]string{"headlines": "list"},
		},
		func(ctx context.Context, params map[string]any) (map[string]any, error) {
			topic, _ := params["topic"].(string)
			if topic == "" {
				return nil, fmt.Errorf("%w: topic is required", planact.ErrInvalidParams)
			}
			return map[string]any{"headlines": []string{
				"Latest developments in " + topic,
				"New research about " + topic + " revealed",
				"Experts discuss " + topic + " implications",
			}}, nil
		},
	)
}
