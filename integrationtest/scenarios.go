// Package integrationtest runs the agent against a live model.
//
// Tests are skipped unless PLANACT_TEST_OPENAI_KEY is set. Each scenario prints the full
// conversation as YAML so a failed run can be read afterwards.
package integrationtest

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rickchristie/planact/agents/basic"
	"github.com/rickchristie/planact/config"
	"github.com/rickchristie/planact/internal/transcript"
	"github.com/rickchristie/planact/models"
	"github.com/rickchristie/planact/toolchain"
	"github.com/rickchristie/planact/tools"
)

// KeyEnv holds the API key used by live scenarios.
const KeyEnv = "PLANACT_TEST_OPENAI_KEY"

// Scenario is one question asked of a fresh agent.
type Scenario struct {
	Name     string
	Toolset  string
	Question string

	// Expect lists substrings, any of which must appear in the reply. Empty means any reply.
	Expect []string

	// ExpectToolAnswer reports whether the conversation must contain an executor answer.
	ExpectToolAnswer bool
}

// Scenarios returns the live scenarios.
func Scenarios() []Scenario {
	return []Scenario{
		{
			Name:             "calculator",
			Toolset:          tools.SetMath,
			Question:         "What is 15 * 45?",
			Expect:           []string{"675"},
			ExpectToolAnswer: true,
		},
		{
			Name:             "dog weight",
			Toolset:          tools.SetDogs,
			Question:         "How much does a Border Collie weigh?",
			Expect:           []string{"37"},
			ExpectToolAnswer: true,
		},
		{
			Name:             "weather",
			Toolset:          tools.SetWeather,
			Question:         "What is the weather like in Tokyo?",
			Expect:           []string{"25", "sunny", "Sunny"},
			ExpectToolAnswer: true,
		},
		{
			Name:     "small talk",
			Toolset:  tools.SetMath,
			Question: "Hello, how are you?",
		},
	}
}

// Run asks the scenario's question and checks the reply. The conversation is written to w.
func (s Scenario) Run(ctx context.Context, w io.Writer) error {
	cfg := config.Default()
	cfg.LLM.APIKey = os.Getenv(KeyEnv)

	model, err := models.New(ctx, cfg.LLM, nil)
	if err != nil {
		return err
	}
	set, err := tools.Set(s.Toolset)
	if err != nil {
		return err
	}
	agent := basic.NewAgent(model, toolchain.NewRegistry(set...)).
		WithModelName(cfg.LLM.Model).
		WithMaxTurns(cfg.Agent.MaxTurns)

	reply, err := agent.Ask(ctx, s.Question)
	if werr := transcript.New(w).Write(transcript.Entry{
		Session:  s.Name,
		Question: s.Question,
		Messages: agent.Messages(),
	}); werr != nil {
		return werr
	}
	if err != nil {
		return err
	}

	if s.ExpectToolAnswer {
		found := false
		for _, m := range agent.Messages() {
			if strings.HasPrefix(m.Content, "<agent_answer>") && !strings.Contains(m.Content, basic.FallbackAnswer) {
				found = true
			}
		}
		if !found {
			return fmt.Errorf("%s: no tool answer in conversation", s.Name)
		}
	}
	if len(s.Expect) == 0 {
		return nil
	}
	for _, want := range s.Expect {
		if strings.Contains(reply, want) {
			return nil
		}
	}
	return fmt.Errorf("%s: reply %q contains none of %q", s.Name, reply, s.Expect)
}
