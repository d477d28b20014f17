package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/rickchristie/planact"
	"github.com/rickchristie/planact/agents/basic"
	"github.com/rickchristie/planact/config"
	"github.com/rickchristie/planact/internal/logging"
	"github.com/rickchristie/planact/internal/metrics"
	"github.com/rickchristie/planact/models"
	"github.com/rickchristie/planact/toolchain"
	"github.com/rickchristie/planact/tools"
	"github.com/spf13/cobra"
)

// rootFlags are shared by every subcommand.
type rootFlags struct {
	configPath string
	toolset    string
	provider   string
	model      string
}

// deps holds what commands build at runtime, so tests can replace the model gateway.
type deps struct {
	newModel  func(ctx context.Context, cfg config.LLMConfig, mt *metrics.Metrics) (planact.Model, error)
	logOutput io.Writer
}

func defaultDeps() deps {
	return deps{newModel: models.New, logOutput: os.Stderr}
}

func newRootCmd(d deps) *cobra.Command {
	flags := &rootFlags{}
	root := &cobra.Command{
		Use:   "planact",
		Short: "Plan, execute and respond with tools",
		Long: `planact answers questions by planning which tools to use, running them in a
bounded Thought / Action / Observation loop, and phrasing the final reply.

Configuration is read from config.yaml (or --config, or $CONFIG_PATH) and the
environment: OPENAI_API_KEY, LLM_MODEL, DEBUG, LOG_LEVEL and PLANACT_*.`,
		SilenceUsage: true,
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&flags.configPath, "config", "c", "", "Path to the YAML configuration file")
	pf.StringVarP(&flags.toolset, "toolset", "t", tools.SetAll, "Tool set: all, dogs, math, weather")
	pf.StringVar(&flags.provider, "provider", "", "Override llm.provider")
	pf.StringVar(&flags.model, "model", "", "Override llm.model")

	root.AddCommand(
		newChatCmd(flags, d),
		newAskCmd(flags, d),
		newToolsCmd(flags),
	)
	return root
}

// app is the wiring shared by chat and ask.
type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	closeLog func() error
	metrics  *metrics.Metrics
	registry *toolchain.Registry
	agent    *basic.Agent
}

func newApp(ctx context.Context, flags *rootFlags, d deps) (*app, error) {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return nil, err
	}
	if flags.provider != "" {
		cfg.LLM.Provider = flags.provider
	}
	if flags.model != "" {
		cfg.LLM.Model = flags.model
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger, closeLog, err := logging.New(logging.Options{
		Level:  cfg.LogLevel,
		Debug:  cfg.Debug,
		Output: d.logOutput,
	})
	if err != nil {
		return nil, err
	}

	registry, err := newRegistry(flags.toolset)
	if err != nil {
		_ = closeLog()
		return nil, err
	}

	mt := metrics.New()
	model, err := d.newModel(ctx, cfg.LLM, mt)
	if err != nil {
		_ = closeLog()
		return nil, fmt.Errorf("create model: %w", err)
	}

	agent := basic.NewAgent(model, registry).
		WithModelName(cfg.LLM.Model).
		WithMaxTurns(cfg.Agent.MaxTurns).
		WithLogger(logger).
		WithMetrics(mt)

	logger.Debug("agent ready",
		"session", agent.ID(),
		"provider", cfg.LLM.Provider,
		"model", cfg.LLM.Model,
		"tools", registry.Names(),
	)

	return &app{
		cfg:      cfg,
		logger:   logger,
		closeLog: closeLog,
		metrics:  mt,
		registry: registry,
		agent:    agent,
	}, nil
}

func (a *app) Close() error {
	return a.closeLog()
}

func newRegistry(toolset string) (*toolchain.Registry, error) {
	set, err := tools.Set(toolset)
	if err != nil {
		return nil, err
	}
	return toolchain.NewRegistry(set...), nil
}
