package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/bububa/instructor-go/pkg/instructor"
	cohereClient "github.com/cohere-ai/cohere-go/v2/client"
	cohereOption "github.com/cohere-ai/cohere-go/v2/option"
	anthropic "github.com/liushuangls/go-anthropic/v2"
	openai "github.com/sashabaranov/go-openai"

	"github.com/bububa/deep-research/agents"
	"github.com/bububa/deep-research/research"
	"github.com/bububa/deep-research/tools/tavily"
	"github.com/bububa/deep-research/tools/webscraper"
)

// EnvConfigPath points at an optional YAML settings file
const EnvConfigPath = "DEEP_RESEARCH_CONFIG"

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)
	query := strings.TrimSpace(strings.Join(os.Args[1:], " "))
	if query == "" {
		fmt.Fprintln(os.Stderr, "usage: deep-research <query>")
		os.Exit(2)
	}
	cfg, err := research.LoadConfig(os.Getenv(EnvConfigPath))
	if err != nil {
		logger.Error("load config failed", "error", err)
		os.Exit(1)
	}
	agentOpts := []agents.Option{
		agents.WithClient(newInstructor(cfg.Provider)),
		agents.WithModel(cfg.Model),
		agents.WithTemperature(cfg.Temperature),
		agents.WithMaxTokens(cfg.MaxTokens),
	}
	searchCap := research.NewWebSearch(tavily.New())
	pageReader := research.NewPageReader(webscraper.New())
	usage := research.NewUsageTally()
	newWorker := func() research.Worker {
		return research.NewWorkerAgent(searchCap, agentOpts...).
			SetPageReader(pageReader).
			SetUsageTally(usage).
			SetMaxSearchResults(cfg.SearchMaxResults)
	}
	dispatcher := research.NewDispatcher(newWorker,
		research.WithConcurrency(cfg.Concurrency),
		research.WithLogger(logger))
	coordinator := research.NewCoordinator(
		research.NewPlannerAgent(agentOpts...),
		research.NewEvaluatorAgent(agentOpts...),
		research.NewSynthesizerAgent(agentOpts...),
		dispatcher,
		research.WithFollowUpRounds(cfg.FollowUpRounds),
		research.WithCoordinatorLogger(logger),
		research.WithUsageTally(usage),
	)
	report, err := coordinator.Research(context.Background(), query)
	if err != nil {
		logger.Error("research failed", "error", err)
		os.Exit(1)
	}
	fmt.Println(report)
	tokens := usage.Usage()
	logger.Info("token usage", "input_tokens", tokens.InputTokens, "output_tokens", tokens.OutputTokens)
}

func newInstructor(provider string) instructor.Instructor {
	switch provider {
	case "anthropic":
		authToken := os.Getenv("ANTHROPIC_API_KEY")
		baseURL := os.Getenv("ANTHROPIC_API_BASE_URL")
		opts := make([]anthropic.ClientOption, 0, 1)
		if baseURL != "" {
			opts = append(opts, anthropic.WithBaseURL(baseURL))
		}
		clt := anthropic.NewClient(authToken, opts...)
		return instructor.FromAnthropic(clt, instructor.WithMode(instructor.ModeJSON), instructor.WithMaxRetries(3), instructor.WithValidation())
	case "cohere":
		authToken := os.Getenv("COHERE_API_KEY")
		baseURL := os.Getenv("COHERE_API_BASE_URL")
		opts := make([]cohereOption.RequestOption, 0, 2)
		opts = append(opts, cohereOption.WithToken(authToken))
		if baseURL != "" {
			opts = append(opts, cohereOption.WithBaseURL(baseURL))
		}
		clt := cohereClient.NewClient(opts...)
		return instructor.FromCohere(clt, instructor.WithMode(instructor.ModeJSON), instructor.WithMaxRetries(3), instructor.WithValidation())
	default:
		authToken := os.Getenv("OPENAI_API_KEY")
		baseURL := os.Getenv("OPENAI_API_BASE_URL")
		cfg := openai.DefaultConfig(authToken)
		if baseURL != "" {
			cfg.BaseURL = baseURL
		}
		clt := openai.NewClientWithConfig(cfg)
		return instructor.FromOpenAI(clt, instructor.WithMode(instructor.ModeJSON), instructor.WithMaxRetries(3), instructor.WithValidation())
	}
}
