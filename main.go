package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"time"

	"auto_ppt_generator/config"
	"auto_ppt_generator/logger"
	"auto_ppt_generator/pipeline"
	"auto_ppt_generator/render"
	"auto_ppt_generator/search"
	"auto_ppt_generator/server"
)

func main() {
	configPath := flag.String("config", "config/config.json", "path to config.json")
	promptText := flag.String("prompt", "", "presentation request, e.g. \"Create a 5-slide presentation about renewable energy trends\"")
	slides := flag.Int("slides", 0, "slide count hint (overrides whatever the prompt implies)")
	out := flag.String("out", "presentation.pptx", "output path for the .pptx artifact")
	planDump := flag.String("plan-dump", "", "optional path for a JSON dump of the final slide plan")
	researchDump := flag.String("research-dump", "", "optional path for a JSON dump of the research bundle")
	preview := flag.String("preview", "", "optional path for an HTML preview of the deck")
	serve := flag.Bool("serve", false, "start the HTTP API instead of running once")
	addr := flag.String("addr", "", "http listen address when --serve (overrides config.server_addr)")
	mock := flag.Bool("mock", false, "use the deterministic mock LLM, no external calls")
	logMode := flag.String("log", "", "log mode: dev or prod (overrides config.log_mode)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		cfg = config.Default()
	}

	mode := cfg.LogMode
	if *logMode != "" {
		mode = *logMode
	}
	log, err := logger.New(mode)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer log.Sync()

	llm, err := buildLLM(cfg, *mock)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	retrieval := buildRetrieval(cfg, log, *mock)

	orch, err := pipeline.NewOrchestrator(llm, retrieval, pipelineConfig(cfg, *slides), log)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if *serve {
		srv, err := server.New(orch, render.NewPPTX(), log)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		listen := cfg.ServerAddr
		if *addr != "" {
			listen = *addr
		}
		if listen == "" {
			listen = ":8080"
		}
		log.Info("starting http server", "addr", listen)
		if err := http.ListenAndServe(listen, srv.Routes()); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	if *promptText == "" {
		fmt.Fprintln(os.Stderr, "--prompt is required (or use --serve)")
		os.Exit(1)
	}

	orch.SetRenderer(render.NewPPTX(), *out)
	result, err := orch.Run(context.Background(), pipeline.Prompt{Text: *promptText, SlideCountHint: *slides})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if *planDump != "" {
		if err := render.DumpPlan(result.Plan, *planDump); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
	if *researchDump != "" {
		if err := render.DumpResearch(result.Research, *researchDump); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
	if *preview != "" {
		html, err := render.Preview(result.Title(), result.Plan, result.Draft)
		if err == nil {
			err = os.WriteFile(*preview, html, 0o644)
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}

	log.Info("done", "status", result.Status, "revisions", result.Revisions, "artifact", result.ArtifactPath)
	fmt.Println(result.ArtifactPath)
}

func buildLLM(cfg config.Config, mock bool) (pipeline.LLMClient, error) {
	if mock {
		return pipeline.MockLLM{}, nil
	}
	if cfg.LLM == nil || cfg.LLM.Provider == "" {
		return nil, fmt.Errorf("llm config missing; set llm.provider/model/api_key or OPENAI_API_KEY, or pass --mock")
	}
	switch cfg.LLM.Provider {
	case "openai":
		return pipeline.NewOpenAILLMFromConfig(&pipeline.LLMSettings{
			Provider: cfg.LLM.Provider,
			Model:    cfg.LLM.Model,
			APIKey:   cfg.LLM.APIKey,
			BaseURL:  cfg.LLM.BaseURL,
		})
	case "deepseek":
		// DeepSeek exposes an OpenAI-compatible endpoint; base_url is required.
		if cfg.LLM.BaseURL == "" {
			return nil, fmt.Errorf("llm provider deepseek requires base_url (OpenAI-compatible endpoint)")
		}
		return pipeline.NewOpenAILLMFromConfig(&pipeline.LLMSettings{
			Provider: cfg.LLM.Provider,
			Model:    cfg.LLM.Model,
			APIKey:   cfg.LLM.APIKey,
			BaseURL:  cfg.LLM.BaseURL,
		})
	default:
		return nil, fmt.Errorf("llm provider %s not supported", cfg.LLM.Provider)
	}
}

// buildRetrieval returns nil when no search credentials are configured; the
// research stage then degrades to an empty bundle.
func buildRetrieval(cfg config.Config, log *logger.Logger, mock bool) pipeline.RetrievalClient {
	if mock || cfg.Tavily == nil || cfg.Tavily.APIKey == "" {
		log.Info("no search credentials; research stage will return an empty bundle")
		return nil
	}
	client, err := search.NewTavilyClient(cfg.Tavily.APIKey, cfg.Tavily.BaseURL, nil)
	if err != nil {
		log.Warn("search client unavailable", "error", err)
		return nil
	}
	return client
}

func pipelineConfig(cfg config.Config, slides int) pipeline.Config {
	var pc pipeline.Config
	if p := cfg.Pipeline; p != nil {
		pc = pipeline.Config{
			MaxRevisions:         p.MaxRevisions,
			MaxGenerationRetries: p.MaxGenerationRetries,
			MaxResearchQueries:   p.MaxResearchQueries,
			MaxFindings:          p.MaxFindings,
			ResultsPerQuery:      p.ResultsPerQuery,
			SlideCountHint:       p.SlideCountHint,
		}
		if p.StageTimeoutSeconds != 0 {
			pc.StageTimeout = time.Duration(p.StageTimeoutSeconds) * time.Second
		}
	}
	if slides > 0 {
		pc.SlideCountHint = slides
	}
	return pc
}
