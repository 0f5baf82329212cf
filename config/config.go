// Package config loads the JSON file configuration for the generator.
package config

import (
	"encoding/json"
	"os"
)

// Config is the on-disk configuration. API keys may instead come from the
// environment (OPENAI_API_KEY, TAVILY_API_KEY).
type Config struct {
	LLM        *LLMConfig      `json:"llm,omitempty"`
	Tavily     *TavilyConfig   `json:"tavily,omitempty"`
	Pipeline   *PipelineConfig `json:"pipeline,omitempty"`
	ServerAddr string          `json:"server_addr,omitempty"`
	LogMode    string          `json:"log_mode,omitempty"`
}

type LLMConfig struct {
	Provider string `json:"provider,omitempty"`
	Model    string `json:"model,omitempty"`
	APIKey   string `json:"api_key,omitempty"`
	BaseURL  string `json:"base_url,omitempty"`
}

type TavilyConfig struct {
	APIKey  string `json:"api_key,omitempty"`
	BaseURL string `json:"base_url,omitempty"`
}

// PipelineConfig mirrors the pipeline knobs; zero values mean "default".
type PipelineConfig struct {
	MaxRevisions         int `json:"max_revisions,omitempty"`
	MaxGenerationRetries int `json:"max_generation_retries,omitempty"`
	MaxResearchQueries   int `json:"max_research_queries,omitempty"`
	MaxFindings          int `json:"max_findings,omitempty"`
	ResultsPerQuery      int `json:"results_per_query,omitempty"`
	SlideCountHint       int `json:"slide_count_hint,omitempty"`
	StageTimeoutSeconds  int `json:"stage_timeout_seconds,omitempty"`
}

// Load reads JSON config from disk and applies environment fallbacks.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}
	cfg.applyEnv()
	return cfg, nil
}

// Default returns a config backed purely by the environment, for running
// without a config file.
func Default() Config {
	var cfg Config
	cfg.applyEnv()
	return cfg
}

func (c *Config) applyEnv() {
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		if c.LLM == nil {
			c.LLM = &LLMConfig{Provider: "openai"}
		}
		if c.LLM.APIKey == "" {
			c.LLM.APIKey = key
		}
	}
	if key := os.Getenv("TAVILY_API_KEY"); key != "" {
		if c.Tavily == nil {
			c.Tavily = &TavilyConfig{}
		}
		if c.Tavily.APIKey == "" {
			c.Tavily.APIKey = key
		}
	}
}
