package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"auto_ppt_generator/logger"
)

// extractJSON pulls the JSON object out of raw model output. Models often
// wrap the payload in markdown fences or prose; strip both before decoding.
func extractJSON(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		if i := strings.LastIndex(s, "```"); i >= 0 {
			s = s[:i]
		}
		s = strings.TrimSpace(s)
	}
	if len(s) > 0 && s[0] == '{' && gjson.Valid(s) {
		return s, nil
	}
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start >= 0 && end > start {
		candidate := s[start : end+1]
		if gjson.Valid(candidate) {
			return candidate, nil
		}
	}
	return "", &SchemaValidationError{Detail: "no JSON object found in model output"}
}

// generateStructured runs a bounded generate→extract→decode→validate loop.
// Transport failures count as GenerationError, malformed payloads as
// SchemaValidationError; validation detail is echoed back to the model so
// the retry can correct itself. retries is the number of additional
// attempts after the first.
func generateStructured[T any](ctx context.Context, llm LLMClient, prompt ChatPrompt, retries int, timeout time.Duration, validate func(*T) error, log *logger.Logger) (T, error) {
	var zero T
	user := prompt.User
	var lastErr error

	for attempt := 0; attempt <= retries; attempt++ {
		p := prompt
		p.User = user

		raw, err := completeWithTimeout(ctx, llm, p, timeout)
		if err != nil {
			lastErr = &GenerationError{Err: err}
			log.Warn("generation call failed", "attempt", attempt, "error", err)
			continue
		}

		payload, err := extractJSON(raw)
		if err != nil {
			lastErr = err
			user = augmentForRetry(prompt.User, err)
			log.Warn("model output had no JSON payload", "attempt", attempt)
			continue
		}

		var out T
		if err := json.Unmarshal([]byte(payload), &out); err != nil {
			lastErr = &SchemaValidationError{Detail: err.Error()}
			user = augmentForRetry(prompt.User, lastErr)
			log.Warn("model output failed to decode", "attempt", attempt, "error", err)
			continue
		}
		if validate != nil {
			if err := validate(&out); err != nil {
				lastErr = &SchemaValidationError{Detail: err.Error()}
				user = augmentForRetry(prompt.User, lastErr)
				log.Warn("model output failed validation", "attempt", attempt, "error", err)
				continue
			}
		}
		return out, nil
	}
	return zero, lastErr
}

func completeWithTimeout(ctx context.Context, llm LLMClient, p ChatPrompt, timeout time.Duration) (string, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return llm.Complete(ctx, p)
}

func augmentForRetry(user string, cause error) string {
	return fmt.Sprintf("%s\n\nYour previous reply was rejected: %v\nReturn only the corrected JSON object, with no surrounding text.", user, cause)
}
