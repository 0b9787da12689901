package policy

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/kaptinlin/jsonrepair"
)

// Pre-compiled cleanup patterns for LLM JSON output. Models wrap JSON in
// code fences, leave trailing commas, or prepend prose; each strategy below
// peels one of those layers.
var (
	codeFenceRegex     = regexp.MustCompile("(?s)```(?:json)?\\s*\\n?([\\s\\S]*?)\\n?```")
	trailingCommaRegex = regexp.MustCompile(`,(\s*[}\]])`)
	objectRegex        = regexp.MustCompile(`(?s)\{[\s\S]*\}`)
)

// parseResponse decodes a JSON object out of raw model output, trying
// progressively more forgiving strategies: direct parse, code-fence
// stripping, trailing-comma cleanup, object extraction from mixed prose,
// and finally a full JSON repair pass.
func parseResponse[T any](text, context string) (T, error) {
	var zero T

	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return zero, fmt.Errorf("%s: empty response", context)
	}

	if v, err := tryParse[T](trimmed); err == nil {
		return v, nil
	}

	slog.Debug("direct JSON parse failed, trying cleanup strategies",
		"context", context, "preview", truncate(trimmed, 100))

	unfenced := trimmed
	if m := codeFenceRegex.FindStringSubmatch(trimmed); m != nil {
		unfenced = strings.TrimSpace(m[1])
		if v, err := tryParse[T](unfenced); err == nil {
			return v, nil
		}
	}

	cleaned := trailingCommaRegex.ReplaceAllString(unfenced, "$1")
	if v, err := tryParse[T](cleaned); err == nil {
		return v, nil
	}

	if extracted := objectRegex.FindString(cleaned); extracted != "" {
		if v, err := tryParse[T](extracted); err == nil {
			return v, nil
		}
		// Last resort: structural repair of the extracted object.
		if repaired, err := jsonrepair.JSONRepair(extracted); err == nil {
			if v, err := tryParse[T](repaired); err == nil {
				return v, nil
			}
		}
	}

	return zero, fmt.Errorf("%s: no parsing strategy succeeded (response: %s)",
		context, truncate(trimmed, 200))
}

func tryParse[T any](text string) (T, error) {
	var v T
	err := json.Unmarshal([]byte(text), &v)
	return v, err
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
