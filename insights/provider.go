package insights

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/invopop/jsonschema"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/responses"
)

// failureClass buckets a generation error by how the retry loop reacts to it.
type failureClass int

const (
	failurePermanent failureClass = iota
	failureRateLimited
	failureServer
)

// retryPolicy is the insight layer's retry budget: how many attempts one
// generation gets and how long each failure class waits between them. Rate
// limit waits exceed a minute because per-minute quotas refill on the minute
// boundary.
type retryPolicy struct {
	attempts       int
	rateLimitWaits []time.Duration
	serverWaits    []time.Duration
}

var defaultRetryPolicy = retryPolicy{
	attempts:       3,
	rateLimitWaits: []time.Duration{65 * time.Second, 100 * time.Second, 135 * time.Second},
	serverWaits:    []time.Duration{5 * time.Second, 30 * time.Second, 60 * time.Second},
}

// wait returns how long to pause before the next attempt, or false when the
// failure class is not worth retrying. Attempts past the configured ladder
// reuse its last rung.
func (p retryPolicy) wait(class failureClass, attempt int) (time.Duration, bool) {
	var waits []time.Duration
	switch class {
	case failureRateLimited:
		waits = p.rateLimitWaits
	case failureServer:
		waits = p.serverWaits
	default:
		return 0, false
	}
	if len(waits) == 0 {
		return 0, false
	}
	if attempt >= len(waits) {
		attempt = len(waits) - 1
	}
	return waits[attempt], true
}

// classifyFailure reads the HTTP status off the SDK's typed API error. Errors
// without an API response (network failures, cancellation) are permanent
// here since the SDK already retries those internally.
func classifyFailure(err error) failureClass {
	var apiErr *openai.Error
	if !errors.As(err, &apiErr) {
		return failurePermanent
	}
	switch {
	case apiErr.StatusCode == http.StatusTooManyRequests:
		return failureRateLimited
	case apiErr.StatusCode >= http.StatusInternalServerError:
		return failureServer
	default:
		return failurePermanent
	}
}

// generateWithRetry asks the model for one response, retrying transient API
// failures per the policy. Waits abort early when ctx is cancelled.
func generateWithRetry(ctx context.Context, client *openai.Client, policy retryPolicy, params responses.ResponseNewParams) (*responses.Response, error) {
	var lastErr error
	for attempt := 0; attempt < policy.attempts; attempt++ {
		resp, err := client.Responses.New(ctx, params)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		pause, retryable := policy.wait(classifyFailure(err), attempt)
		if !retryable || attempt == policy.attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("generateWithRetry: %w", ctx.Err())
		case <-time.After(pause):
		}
	}
	return nil, fmt.Errorf("generateWithRetry: %w", lastErr)
}

// strictSchema reflects T into the schema map the structured-output endpoint
// accepts in strict mode.
func strictSchema[T any]() map[string]any {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties:  false,
		DoNotReference:             true,
		RequiredFromJSONSchemaTags: true,
	}
	var zero T
	raw, err := json.Marshal(reflector.Reflect(zero))
	if err != nil {
		panic(fmt.Sprintf("strictSchema: marshal reflected schema: %v", err))
	}
	var schema map[string]any
	if err := json.Unmarshal(raw, &schema); err != nil {
		panic(fmt.Sprintf("strictSchema: reparse reflected schema: %v", err))
	}
	tightenForStrictMode(schema)
	return schema
}

// tightenForStrictMode walks every object node of a reflected schema, closes
// it to undeclared properties and requires each declared one, which is what
// strict mode demands at every level. Required lists are sorted so the schema
// marshals identically across runs.
func tightenForStrictMode(node map[string]any) {
	if node["type"] == "object" {
		node["additionalProperties"] = false
		if props, ok := node["properties"].(map[string]any); ok && len(props) > 0 {
			required := make([]string, 0, len(props))
			for name := range props {
				required = append(required, name)
			}
			sort.Strings(required)
			node["required"] = required
		}
	}

	for _, key := range []string{"properties", "$defs"} {
		children, ok := node[key].(map[string]any)
		if !ok {
			continue
		}
		for _, child := range children {
			if m, ok := child.(map[string]any); ok {
				tightenForStrictMode(m)
			}
		}
	}
	if items, ok := node["items"].(map[string]any); ok {
		tightenForStrictMode(items)
	}
}
