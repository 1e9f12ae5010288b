package llm

import (
	"strings"

	"github.com/arlogriffin/scribe/internal/domain"
)

// charsPerToken is the rough characters-per-token ratio used for local
// estimates. Real counts come back in Usage; this only sizes requests
// before they are sent.
const charsPerToken = 4

// modelRate is $ per million tokens, input and output.
type modelRate struct {
	inPerM  float64
	outPerM float64
}

// rates is deliberately coarse. Unknown models fall back to the sonnet
// rate; exact pricing is not this program's job.
var rates = map[string]modelRate{
	"claude-opus-4":   {inPerM: 15.0, outPerM: 75.0},
	"claude-sonnet-4": {inPerM: 3.0, outPerM: 15.0},
	"claude-haiku-3-5": {inPerM: 0.8, outPerM: 4.0},
}

var fallbackRate = modelRate{inPerM: 3.0, outPerM: 15.0}

// EstimateTokens approximates the token count of a message sequence.
func EstimateTokens(msgs []domain.Message) int {
	chars := 0
	for _, m := range msgs {
		chars += len(m.Content)
		for _, tc := range m.ToolCalls {
			chars += len(tc.Name) + len(tc.Input)
		}
		for _, tr := range m.ToolResults {
			chars += len(tr.Output) + len(tr.Error)
		}
	}
	return chars / charsPerToken
}

// EstimateCost converts a usage record into dollars for the given
// model. Matching is by model-family prefix so dated releases
// ("claude-sonnet-4-20250514") resolve without their own entry.
func EstimateCost(model string, usage Usage) float64 {
	rate := fallbackRate
	for prefix, r := range rates {
		if strings.HasPrefix(model, prefix) {
			rate = r
			break
		}
	}
	return float64(usage.InputTokens)*rate.inPerM/1e6 + float64(usage.OutputTokens)*rate.outPerM/1e6
}
