// FILE: internal/oracle/classify.go
package oracle

import (
	"encoding/json"
	"net/http"
	"strings"
)

// Outcome is the classified result of one endpoint attempt
type Outcome int

const (
	OutcomeOK Outcome = iota
	OutcomeNotFound
	OutcomeRateLimited
	OutcomeUnavailable
	OutcomeEmpty  // 2xx without usable text, including safety blocks
	OutcomeFailed // Any other status
)

func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "ok"
	case OutcomeNotFound:
		return "not_found"
	case OutcomeRateLimited:
		return "rate_limited"
	case OutcomeUnavailable:
		return "unavailable"
	case OutcomeEmpty:
		return "empty"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Advance reports whether the failover loop moves on to the next endpoint
func (o Outcome) Advance() bool {
	return o == OutcomeNotFound || o == OutcomeRateLimited || o == OutcomeUnavailable
}

type Classification struct {
	Outcome Outcome
	Status  int
	Text    string // Raw model text, set only for OutcomeOK
	Detail  string // Provider error message or block reason
}

// responseBody covers both provider response shapes plus the shared error envelope
type responseBody struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	PromptFeedback *struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback"`
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Classify maps an HTTP status and body to an outcome. It has no side effects.
func Classify(status int, body []byte) Classification {
	c := Classification{Status: status}

	var rb responseBody
	parseErr := json.Unmarshal(body, &rb)
	if parseErr == nil && rb.Error != nil {
		c.Detail = rb.Error.Message
	}

	switch {
	case status == http.StatusNotFound:
		c.Outcome = OutcomeNotFound
	case status == http.StatusTooManyRequests:
		c.Outcome = OutcomeRateLimited
	case status == http.StatusServiceUnavailable:
		c.Outcome = OutcomeUnavailable
	case status >= 200 && status < 300:
		if parseErr != nil {
			c.Outcome = OutcomeEmpty
			c.Detail = "malformed response body"
			return c
		}
		text, reason := extract(rb)
		if strings.TrimSpace(text) == "" {
			c.Outcome = OutcomeEmpty
			c.Detail = reason
			return c
		}
		c.Outcome = OutcomeOK
		c.Text = text
	default:
		c.Outcome = OutcomeFailed
		if c.Detail == "" {
			c.Detail = http.StatusText(status)
		}
	}
	return c
}

// extract pulls the first text part from either shape, or explains why there is none
func extract(rb responseBody) (text, reason string) {
	if len(rb.Candidates) > 0 && len(rb.Candidates[0].Content.Parts) > 0 {
		return rb.Candidates[0].Content.Parts[0].Text, "empty candidate text"
	}
	if len(rb.Choices) > 0 {
		return rb.Choices[0].Message.Content, "empty choice content"
	}
	if rb.PromptFeedback != nil && rb.PromptFeedback.BlockReason != "" {
		return "", "blocked: " + rb.PromptFeedback.BlockReason
	}
	return "", "no candidates in response"
}
