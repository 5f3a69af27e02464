package dto

import "focustree/internal/modules/setup/domain"

// Config and Patch are shared with callers that only see the inbound port.
type (
	Config = domain.Config
	Patch  = domain.Patch
)

type UpdateInput struct {
	Patch domain.Patch
}

type SetInput struct {
	Key   string
	Value string
}

type SuggestInput struct {
	Goal  string
	Adopt bool
}

type SuggestionOutput struct {
	DurationMin int
	Mode        string
	Personality string
	Reasoning   string
	Tip         string
	Fallback    bool
	Config      domain.Config
}
