package form

import "strings"

// Payload is the request body sent to the classify service.
type Payload struct {
	Description string   `json:"description"`
	Categories  []string `json:"categories"`
	ModelName   string   `json:"model_name"`
}

// SplitCategories splits a comma separated list verbatim: no trimming, no
// deduplication and empty elements are kept ("a,b," gives ["a" "b" ""]).
func SplitCategories(s string) []string {
	return strings.Split(s, ",")
}

// NewPayload reads the inputs and builds a fresh payload.
func NewPayload(in Inputs) Payload {
	return Payload{
		Description: in.Description(),
		Categories:  SplitCategories(in.Categories()),
		ModelName:   in.ModelName(),
	}
}
