package pipeline

import (
	"context"
	"strings"

	"github.com/quangtn/vietcal/internal/model"
)

// Tagger is an external named-entity tagger consulted only when the regex
// location extractor finds nothing.
type Tagger interface {
	Tag(ctx context.Context, text string) ([]model.TokenLabel, error)
}

// LocationFromTags joins the first B-LOC token with its I-LOC continuations
func LocationFromTags(tags []model.TokenLabel) string {
	var parts []string
	for _, t := range tags {
		switch t.Label {
		case "B-LOC":
			if len(parts) > 0 {
				return strings.Join(parts, " ")
			}
			parts = append(parts, t.Token)
		case "I-LOC":
			if len(parts) > 0 {
				parts = append(parts, t.Token)
			}
		default:
			if len(parts) > 0 {
				return strings.Join(parts, " ")
			}
		}
	}
	return strings.Join(parts, " ")
}
