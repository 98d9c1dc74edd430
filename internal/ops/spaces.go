package ops

import (
	"context"

	"github.com/hpungsan/kbagent/internal/creds"
	"github.com/hpungsan/kbagent/internal/wiki"
)

// DefaultSpacesLimit bounds the space listing when no limit is given.
const DefaultSpacesLimit = 25

// SpacesInput contains parameters for the Spaces operation.
type SpacesInput struct {
	Limit int
}

// SpacesOutput contains the result of the Spaces operation.
type SpacesOutput struct {
	Spaces []wiki.Space `json:"spaces"`
}

// Spaces lists spaces visible to the stored credential.
func Spaces(ctx context.Context, _ *creds.Store, client *wiki.Client, input SpacesInput) (*SpacesOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = DefaultSpacesLimit
	}

	spaces, err := client.ListSpaces(ctx, limit)
	if err != nil {
		return nil, err
	}
	return &SpacesOutput{Spaces: spaces}, nil
}
