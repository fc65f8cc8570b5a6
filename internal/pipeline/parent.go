// Where: internal/pipeline/parent.go
// What: Depth-1 parent resolution.
// Why: Stored records must reference a parent key that exists in the table.
package pipeline

import (
	"context"
	"fmt"

	"github.com/poruru/ami-catalog/internal/record"
)

// RecordLookup checks whether a record key is stored.
type RecordLookup interface {
	Exists(ctx context.Context, id string) (bool, error)
}

// ResolveParent returns the records to persist for child, parent first.
// When child.Parent is not stored, a parent record is built from the
// source image description. The synthesized parent keeps the unknown
// sentinel as its own parent and is not resolved further.
func ResolveParent(ctx context.Context, lookup RecordLookup, child *record.Record, source any) ([]*record.Record, error) {
	exists, err := lookup.Exists(ctx, child.Parent)
	if err != nil {
		return nil, fmt.Errorf("lookup parent %s: %w", child.Parent, err)
	}
	if exists {
		return []*record.Record{child}, nil
	}

	desc, err := record.ParseImageDescription(source)
	if err != nil {
		return nil, err
	}
	parent := record.New()
	if err := record.ApplyImageDescription(parent, desc); err != nil {
		return nil, err
	}
	return []*record.Record{parent, child}, nil
}
