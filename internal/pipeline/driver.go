// Where: internal/pipeline/driver.go
// What: Fetch -> build -> resolve parent -> persist for one build folder.
// Why: One S3 upload produces one child record and at most one parent.
package pipeline

import (
	"context"
	"errors"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/poruru/ami-catalog/internal/apperr"
	"github.com/poruru/ami-catalog/internal/artifacts"
	"github.com/poruru/ami-catalog/internal/docvalue"
	"github.com/poruru/ami-catalog/internal/record"
	"github.com/poruru/ami-catalog/internal/store"
	"github.com/rs/zerolog/log"
)

// FileSource returns parsed artifact files for a build folder.
type FileSource interface {
	Fetch(ctx context.Context, loc artifacts.Location, names []string) (record.Files, error)
}

// RecordStore is the record store used by the driver.
type RecordStore interface {
	RecordLookup
	Put(ctx context.Context, item map[string]types.AttributeValue, opts store.PutOptions) error
}

// Plan is the set of records produced for one build folder.
type Plan struct {
	Child  *record.Record
	Parent *record.Record
}

// Records returns the records in write order, parent first.
func (p Plan) Records() []*record.Record {
	if p.Parent == nil {
		return []*record.Record{p.Child}
	}
	return []*record.Record{p.Parent, p.Child}
}

// Driver runs the put pipeline.
type Driver struct {
	Files FileSource
	Store RecordStore
}

// Plan fetches and extracts the artifacts in loc and resolves the parent
// without writing anything.
func (d Driver) Plan(ctx context.Context, loc artifacts.Location) (Plan, error) {
	if d.Files == nil || d.Store == nil {
		return Plan{}, errors.New("pipeline driver not configured")
	}
	logger := log.Ctx(ctx)

	files, err := d.Files.Fetch(ctx, loc, record.RequiredFiles())
	if err != nil {
		return Plan{}, err
	}
	child, err := Build(files)
	if err != nil {
		return Plan{}, err
	}

	records, err := ResolveParent(ctx, d.Store, child, files[record.FileSourceImage])
	if err != nil {
		return Plan{}, err
	}
	plan := Plan{Child: child}
	if len(records) == 2 {
		plan.Parent = records[0]
		logger.Info().Str("parent", plan.Parent.ID).Msg("parent AMI will be added to the table")
	} else {
		logger.Info().Str("parent", child.Parent).Msg("parent AMI already exists in table")
	}
	return plan, nil
}

// Run plans and persists the records for loc, parent first.
// A synthesized parent is only written when absent; losing that race is not an error.
func (d Driver) Run(ctx context.Context, loc artifacts.Location) (Plan, error) {
	plan, err := d.Plan(ctx, loc)
	if err != nil {
		return Plan{}, err
	}
	if plan.Parent != nil {
		if err := d.persist(ctx, plan.Parent, store.PutOptions{IfAbsent: true}); err != nil {
			return Plan{}, err
		}
	}
	if err := d.persist(ctx, plan.Child, store.PutOptions{}); err != nil {
		return Plan{}, err
	}
	return plan, nil
}

func (d Driver) persist(ctx context.Context, r *record.Record, opts store.PutOptions) error {
	logger := log.Ctx(ctx)
	item := r.Item()
	if wire, err := docvalue.MarshalWire(item); err == nil {
		logger.Info().Str("id", r.ID).RawJSON("item", wire).Msg("adding item to table")
	}

	err := d.Store.Put(ctx, item, opts)
	if errors.Is(err, apperr.ErrDuplicateWrite) {
		logger.Info().Str("id", r.ID).Msg("record already exists; keeping stored copy")
		err = nil
	}
	if err != nil {
		return err
	}
	r.MarkPersisted()
	return nil
}
