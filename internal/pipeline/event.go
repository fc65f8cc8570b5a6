// Where: internal/pipeline/event.go
// What: S3 event entry point for the put function.
// Why: Each uploaded object names the build folder to record.
package pipeline

import (
	"context"
	"fmt"

	"github.com/aws/aws-lambda-go/events"
	"github.com/poruru/ami-catalog/internal/artifacts"
	"github.com/rs/zerolog/log"
)

// HandleS3Event runs the pipeline once per event record, in order.
// The first failure is returned so the runtime can redeliver the event.
func (d Driver) HandleS3Event(ctx context.Context, event events.S3Event) error {
	logger := log.Ctx(ctx)
	for _, rec := range event.Records {
		key := rec.S3.Object.URLDecodedKey
		if key == "" {
			key = rec.S3.Object.Key
		}
		loc := artifacts.LocationFromKey(rec.S3.Bucket.Name, key)
		logger.Info().
			Str("event", rec.EventName).
			Str("bucket", loc.Bucket).
			Str("key", key).
			Msg("processing upload")

		plan, err := d.Run(ctx, loc)
		if err != nil {
			return fmt.Errorf("record %s: %w", loc, err)
		}
		logger.Info().Str("id", plan.Child.ID).Str("parent", plan.Child.Parent).Msg("recorded image")
	}
	return nil
}
