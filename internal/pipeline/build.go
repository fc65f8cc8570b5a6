// Where: internal/pipeline/build.go
// What: Assemble a record from the fetched artifact files.
// Why: All extraction finishes before anything is written.
package pipeline

import (
	"github.com/poruru/ami-catalog/internal/apperr"
	"github.com/poruru/ami-catalog/internal/record"
)

// Build runs every extractor over files and returns the populated child record.
// Every required file must be present.
func Build(files record.Files) (*record.Record, error) {
	for _, name := range record.RequiredFiles() {
		if _, ok := files[name]; !ok {
			return nil, apperr.NotFound("required file %s", name)
		}
	}

	r := record.New()
	for _, kind := range record.Kinds {
		if err := r.Apply(kind, files[kind.Filename()]); err != nil {
			return nil, err
		}
	}
	return r, nil
}
