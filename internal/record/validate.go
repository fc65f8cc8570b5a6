// Where: internal/record/validate.go
// What: JSON Schema checks for parsed build artifacts.
// Why: Reject malformed upstream files before any field is extracted.
package record

import (
	"bytes"
	"embed"
	"fmt"
	"path"
	"sync"

	"github.com/poruru/ami-catalog/internal/apperr"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schemas/*.json
var schemaFS embed.FS

var (
	schemaOnce sync.Once
	schemaErr  error
	schemas    map[FileKind]*jsonschema.Schema
)

func schemaFile(kind FileKind) string {
	switch kind {
	case KindProducedImage, KindSourceImage:
		return "schemas/image.schema.json"
	case KindInventory:
		return "schemas/inventory.schema.json"
	default:
		return ""
	}
}

func loadSchemas() (map[FileKind]*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		byName := map[string]*jsonschema.Schema{}
		compiled := map[FileKind]*jsonschema.Schema{}
		for _, kind := range Kinds {
			name := schemaFile(kind)
			if sch, ok := byName[name]; ok {
				compiled[kind] = sch
				continue
			}
			payload, err := schemaFS.ReadFile(name)
			if err != nil {
				schemaErr = err
				return
			}
			url := path.Base(name)
			if err := compiler.AddResource(url, bytes.NewReader(payload)); err != nil {
				schemaErr = fmt.Errorf("add schema %s: %w", name, err)
				return
			}
			sch, err := compiler.Compile(url)
			if err != nil {
				schemaErr = fmt.Errorf("compile schema %s: %w", name, err)
				return
			}
			byName[name] = sch
			compiled[kind] = sch
		}
		schemas = compiled
	})
	return schemas, schemaErr
}

func validate(kind FileKind, contents any) error {
	loaded, err := loadSchemas()
	if err != nil {
		return err
	}
	sch, ok := loaded[kind]
	if !ok {
		return nil
	}
	if err := sch.Validate(contents); err != nil {
		return apperr.Malformed("%s: %v", kind.Filename(), err)
	}
	return nil
}
