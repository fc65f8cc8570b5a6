// Where: internal/record/registry.go
// What: Fixed set of input files and the extractors each one drives.
// Why: The required file list decides what is pulled from the build archive.
package record

import (
	"fmt"
)

// Files maps a required filename to its parsed contents:
// JSON-decoded values for .json files, raw text otherwise.
type Files map[string]any

// FileKind enumerates the build artifacts a record is assembled from.
type FileKind int

const (
	KindProducedImage FileKind = iota
	KindSourceImage
	KindInventory
)

// Kinds lists every file kind in extraction order.
var Kinds = []FileKind{KindProducedImage, KindSourceImage, KindInventory}

// Artifact filenames inside the build archive.
const (
	FileProducedImage = "produced-ami.json"
	FileSourceImage   = "source-ami.json"
	FileInventory     = "ohai.json"
)

// Filename returns the archive member for the kind.
func (k FileKind) Filename() string {
	switch k {
	case KindProducedImage:
		return FileProducedImage
	case KindSourceImage:
		return FileSourceImage
	case KindInventory:
		return FileInventory
	default:
		return ""
	}
}

func (k FileKind) String() string {
	if name := k.Filename(); name != "" {
		return name
	}
	return fmt.Sprintf("FileKind(%d)", int(k))
}

// KindForFile resolves a filename to its kind.
func KindForFile(name string) (FileKind, bool) {
	for _, kind := range Kinds {
		if kind.Filename() == name {
			return kind, true
		}
	}
	return 0, false
}

// RequiredFiles returns the filenames that must be present for a record.
func RequiredFiles() []string {
	names := make([]string, 0, len(Kinds))
	for _, kind := range Kinds {
		names = append(names, kind.Filename())
	}
	return names
}

// Extractor populates part of a record from one parsed file.
type Extractor func(r *Record, contents any) error

func extractors(kind FileKind) []Extractor {
	switch kind {
	case KindProducedImage:
		return []Extractor{extractImageDetails}
	case KindSourceImage:
		return []Extractor{extractSourceImage}
	case KindInventory:
		return []Extractor{extractPackages, extractLanguages, extractSystemInfo}
	default:
		return nil
	}
}

// Apply validates contents for kind and runs the kind's extractors in order.
func (r *Record) Apply(kind FileKind, contents any) error {
	if r.state == StatePersisted {
		return ErrPersisted
	}
	funcs := extractors(kind)
	if funcs == nil {
		return fmt.Errorf("unsupported file kind: %s", kind)
	}
	if err := validate(kind, contents); err != nil {
		return err
	}
	for _, fn := range funcs {
		if err := fn(r, contents); err != nil {
			return fmt.Errorf("%s: %w", kind.Filename(), err)
		}
	}
	return nil
}
