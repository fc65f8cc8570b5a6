// Where: internal/record/record.go
// What: The AMI record document and its persistence state.
// Why: One value type flows from extraction to the DynamoDB item.
package record

import (
	"errors"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/poruru/ami-catalog/internal/docvalue"
)

// UnknownParent is the parent value until a source image is applied.
const UnknownParent = "unknown"

// Document attribute names.
const (
	AttrID        = "id"
	AttrParent    = "parent"
	AttrDownload  = "download"
	AttrLanguages = "languages"
	AttrPackages  = "packages"
	AttrSummary   = "summary"
)

// State is the persistence state of a Record.
type State int

const (
	StateUnpersisted State = iota
	StatePersisted
)

func (s State) String() string {
	switch s {
	case StateUnpersisted:
		return "unpersisted"
	case StatePersisted:
		return "persisted"
	default:
		return "invalid"
	}
}

// ErrPersisted is returned when a persisted record is modified.
var ErrPersisted = errors.New("record already persisted")

// Record describes one built machine image.
type Record struct {
	ID        string
	Parent    string
	Download  docvalue.Mapping
	Languages docvalue.Mapping
	Packages  docvalue.Mapping
	Summary   docvalue.Mapping

	state State
}

// New returns an empty, unpersisted record.
func New() *Record {
	return &Record{
		Parent:    UnknownParent,
		Download:  docvalue.Mapping{},
		Languages: docvalue.Mapping{},
		Packages:  docvalue.Mapping{},
		Summary:   docvalue.Mapping{},
	}
}

// State returns the persistence state.
func (r *Record) State() State {
	return r.state
}

// MarkPersisted freezes the record after a successful write.
func (r *Record) MarkPersisted() {
	r.state = StatePersisted
}

// Document returns the plain document shape of the record.
func (r *Record) Document() docvalue.Mapping {
	return docvalue.Mapping{
		AttrID:        docvalue.String(r.ID),
		AttrParent:    docvalue.String(r.Parent),
		AttrDownload:  r.Download.Clone(),
		AttrLanguages: r.Languages.Clone(),
		AttrPackages:  r.Packages.Clone(),
		AttrSummary:   r.Summary.Clone(),
	}
}

// Item returns the record in DynamoDB wire form.
func (r *Record) Item() map[string]types.AttributeValue {
	return docvalue.ToItem(r.Document())
}

// FromDocument rebuilds a persisted record from a stored document.
func FromDocument(doc docvalue.Mapping) *Record {
	r := New()
	r.ID, _ = doc.Str(AttrID)
	if parent, ok := doc.Str(AttrParent); ok {
		r.Parent = parent
	}
	if m, ok := doc[AttrDownload].(docvalue.Mapping); ok {
		r.Download = m.Clone()
	}
	if m, ok := doc[AttrLanguages].(docvalue.Mapping); ok {
		r.Languages = m.Clone()
	}
	if m, ok := doc[AttrPackages].(docvalue.Mapping); ok {
		r.Packages = m.Clone()
	}
	if m, ok := doc[AttrSummary].(docvalue.Mapping); ok {
		r.Summary = m.Clone()
	}
	r.state = StatePersisted
	return r
}
