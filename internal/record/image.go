// Where: internal/record/image.go
// What: Extractors for produced-ami.json and source-ami.json.
// Why: Both files share the EC2 DescribeImages shape, so one parser serves both.
package record

import (
	"fmt"

	"github.com/poruru/ami-catalog/internal/apperr"
)

const fieldImageID = "ImageId"

// summaryImageFields are copied from an image description into the summary.
var summaryImageFields = []string{"CreationDate", "OwnerId", "Description", "Name"}

// ImageDescription is the part of an EC2 image description a record uses.
type ImageDescription struct {
	ImageID string
	Fields  map[string]any
}

// ParseImageDescription checks that contents is an object with a non-empty ImageId.
func ParseImageDescription(contents any) (ImageDescription, error) {
	doc, ok := contents.(map[string]any)
	if !ok {
		return ImageDescription{}, apperr.Malformed("image description is %T, want object", contents)
	}
	id, ok := doc[fieldImageID].(string)
	if !ok || id == "" {
		return ImageDescription{}, apperr.Malformed("image description has no %s", fieldImageID)
	}
	return ImageDescription{ImageID: id, Fields: doc}, nil
}

// ApplyImageDescription sets the record id and copies the summary fields.
// It builds children from produced-ami.json and synthetic parents from source-ami.json.
func ApplyImageDescription(r *Record, desc ImageDescription) error {
	if r.state == StatePersisted {
		return ErrPersisted
	}
	if r.ID != "" && r.ID != desc.ImageID {
		return fmt.Errorf("record id already set to %s", r.ID)
	}
	for _, key := range summaryImageFields {
		if value, ok := desc.Fields[key]; ok {
			r.Summary.Set(key, value)
		}
	}
	r.ID = desc.ImageID
	return nil
}

func extractImageDetails(r *Record, contents any) error {
	desc, err := ParseImageDescription(contents)
	if err != nil {
		return err
	}
	return ApplyImageDescription(r, desc)
}

func extractSourceImage(r *Record, contents any) error {
	desc, err := ParseImageDescription(contents)
	if err != nil {
		return err
	}
	r.Parent = desc.ImageID
	return nil
}
