// Where: internal/artifacts/source.go
// What: File sources backed by S3 or a local directory.
// Why: The pipeline consumes parsed files without knowing where they live.
package artifacts

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/poruru/ami-catalog/internal/apperr"
	"github.com/poruru/ami-catalog/internal/record"
	"github.com/rs/zerolog/log"
)

// S3API is the subset of the S3 client used to download archives.
type S3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Source downloads <folder>/build.zip and extracts the requested files.
type S3Source struct {
	Client S3API
}

// Fetch implements pipeline.FileSource.
func (s S3Source) Fetch(ctx context.Context, loc Location, names []string) (record.Files, error) {
	if s.Client == nil {
		return nil, errors.New("s3 client is nil")
	}
	log.Ctx(ctx).Info().
		Str("bucket", loc.Bucket).
		Str("folder", loc.Folder).
		Msgf("fetching %s", ArchiveName)

	out, err := s.Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(loc.Bucket),
		Key:    aws.String(loc.ArchiveKey()),
	})
	if err != nil {
		if isMissingObject(err) {
			return nil, apperr.NotFound("%s%s", loc.String(), ArchiveName)
		}
		return nil, apperr.Upstream("s3 GetObject", err)
	}
	defer out.Body.Close()

	payload, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, apperr.Upstream("s3 GetObject body", err)
	}
	return ReadArchive(payload, names)
}

func isMissingObject(err error) bool {
	var noSuchKey *s3types.NoSuchKey
	if errors.As(err, &noSuchKey) {
		return true
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound", "NoSuchBucket":
			return true
		}
	}
	return false
}

// DirSource reads already-extracted artifacts from Root/<folder>.
type DirSource struct {
	Root string
}

// Fetch implements pipeline.FileSource.
func (d DirSource) Fetch(_ context.Context, loc Location, names []string) (record.Files, error) {
	dir := filepath.Join(d.Root, filepath.FromSlash(loc.Folder))
	files := make(record.Files, len(names))
	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return nil, apperr.NotFound("%s is missing from %s", name, dir)
			}
			return nil, err
		}
		contents, err := Parse(name, data)
		if err != nil {
			return nil, err
		}
		files[name] = contents
	}
	return files, nil
}
