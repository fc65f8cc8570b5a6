// Where: internal/artifacts/archive.go
// What: Extract and decode required members of build.zip.
// Why: The put function reads artifacts from the archive, not from loose objects.
package artifacts

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/klauspost/compress/zip"
	"github.com/poruru/ami-catalog/internal/apperr"
	"github.com/poruru/ami-catalog/internal/record"
)

// ReadArchive returns the parsed contents of names from a zip payload.
// Members are matched by their path relative to the archive root.
func ReadArchive(payload []byte, names []string) (record.Files, error) {
	reader, err := zip.NewReader(bytes.NewReader(payload), int64(len(payload)))
	if err != nil {
		return nil, apperr.Malformed("%s: %v", ArchiveName, err)
	}

	members := make(map[string]*zip.File, len(reader.File))
	for _, file := range reader.File {
		if file.FileInfo().IsDir() {
			continue
		}
		members[path.Clean(strings.TrimPrefix(file.Name, "./"))] = file
	}

	files := make(record.Files, len(names))
	for _, name := range names {
		member, ok := members[name]
		if !ok {
			return nil, apperr.NotFound("%s is missing from %s", name, ArchiveName)
		}
		data, err := readMember(member)
		if err != nil {
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

func readMember(file *zip.File) ([]byte, error) {
	rc, err := file.Open()
	if err != nil {
		return nil, apperr.Malformed("open %s: %v", file.Name, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, apperr.Malformed("read %s: %v", file.Name, err)
	}
	return data, nil
}

// Parse decodes .json files and keeps anything else as text.
func Parse(name string, data []byte) (any, error) {
	if !strings.HasSuffix(name, ".json") {
		return string(data), nil
	}
	var value any
	if err := json.Unmarshal(data, &value); err != nil {
		return nil, apperr.Malformed("%s: %v", name, err)
	}
	return value, nil
}

// BuildArchive writes files into a zip payload.
func BuildArchive(files map[string][]byte) ([]byte, error) {
	var buf bytes.Buffer
	writer := zip.NewWriter(&buf)
	for name, data := range files {
		w, err := writer.Create(name)
		if err != nil {
			return nil, fmt.Errorf("create %s: %w", name, err)
		}
		if _, err := w.Write(data); err != nil {
			return nil, fmt.Errorf("write %s: %w", name, err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
