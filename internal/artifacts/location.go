// Where: internal/artifacts/location.go
// What: Bucket folder addressing for uploaded build artifacts.
// Why: Every object in a build folder triggers the same record.
package artifacts

import "strings"

// ArchiveName is the build archive uploaded next to the other artifacts.
const ArchiveName = "build.zip"

// Location identifies a build folder inside a bucket.
type Location struct {
	Bucket string
	Folder string
}

// LocationFromKey keeps everything up to and including the last slash of key,
// e.g. "x/y/z" -> "x/y/". Keys without a slash map to the bucket root.
func LocationFromKey(bucket, key string) Location {
	idx := strings.LastIndex(key, "/")
	return Location{Bucket: bucket, Folder: key[:idx+1]}
}

// ArchiveKey returns the object key of the build archive.
func (l Location) ArchiveKey() string {
	return l.Folder + ArchiveName
}

func (l Location) String() string {
	return "s3://" + l.Bucket + "/" + l.Folder
}
