// Where: internal/version/version.go
// What: Version information retrieval.
// Why: Report the release tag or VCS revision a binary was built from.
package version

import (
	"fmt"
	"runtime/debug"
)

// Version is set at link time, e.g. -ldflags "-X .../internal/version.Version=v1.2.0".
var Version = ""

var readBuildInfo = debug.ReadBuildInfo

// GetVersion returns the linked release version when set. Otherwise it
// returns the short VCS revision, with "(dirty)" appended for a modified
// tree, or "dev" when build info is unavailable.
func GetVersion() string {
	if Version != "" {
		return Version
	}
	info, ok := readBuildInfo()
	if !ok {
		return "dev"
	}

	var revision string
	var modified bool
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			revision = setting.Value
			if len(revision) > 7 {
				revision = revision[:7]
			}
		case "vcs.modified":
			modified = setting.Value == "true"
		}
	}

	if revision == "" {
		if info.Main.Version != "" && info.Main.Version != "(devel)" {
			return info.Main.Version
		}
		return "dev"
	}
	if modified {
		return fmt.Sprintf("%s (dirty)", revision)
	}
	return revision
}
