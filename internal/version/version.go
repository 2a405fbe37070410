package version

import "fmt"

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Info returns version information populated via -ldflags.
func Info() (v, c, d string) { return version, commit, date }

// GetVersion returns the short version reported by /healthz and cartctl.
func GetVersion() string { return version }

func String() string {
	return fmt.Sprintf("markethub version=%s commit=%s date=%s", version, commit, date)
}

// GetCommit returns the git commit the binary was built from.
func GetCommit() string { return commit }

// GetDate returns the build date.
func GetDate() string { return date }
