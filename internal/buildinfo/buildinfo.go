// Package buildinfo carries version data set with -ldflags at build time.
package buildinfo

var (
	Version = "dev"
	Commit  = ""
)

// String formats the build data as key=value pairs for log lines.
func String() string {
	s := "version=" + Version
	if Commit != "" {
		s += " commit=" + Commit
	}
	return s
}
