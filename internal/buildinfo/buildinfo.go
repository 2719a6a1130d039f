package buildinfo

import "fmt"

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

func String() string {
	return fmt.Sprintf("opencv-setup %s (commit=%s, date=%s)", Version, Commit, Date)
}

// UserAgent identifies the tool in outgoing HTTP requests.
func UserAgent() string {
	return "opencv-setup/" + Version
}
