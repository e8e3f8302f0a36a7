package cli

import (
	"fmt"
	"io"
	"strings"
)

const (
	AppName = "go-mkvnav"
	AppURL  = "https://github.com/autobrr/go-mkvnav"
)

var appVersion = "dev"

func SetVersion(version string) {
	if version != "" {
		appVersion = version
	}
}

// FormatVersion renders a release version as "v1.2.3" and leaves dev builds alone.
func FormatVersion(version string) string {
	version = strings.TrimPrefix(version, "v")
	if version == "" || version == "dev" {
		return "dev"
	}
	return "v" + version
}

func Version(stdout io.Writer) {
	fmt.Fprintf(stdout, "%s, %s\n", AppName, FormatVersion(appVersion))
}
