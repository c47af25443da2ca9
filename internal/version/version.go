package version

const Name = "create-github-release"

var DevVersion = "dev"

// This will be set by the linker on release builds
var Version string

func init() {
	if Version == "" {
		Version = DevVersion
	}
}

// UserAgent is sent with every GitHub API request.
func UserAgent() string {
	return Name + "/" + Version
}
