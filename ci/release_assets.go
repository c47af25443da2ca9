package main

import (
	"github.com/solo-io/go-utils/githubutils"
)

// Publishes the create-github-release binaries found in _output/ to the
// release matching $TAGGED_VERSION.
func main() {
	const buildDir = "_output"
	const repoOwner = "solo-io"
	const repoName = "ghrelease"

	var assets []githubutils.ReleaseAssetSpec
	for _, platform := range []string{"linux-amd64", "linux-arm64", "darwin-amd64", "darwin-arm64", "windows-amd64.exe"} {
		assets = append(assets, githubutils.ReleaseAssetSpec{
			Name:       "create-github-release-" + platform,
			ParentPath: buildDir,
			UploadSHA:  true,
		})
	}
	spec := githubutils.UploadReleaseAssetSpec{
		Owner:             repoOwner,
		Repo:              repoName,
		Assets:            assets,
		SkipAlreadyExists: true,
	}
	githubutils.UploadReleaseAssetCli(&spec)
}
