package model

// ReleaseInfo represents information extracted from a release event
type ReleaseInfo struct {
	Owner       string // Repository owner
	Repo        string // Repository name
	TagName     string // Release tag name
	ReleaseName string // Release name
	Prerelease  bool   // Whether the release is marked as pre-release
}

// Repository returns the owner/name pair of the release
func (x *ReleaseInfo) Repository() Repository {
	return Repository{Owner: x.Owner, Name: x.Repo}
}
