package model

// Asset is a file attached to a hosted release
type Asset struct {
	ID                 int64  // Asset ID on the hosting service
	Name               string // File name of the asset
	URL                string // Authenticated API download URL
	BrowserDownloadURL string // Public download URL
	Size               int64  // Size in bytes
}
