//go:build !amd64 && !arm64

package capability

// Non-amd64/arm64 architectures only run the portable baseline for now.
func detectFeatures() Feature {
	return None
}
