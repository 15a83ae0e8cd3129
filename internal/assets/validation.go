package assets

import (
	"fmt"
	"regexp"
)

// MaxNameLength bounds asset names.
const MaxNameLength = 64

var assetNamePattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// ValidateAssetName checks that an asset name is safe for use as a filename:
// letters, digits, hyphens and underscores only. Dots are rejected so a
// name can neither change the extension nor traverse directories.
func ValidateAssetName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidAssetName)
	}
	if len(name) > MaxNameLength {
		return fmt.Errorf("%w: longer than %d characters", ErrInvalidAssetName, MaxNameLength)
	}
	if !assetNamePattern.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidAssetName, name)
	}
	return nil
}
