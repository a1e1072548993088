package assets

import (
	"fmt"
	"strings"
)

// Names of the built-in card assets.
const (
	CardStyleName    = "card"
	CardTemplateName = "card"
)

// AssetLoader loads stylesheets and HTML templates by name.
type AssetLoader interface {
	// LoadStyle loads a stylesheet by name (without .css).
	// Returns ErrStyleNotFound or ErrInvalidAssetName.
	LoadStyle(name string) (string, error)

	// LoadTemplate loads an HTML template by name (without .html).
	// Returns ErrTemplateNotFound or ErrInvalidAssetName.
	LoadTemplate(name string) (string, error)
}

// ValidateAssetName rejects names that could leave the asset directory or
// change the file extension.
func ValidateAssetName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidAssetName)
	}
	if strings.ContainsAny(name, "/\\.\x00") {
		return fmt.Errorf("%w: %q", ErrInvalidAssetName, name)
	}
	return nil
}
