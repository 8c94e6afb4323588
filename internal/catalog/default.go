package catalog

import (
	_ "embed"
	"fmt"
)

//go:embed default.toml
var defaultTOML []byte

// Default returns the built-in catalog.
func Default() (*Catalog, error) {
	c, err := Decode(defaultTOML, FormatTOML)
	if err != nil {
		return nil, fmt.Errorf("built-in catalog: %w", err)
	}
	return c, nil
}
