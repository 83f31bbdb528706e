package catalog

import "errors"

// Sentinel kinds for catalog errors.
var (
	ErrNotLoaded  = errors.New("catalog not loaded")
	ErrBadCatalog = errors.New("malformed catalog file")
)
