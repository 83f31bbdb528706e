package service

import (
	"errors"
	"fmt"

	"github.com/pja-project/mlapi/internal/adapters/catalog"
)

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrNotStarted = errors.New("service not started")

	// ErrSearchUnavailable wraps the catalog sentinel so the HTTP layer can
	// match on either.
	ErrSearchUnavailable = fmt.Errorf("search unavailable: %w", catalog.ErrNotLoaded)
)
