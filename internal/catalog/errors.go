package catalog

import "errors"

// ErrRootNotFound indicates the asset root is missing or not a directory.
// It is fatal to the calling operation.
var ErrRootNotFound = errors.New("asset root not found")
