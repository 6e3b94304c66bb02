package semantic

import "errors"

// ErrModelNotLoaded is returned by Embed when no model has been
// successfully loaded via InitModel yet.
var ErrModelNotLoaded = errors.New("no embedding model loaded")
