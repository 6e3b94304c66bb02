package repository

import "errors"

// ErrDuplicateHash is returned by Insert when content_hash already exists.
var ErrDuplicateHash = errors.New("repository: content_hash already exists")

// ErrNotFound names the not-found condition for callers. The lookup
// methods do not return it: FindByHash, FindByContentText and GetByID
// report a missing row as a nil clip with a nil error.
var ErrNotFound = errors.New("repository: not found")
