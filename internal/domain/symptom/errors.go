package symptom

import "errors"

// ErrNotFound indicates the entry does not exist or belongs to another user.
var ErrNotFound = errors.New("symptom log not found")
