package ranking

import "errors"

// ErrContentDuplicate means the same link already exists somewhere within
// the same top-level category family.
var ErrContentDuplicate = errors.New("ranking: duplicate link in category family")
