package registry

import "errors"

// ErrFailure covers transport errors and ledger rejections. The engine
// surfaces it to the caller as-is; there is no automatic retry.
var ErrFailure = errors.New("registry: append-only ledger failure")
