package registers

import "errors"

// ErrApplyIncomplete reports that one or more entries of a configuration
// batch failed to write or verify. The batch is not rolled back.
var ErrApplyIncomplete = errors.New("configuration batch incomplete")
