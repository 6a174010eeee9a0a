package catalog

import (
	"errors"
	"fmt"
)

// ErrMissingReferenceData indicates that a table the generator cannot run
// without (schedules, seats, users, non-users, store items) is empty.  It is
// the only catalog condition that aborts a run; every per-row anomaly is
// absorbed into a zero-adjustment or zero-discount fallback instead.
var ErrMissingReferenceData = errors.New("missing reference data")

// missingTable wraps ErrMissingReferenceData with the offending table name
// so callers can report which prerequisite data set was empty.
func missingTable(table string) error {
	return fmt.Errorf("%w: %s table is empty", ErrMissingReferenceData, table)
}
