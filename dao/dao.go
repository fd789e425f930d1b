// dao/dao.go
package dao

import (
	"fmt"

	apperrors "github.com/revguard/api/errors"
)

// wrapDB tags unexpected storage failures so controllers can map them without
// leaking driver details to clients.
func wrapDB(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %v", apperrors.ErrDatabaseOperation, err)
}
