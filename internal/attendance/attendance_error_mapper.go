package attendance

import (
	"errors"
	"strings"

	attendanceerrors "go-ems/internal/attendance/errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueEmployeeDate = "uq_attendance_employee_date"

// mapRepositoryError turns the (employee, date) unique violation into
// ErrAlreadyCheckedIn. It is the serialization point for concurrent check-ins.
func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == uniqueEmployeeDate {
		return attendanceerrors.ErrAlreadyCheckedIn
	}

	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "duplicate key value") && strings.Contains(errMsg, uniqueEmployeeDate) {
		return attendanceerrors.ErrAlreadyCheckedIn
	}

	return err
}
