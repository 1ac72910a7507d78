package db

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMigrationsHaveUpAndDown(t *testing.T) {
	files, err := fs.Glob(Migrations, MigrationsDir+"/*.sql")
	assert.NoError(t, err)
	assert.NotEmpty(t, files)

	for _, f := range files {
		body, err := fs.ReadFile(Migrations, f)
		assert.NoError(t, err)
		assert.Contains(t, string(body), "-- +goose Up", f)
		assert.Contains(t, string(body), "-- +goose Down", f)
	}
}

func TestAttendanceUniqueConstraintName(t *testing.T) {
	body, err := fs.ReadFile(Migrations, MigrationsDir+"/00002_create_attendances.sql")
	assert.NoError(t, err)
	// repository error mapping keys on this constraint name
	assert.True(t, strings.Contains(string(body), "uq_attendance_employee_date"))
}
