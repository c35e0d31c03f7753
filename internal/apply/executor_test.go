package apply

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string, perm os.FileMode) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), perm))
	return path
}

func TestPsqlExecutor_Args(t *testing.T) {
	p := &PsqlExecutor{ConnString: "postgresql://u:p@h/db?sslmode=require", StopOnError: true}
	assert.Equal(t,
		[]string{"postgresql://u:p@h/db?sslmode=require", "-v", "ON_ERROR_STOP=1", "-f", "out.sql"},
		p.Args("out.sql"))

	p.StopOnError = false
	assert.Equal(t, []string{"postgresql://u:p@h/db?sslmode=require", "-f", "out.sql"}, p.Args("out.sql"))
}

func TestPsqlExecutor_MissingBinary(t *testing.T) {
	p := &PsqlExecutor{ConnString: "x", Binary: filepath.Join(t.TempDir(), "no-such-psql")}
	_, err := p.Apply(context.Background(), "out.sql")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrClientNotFound))
	assert.Contains(t, err.Error(), "out.sql")
}

func TestPsqlExecutor_ReportsDiagnostics(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell script stand-in needs a POSIX shell")
	}
	fake := writeFile(t, "psql", "#!/bin/sh\necho 'ERROR:  relation \"users\" does not exist' >&2\nexit 3\n", 0o755)

	p := &PsqlExecutor{ConnString: "x", Binary: fake}
	_, err := p.Apply(context.Background(), "out.sql")
	require.Error(t, err)

	var execErr *ExecError
	require.True(t, errors.As(err, &execErr))
	assert.Equal(t, "ERROR:  relation \"users\" does not exist\n", execErr.Output)
}

func TestPsqlExecutor_Success(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell script stand-in needs a POSIX shell")
	}
	fake := writeFile(t, "psql", "#!/bin/sh\necho \"$@\"\n", 0o755)

	p := &PsqlExecutor{ConnString: "conn", Binary: fake}
	res, err := p.Apply(context.Background(), "out.sql")
	require.NoError(t, err)
	assert.Equal(t, "conn -f out.sql\n", res.Output)
}

func TestDriverExecutor_Apply(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	defer db.Close()

	script := "DROP TABLE IF EXISTS users CASCADE;\nCREATE TABLE users (\n  id SERIAL PRIMARY KEY\n);\n"
	path := writeFile(t, "out.sql", script, 0o644)

	mock.ExpectExec(script).WillReturnResult(sqlmock.NewResult(0, 0))

	_, err = (&DriverExecutor{DB: db}).Apply(context.Background(), path)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDriverExecutor_ApplyError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	path := writeFile(t, "out.sql", "INSERT INTO missing VALUES (1);", 0o644)
	mock.ExpectExec("INSERT INTO missing").WillReturnError(errors.New(`pq: relation "missing" does not exist`))

	_, err = (&DriverExecutor{DB: db}).Apply(context.Background(), path)
	var execErr *ExecError
	require.True(t, errors.As(err, &execErr))
	assert.Contains(t, execErr.Output, `relation "missing" does not exist`)
}

func TestDriverExecutor_MissingScript(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	_, err = (&DriverExecutor{DB: db}).Apply(context.Background(), filepath.Join(t.TempDir(), "none.sql"))
	assert.Error(t, err)
}
