// Package apply runs a generated statement stream against a live PostgreSQL
// server and checks what arrived there.
package apply

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"strings"

	_ "github.com/lib/pq"
)

// Result carries whatever the executor printed.
type Result struct {
	Output string
}

// ExecError is returned when the target rejects the script. Output holds the
// diagnostics exactly as reported.
type ExecError struct {
	Output string
	Err    error
}

func (e *ExecError) Error() string {
	if e.Output == "" {
		return fmt.Sprintf("import failed: %v", e.Err)
	}
	return fmt.Sprintf("import failed: %v\n%s", e.Err, strings.TrimRight(e.Output, "\n"))
}

func (e *ExecError) Unwrap() error {
	return e.Err
}

// ErrClientNotFound means the psql binary is not installed or not on PATH.
var ErrClientNotFound = errors.New("psql client not found")

// Executor applies a script file to the target.
type Executor interface {
	Apply(ctx context.Context, scriptPath string) (Result, error)
}

// PsqlExecutor hands the script to the psql command line client.
type PsqlExecutor struct {
	ConnString  string
	Binary      string // defaults to "psql"
	StopOnError bool
}

func (p *PsqlExecutor) binary() string {
	if p.Binary == "" {
		return "psql"
	}
	return p.Binary
}

// Args returns the psql arguments for scriptPath.
func (p *PsqlExecutor) Args(scriptPath string) []string {
	args := []string{p.ConnString}
	if p.StopOnError {
		args = append(args, "-v", "ON_ERROR_STOP=1")
	}
	return append(args, "-f", scriptPath)
}

func (p *PsqlExecutor) Apply(ctx context.Context, scriptPath string) (Result, error) {
	cmd := exec.CommandContext(ctx, p.binary(), p.Args(scriptPath)...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist) {
		return Result{}, fmt.Errorf("%w: install the PostgreSQL client or import manually with: psql '<connection_string>' < %s",
			ErrClientNotFound, scriptPath)
	}
	if err != nil {
		return Result{Output: stdout.String()}, &ExecError{Output: stderr.String(), Err: err}
	}
	return Result{Output: stdout.String()}, nil
}

// DriverExecutor sends the whole script through database/sql in one call.
// With no arguments lib/pq uses the simple query protocol, which accepts
// many statements at once.
type DriverExecutor struct {
	DB *sql.DB
}

// OpenDriverExecutor connects to the target with lib/pq.
func OpenDriverExecutor(ctx context.Context, connString string) (*DriverExecutor, error) {
	db, err := Open(ctx, connString)
	if err != nil {
		return nil, err
	}
	return &DriverExecutor{DB: db}, nil
}

func (d *DriverExecutor) Apply(ctx context.Context, scriptPath string) (Result, error) {
	script, err := os.ReadFile(scriptPath)
	if err != nil {
		return Result{}, fmt.Errorf("failed to read %s: %w", scriptPath, err)
	}
	if _, err := d.DB.ExecContext(ctx, string(script)); err != nil {
		return Result{}, &ExecError{Output: err.Error(), Err: err}
	}
	return Result{}, nil
}

func (d *DriverExecutor) Close() error {
	return d.DB.Close()
}

// Open connects to the target database and checks the connection.
func Open(ctx context.Context, connString string) (*sql.DB, error) {
	db, err := sql.Open("postgres", connString)
	if err != nil {
		return nil, fmt.Errorf("failed to open target: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to target: %w", err)
	}
	return db, nil
}
