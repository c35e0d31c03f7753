package dialect

import "fmt"

// GetSource returns the source Dialect implementation based on driver name.
func GetSource(driver string) (Source, error) {
	switch driver {
	case "", "sqlite", "sqlite3":
		return &SqliteDialect{}, nil
	}
	return nil, fmt.Errorf("unsupported source driver: %s", driver)
}

// GetTarget returns the target Dialect implementation based on driver name.
func GetTarget(driver string) (Target, error) {
	switch driver {
	case "", "postgres", "postgresql":
		return &PostgresDialect{}, nil
	}
	return nil, fmt.Errorf("unsupported target driver: %s", driver)
}

// Ensure interface implementation
var _ Source = (*SqliteDialect)(nil)
var _ Target = (*PostgresDialect)(nil)
