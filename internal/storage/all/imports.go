// Package all registers every storage backend with the factory. Programs
// blank-import this package once; config selects which backend actually runs.
package all

import (
	_ "bookvault/internal/storage/postgres"
	_ "bookvault/internal/storage/sqlite"
)
