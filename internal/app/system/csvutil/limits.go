// internal/app/system/csvutil/limits.go
package csvutil

// Row limit when reading an export back in.
const (
	MaxRows = 20000
)
