package repositories

// rowScanner lets one scan function serve both QueryRow and Query paths.
type rowScanner interface {
	Scan(dest ...any) error
}
