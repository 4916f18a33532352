package repository

// nullStr maps the empty string to SQL NULL so optional text columns stay
// null instead of accumulating empty strings.
func nullStr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
