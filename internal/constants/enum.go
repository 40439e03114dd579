package constants

import "fmt"

// scanText normalises a database value into its string form.
func scanText(src any) (string, error) {
	switch v := src.(type) {
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	case nil:
		return "", fmt.Errorf("cannot scan NULL into status")
	default:
		return "", fmt.Errorf("cannot scan %T into status", src)
	}
}
