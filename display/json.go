package display

import (
	"encoding/json"
)

// MarshalJSON renders machine output. Indented, so piped output stays
// readable without a formatter.
func MarshalJSON(v interface{}) ([]byte, error) {
	return json.MarshalIndent(v, "", "  ")
}
