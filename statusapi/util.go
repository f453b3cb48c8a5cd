package statusapi

import (
	"encoding/json"
	"io"
)

func writeJSON(w io.Writer, data interface{}) error {
	return json.NewEncoder(w).Encode(data)
}
