package judge

import (
	"bytes"
	"encoding/json"
	"strings"
)

// errorDetail extracts the "detail" field of an error body. Anything that
// cannot be read as a non-empty detail falls back to a generic text.
func errorDetail(body []byte) string {
	var parsed errorBody
	if err := json.Unmarshal(body, &parsed); err != nil {
		return unknownErrorDetail
	}
	raw := bytes.TrimSpace(parsed.Detail)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return unknownErrorDetail
	}

	var detail string
	if err := json.Unmarshal(raw, &detail); err == nil {
		if strings.TrimSpace(detail) == "" {
			return unknownErrorDetail
		}
		return detail
	}

	// validation errors carry a list of objects
	var compact bytes.Buffer
	if err := json.Compact(&compact, raw); err != nil {
		return unknownErrorDetail
	}
	return compact.String()
}

func joinURL(baseURL, path string) string {
	return strings.TrimRight(baseURL, "/") + "/" + strings.TrimLeft(path, "/")
}
