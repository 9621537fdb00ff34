package api

import (
	"io"

	"github.com/danielgtaylor/huma/v2"
	"github.com/goccy/go-json"
)

// jsonFormat encodes and decodes bodies with goccy/go-json.
var jsonFormat = huma.Format{
	Marshal: func(w io.Writer, v any) error {
		return json.NewEncoder(w).Encode(v)
	},
	Unmarshal: json.Unmarshal,
}

// configureFormats replaces huma's encoding/json format for every JSON
// content type it negotiates.
func configureFormats(cfg *huma.Config) {
	cfg.Formats = map[string]huma.Format{
		"application/json": jsonFormat,
		"json":             jsonFormat,
	}
}
