package structured

import (
	"github.com/pelletier/go-toml/v2"

	"github.com/thoreinstein/guidelines/internal/errors"
)

func decodeTOML(data []byte) (map[string]any, error) {
	doc := make(map[string]any)
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(err, "parsing TOML")
	}
	return doc, nil
}

// encodeTOML writes tables with sorted keys; go-toml does not keep the
// source order of a map.
func encodeTOML(doc map[string]any) ([]byte, error) {
	out, err := toml.Marshal(doc)
	if err != nil {
		return nil, errors.Wrap(err, "encoding TOML")
	}
	return out, nil
}
