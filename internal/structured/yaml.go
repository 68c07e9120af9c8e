package structured

import (
	"bytes"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/thoreinstein/guidelines/internal/errors"
)

// decodeYAML parses a single YAML document into its node tree. An empty
// input yields a nil node.
func decodeYAML(data []byte) (*yaml.Node, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))

	var doc yaml.Node
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "parsing YAML")
	}

	var extra yaml.Node
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		return nil, errors.New("multi-document YAML is not supported")
	}

	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, nil
	}
	return &doc, nil
}

func encodeYAML(doc *yaml.Node) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return nil, errors.Wrap(err, "encoding YAML")
	}
	if err := enc.Close(); err != nil {
		return nil, errors.Wrap(err, "encoding YAML")
	}
	return buf.Bytes(), nil
}

// mergeYAMLNodes works on the node tree so comments and styling in the
// destination survive.
func mergeYAMLNodes(dst, src *yaml.Node) bool {
	if dst.Kind != yaml.MappingNode || src.Kind != yaml.MappingNode {
		return false
	}

	index := make(map[string]*yaml.Node, len(dst.Content)/2)
	for i := 0; i+1 < len(dst.Content); i += 2 {
		index[dst.Content[i].Value] = dst.Content[i+1]
	}

	changed := false
	for i := 0; i+1 < len(src.Content); i += 2 {
		key, value := src.Content[i], src.Content[i+1]
		existing, ok := index[key.Value]
		if !ok {
			dst.Content = append(dst.Content, key, value)
			index[key.Value] = value
			changed = true
			continue
		}
		if mergeYAMLNodes(existing, value) {
			changed = true
		}
	}
	return changed
}
