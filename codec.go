package rxform

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Codec decodes definition documents.
type Codec interface {
	// Unmarshal decodes data into v.
	Unmarshal(data []byte, v any) error

	// ContentType names the format in signals and errors.
	ContentType() string
}

// JSONCodec decodes JSON documents.
type JSONCodec struct{}

// Unmarshal decodes JSON data into v.
func (JSONCodec) Unmarshal(data []byte, v any) error {
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("expected JSON: %w", err)
	}
	return nil
}

// ContentType returns the JSON MIME type.
func (JSONCodec) ContentType() string {
	return "application/json"
}

// YAMLCodec decodes YAML documents.
type YAMLCodec struct{}

// Unmarshal decodes YAML data into v.
func (YAMLCodec) Unmarshal(data []byte, v any) error {
	return yaml.Unmarshal(data, v)
}

// ContentType returns the YAML MIME type.
func (YAMLCodec) ContentType() string {
	return "application/x-yaml"
}

// AutoCodec picks JSON when the document starts with '{' or '[' and YAML
// otherwise. It is the default codec of a Registry.
type AutoCodec struct{}

// Unmarshal decodes data into v with the detected codec.
func (AutoCodec) Unmarshal(data []byte, v any) error {
	return detect(data).Unmarshal(data, v)
}

// ContentType returns a wildcard; the concrete type depends on the data.
func (AutoCodec) ContentType() string {
	return "application/*"
}

func detect(data []byte) Codec {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[') {
		return JSONCodec{}
	}
	return YAMLCodec{}
}

var (
	_ Codec = JSONCodec{}
	_ Codec = YAMLCodec{}
	_ Codec = AutoCodec{}
)
