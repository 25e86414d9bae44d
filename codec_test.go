package rxform

import "testing"

type codecTestDoc struct {
	Name  string `json:"name" yaml:"name"`
	Value int    `json:"value" yaml:"value"`
}

func TestJSONCodec_Unmarshal(t *testing.T) {
	var doc codecTestDoc
	if err := (JSONCodec{}).Unmarshal([]byte(`{"name": "test", "value": 42}`), &doc); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if doc.Name != "test" || doc.Value != 42 {
		t.Errorf("unexpected result %+v", doc)
	}
}

func TestJSONCodec_RejectsYAML(t *testing.T) {
	var doc codecTestDoc
	if err := (JSONCodec{}).Unmarshal([]byte("name: test"), &doc); err == nil {
		t.Error("expected error for YAML input")
	}
}

func TestYAMLCodec_Unmarshal(t *testing.T) {
	var doc codecTestDoc
	if err := (YAMLCodec{}).Unmarshal([]byte("name: test\nvalue: 42"), &doc); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if doc.Name != "test" || doc.Value != 42 {
		t.Errorf("unexpected result %+v", doc)
	}
}

func TestAutoCodec_Detects(t *testing.T) {
	tests := []struct {
		name string
		data string
		want Codec
	}{
		{"json object", `{"name": "a"}`, JSONCodec{}},
		{"json with leading space", "  \n{\"name\": \"a\"}", JSONCodec{}},
		{"json array", `[1]`, JSONCodec{}},
		{"yaml", "name: a", YAMLCodec{}},
		{"empty", "", YAMLCodec{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := detect([]byte(tt.data)); got != tt.want {
				t.Errorf("expected %T, got %T", tt.want, got)
			}
		})
	}

	var doc codecTestDoc
	if err := (AutoCodec{}).Unmarshal([]byte("name: auto\nvalue: 1"), &doc); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if doc.Name != "auto" {
		t.Errorf("expected name auto, got %q", doc.Name)
	}
}

func TestCodec_ContentTypes(t *testing.T) {
	if ct := (JSONCodec{}).ContentType(); ct != "application/json" {
		t.Errorf("expected 'application/json', got %q", ct)
	}
	if ct := (YAMLCodec{}).ContentType(); ct != "application/x-yaml" {
		t.Errorf("expected 'application/x-yaml', got %q", ct)
	}
}
