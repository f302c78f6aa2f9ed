package schema_test

import (
	"bytes"
	"encoding/json"
	"io/fs"
	"reflect"
	"testing"

	"github.com/santhosh-tekuri/jsonschema/v6"

	validator "github.com/AndreyAkinshin/devgenie/internal/schema"
	"github.com/AndreyAkinshin/devgenie/internal/settings"
	"github.com/AndreyAkinshin/devgenie/schema"
)

func TestEmbeddedSchemas(t *testing.T) {
	t.Parallel()

	names, err := fs.Glob(schema.FS, "*.schema.json")
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"config.schema.json", "settings.schema.json"}
	if !reflect.DeepEqual(names, want) {
		t.Fatalf("embedded schemas = %v, want %v", names, want)
	}

	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			data, err := schema.FS.ReadFile(name)
			if err != nil {
				t.Fatal(err)
			}
			doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
			if err != nil {
				t.Fatalf("UnmarshalJSON() error = %v", err)
			}
			c := jsonschema.NewCompiler()
			if err := c.AddResource(name, doc); err != nil {
				t.Fatalf("AddResource() error = %v", err)
			}
			if _, err := c.Compile(name); err != nil {
				t.Errorf("Compile() error = %v", err)
			}
		})
	}
}

func TestSettingsSchema_AcceptsStoredValues(t *testing.T) {
	t.Parallel()

	raw, err := settings.JSON(json.RawMessage(`{"providers": ["a", "b"], "limit": null}`))
	if err != nil {
		t.Fatal(err)
	}
	values := map[string]settings.Value{
		settings.KeyLanguage: settings.String("de"),
		"retries":            settings.Number(3),
		"ratio":              settings.Number(0.25),
		"verbose":            settings.Bool(true),
		"review":             raw,
	}
	data, err := json.Marshal(values)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if err := validator.ValidateSettings(data); err != nil {
		t.Errorf("ValidateSettings(%s) error = %v", data, err)
	}
}

func TestSettingsSchema_RejectsMalformedEntries(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data string
	}{
		{"unknown kind", `{"language": {"kind": "text", "value": "de"}}`},
		{"number stored as string", `{"retries": {"kind": "number", "value": "3"}}`},
		{"bool stored as string", `{"verbose": {"kind": "bool", "value": "yes"}}`},
		{"string stored as number", `{"language": {"kind": "string", "value": 1}}`},
		{"missing value", `{"language": {"kind": "string"}}`},
		{"missing kind", `{"language": {"value": "de"}}`},
		{"extra field", `{"language": {"kind": "string", "value": "de", "note": "x"}}`},
		{"bare value", `{"language": "de"}`},
		{"not an object", `["language"]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if err := validator.ValidateSettings([]byte(tt.data)); err == nil {
				t.Errorf("ValidateSettings(%s) = nil, want error", tt.data)
			}
		})
	}
}

func TestConfigSchema_AcceptsMinimalAndFullDocuments(t *testing.T) {
	t.Parallel()

	docs := []string{
		`{}`,
		`{"toolchain": {"executable": "dotnet", "parser": "csharp", "env": {"DOTNET_NOLOGO": "1"}},
		  "run": {"timeout": "10m", "parallel": 4},
		  "history": {"disabled": true},
		  "metrics": {"textfile": "out/devgenie.prom"}}`,
	}
	for _, doc := range docs {
		if err := validator.ValidateConfig([]byte(doc)); err != nil {
			t.Errorf("ValidateConfig(%s) error = %v", doc, err)
		}
	}
	if err := validator.ValidateConfig([]byte(`{"toolchain": {"parser": ""}}`)); err == nil {
		t.Error("ValidateConfig() accepted an empty parser name")
	}
}
