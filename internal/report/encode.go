package report

import (
	"encoding/json"
	"io"

	"gopkg.in/yaml.v3"
)

const jsonIndentConstant = "  "

// EncodeJSON writes the audit result as indented JSON for external tooling.
func EncodeJSON(writer io.Writer, result AuditResult) error {
	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", jsonIndentConstant)
	return encoder.Encode(result)
}

// EncodeYAML writes the audit result as YAML for external tooling.
func EncodeYAML(writer io.Writer, result AuditResult) error {
	encoder := yaml.NewEncoder(writer)
	defer encoder.Close()
	return encoder.Encode(result)
}
