// Package spec provides the embedded IR document JSON schema.
package spec

import "embed"

// SchemaFS contains the embedded IR JSON schema.
//
//go:embed ir-schema.json
var SchemaFS embed.FS

// SchemaPath is the name of the schema file inside SchemaFS.
const SchemaPath = "ir-schema.json"
