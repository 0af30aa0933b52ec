package docs

import _ "embed"

// OpenAPISpec is the OpenAPI 3 document served at /openapi.yaml. Embedded so
// the route works regardless of the process working directory.
//
//go:embed openapi.yaml
var OpenAPISpec []byte
