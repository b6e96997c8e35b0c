// Package api carries the OpenAPI document for the REST API.
package api

import _ "embed"

//go:embed openapi.yml
var OpenAPI []byte
