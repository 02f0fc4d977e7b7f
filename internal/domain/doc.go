// Package domain contains the core model for mutation-mapper: mutation records,
// structure mappings, display options and the errors shared by every layer.
//
// The domain does not depend on YAML parsing, net/http, the filesystem or any
// particular 3D viewer. Infra adapters map into and from these types.
package domain
