// Package data carries the default game catalogs, embedded so the
// server binary runs without external files. Operators can still
// point the server at their own JSON files to override these.
package data

import _ "embed"

//go:embed companies.json
var Companies []byte

//go:embed news.json
var News []byte
