// Package schema validates raw document values against a field-and-type
// table per document kind and exports those tables as JSON Schema.
package schema
