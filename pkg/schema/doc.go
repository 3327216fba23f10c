// Package schema declares the record shapes forms are compiled from. A
// FormSchema is an immutable, ordered list of FieldDescriptor values built once
// through Builder (directly, from a Go struct, from a YAML/JSON declaration
// document, or from an OpenAPI component schema). Only text-like and
// boolean-like fields, plus their optional variants, are supported; any other
// declared type fails construction with ErrUnsupportedFieldType so no form can
// ever be derived from an invalid schema.
package schema
