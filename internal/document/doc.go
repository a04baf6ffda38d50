// Package document loads hand-edited input files into dynamic cty values.
// JSON and HCL sources produce the same value shape, so every later stage is
// independent of the format an author chose.
package document
