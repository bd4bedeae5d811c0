// Package param provides the tooling for dealing with parameterized headers.
// These headers include the Content-type and Content-disposition header. A
// List holds the ";name=value" parameters that follow the primary value,
// including RFC 2231 continuations and charset-tagged values. ContentType and
// Disposition pair a List with the primary value of each header.
package param
