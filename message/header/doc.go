// Package header provides low-level and high-level tooling for dealing with
// email message headers. Base is the field store: it keeps fields in the order
// they were read so they can be written back unchanged, and it places newly
// added fields in the conventional order used for outgoing mail. Header adds
// typed getters and setters for the well-known fields.
//
// Load reads a header from a bufio.Reader, accepting any mix of CRLF, LF, and
// bare CR line endings. Output always uses CRLF.
package header
