// Package transfer applies and removes Content-Transfer-Encodings.
//
// Only quoted-printable and base64 change any bytes. The identity encodings
// (7bit, 8bit, and binary) and an absent header pass content through
// untouched, as does any encoding not listed in Transcodings. Here "encoding"
// means turning the raw bytes of the content into the form sent on the wire
// and "decoding" means the reverse. Charsets are not handled here.
//
// Detect picks an encoding for content that has none.
package transfer
