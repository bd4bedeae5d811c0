// Package mime is the root of a library for reading, changing, and writing
// Internet mail messages as described by RFC 822 (and its successors) and the
// MIME RFCs 2045, 2046, 2183, and 2231.
//
// The library is split up according to the part of the message being dealt
// with:
//
//   - message/header/token breaks structured header bodies into RFC 822 and
//     MIME lexical tokens.
//   - message/header/param reads and writes the parameters of Content-Type
//     and Content-Disposition, including RFC 2231 continuations and charsets.
//   - message/header/field holds individual header fields, folding, and RFC
//     2047 word encoding.
//   - message/header is the ordered, duplicate-preserving header store.
//   - message/transfer applies and removes Content-Transfer-Encodings.
//   - message holds the body part, multipart, and message types, the parser
//     that builds them, and a Buffer for building new messages.
//   - message/walker and message/walk visit the parts of a message.
//
// Parsing is lazy. The header of a message is read right away, but the
// content is only read when it is needed and nested parts are only split out
// when asked for. If you parse a message and write it back out without
// changing it, you get the same bytes back, except that header lines always
// end in CRLF. If you modify some part of a message, the rest remains
// byte-for-byte identical on output, as far as that can be managed.
//
// Only us-ascii, iso-8859-1, and utf-8 are understood by default. Import
// message/header/encoding for its side effect to handle every charset known
// to golang.org/x/text:
//
//	import _ "github.com/zostay/go-mime/message/header/encoding"
package mime
