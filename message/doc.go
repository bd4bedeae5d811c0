// Package message is the heart of this library. It provides objects for
// parsing MIME messages in a way that survives input that is not strictly
// correct and for building new messages that are.
//
// A parsed message keeps the bytes it was read from. Its header is read right
// away, but the content is only read, and multipart content only split, when
// it is asked for:
//
//	msg, err := message.Parse(in)
//	if err != nil {
//	  panic(err)
//	}
//
//	mp, err := msg.Multipart()
//	if err != nil {
//	  panic(err)
//	}
//
//	parts, err := mp.Parts()
//	if err != nil {
//	  panic(err)
//	}
//
// Writing a parsed message back out with WriteTo reproduces the input, except
// that header lines always end in CRLF. Changes made to the header or the
// content of any part are reflected in the output.
//
// New messages are built either by setting content directly on a Message
// created by NewMessage or by using a Buffer. Before a built message is
// written, SaveChanges fills in the Content-Type, the
// Content-Transfer-Encoding and the other headers the content needs.
package message
