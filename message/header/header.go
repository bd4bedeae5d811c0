package header

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/zostay/go-addr/pkg/addr"

	"github.com/zostay/go-mime/message/header/field"
	"github.com/zostay/go-mime/message/header/param"
	"github.com/zostay/go-mime/message/header/token"
)

// Errors returned by various header methods and functions.
var (
	// ErrNoSuchField is returned by Header methods when the operation
	// being performed failed because the header named does not exist.
	ErrNoSuchField = errors.New("no such header field")

	// ErrNoSuchFieldParameter is returned by Header methods when the
	// operation being performed failed because the header exists, but a
	// sub-field of the header does not exist.
	ErrNoSuchFieldParameter = errors.New("no such header field parameter")

	// ErrManyFields is returned by Header methods when the operation
	// being performed failed because the there are multiple fields with the
	// given name.
	ErrManyFields = errors.New("many header fields found")

	// ErrWrongAddressType is returned by address setting methods that accept
	// either a string or an addr.Address when something other than those
	// types is provided.
	ErrWrongAddressType = errors.New("incorrect address type during write")
)

// These are standard headers defined in RFC 5322, RFC 2045, RFC 2183, and
// related documents.
const (
	Bcc                     = "Bcc"
	Cc                      = "Cc"
	Comments                = "Comments"
	ContentDescription      = "Content-Description"
	ContentDisposition      = "Content-Disposition"
	ContentID               = "Content-ID"
	ContentLanguage         = "Content-Language"
	ContentMD5              = "Content-MD5"
	ContentTransferEncoding = "Content-Transfer-Encoding"
	ContentType             = "Content-Type"
	Date                    = "Date"
	From                    = "From"
	InReplyTo               = "In-Reply-To"
	Keywords                = "Keywords"
	MessageID               = "Message-ID"
	MIMEVersion             = "MIME-Version"
	Received                = "Received"
	References              = "References"
	ReplyTo                 = "Reply-To"
	ReturnPath              = "Return-Path"
	Sender                  = "Sender"
	Subject                 = "Subject"
	To                      = "To"
)

const (
	// UnixDateWithEarlyYear is a weird one, eh?
	UnixDateWithEarlyYear = "Mon Jan 02 15:04:05 2006 MST"
)

// Header wraps a Base, which does the actual storage and low-level field
// manipulation. This provides several methods to make reading and manipulating
// the header more convenient.
//
// The getter methods of this object will return an error if the field being
// fetched has not been set on the header. The error returned will be
// ErrNoSuchField.
type Header struct {
	// Base provides the low-level storage of header fields.
	Base
}

// Clone returns a deep copy of the header object.
func (h *Header) Clone() *Header {
	return &Header{Base: *h.Base.Clone()}
}

// Get retrieves the string value of the named field. Any folding is left in
// place.
//
// If the named field is not set in the header, it will return an empty string
// with ErrNoSuchField. If there are multiple headers for the given named field,
// it will return the first value found and return ErrManyFields.
func (h *Header) Get(name string) (string, error) {
	vs := h.Values(name)
	if len(vs) == 0 {
		return "", ErrNoSuchField
	}

	if len(vs) > 1 {
		return vs[0], ErrManyFields
	}

	return vs[0], nil
}

// getUnfolded works like Get, but unfolds the body.
func (h *Header) getUnfolded(name string) (string, error) {
	body, err := h.Get(name)
	return field.Unfold(body), err
}

// GetAll fetches all the header field bodies for fields with the given
// name and returns them as a slice of strings.
//
// It returns nil with ErrNoSuchField if no field with the given name is set on
// the header.
func (h *Header) GetAll(name string) ([]string, error) {
	vs := h.Values(name)
	if vs == nil {
		return nil, ErrNoSuchField
	}
	return vs, nil
}

// SetAll replaces all the header fields with the given name with the
// bodies given. After a successful completion of this method, the field with
// the given name will occur exactly len(bodies) times in the header. The
// first body takes the place of the first existing field.
func (h *Header) SetAll(name string, bodies ...string) {
	if len(bodies) == 0 {
		h.Remove(name)
		return
	}

	h.Set(name, bodies[0])
	for _, b := range bodies[1:] {
		h.Add(name, b)
	}
}

// ParseTime is a function that provides the time parsing used by GetTime() and
// GetDate() to parse dates to be used on any field body. This will attempt to
// parse the date using the format specified by RFC 5322 first and fallback to
// parsing it in many other formats.
//
// It either returns a parsed time or the parse error.
func ParseTime(body string) (time.Time, error) {
	t, err := mail.ParseDate(body)
	if err == nil {
		return t, nil
	}

	t, err = dateparse.ParseAny(body)
	if err == nil {
		return t, nil
	}

	t, err = time.Parse(UnixDateWithEarlyYear, body)
	if err == nil {
		return t, nil
	}

	return t, fmt.Errorf("time string %q cannot be parsed", body)
}

// GetTime gets the given date header field as a time.Time. It will attempt to
// parse the date in many formats, not just the format specified by RFC 5322
// (though, it will try that first).
//
// It will return an error if it is unable to parse the time value from the date
// header. It will return the zero value and ErrNoSuchField if the header does
// not exist. It will return the zero value and ErrManyFields if more than one
// field with the name is set on the header.
func (h *Header) GetTime(name string) (time.Time, error) {
	body, err := h.getUnfolded(name)
	if err != nil {
		return time.Time{}, err
	}

	return ParseTime(body)
}

// SetTime will replace all existing header fields with the given name with a
// single header field with the given name and time. The time will be formatted
// via time.RFC1123Z.
func (h *Header) SetTime(name string, body time.Time) {
	h.Set(name, body.Format(time.RFC1123Z))
}

// ParseAddressList provides the same address parsing functionality built into
// GetAddressList() and can be used to parse any field body. It will attempt a
// strict parse of the email address list. However, if that fails, an extremely
// lenient parsing will be attempted, which might result in results that can
// only be described as "weird" in the effort to provide some kind of result.
func ParseAddressList(body string) addr.AddressList {
	al, err := addr.ParseEmailAddressList(body)
	if err != nil {
		al = parseEmailAddressList(body)
	}

	return al
}

// GetAddressList will return an addr.AddressList for the named field. This
// method works hard to avoid parse errors and tries to accept anything. As such
// a badly formatted address field might return a weird address value.
//
// It will return nil and ErrNoSuchField if the field is not set on the header.
// It will return ErrManyFields if the field is set more than once on the
// header.
func (h *Header) GetAddressList(name string) (addr.AddressList, error) {
	body, err := h.getUnfolded(name)
	if err != nil && !errors.Is(err, ErrManyFields) {
		return nil, err
	}

	return ParseAddressList(body), err
}

// SetAddressList will replace all existing header fields with the given name
// with a single header containing the given addresses.
func (h *Header) SetAddressList(name string, body ...addr.Address) {
	h.Set(name, addr.AddressList(body).String())
}

// setAddress allows the setting of an address field either from a string or
// from an address or fails with an error.
func (h *Header) setAddress(n string, as []any) error {
	var al addr.AddressList
	for _, a := range as {
		switch v := a.(type) {
		case string:
			add, err := addr.ParseEmailAddress(v)
			if err != nil {
				return err
			}
			al = append(al, add)
		case addr.Address:
			al = append(al, v)
		case addr.AddressList:
			al = append(al, v...)
		default:
			return ErrWrongAddressType
		}
	}
	h.SetAddressList(n, al...)
	return nil
}

// GetContentType returns the Content-Type header as a param.ContentType.
//
// It returns nil and ErrNoSuchField if the field is not set on the header. It
// returns nil and ErrManyFields if the field is set more than once on the
// header. It will return nil and an error if there is a problem parsing the
// field.
func (h *Header) GetContentType() (*param.ContentType, error) {
	body, err := h.Get(ContentType)
	if err != nil {
		return nil, err
	}

	return param.ParseContentType(body)
}

// SetContentType replaces the Content-Type with the given param.ContentType.
func (h *Header) SetContentType(ct *param.ContentType) {
	h.Set(ContentType, ct.String())
}

// GetMediaType returns the lower-cased type/subtype set in the Content-Type
// header (parameters will not be returned).
func (h *Header) GetMediaType() (string, error) {
	ct, err := h.GetContentType()
	if err != nil {
		return "", err
	}

	return ct.BaseType(), nil
}

// SetMediaType replaces the MIME type on the Content-Type header, creating it
// if it has not been set yet. If the Content-Type header already exists and
// can be parsed, the parameters already set will be preserved.
func (h *Header) SetMediaType(mt string) {
	primary, sub, _ := strings.Cut(mt, "/")

	ct, err := h.GetContentType()
	if err != nil {
		ct = param.NewContentType(primary, sub)
	} else {
		ct.SetPrimaryType(primary)
		ct.SetSubType(sub)
	}

	h.SetContentType(ct)
}

// GetContentDisposition returns the Content-Disposition header as a
// param.Disposition.
//
// It returns nil and ErrNoSuchField if the field is not set on the header. It
// returns nil and ErrManyFields if the field is set more than once on the
// header. It will return nil and an error if there is a problem parsing the
// field.
func (h *Header) GetContentDisposition() (*param.Disposition, error) {
	body, err := h.Get(ContentDisposition)
	if err != nil {
		return nil, err
	}

	return param.ParseDisposition(body)
}

// SetContentDisposition sets the Content-Disposition to a new value from a
// param.Disposition.
func (h *Header) SetContentDisposition(d *param.Disposition) {
	h.Set(ContentDisposition, d.String())
}

// GetPresentation returns the disposition type of the Content-Disposition
// header, describing what the function of this part of the message is.
func (h *Header) GetPresentation() (string, error) {
	d, err := h.GetContentDisposition()
	if err != nil {
		return "", err
	}

	return d.Disposition(), nil
}

// SetPresentation sets the disposition type of the Content-Disposition header
// field. If the Content-Disposition header already exists, any parameters
// already set will be preserved.
func (h *Header) SetPresentation(d string) {
	cd, err := h.GetContentDisposition()
	if err != nil {
		cd = param.NewDisposition(d)
	} else {
		cd.SetDisposition(d)
	}

	h.SetContentDisposition(cd)
}

// getParam gets a parameter of a parameterized header or returns an error.
func getParam[T interface{ Parameter(string) (string, bool) }](
	get func() (T, error),
	p string,
) (string, error) {
	v, err := get()
	if err != nil {
		return "", err
	}

	if pv, ok := v.Parameter(p); ok {
		return pv, nil
	}

	return "", ErrNoSuchFieldParameter
}

// GetCharset gets the charset from the Content-Type header field.
//
// This method returns an empty string with ErrNoSuchField if no field is
// present in the header. This method returns an empty string with
// ErrNoSuchFieldParameter if the field is present, but the parameter is not set
// on the field.
func (h *Header) GetCharset() (string, error) {
	return getParam(h.GetContentType, param.Charset)
}

// SetCharset sets the charset on the Content-Type header.
//
// This method fails with ErrNoSuchField if the field is not set on the
// header. This method fails with an error if the field cannot be parsed.
func (h *Header) SetCharset(c string) error {
	ct, err := h.GetContentType()
	if err != nil {
		return err
	}

	ct.SetParameter(param.Charset, c)
	h.SetContentType(ct)
	return nil
}

// GetBoundary gets the boundary from the Content-Type header field.
//
// This method returns an empty string with ErrNoSuchField if no field is
// present in the header. This method returns an empty string with
// ErrNoSuchFieldParameter if the field is present, but the parameter is not set
// on the field.
func (h *Header) GetBoundary() (string, error) {
	return getParam(h.GetContentType, param.Boundary)
}

// SetBoundary sets the boundary on the Content-Type header.
//
// This method fails with ErrNoSuchField if the field is not set on the
// header. This method fails with an error if the field cannot be parsed.
func (h *Header) SetBoundary(b string) error {
	ct, err := h.GetContentType()
	if err != nil {
		return err
	}

	ct.SetParameter(param.Boundary, b)
	h.SetContentType(ct)
	return nil
}

// GetFilename gets the filename parameter of the Content-Disposition header.
//
// This method returns an empty string with ErrNoSuchField if no field is
// present in the header. This method returns an empty string with
// ErrNoSuchFieldParameter if the field is present, but the parameter is not set
// on the field.
func (h *Header) GetFilename() (string, error) {
	return getParam(h.GetContentDisposition, param.Filename)
}

// SetFilename sets the filename parameter of the Content-Disposition header.
// If the header is not set or cannot be parsed, it is replaced with an
// attachment disposition.
func (h *Header) SetFilename(f string) {
	cd, err := h.GetContentDisposition()
	if err != nil {
		cd = param.NewDisposition(param.Attachment)
	}

	cd.SetParameter(param.Filename, f)
	h.SetContentDisposition(cd)
}

// GetDate retrieves the Date header as a time.Time value.
func (h *Header) GetDate() (time.Time, error) {
	return h.GetTime(Date)
}

// SetDate updates the Date header from the given time.Time value.
func (h *Header) SetDate(d time.Time) {
	h.SetTime(Date, d)
}

// getText returns an unstructured field unfolded with any RFC 2047 encoded
// words decoded. If decoding fails, the unfolded body is returned.
func (h *Header) getText(name string) (string, error) {
	body, err := h.getUnfolded(name)
	if err != nil && !errors.Is(err, ErrManyFields) {
		return "", err
	}

	if dec, derr := field.Decode(body); derr == nil {
		body = dec
	}

	return body, err
}

// setText sets an unstructured field, encoding and folding it as needed.
func (h *Header) setText(name, s string) {
	h.Set(name, field.Fold(len(name)+2, field.Encode(s)))
}

// GetSubject returns the decoded value of the Subject header field.
//
// If Subject is not set in the header, it will return an empty string with
// ErrNoSuchField. If there are multiple Subject headers, it will return
// ErrManyFields.
func (h *Header) GetSubject() (string, error) {
	return h.getText(Subject)
}

// SetSubject replaces the Subject header field. Text that cannot be sent as-is
// is written as RFC 2047 encoded words.
func (h *Header) SetSubject(s string) {
	h.setText(Subject, s)
}

// GetDescription returns the decoded value of the Content-Description field.
func (h *Header) GetDescription() (string, error) {
	return h.getText(ContentDescription)
}

// SetDescription replaces the Content-Description field. Passing an empty
// string removes it.
func (h *Header) SetDescription(d string) {
	if d == "" {
		h.Remove(ContentDescription)
		return
	}
	h.setText(ContentDescription, d)
}

// GetTo returns the To address field as an addr.AddressList.
func (h *Header) GetTo() (addr.AddressList, error) {
	return h.GetAddressList(To)
}

// SetTo sets the To address field with either an addr.Address or a string.
//
// It will fail with an error returned if something other than those types is
// provided or if the given string fails to strictly parse.
func (h *Header) SetTo(a ...any) error {
	return h.setAddress(To, a)
}

// GetCc returns the Cc address field as an addr.AddressList.
func (h *Header) GetCc() (addr.AddressList, error) {
	return h.GetAddressList(Cc)
}

// SetCc sets the Cc address field with either an addr.Address or a string.
func (h *Header) SetCc(a ...any) error {
	return h.setAddress(Cc, a)
}

// GetBcc returns the Bcc address field as an addr.AddressList.
func (h *Header) GetBcc() (addr.AddressList, error) {
	return h.GetAddressList(Bcc)
}

// SetBcc sets the Bcc address field with either an addr.Address or a string.
func (h *Header) SetBcc(a ...any) error {
	return h.setAddress(Bcc, a)
}

// GetFrom returns the From address field as an addr.AddressList.
func (h *Header) GetFrom() (addr.AddressList, error) {
	return h.GetAddressList(From)
}

// SetFrom sets the From address field with either an addr.Address or a
// string.
func (h *Header) SetFrom(a ...any) error {
	return h.setAddress(From, a)
}

// GetReplyTo returns the Reply-To address field as an addr.AddressList.
func (h *Header) GetReplyTo() (addr.AddressList, error) {
	return h.GetAddressList(ReplyTo)
}

// SetReplyTo sets the Reply-To address field with either an addr.Address or
// a string.
func (h *Header) SetReplyTo(a ...any) error {
	return h.setAddress(ReplyTo, a)
}

// GetSender returns the address list in the Sender header, if any.
func (h *Header) GetSender() (addr.AddressList, error) {
	return h.GetAddressList(Sender)
}

// SetSender sets the Sender address field with either an addr.Address or
// a string.
func (h *Header) SetSender(a ...any) error {
	return h.setAddress(Sender, a)
}

// GetKeywords returns all the keywords set on all the Keywords fields. Each
// field is a comma-separated list of keywords.
//
// This method will return nil with ErrNoSuchField if the Keywords field does
// not exist.
func (h *Header) GetKeywords() ([]string, error) {
	bs, err := h.GetAll(Keywords)
	if err != nil {
		return nil, err
	}

	ks := make([]string, 0, len(bs)*2)
	for _, b := range bs {
		for _, k := range strings.Split(field.Unfold(b), ",") {
			if k = strings.TrimSpace(k); k != "" {
				ks = append(ks, k)
			}
		}
	}

	return ks, nil
}

// SetKeywords will replace all Keywords headers currently set in the header
// with one Keywords header with all the given keywords separated by a comma.
func (h *Header) SetKeywords(ks ...string) {
	h.Set(Keywords, strings.Join(ks, ", "))
}

// GetComments returns the content of the Comments header fields.
func (h *Header) GetComments() ([]string, error) {
	return h.GetAll(Comments)
}

// SetComments replaces all Comments fields with the given bodies.
func (h *Header) SetComments(cs ...string) {
	h.SetAll(Comments, cs...)
}

// GetReferences returns the message IDs in the References header, if any.
func (h *Header) GetReferences() (string, error) {
	return h.getUnfolded(References)
}

// SetReferences sets the message IDs to store in the References header.
func (h *Header) SetReferences(ref string) {
	h.Set(References, field.Fold(len(References)+2, ref))
}

// GetInReplyTo returns the message ID in the In-Reply-To header, if any.
func (h *Header) GetInReplyTo() (string, error) {
	return h.getUnfolded(InReplyTo)
}

// SetInReplyTo sets the message ID in the In-Reply-To header.
func (h *Header) SetInReplyTo(ref string) {
	h.Set(InReplyTo, ref)
}

// GetMessageID returns the Message ID found in the Message-ID header, if any.
func (h *Header) GetMessageID() (string, error) {
	return h.getUnfolded(MessageID)
}

// SetMessageID sets the Message-ID header of the message header.
func (h *Header) SetMessageID(ref string) {
	h.Set(MessageID, ref)
}

// GetTransferEncoding returns the lower-cased content transfer encoding named
// by the Content-Transfer-Encoding header. Any comments are ignored. If the
// field does not start with an atom, the field body is returned as-is.
//
// It will return ErrNoSuchField if the header is not set. It will return
// ErrManyFields if the field is set more than once.
func (h *Header) GetTransferEncoding() (string, error) {
	body, err := h.getUnfolded(ContentTransferEncoding)
	if err != nil && !errors.Is(err, ErrManyFields) {
		return "", err
	}

	tok, terr := token.NewMIME(body).Next()
	if terr != nil || tok.Type != token.Atom {
		return strings.TrimSpace(body), err
	}

	return strings.ToLower(tok.Value), err
}

// SetTransferEncoding replaces the Content-Transfer-Encoding with the given
// value.
func (h *Header) SetTransferEncoding(b string) {
	h.Set(ContentTransferEncoding, b)
}

// GetContentID returns the Content-ID header.
func (h *Header) GetContentID() (string, error) {
	return h.getUnfolded(ContentID)
}

// SetContentID sets the Content-ID header. Passing an empty string removes it.
func (h *Header) SetContentID(cid string) {
	if cid == "" {
		h.Remove(ContentID)
		return
	}
	h.Set(ContentID, cid)
}

// GetContentMD5 returns the Content-MD5 header.
func (h *Header) GetContentMD5() (string, error) {
	return h.getUnfolded(ContentMD5)
}

// SetContentMD5 sets the Content-MD5 header.
func (h *Header) SetContentMD5(md5 string) {
	h.Set(ContentMD5, md5)
}

// GetContentLanguage returns the language tags listed in the
// Content-Language header.
func (h *Header) GetContentLanguage() ([]string, error) {
	body, err := h.getUnfolded(ContentLanguage)
	if err != nil && !errors.Is(err, ErrManyFields) {
		return nil, err
	}

	var langs []string
	tz := token.NewMIME(body)
	for {
		tok, terr := tz.Next()
		if terr != nil {
			return langs, terr
		}

		switch tok.Type {
		case token.EOF:
			return langs, err
		case token.Atom:
			langs = append(langs, tok.Value)
		}
	}
}

// SetContentLanguage sets the Content-Language header. Passing no languages
// removes it.
func (h *Header) SetContentLanguage(langs ...string) {
	if len(langs) == 0 {
		h.Remove(ContentLanguage)
		return
	}
	h.Set(ContentLanguage, field.Fold(len(ContentLanguage)+2, strings.Join(langs, ", ")))
}
