package header

import (
	"strings"

	"github.com/zostay/go-addr/pkg/addr"
)

// extractComments separates the parenthesized comments of s from the rest of
// it. Nested comments are kept inside the outer comment. An unmatched closing
// parenthesis is treated as ordinary text.
func extractComments(s string) (clean, comment string) {
	var cb, mb strings.Builder
	nestLevel := 0
	for _, c := range s {
		switch {
		case c == '(':
			nestLevel++
			if nestLevel > 1 {
				mb.WriteRune(c)
			}
		case c == ')':
			nestLevel--
			switch {
			case nestLevel == 0:
			case nestLevel < 0:
				nestLevel = 0
				cb.WriteRune(c)
			default:
				mb.WriteRune(c)
			}
		case nestLevel > 0:
			mb.WriteRune(c)
		default:
			cb.WriteRune(c)
		}
	}

	return cb.String(), mb.String()
}

// parseEmailAddressList is a fallback method for email address parsing. The
// parser in github.com/zostay/go-addr is a strict parser, which is good for
// validating data entry. Mail found in the wild needs something more
// forgiving, even if the result is technically wrong.
//
// Each comma-separated item has its comments removed. The last remaining word
// is treated as the email address and the words before it as the display
// name. Groups are not recognized.
func parseEmailAddressList(v string) addr.AddressList {
	mbs := strings.Split(v, ",")
	as := make(addr.AddressList, 0, len(mbs))
	for _, orig := range mbs {
		mb, com := extractComments(orig)
		com = strings.TrimSpace(com)

		parts := strings.Fields(mb)
		if len(parts) == 0 {
			continue
		}

		dn := strings.Join(parts[:len(parts)-1], " ")
		email := strings.Trim(parts[len(parts)-1], "<>")

		local, domain, _ := strings.Cut(email, "@")
		addrSpec := addr.NewAddrSpecParsed(local, domain, email)

		mailbox, err := addr.NewMailboxParsed(dn, addrSpec, com, orig)
		if err != nil {
			mailbox, _ = addr.NewMailboxParsed(dn, addrSpec, "", orig)
		}

		as = append(as, mailbox)
	}

	return as
}
