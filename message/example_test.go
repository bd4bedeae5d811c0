package message_test

import (
	"fmt"
	"os"
	"strings"

	"github.com/zostay/go-mime/message"
)

func ExampleParse() {
	msg, err := message.Parse(strings.NewReader(mixedMessage))
	if err != nil {
		panic(err)
	}

	mp, err := msg.Multipart()
	if err != nil {
		panic(err)
	}

	parts, err := mp.Parts()
	if err != nil {
		panic(err)
	}

	for _, part := range parts {
		txt, err := part.Text()
		if err != nil {
			panic(err)
		}
		fmt.Printf("%s: %s\n", part.ContentType(), txt)
	}

	// Output:
	// text/plain: Hello
	// text/html: <p>Hello</p>
}

func ExampleBuffer_multipart() {
	txt := &message.Buffer{}
	txt.SetMediaType("text/plain")
	_, _ = fmt.Fprint(txt, "Hello *World*!")
	txtPart, _ := txt.Part()

	html := &message.Buffer{}
	html.SetMediaType("text/html")
	_, _ = fmt.Fprint(html, "Hello <b>World</b>!")
	htmlPart, _ := html.Part()

	mm := &message.Buffer{}
	mm.SetSubject("Fancy message")
	mm.SetMediaType("multipart/alternative")
	mm.Add(txtPart, htmlPart)

	msg, err := mm.Message()
	if err != nil {
		panic(err)
	}
	_, _ = msg.WriteTo(os.Stdout)
}

func ExamplePart_SetFileName() {
	p := &message.Part{}
	p.SetContent([]byte("a,b\r\n1,2\r\n"), "text/csv")
	if err := p.SetFileName("numbers.csv"); err != nil {
		panic(err)
	}
	if err := p.UpdateHeaders(); err != nil {
		panic(err)
	}

	_, _ = p.WriteTo(os.Stdout)
}
