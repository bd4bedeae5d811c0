package walk

import (
	"github.com/zostay/go-mime/message"
	"github.com/zostay/go-mime/message/walker"
)

// Processor is a callback that can be passed to the AndProcess() function to
// do any kind of generic processing of a message and its sub-parts.
//
// The Processor is given a part to process and the ancestry of the part. If
// len(parents) is zero, then this is the top-level part (i.e., the top-level
// part that AndProcess() was called upon, which might not be the root message).
// The enclosed message of a message/rfc822 part counts as its child.
//
// The Processor may return an error to cause AndProcess() to terminate
// immediately and return that error.
type Processor func(part *message.Part, parents []*message.Part) error

// AndProcess will walk the message parts tree of a message (or a part of a
// message) and call the given Processor function for each part found. It will
// terminate once all parts have been processed and return nil. If the Processor
// function returns an error or the sub-parts of a part cannot be parsed, it
// will terminate early and return that error.
func AndProcess(
	processor Processor,
	msg *message.Part,
) error {
	parents := make([]*message.Part, 0, 10)
	return andProcess(processor, msg, parents)
}

// AndProcessOpaque works just like AndProcess, but only calls the Processor for
// parts that do not contain other parts.
func AndProcessOpaque(
	processor Processor,
	msg *message.Part,
) error {
	return AndProcess(
		func(part *message.Part, parents []*message.Part) error {
			if isLeaf(part) {
				return processor(part, parents)
			}
			return nil
		}, msg)
}

// AndProcessMultipart works just like AndProcess, but only calls the Processor
// for multipart/* parts.
func AndProcessMultipart(
	processor Processor,
	msg *message.Part,
) error {
	return AndProcess(
		func(part *message.Part, parents []*message.Part) error {
			if part.IsMimeType("multipart/*") {
				return processor(part, parents)
			}
			return nil
		}, msg)
}

func isLeaf(part *message.Part) bool {
	return !part.IsMimeType("multipart/*") && !part.IsMimeType("message/rfc822")
}

func andProcess(
	processor Processor,
	part *message.Part,
	parents []*message.Part,
) error {
	err := processor(part, parents)
	if err != nil {
		return err
	}

	subParts, err := walker.Children(part)
	if err != nil {
		return err
	}

	if len(subParts) > 0 {
		parents = append(parents, part)
		for _, subPart := range subParts {
			err := andProcess(processor, subPart, parents)
			if err != nil {
				return err
			}
		}
	}

	return nil
}
