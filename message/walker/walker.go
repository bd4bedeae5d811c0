package walker

import (
	"github.com/zostay/go-mime/message"
)

// PartWalker  is a function that can be processed for each part of a message.
type PartWalker func(depth, i int, part *message.Part) error

// Children returns the parts nested directly inside the given part. These are
// the parts of a multipart/* part or the enclosed message of a message/rfc822
// part. Any other part has no children.
func Children(part *message.Part) ([]*message.Part, error) {
	switch {
	case part.IsMimeType("multipart/*"):
		mp, err := part.Multipart()
		if err != nil {
			return nil, err
		}
		return mp.Parts()
	case part.IsMimeType("message/rfc822"):
		m, err := part.Message()
		if err != nil {
			return nil, err
		}
		return []*message.Part{&m.Part}, nil
	}
	return nil, nil
}

// isContainer returns true for parts that Children descends into.
func isContainer(part *message.Part) bool {
	return part.IsMimeType("multipart/*") || part.IsMimeType("message/rfc822")
}

// Walk performs a depth first search for all the parts of a message starting
// with the message itself. It calls the PartWalker for each part of the
// message. If the PartWalker returns an error or the parts of a part cannot be
// read, then processing stops immediately and the error is returned.
func (w PartWalker) Walk(msg *message.Part) error {
	type part struct {
		depth int
		i     int
		part  *message.Part
	}

	openStack := make([]part, 0, 10)

	pushStack := func(depth int, msg *message.Part) error {
		parts, err := Children(msg)
		if err != nil {
			return err
		}

		for i := len(parts) - 1; i >= 0; i-- {
			openStack = append(openStack, part{depth, i, parts[i]})
		}
		return nil
	}

	popStack := func() part {
		end := len(openStack) - 1
		p := openStack[end]
		openStack = openStack[:end]
		return p
	}

	openStack = append(openStack, part{0, 0, msg})
	for len(openStack) > 0 {
		p := popStack()
		if err := w(p.depth, p.i, p.part); err != nil {
			return err
		}

		if err := pushStack(p.depth+1, p.part); err != nil {
			return err
		}
	}

	return nil
}

// WalkLeaves will call the PartWalker function for each part that contains no
// other parts using a depth first traversal. It will terminate the walk
// immediately if the PartWalker returns an error and will return the error.
func (w PartWalker) WalkLeaves(msg *message.Part) error {
	var lw PartWalker = func(depth, i int, part *message.Part) error {
		if !isContainer(part) {
			if err := w(depth, i, part); err != nil {
				return err
			}
		}
		return nil
	}
	return lw.Walk(msg)
}

// WalkMultipart will call the PartWalker function for each multipart/* part
// using a depth first traversal. It will terminate the walk immediately if the
// PartWalker returns an error and will return that error.
func (w PartWalker) WalkMultipart(msg *message.Part) error {
	var mlw PartWalker = func(depth, i int, part *message.Part) error {
		if part.IsMimeType("multipart/*") {
			if err := w(depth, i, part); err != nil {
				return err
			}
		}
		return nil
	}
	return mlw.Walk(msg)
}
