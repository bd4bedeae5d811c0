package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/emersion/go-mbox"
	"github.com/spf13/cobra"

	"github.com/zostay/go-mime/internal/roundtrip"
)

var mboxCmd = &cobra.Command{
	Use:   "mbox file",
	Short: "Round-trips every message in an mbox file",
	Args:  cobra.ExactArgs(1),
	RunE:  RunMbox,
}

func RunMbox(cmd *cobra.Command, args []string) error {
	path := args[0]
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	total, failed := 0, 0
	reader := mbox.NewReader(f)
	for {
		mr, err := reader.NextMessage()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("reading message %d of %s: %w", total+1, path, err)
		}

		total++
		name := fmt.Sprintf("%s#%d", path, total)

		res, err := roundtrip.Check(mr, parseOpts...)
		if err != nil {
			slog.Error("unable to parse message", "message", name, "err", err)
			failed++
			continue
		}

		report(cmd, name, res)
		if !res.Same() {
			failed++
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d messages did not round-trip", failed, total)
	}
	return nil
}
