package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/zostay/go-mime/internal/roundtrip"
)

var oneCmd = &cobra.Command{
	Use:   "one message...",
	Short: "Shows the diff of each message file round-trip",
	Args:  cobra.MinimumNArgs(1),
	RunE:  RunOne,
}

func RunOne(cmd *cobra.Command, args []string) error {
	failed := 0
	for _, path := range args {
		ok, err := checkFile(cmd, path)
		if err != nil {
			return err
		}
		if !ok {
			failed++
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d messages did not round-trip", failed, len(args))
	}
	return nil
}

func checkFile(cmd *cobra.Command, path string) (bool, error) {
	msgFile, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer func() { _ = msgFile.Close() }()

	res, err := roundtrip.Check(msgFile, parseOpts...)
	if err != nil {
		return false, fmt.Errorf("%s: %w", path, err)
	}

	report(cmd, path, res)
	return res.Same(), nil
}

func report(cmd *cobra.Command, name string, res *roundtrip.Result) {
	out := cmd.OutOrStdout()
	switch {
	case res.Exact():
		_, _ = fmt.Fprintf(out, "ok     %s\n", name)
	case res.Same():
		_, _ = fmt.Fprintf(out, "ok     %s (line endings differ)\n", name)
	default:
		_, _ = fmt.Fprintf(out, "FAIL   %s\n%s", name, res.Diff())
	}
}
