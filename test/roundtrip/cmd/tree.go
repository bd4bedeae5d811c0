package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/zostay/go-mime/internal/roundtrip"
	"github.com/zostay/go-mime/message"
)

var treeCmd = &cobra.Command{
	Use:   "tree message",
	Short: "Prints the parts of a message",
	Args:  cobra.ExactArgs(1),
	RunE:  RunTree,
}

func RunTree(cmd *cobra.Command, args []string) error {
	msgFile, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer func() { _ = msgFile.Close() }()

	m, err := message.Parse(msgFile, parseOpts...)
	if err != nil {
		return err
	}

	return roundtrip.Tree(cmd.OutOrStdout(), &m.Part)
}
