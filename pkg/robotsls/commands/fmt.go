package commands

import (
	"bytes"
	"fmt"
	"os"

	"github.com/kralicky/robotsls/pkg/format"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// FmtCmd represents the fmt command
func BuildFmtCmd() *cobra.Command {
	var write bool
	var list bool
	cmd := &cobra.Command{
		Use:   "fmt [filenames...]",
		Short: "Format robots.txt files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outputs := make([][]byte, len(args))
			changed := make([]bool, len(args))
			var eg errgroup.Group
			for i, filename := range args {
				eg.Go(func() error {
					if write {
						var err error
						changed[i], err = format.FileInPlace(filename)
						return err
					}
					original, err := os.ReadFile(filename)
					if err != nil {
						return err
					}
					outputs[i] = format.Source(original)
					changed[i] = !bytes.Equal(original, outputs[i])
					return nil
				})
			}
			if err := eg.Wait(); err != nil {
				return err
			}
			for i, filename := range args {
				switch {
				case list:
					if changed[i] {
						fmt.Fprintln(cmd.OutOrStdout(), filename)
					}
				case !write:
					if _, err := cmd.OutOrStdout().Write(outputs[i]); err != nil {
						return err
					}
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&write, "write", "w", false, "write result to (source) file instead of stdout")
	cmd.Flags().BoolVarP(&list, "list", "l", false, "list files whose formatting differs")
	return cmd
}
