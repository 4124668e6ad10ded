package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/kralicky/robotsls/pkg/diagnostics"
	"github.com/kralicky/robotsls/pkg/lsp"
	"github.com/kralicky/robotsls/pkg/syntax"
	"github.com/kralicky/tools-lite/gopls/pkg/protocol"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// ErrProblemsFound is returned by check when any file has error diagnostics.
var ErrProblemsFound = errors.New("one or more errors occurred")

// CheckCmd represents the check command
func BuildCheckCmd() *cobra.Command {
	var configFile string
	var watch bool
	cmd := &cobra.Command{
		Use:   "check [filenames...]",
		Short: "Report problems in robots.txt files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if configFile == "" {
				if _, err := os.Stat(diagnostics.DefaultConfigFile); err == nil {
					configFile = diagnostics.DefaultConfigFile
				}
			}
			settings := lsp.Settings{ConfigFile: configFile}
			dispatcher, err := settings.NewDispatcher()
			if err != nil {
				return err
			}
			err = checkFiles(cmd.OutOrStdout(), dispatcher, args)
			if !watch {
				return err
			}
			if err != nil && !errors.Is(err, ErrProblemsFound) {
				return err
			}
			return watchFiles(cmd, dispatcher, args)
		},
	}
	cmd.Flags().StringVar(&configFile, "config", "", "analyzer config file (defaults to ./"+diagnostics.DefaultConfigFile+" if present)")
	cmd.Flags().BoolVar(&watch, "watch", false, "check files again whenever they change")
	return cmd
}

type checkResult struct {
	lines  []string
	errors int
	err    error
}

// checkFiles checks all files in parallel and prints the results in argument
// order.
func checkFiles(out io.Writer, dispatcher *diagnostics.Dispatcher, filenames []string) error {
	results := make([]checkResult, len(filenames))
	var eg errgroup.Group
	for i, filename := range filenames {
		eg.Go(func() error {
			results[i] = checkFile(dispatcher, filename)
			return nil
		})
	}
	eg.Wait()

	var errs []error
	problems := 0
	for _, res := range results {
		for _, line := range res.lines {
			fmt.Fprintln(out, line)
		}
		problems += res.errors
		if res.err != nil {
			errs = append(errs, res.err)
		}
	}
	if problems > 0 {
		errs = append(errs, ErrProblemsFound)
	}
	return errors.Join(errs...)
}

func checkFile(dispatcher *diagnostics.Dispatcher, filename string) checkResult {
	src, err := os.ReadFile(filename)
	if err != nil {
		return checkResult{err: err}
	}
	tree := syntax.Parse(syntax.Snapshot{Text: src})
	mapper := protocol.NewMapper(protocol.URIFromPath(filename), src)

	var res checkResult
	for _, d := range dispatcher.Analyze(tree, tree.Root.Span()) {
		line, col := mapper.OffsetLineCol8(d.Span.Start)
		res.lines = append(res.lines, fmt.Sprintf("%s:%d:%d: %s: %s [%s]", filename, line, col, d.Severity, d.Message, d.Code))
		if d.Severity == diagnostics.SeverityError {
			res.errors++
		}
	}
	return res
}

// watchFiles checks files again as they are written, until the command's
// context is canceled. Parent directories are watched so that editors that
// replace files on save are handled.
func watchFiles(cmd *cobra.Command, dispatcher *diagnostics.Dispatcher, filenames []string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	tracked := make(map[string]string, len(filenames))
	dirs := map[string]struct{}{}
	for _, filename := range filenames {
		abs, err := filepath.Abs(filename)
		if err != nil {
			return err
		}
		tracked[abs] = filename
		dirs[filepath.Dir(abs)] = struct{}{}
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return err
		}
	}

	ctx := cmd.Context()
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			filename, ok := tracked[filepath.Clean(event.Name)]
			if !ok {
				continue
			}
			if err := checkFiles(cmd.OutOrStdout(), dispatcher, []string{filename}); err != nil && !errors.Is(err, ErrProblemsFound) {
				cmd.PrintErrln(err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			cmd.PrintErrln(err)
		}
	}
}
