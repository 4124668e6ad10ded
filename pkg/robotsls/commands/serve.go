package commands

import (
	"errors"
	"io"
	"log/slog"
	"net"
	"time"

	"github.com/kralicky/robotsls/pkg/lsp"
	"github.com/kralicky/robotsls/pkg/lsprpc"
	"github.com/kralicky/tools-lite/pkg/jsonrpc2"
	"github.com/spf13/cobra"
)

// ServeCmd represents the serve command
func BuildServeCmd() *cobra.Command {
	var pipe string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the language server",
		Long:  "Start the language server on a unix socket, or on stdin/stdout if --pipe is not set.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := lsp.NewLogger(cmd.ErrOrStderr())
			slog.SetDefault(logger)

			var cc net.Conn
			if pipe != "" {
				var err error
				cc, err = net.Dial("unix", pipe)
				if err != nil {
					return err
				}
			} else {
				cc = &stdioConn{reader: cmd.InOrStdin(), writer: cmd.OutOrStdout()}
			}
			conn := jsonrpc2.NewConn(jsonrpc2.NewHeaderStream(cc))
			return lsprpc.NewStreamServer(logger).ServeStream(cmd.Context(), conn)
		},
	}

	cmd.Flags().StringVar(&pipe, "pipe", "", "socket name to connect to (defaults to stdio)")
	cmd.Flags().Var(lsp.GlobalAtomicLeveler, "log-level", "log level (debug, info, warn, error)")

	return cmd
}

// stdioConn adapts a reader and writer pair to a net.Conn so that it can be
// used as a jsonrpc2 header stream.
type stdioConn struct {
	reader io.Reader
	writer io.Writer
}

func (c *stdioConn) Read(b []byte) (int, error) {
	return c.reader.Read(b)
}

func (c *stdioConn) Write(b []byte) (int, error) {
	return c.writer.Write(b)
}

func (c *stdioConn) Close() error {
	var errs []error
	if closer, ok := c.reader.(io.Closer); ok {
		errs = append(errs, closer.Close())
	}
	if closer, ok := c.writer.(io.Closer); ok {
		errs = append(errs, closer.Close())
	}
	return errors.Join(errs...)
}

func (c *stdioConn) LocalAddr() net.Addr                { return stdioAddr{} }
func (c *stdioConn) RemoteAddr() net.Addr               { return stdioAddr{} }
func (c *stdioConn) SetDeadline(t time.Time) error      { return nil }
func (c *stdioConn) SetReadDeadline(t time.Time) error  { return nil }
func (c *stdioConn) SetWriteDeadline(t time.Time) error { return nil }

type stdioAddr struct{}

func (stdioAddr) Network() string { return "stdio" }
func (stdioAddr) String() string  { return "stdio" }
