package lsprpc

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/kralicky/robotsls/pkg/lsp"
	"github.com/kralicky/tools-lite/gopls/pkg/protocol"
	"github.com/kralicky/tools-lite/pkg/event"
	"github.com/kralicky/tools-lite/pkg/jsonrpc2"
)

func NewStreamServer(logger *slog.Logger) jsonrpc2.StreamServer {
	return &streamServer{logger: logger}
}

type streamServer struct {
	logger *slog.Logger
}

func (s *streamServer) ServeStream(ctx context.Context, conn jsonrpc2.Conn) error {
	client := protocol.ClientDispatcher(conn)
	server := lsp.NewServer(client,
		lsp.WithNotifier(conn),
		lsp.WithLogger(s.logger),
	)
	handler := protocol.CancelHandler(
		AsyncHandler(
			jsonrpc2.MustReplyHandler(
				exitHandler(conn,
					shutdownHandler(server,
						protocol.ServerHandler(server, jsonrpc2.MethodNotFound))))))
	conn.Go(ctx, handler)
	<-conn.Done()
	if err := conn.Err(); err != nil {
		return fmt.Errorf("server exited with error: %w", err)
	}
	return nil
}

// methods that are intended to be long-lived, and should not hold up the queue
var streamingRequestMethods = map[string]bool{
	"textDocument/diagnostic": true,
}

func AsyncHandler(handler jsonrpc2.Handler) jsonrpc2.Handler {
	nextRequest := make(chan struct{})
	close(nextRequest)
	return func(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
		waitForPrevious := nextRequest
		nextRequest = make(chan struct{})
		unlockNext := nextRequest
		if streamingRequestMethods[req.Method()] {
			close(unlockNext)
		} else {
			innerReply := reply
			reply = func(ctx context.Context, result interface{}, err error) error {
				close(unlockNext)
				return innerReply(ctx, result, err)
			}
		}
		_, queueDone := event.Start(ctx, "queued")
		go func() {
			<-waitForPrevious
			queueDone()
			if err := handler(ctx, reply, req); err != nil {
				event.Error(ctx, "jsonrpc2 async message delivery failed", err)
			}
		}()
		return nil
	}
}

// exitHandler closes the connection once the exit notification has been
// acknowledged.
func exitHandler(conn jsonrpc2.Conn, handler jsonrpc2.Handler) jsonrpc2.Handler {
	return func(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
		if req.Method() != "exit" {
			return handler(ctx, reply, req)
		}
		if err := reply(ctx, nil, nil); err != nil {
			return err
		}
		return conn.Close()
	}
}

// shutdownHandler rejects everything but exit and shutdown once the server
// has been shut down.
func shutdownHandler(server *lsp.Server, handler jsonrpc2.Handler) jsonrpc2.Handler {
	return func(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
		if server.IsShutdown() {
			switch req.Method() {
			case "exit", "shutdown":
			default:
				return reply(ctx, nil, fmt.Errorf("%w: server is shut down", jsonrpc2.ErrInvalidRequest))
			}
		}
		return handler(ctx, reply, req)
	}
}
