// Package mcp serves a replay session to MCP clients.
package mcp

import (
	"context"
	"log/slog"
	"sync"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/nihei9/vartrace/replay"
)

type Server struct {
	mu      sync.Mutex
	session *replay.Session
	logger  *slog.Logger
	mcp     *sdk.Server
}

func NewServer(session *replay.Session, version string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		session: session,
		logger:  logger.With(slog.String("component", "mcp")),
		mcp: sdk.NewServer(&sdk.Implementation{
			Name:    "vartrace",
			Version: version,
		}, nil),
	}
	s.registerTools()
	return s
}

func (s *Server) Run(ctx context.Context, transport sdk.Transport) error {
	s.logger.Info("serving", slog.Int("steps", s.session.Len()))
	return s.mcp.Run(ctx, transport)
}
