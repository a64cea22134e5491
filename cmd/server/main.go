// Command server is the main entry point for the Firebase MCP server.
package main

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mark3labs/mcp-go/server"

	"github.com/firebridge/mcp-server-firebase/core"
	"github.com/firebridge/mcp-server-firebase/pkg/config"
	"github.com/firebridge/mcp-server-firebase/pkg/firebase"
	"github.com/firebridge/mcp-server-firebase/pkg/registry"
	authtools "github.com/firebridge/mcp-server-firebase/pkg/tools/auth"
	firestoretools "github.com/firebridge/mcp-server-firebase/pkg/tools/firestore"
	storagetools "github.com/firebridge/mcp-server-firebase/pkg/tools/storage"
	"github.com/firebridge/mcp-server-firebase/pkg/transport"
)

const (
	serverName    = "Firebase MCP Server"
	serverVersion = "1.0.0"

	startupProbeTimeout = 15 * time.Second
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal("invalid configuration", "error", err)
	}

	ctx := context.Background()

	fb, err := firebase.New(ctx, cfg)
	if err != nil {
		log.Fatal("firebase initialization failed", "error", err)
	}
	defer fb.Close()

	// A bad service account must fail the process here, before the
	// transport accepts its first request.
	probeCtx, cancel := context.WithTimeout(ctx, startupProbeTimeout)
	defer cancel()
	if err := fb.VerifyCredentials(probeCtx); err != nil {
		log.Fatal("service account authentication failed", "error", err)
	}

	srv := server.NewMCPServer(
		serverName,
		serverVersion,
		server.WithResourceCapabilities(false, false),
		server.WithLogging(),
	)

	reg := registry.New(cfg.Calls.Timeout)
	for _, tool := range allTools(fb) {
		if err := reg.Register(tool); err != nil {
			log.Fatal("tool registration failed", "error", err)
		}
	}
	reg.Attach(srv)

	log.Info("starting", "tools", len(reg.Names()), "bucket", cfg.Firebase.StorageBucket)
	if err := transport.Serve(cfg, srv); err != nil {
		log.Fatal("server error", "error", err)
	}
}

// allTools assembles the complete tool surface against one client bundle.
func allTools(fb *firebase.Client) []core.Tool {
	var all []core.Tool
	all = append(all, firestoretools.Register(fb)...)
	all = append(all, storagetools.Register(fb)...)
	all = append(all, authtools.Register(fb.Auth)...)
	return all
}
