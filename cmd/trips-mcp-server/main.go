package main

import (
	"context"
	"log"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"trip-planner/internal/bootstrap"
	"trip-planner/internal/config"
	"trip-planner/internal/mcpserver"
	"trip-planner/internal/render"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	cfg := config.New()
	log.Printf("🚀 Starting Trip MCP Server")
	log.Printf("📦 KV backend: %s, key: %q", cfg.KVBackend, cfg.TripsKey)

	ctx := context.Background()
	store, closeKV, err := bootstrap.OpenStore(ctx, cfg)
	if err != nil {
		log.Fatalf("❌ Failed to load trips: %v", err)
	}
	defer closeKV()

	r := render.New(cfg.Language, cfg.CurrencySuffix)
	server := mcpserver.New(store, r).MCPServer()

	log.Printf("🔗 Starting Trip MCP server on stdin/stdout...")
	transport := mcp.NewStdioTransport()
	if err := server.Run(ctx, transport); err != nil {
		log.Fatalf("❌ Trip MCP Server failed: %v", err)
	}
}
