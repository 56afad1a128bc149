// nexus-sms - SMS gateway test bench
// Copyright (C) 2026  nexus contributors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

// mock-gateway is a stand-in SMS gateway for exercising webhook clients.
//
// It accepts MT requests on /mt and answers each one with a delivery receipt
// posted to its dlr_url, and relays MO messages sent by websocket clients on
// /ws to the webhook named in the frame. Every accepted MT is also pushed to
// the websocket clients.
//
//	PORT                  listen port (default 9200)
//	DLR_DELAY             pause before a delivery receipt (default 2s)
//	GATEWAY_HTTP_TIMEOUT  timeout for MO and DLR callbacks (default 15s)
//	GATEWAY_STATIC_DIR    optional directory served at /
//	LOG_LEVEL, LOG_FORMAT as for sms-client
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/jredh-dev/nexus-sms/internal/config"
	"github.com/jredh-dev/nexus-sms/internal/gateway"
	"github.com/jredh-dev/nexus-sms/internal/hub"
	"github.com/jredh-dev/nexus-sms/internal/logging"
	"github.com/jredh-dev/nexus-sms/internal/server"
	"github.com/jredh-dev/nexus-sms/internal/sms"
)

var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Parse()

	if *showVersion {
		fmt.Printf("mock-gateway %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", buildDate)
		os.Exit(0)
	}

	cfg, err := config.LoadGateway()
	if err != nil {
		log.Fatalf("mock-gateway: config: %v", err)
	}
	level, err := cfg.Logging.SlogLevel()
	if err != nil {
		log.Fatalf("mock-gateway: config: %v", err)
	}
	logger := logging.New(os.Stdout, level, cfg.Logging.Format).With("service", "mock_gateway")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h := hub.New(logger)
	go h.Run(ctx)

	g := gateway.New(cfg, h, sms.NewHTTPSender(cfg.HTTPTimeout), logger)

	srv := server.New(logger)
	srv.Router.Use(server.CORS)
	srv.Health()
	g.Routes(srv.Router)
	srv.OnStop(g.Wait)
	srv.OnStop(cancel)

	addr := ":" + cfg.Port
	logger.Info("mock-gateway starting",
		"mt", "http://localhost"+addr+"/mt",
		"ws", "ws://localhost"+addr+"/ws",
	)

	if err := srv.ListenAndServe(addr); err != nil {
		log.Fatalf("mock-gateway: server error: %v", err)
	}
}
