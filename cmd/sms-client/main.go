// nexus-sms - SMS gateway test bench
// Copyright (C) 2026  nexus contributors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

// sms-client is the SMS gateway test client. It receives delivery receipts
// on /dlr and mobile-originated messages on /mo, and answers every MO with an
// MT reply posted to the gateway.
//
// Configuration is read from the environment, optionally pointing at a JSON
// file for the MT defaults:
//
//	SMS_CLIENT_CONFIG  path to {"mt_url": "...", "mt": {...}}
//	MT_URL             gateway MT endpoint, overrides the file
//	MT_DEFAULTS        key:value,key:value defaults laid over the file's "mt"
//	MT_REPLY_DELAY     pause before the reply (default 1s)
//	MT_TIMEOUT         outbound request timeout (default 30s)
//	PORT               listen port (default 8000)
//	LOG_LEVEL          debug, info, warn, error (default debug)
//	LOG_FORMAT         text or json (default text)
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/jredh-dev/nexus-sms/internal/config"
	"github.com/jredh-dev/nexus-sms/internal/handlers"
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
		fmt.Printf("sms-client %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", buildDate)
		os.Exit(0)
	}

	cfg, err := config.LoadClient()
	if err != nil {
		log.Fatalf("sms-client: config: %v", err)
	}
	level, err := cfg.Logging.SlogLevel()
	if err != nil {
		log.Fatalf("sms-client: config: %v", err)
	}
	logger := logging.New(os.Stdout, level, cfg.Logging.Format).With("service", "sms_client")

	h := handlers.New(cfg, sms.NewHTTPSender(cfg.MTTimeout), logger)

	srv := server.New(logger)
	h.Routes(srv.Router)
	srv.OnStop(h.Wait)

	addr := ":" + cfg.Port
	logger.Info("sms-client starting",
		"mo", "http://localhost"+addr+"/mo",
		"dlr", "http://localhost"+addr+"/dlr",
		"mt_url", cfg.MTURL,
	)

	if err := srv.ListenAndServe(addr); err != nil {
		log.Fatalf("sms-client: server error: %v", err)
	}
}
