// nexus-sms - SMS gateway test bench
// Copyright (C) 2026  nexus contributors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

// Package handlers implements the test client's webhook endpoints: delivery
// receipts on /dlr and mobile-originated messages on /mo, which are answered
// with an MT reply sent back to the gateway.
package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/jredh-dev/nexus-sms/internal/config"
	"github.com/jredh-dev/nexus-sms/internal/server"
	"github.com/jredh-dev/nexus-sms/internal/sms"
)

// UnavailableText is the body written for every path other than /mo and /dlr.
const UnavailableText = "/mo and /dlr urls available only"

const jsonContentType = "application/json;charset=utf-8"

// ackBody is {"status":"success"}, encoded once.
var ackBody, _ = json.Marshal(sms.Ack{Status: sms.StatusSuccess})

// Handler holds dependencies for the webhook handlers.
type Handler struct {
	cfg    *config.Client
	sender sms.Sender
	log    *slog.Logger

	replies sync.WaitGroup
}

// New creates a new Handler. cfg is read, never written.
func New(cfg *config.Client, sender sms.Sender, log *slog.Logger) *Handler {
	return &Handler{cfg: cfg, sender: sender, log: log}
}

// Routes registers the webhook endpoints on r. Both endpoints accept any
// method; everything else gets UnavailableText.
func (h *Handler) Routes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(server.RequestTimeout))
		r.HandleFunc("/dlr", h.DLR)
		r.HandleFunc("/mo", h.MO)
	})
	r.NotFound(h.Unavailable)
	r.MethodNotAllowed(h.anyMethod)
}

// anyMethod serves /dlr and /mo for verbs chi does not register routes for,
// such as PURGE or REPORT. Routing is by path alone.
func (h *Handler) anyMethod(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/dlr":
		h.DLR(w, r)
	case "/mo":
		h.MO(w, r)
	default:
		h.Unavailable(w, r)
	}
}

// Unavailable rejects unknown paths with a plain-text hint.
func (h *Handler) Unavailable(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	w.Write([]byte(UnavailableText)) //nolint:errcheck
}

// DLR logs a delivery receipt and acknowledges it.
func (h *Handler) DLR(w http.ResponseWriter, r *http.Request) {
	payload := sms.DecodePayload(r.Body)
	h.log.Info("Received DLR", "payload", payload)
	writeAck(w)
}

// MO logs an inbound message, acknowledges it right away and schedules the
// MT reply. The reply runs detached from the request and cannot be cancelled.
func (h *Handler) MO(w http.ResponseWriter, r *http.Request) {
	payload := sms.DecodePayload(r.Body)
	h.log.Info("Received MO", "payload", payload)

	writeAck(w)
	if err := http.NewResponseController(w).Flush(); err != nil {
		h.log.Debug("flush acknowledgement", "error", err)
	}

	h.replies.Add(1)
	go func() {
		defer h.replies.Done()
		h.reply(context.Background(), uuid.NewString(), payload)
	}()
}

// Wait blocks until every scheduled MT reply has finished.
func (h *Handler) Wait() {
	h.replies.Wait()
}

// reply sends the MT answering payload after the configured delay. Exactly
// one attempt is made.
func (h *Handler) reply(ctx context.Context, id string, payload sms.Payload) {
	// let the gateway close its connection before reply traffic starts
	time.Sleep(h.cfg.ReplyDelay)

	mt := sms.BuildMT(payload, h.cfg.MT)
	h.log.Debug("Sending new MT", "reply_id", id, "url", h.cfg.MTURL, "body", mt)

	body, err := h.sender.Send(ctx, h.cfg.MTURL, mt)
	if err != nil {
		h.log.Error("MT error", "reply_id", id, "error", err.Error())
		return
	}

	h.log.Debug("MT response", "reply_id", id, "response", sms.DecodeValue(body))
}

func writeAck(w http.ResponseWriter) {
	w.Header().Set("Content-Type", jsonContentType)
	w.WriteHeader(http.StatusOK)
	w.Write(ackBody) //nolint:errcheck
}
