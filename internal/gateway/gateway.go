// nexus-sms - SMS gateway test bench
// Copyright (C) 2026  nexus contributors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

// Package gateway implements the mock SMS gateway that the test client is run
// against. It accepts MT requests on /mt, answers them with a delivery
// receipt, and relays MO messages typed into websocket clients to a client's
// /mo webhook.
package gateway

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/jredh-dev/nexus-sms/internal/config"
	"github.com/jredh-dev/nexus-sms/internal/hub"
	"github.com/jredh-dev/nexus-sms/internal/server"
	"github.com/jredh-dev/nexus-sms/internal/sms"
)

// 420 is what the real gateway answers for rejected MT requests.
const statusRejected = 420

// Error codes reported in rejected MT responses.
const (
	CodeBadFormat     = "5"
	CodeMissingParams = "110"
)

// Handler holds dependencies for the gateway endpoints.
type Handler struct {
	cfg      *config.Gateway
	hub      *hub.Hub
	sender   sms.Sender
	log      *slog.Logger
	upgrader websocket.Upgrader

	jobs sync.WaitGroup
}

// New creates a Handler and installs it as the hub's message hook.
func New(cfg *config.Gateway, h *hub.Hub, sender sms.Sender, log *slog.Logger) *Handler {
	g := &Handler{
		cfg:    cfg,
		hub:    h,
		sender: sender,
		log:    log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
	h.OnMessage = g.OnWSMessage
	return g
}

// Routes registers the gateway endpoints on r.
func (g *Handler) Routes(r chi.Router) {
	r.With(middleware.Timeout(server.RequestTimeout)).Post("/mt", g.MT)
	r.Get("/ws", g.WS)
	if g.cfg.StaticDir != "" {
		r.Handle("/*", http.FileServer(http.Dir(g.cfg.StaticDir)))
	}
}

// MT handles POST /mt.
func (g *Handler) MT(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		jsonResult(w, http.StatusBadRequest, errorResponse(CodeBadFormat, ErrInvalidRequest.Error()))
		return
	}
	g.log.Debug("MT request", "raw", string(body))

	var req sms.MTRequest
	if err := json.Unmarshal(body, &req); err != nil {
		g.log.Warn("MT request invalid", "error", err.Error())
		jsonResult(w, statusRejected, errorResponse(CodeBadFormat, "Format of text/content parameter is wrong."))
		return
	}
	if req.MissingParams() {
		g.log.Warn("MT request invalid", "error", ErrMissingParams.Error())
		jsonResult(w, statusRejected, errorResponse(CodeMissingParams, "Mandatory parameter(s) is missing"))
		return
	}

	var data map[string]string
	if err := json.Unmarshal(body, &data); err == nil {
		if err := g.hub.Broadcast(&hub.Message{Type: hub.TypeMT, Data: data}); err != nil {
			g.log.Warn("broadcast MT", "error", err.Error())
		}
	} else {
		g.log.Warn("decode MT for websocket clients", "error", err.Error())
	}

	msgID := uuid.NewString()
	res := sms.MTResponse{MsgID: msgID, Status: sms.StatusSuccess}
	jsonResult(w, http.StatusAccepted, res)
	g.log.Info("MT accepted", "msg_id", msgID, "to", req.To)

	if req.DlrURL == "" {
		return
	}

	dlr := sms.MTDlr{
		Mobile:  req.To,
		ShortID: req.ShortID,
		MsgID:   msgID,
		ExtID:   req.ExtID,
		Status:  sms.DLRStatusDelivered,
		Price:   req.Price,
	}

	g.jobs.Add(1)
	go func() {
		defer g.jobs.Done()
		g.sendDLR(context.Background(), req.DlrURL, dlr)
	}()
}

// sendDLR posts the delivery receipt once after the configured delay.
func (g *Handler) sendDLR(ctx context.Context, url string, dlr sms.MTDlr) {
	g.log.Info("Sending DLR", "url", url, "msg_id", dlr.MsgID)
	time.Sleep(g.cfg.DLRDelay)

	body, err := g.sender.Send(ctx, url, dlr)
	if err != nil {
		g.log.Error("DLR error", "msg_id", dlr.MsgID, "error", err.Error())
		return
	}
	g.log.Debug("DLR response", "msg_id", dlr.MsgID, "response", sms.DecodeValue(body))
}

// WS handles GET /ws, attaching the peer to the hub.
func (g *Handler) WS(w http.ResponseWriter, r *http.Request) {
	conn, err := g.upgrader.Upgrade(w, r, nil)
	if err != nil {
		g.log.Warn("websocket upgrade", "error", err.Error())
		return
	}
	g.log.Info("New websocket client", "remote", r.RemoteAddr)
	g.hub.Serve(conn)
}

// OnWSMessage relays an MO typed into a websocket client to the webhook URL
// carried in the frame and reports the webhook's answer back to all clients.
func (g *Handler) OnWSMessage(ctx context.Context, msg *hub.Message) {
	if msg.Type != hub.TypeMO {
		return
	}
	url := msg.Data["url"]
	if url == "" {
		g.log.Warn("MO URL not defined")
		return
	}

	mo := NewMO(msg.Data)
	g.log.Info("Sending MO", "url", url, "message_id", mo.MessageID)

	body, err := g.sender.Send(ctx, url, mo)
	if err != nil {
		g.log.Error("MO error", "message_id", mo.MessageID, "error", err.Error())
		return
	}

	var ack sms.Ack
	if err := json.Unmarshal(body, &ack); err != nil {
		g.log.Debug("decode MO response", "error", err.Error())
	}
	g.log.Debug("MO response", "message_id", mo.MessageID, "response", sms.DecodeValue(body))

	reply := &hub.Message{
		Type: hub.TypeMOReply,
		Data: map[string]string{"status": ack.Status},
	}
	if err := g.hub.Broadcast(reply); err != nil {
		g.log.Warn("broadcast MO reply", "error", err.Error())
	}
}

// Wait blocks until every scheduled DLR has been sent or has failed.
func (g *Handler) Wait() {
	g.jobs.Wait()
}

// NewMO builds the MO webhook body from websocket frame data, assigning a
// fresh message id and deriving the keyword from the first word of the text.
func NewMO(data map[string]string) *sms.MOMessage {
	first, _, _ := strings.Cut(data["text"], " ")
	return &sms.MOMessage{
		ShortID:   data["short_id"],
		From:      data["from"],
		Text:      data["text"],
		Provider:  data["provider"],
		Language:  data["language"],
		Keyword:   first + "@" + data["short_id"],
		MessageID: uuid.NewString(),
	}
}

func errorResponse(code, desc string) sms.MTResponse {
	return sms.MTResponse{
		Status:    sms.StatusError,
		ErrorCode: code,
		ErrorDesc: desc,
	}
}

func jsonResult(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
