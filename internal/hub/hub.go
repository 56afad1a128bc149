// nexus-sms - SMS gateway test bench
// Copyright (C) 2026  nexus contributors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

// Package hub keeps the set of websocket clients attached to the mock gateway
// and fans gateway events out to them.
package hub

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
)

// Message types exchanged over the websocket.
const (
	TypeMO      = "mo"
	TypeMOReply = "mo_reply"
	TypeMT      = "mt"
)

// ErrStopped is returned by Broadcast once Run has returned.
var ErrStopped = errors.New("hub stopped")

// Message is a websocket frame.
type Message struct {
	Type string            `json:"type"`
	Data map[string]string `json:"data"`
}

// Hub maintains the set of active clients and broadcasts messages to them.
type Hub struct {
	// OnMessage is called for every frame a client sends. Set it before Run.
	OnMessage func(ctx context.Context, msg *Message)

	log *slog.Logger

	clients    map[*client]bool
	broadcast  chan []byte
	register   chan *client
	unregister chan *client
	done       chan struct{}
	ctx        context.Context
}

// New creates a Hub. Call Run before serving connections.
func New(log *slog.Logger) *Hub {
	return &Hub{
		log:        log,
		clients:    make(map[*client]bool),
		broadcast:  make(chan []byte),
		register:   make(chan *client),
		unregister: make(chan *client),
		done:       make(chan struct{}),
		ctx:        context.Background(),
	}
}

// Run serves register, unregister and broadcast requests until ctx is done,
// then disconnects every client.
func (h *Hub) Run(ctx context.Context) {
	h.ctx = ctx
	defer func() {
		close(h.done)
		for c := range h.clients {
			delete(h.clients, c)
			close(c.send)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case c := <-h.register:
			h.clients[c] = true
			h.log.Debug("websocket client registered", "remote", c.remote, "clients", len(h.clients))
		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
				h.log.Debug("websocket client unregistered", "remote", c.remote, "clients", len(h.clients))
			}
		case msg := <-h.broadcast:
			for c := range h.clients {
				select {
				case c.send <- msg:
				default:
					// slow consumer
					delete(h.clients, c)
					close(c.send)
					h.log.Warn("dropped slow websocket client", "remote", c.remote)
				}
			}
		}
	}
}

// Broadcast sends msg to every registered client.
func (h *Hub) Broadcast(msg *Message) error {
	buf, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	select {
	case h.broadcast <- buf:
		return nil
	case <-h.done:
		return ErrStopped
	}
}

// receive decodes a client frame and hands it to OnMessage.
func (h *Hub) receive(data []byte) {
	if h.OnMessage == nil {
		return
	}
	var m Message
	if err := json.Unmarshal(data, &m); err != nil {
		h.log.Warn("parse websocket message", "error", err.Error(), "raw", string(data))
		return
	}
	h.OnMessage(h.ctx, &m)
}
