// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for local development
	},
}

// WebSocket message types
const (
	wsTypePose   = "pose"
	wsTypeState  = "state"
	wsTypeResult = "result"
	wsTypeError  = "error"
)

// WSMessage is sent by the browser.
type WSMessage struct {
	Action string `json:"action"` // roll, cancel
}

// WSResponse is pushed to every connected browser.
type WSResponse struct {
	Type    string          `json:"type"` // pose, state, result, error
	Data    json.RawMessage `json:"data,omitempty"`
	Message string          `json:"message,omitempty"`
}

const (
	wsSendBuffer   = 64
	wsWriteTimeout = 5 * time.Second
)

type wsClient struct {
	conn *websocket.Conn
	send chan WSResponse
}

// wsHub fans roller messages out to browsers. A client that falls behind
// loses frames rather than stalling the others.
type wsHub struct {
	mu      sync.Mutex
	clients map[*wsClient]struct{}
}

func newWSHub() *wsHub {
	return &wsHub{clients: make(map[*wsClient]struct{})}
}

func (h *wsHub) add(c *wsClient) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
}

func (h *wsHub) remove(c *wsClient) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
}

func (h *wsHub) broadcast(msg WSResponse) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- msg:
		default:
		}
	}
}

func (h *wsHub) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (c *wsClient) writeLoop() {
	for msg := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
		if err := c.conn.WriteJSON(msg); err != nil {
			log.Printf("ws: write error: %v", err)
			return
		}
	}
}

// handleWS streams poses, states and results to the browser and accepts
// roll and cancel actions from it.
func (s *webServer) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws: websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	client := &wsClient{conn: conn, send: make(chan WSResponse, wsSendBuffer)}
	s.hub.add(client)
	defer s.hub.remove(client)
	go client.writeLoop()

	// Main message loop
	for {
		var msg WSMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Printf("ws: websocket read error: %v", err)
			}
			return
		}

		switch msg.Action {
		case "roll":
			err = s.requestRoll(false)
		case "cancel":
			err = s.requestRoll(true)
		default:
			client.sendError("unknown action " + msg.Action)
			continue
		}
		if err != nil {
			log.Printf("ws: %v", err)
			client.sendError("roller unreachable")
		}
	}
}

func (c *wsClient) sendError(message string) {
	select {
	case c.send <- WSResponse{Type: wsTypeError, Message: message}:
	default:
	}
}
