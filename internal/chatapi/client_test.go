// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chatapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestClient(handler http.HandlerFunc) (*Client, *httptest.Server) {
	srv := httptest.NewServer(handler)
	client := NewClientWithConfig(&ClientConfig{BaseURL: srv.URL})
	return client, srv
}

func TestSendDecodesReplyShape(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat" {
			t.Errorf("path = %q, want /chat", r.URL.Path)
		}
		var req Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("bad request body: %v", err)
		}
		if req.Message != "what services do you offer" {
			t.Errorf("message = %q", req.Message)
		}
		json.NewEncoder(w).Encode(map[string]string{
			"reply":  "We offer cloud and security services.",
			"source": "services",
		})
	})
	defer srv.Close()

	reply, err := client.Send(context.Background(), &Request{Message: "what services do you offer"})
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if reply.Text != "We offer cloud and security services." {
		t.Errorf("Text = %q", reply.Text)
	}
	if reply.Source != "services" {
		t.Errorf("Source = %q", reply.Source)
	}
}

func TestSendDecodesKeywordBotShape(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{
			"title":  "Our Services",
			"answer": "Cloud, data, and security.",
		})
	})
	defer srv.Close()

	reply, err := client.Send(context.Background(), &Request{Message: "services"})
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	want := "Our Services\n\nCloud, data, and security."
	if reply.Text != want {
		t.Errorf("Text = %q, want %q", reply.Text, want)
	}
}

func TestSendServerError(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	defer srv.Close()

	_, err := client.Send(context.Background(), &Request{Message: "hi"})
	var cerr *ClientError
	if !errors.As(err, &cerr) {
		t.Fatalf("error type = %T, want *ClientError", err)
	}
	if cerr.Type != ErrTypeServer {
		t.Errorf("Type = %v, want ErrTypeServer", cerr.Type)
	}
}

func TestSendConnectionError(t *testing.T) {
	client := NewClientWithConfig(&ClientConfig{BaseURL: "http://127.0.0.1:1"})

	_, err := client.Send(context.Background(), &Request{Message: "hi"})
	var cerr *ClientError
	if !errors.As(err, &cerr) {
		t.Fatalf("error type = %T, want *ClientError", err)
	}
	if cerr.Type != ErrTypeConnection {
		t.Errorf("Type = %v, want ErrTypeConnection", cerr.Type)
	}
}

func TestSendEmptyReply(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	})
	defer srv.Close()

	_, err := client.Send(context.Background(), &Request{Message: "hi"})
	var cerr *ClientError
	if !errors.As(err, &cerr) || cerr.Type != ErrTypeInvalidResponse {
		t.Fatalf("err = %v, want invalid-response ClientError", err)
	}
}

func TestSendPassesSettingsThrough(t *testing.T) {
	var got Request
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&got)
		json.NewEncoder(w).Encode(map[string]string{"reply": "ok"})
	})
	defer srv.Close()

	_, err := client.Send(context.Background(), &Request{
		Message:   "hi",
		SessionID: "sess_1",
		Settings:  &Settings{Model: "gpt-4o", Temperature: 0.3, MaxTokens: 512},
	})
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if got.SessionID != "sess_1" || got.Settings == nil || got.Settings.Model != "gpt-4o" {
		t.Errorf("settings not passed through: %+v", got)
	}
}
