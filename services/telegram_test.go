package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestTelegramSend(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/bottok/sendMessage" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		if body["chat_id"] != "42" || body["text"] != "hello" {
			t.Errorf("Unexpected body %v", body)
		}
		w.Write([]byte(`{"ok":true,"result":{"message_id":99}}`))
	}))
	defer srv.Close()

	id, err := NewTelegramSender(srv.URL, "tok", 0).Send(context.Background(), "42", "hello")
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if id != 99 {
		t.Errorf("Expected message id 99, got %d", id)
	}
}

func TestTelegramErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"ok":false,"error_code":400,"description":"Bad Request: chat not found"}`))
	}))
	defer srv.Close()

	ctx := context.Background()

	_, err := NewTelegramSender(srv.URL, "tok", 0).Send(ctx, "1", "x")
	var tgErr *TelegramError
	if !errors.As(err, &tgErr) || tgErr.Description != "Bad Request: chat not found" {
		t.Errorf("Expected a TelegramError, got %v", err)
	}

	if _, err := NewTelegramSender(srv.URL, "", 0).Send(ctx, "1", "x"); !errors.Is(err, ErrTelegramNotConfigured) {
		t.Errorf("Expected ErrTelegramNotConfigured, got %v", err)
	}
	if _, err := NewTelegramSender(srv.URL, "tok", 0).Send(ctx, "", "x"); !errors.Is(err, ErrTelegramMissingFields) {
		t.Errorf("Expected ErrTelegramMissingFields, got %v", err)
	}
}

func TestTelegramErrorsHideToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	_, err := NewTelegramSender(srv.URL, "123:SECRET", 0).Send(context.Background(), "1", "x")
	if err == nil {
		t.Fatal("Expected an error from a closed server")
	}
	if strings.Contains(err.Error(), "SECRET") {
		t.Errorf("Expected the token to be redacted, got %q", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = NewTelegramSender(srv.URL, "123:SECRET", 0).Send(ctx, "1", "x")
	if !errors.Is(err, context.Canceled) || strings.Contains(err.Error(), "SECRET") {
		t.Errorf("Expected a redacted context.Canceled, got %v", err)
	}
}
