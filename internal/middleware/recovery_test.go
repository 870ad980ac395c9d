// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestRecoverer(t *testing.T) {
	panicking := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("template exploded")
	})

	t.Run("page route gets plain text 500", func(t *testing.T) {
		log, entry := captureLogger(t)
		rr := httptest.NewRecorder()
		Recoverer(log)(panicking).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/topics/asr", nil))

		if rr.Code != http.StatusInternalServerError {
			t.Errorf("status: got %d, want 500", rr.Code)
		}
		if !strings.Contains(rr.Body.String(), "Internal Server Error") {
			t.Errorf("body: got %q", rr.Body.String())
		}

		got := entry()
		if got["level"] != "ERROR" || got["error"] != "template exploded" {
			t.Errorf("log entry: got %v", got)
		}
		if stack, _ := got["stack"].(string); stack == "" {
			t.Error("stack should be logged")
		}
	})

	t.Run("api route gets json 500", func(t *testing.T) {
		log, _ := captureLogger(t)
		rr := httptest.NewRecorder()
		Recoverer(log)(panicking).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/search?q=x", nil))

		if rr.Code != http.StatusInternalServerError {
			t.Errorf("status: got %d, want 500", rr.Code)
		}
		if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
			t.Errorf("content-type: got %q", ct)
		}
		if rr.Body.String() != `{"error":"internal server error"}` {
			t.Errorf("body: got %q", rr.Body.String())
		}
	})

	t.Run("abort handler is re-panicked", func(t *testing.T) {
		log, _ := captureLogger(t)
		handler := Recoverer(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			panic(http.ErrAbortHandler)
		}))

		defer func() {
			if rec := recover(); rec != http.ErrAbortHandler {
				t.Errorf("recovered %v, want http.ErrAbortHandler", rec)
			}
		}()
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	})

	t.Run("pass-through without panic", func(t *testing.T) {
		log, _ := captureLogger(t)
		handler := Recoverer(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("ETag", `"abc"`)
			w.Write([]byte("ok"))
		}))

		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

		if rr.Code != http.StatusOK || rr.Body.String() != "ok" {
			t.Errorf("got %d %q, want 200 ok", rr.Code, rr.Body.String())
		}
		if rr.Header().Get("ETag") != `"abc"` {
			t.Error("handler headers should be preserved")
		}
	})
}
