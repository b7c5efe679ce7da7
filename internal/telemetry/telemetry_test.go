/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package telemetry

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

func TestFromEnvDefaultsOff(t *testing.T) {
	t.Setenv("RWS_TELEMETRY_OPT_IN", "")
	t.Setenv("RWS_TELEMETRY_URL", "")
	cfg := FromEnv()
	if cfg.OptIn || cfg.EventsURL != "" {
		t.Fatalf("telemetry must default to off: %+v", cfg)
	}
	if cfg.Timeout != 1500*time.Millisecond {
		t.Fatalf("default timeout wrong: %v", cfg.Timeout)
	}
}

func TestFromEnvParsing(t *testing.T) {
	t.Setenv("RWS_TELEMETRY_OPT_IN", "yes")
	t.Setenv("RWS_TELEMETRY_URL", "https://example.com/events")
	t.Setenv("RWS_TELEMETRY_TIMEOUT_MS", "300")
	cfg := FromEnv()
	if !cfg.OptIn || cfg.EventsURL != "https://example.com/events" {
		t.Fatalf("env not parsed: %+v", cfg)
	}
	if cfg.Timeout != 300*time.Millisecond {
		t.Fatalf("timeout not parsed: %v", cfg.Timeout)
	}
}

func TestEventDeliveredWhenEnabled(t *testing.T) {
	var mu sync.Mutex
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]any
		_ = json.NewDecoder(r.Body).Decode(&payload)
		mu.Lock()
		got = payload
		mu.Unlock()
	}))
	defer srv.Close()

	c := New(Config{OptIn: true, EventsURL: srv.URL, Timeout: time.Second})
	defer c.Close()
	c.Event(EventModExport, map[string]int{"units": 2})
	c.Flush(context.Background())

	deadline := time.Now().Add(2 * time.Second)
	for {
		mu.Lock()
		done := got != nil
		mu.Unlock()
		if done || time.Now().After(deadline) {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	mu.Lock()
	defer mu.Unlock()
	if got == nil {
		t.Fatalf("event never arrived")
	}
	if got["name"] != EventModExport {
		t.Fatalf("wrong event payload: %+v", got)
	}
	counts, _ := got["counts"].(map[string]any)
	if counts["units"] != float64(2) {
		t.Fatalf("counts lost: %+v", got)
	}
}

func TestEventDroppedWhenDisabled(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
	}))
	defer srv.Close()

	c := New(Config{OptIn: false, EventsURL: srv.URL, Timeout: time.Second})
	defer c.Close()
	c.Event("should_not_send", nil)
	c.Flush(context.Background())
	time.Sleep(50 * time.Millisecond)
	if hits != 0 {
		t.Fatalf("opt-out event was sent")
	}
}
