/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package config

import (
	"errors"
	"os"
	"testing"
)

// memStore is an in-memory TokenStore so tests never touch the OS keyring.
type memStore struct{ m map[string]string }

func (s *memStore) Get(service, key string) (string, error) {
	v, ok := s.m[service+"/"+key]
	if !ok {
		return "", errors.New("not found")
	}
	return v, nil
}
func (s *memStore) Set(service, key, value string) error {
	s.m[service+"/"+key] = value
	return nil
}
func (s *memStore) Delete(service, key string) error {
	delete(s.m, service+"/"+key)
	return nil
}

func withMemStore(t *testing.T) *memStore {
	t.Helper()
	old := tokenStore
	ms := &memStore{m: map[string]string{}}
	tokenStore = ms
	t.Cleanup(func() { tokenStore = old })
	return ms
}

func TestEnvOverridesSuggestURL(t *testing.T) {
	withMemStore(t)
	old := os.Getenv(EnvSuggestURL)
	_ = os.Setenv(EnvSuggestURL, "https://example.test:8443")
	t.Cleanup(func() { _ = os.Setenv(EnvSuggestURL, old) })
	cfg, _, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if got, want := cfg.Suggest.BaseURL, "https://example.test:8443"; got != want {
		t.Fatalf("Suggest.BaseURL = %q, want %q", got, want)
	}
}

func TestEnvOverridesTelemetry(t *testing.T) {
	withMemStore(t)
	old := os.Getenv(EnvTelemetryOptIn)
	_ = os.Setenv(EnvTelemetryOptIn, "true")
	t.Cleanup(func() { _ = os.Setenv(EnvTelemetryOptIn, old) })
	cfg, _, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if !cfg.General.TelemetryOptIn {
		t.Fatalf("General.TelemetryOptIn expected true from env override")
	}
}

func TestEnvAPIKeyWinsOverKeyring(t *testing.T) {
	ms := withMemStore(t)
	_ = ms.Set(keyringService, keyringAPIKey, "from-keyring")
	old := os.Getenv(EnvSuggestAPIKey)
	_ = os.Setenv(EnvSuggestAPIKey, "from-env")
	t.Cleanup(func() { _ = os.Setenv(EnvSuggestAPIKey, old) })
	_, key, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if key != "from-env" {
		t.Fatalf("api key = %q, want env override", key)
	}
}

func TestMergeIncludesSuggest(t *testing.T) {
	dst := Defaults()
	src := Defaults()
	src.Suggest.BaseURL = "https://alt.example"
	src.Suggest.Model = "gemini-2.0-pro"
	src.Suggest.TimeoutMs = 2500
	mergeInto(&dst, &src)
	if dst.Suggest.BaseURL != "https://alt.example" || dst.Suggest.Model != "gemini-2.0-pro" || dst.Suggest.TimeoutMs != 2500 {
		t.Fatalf("suggest fields not merged correctly: %#v", dst.Suggest)
	}
}

func TestMergeIncludesLogging(t *testing.T) {
	dst := Defaults()
	src := Defaults()
	src.Logging.Level = "debug"
	src.Logging.Format = "json"
	src.Logging.File = "/tmp/rws.log"
	mergeInto(&dst, &src)
	if dst.Logging.Level != "debug" || dst.Logging.Format != "json" || dst.Logging.File != "/tmp/rws.log" {
		t.Fatalf("logging fields not merged correctly: %#v", dst.Logging)
	}
}
