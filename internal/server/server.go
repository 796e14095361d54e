// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: BUSL-1.1

// Package server exposes a flat trie over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/justinas/alice"
	"go.uber.org/zap"

	flattrie "github.com/absolutelightning/go-flat-trie"
)

const maxValueSize = 1 << 20

// Server serialises access to a trie: one writer for Insert and Reset, any
// number of readers for Get.
type Server struct {
	mu   sync.RWMutex
	trie *flattrie.Trie[byte, string]
	log  *zap.Logger
}

type slotResponse struct {
	Key   string `json:"key"`
	Slot  int    `json:"slot"`
	Value string `json:"value"`
}

type layoutResponse struct {
	Symbols    int    `json:"symbols"`
	MaxKeyLen  int    `json:"max_key_length"`
	Addressing string `json:"addressing"`
	Offsets    []int  `json:"offsets"`
	Size       int    `json:"size"`
	Slots      int    `json:"slots"`
}

func New(trie *flattrie.Trie[byte, string], log *zap.Logger) *Server {
	return &Server{trie: trie, log: log}
}

// Handler returns the routed handler wrapped in the middleware chain.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/healthz", s.healthz).Methods(http.MethodGet)
	r.HandleFunc("/api/layout", s.getLayout).Methods(http.MethodGet)
	r.HandleFunc("/api/slots/{key}", s.getSlot).Methods(http.MethodGet)
	r.HandleFunc("/api/slots/{key}", s.putSlot).Methods(http.MethodPut)
	r.HandleFunc("/api/reset", s.reset).Methods(http.MethodPost)
	r.NotFoundHandler = http.HandlerFunc(notFound)

	return alice.New(s.loggerHandler).Then(r)
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string, readTimeout, writeTimeout time.Duration) error {
	srv := &http.Server{
		Handler:      s.Handler(),
		Addr:         addr,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func (s *Server) loggerHandler(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		h.ServeHTTP(w, r)
		s.log.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("elapsed", time.Since(start)))
	})
}

func notFound(w http.ResponseWriter, r *http.Request) {
	http.Error(w, "not found", http.StatusNotFound)
}

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	fmt.Fprint(w, "ok")
}

func (s *Server) getLayout(w http.ResponseWriter, r *http.Request) {
	l := s.trie.Layout()
	s.writeJSON(w, layoutResponse{
		Symbols:    l.Symbols,
		MaxKeyLen:  l.MaxKeyLen,
		Addressing: l.Addressing.String(),
		Offsets:    l.Offsets,
		Size:       l.Size,
		Slots:      l.Slots,
	})
}

// key extracts the route key, rejecting symbols outside the alphabet so they
// never reach the unchecked index computation.
func (s *Server) key(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	key := []byte(mux.Vars(r)["key"])
	if !s.trie.Valid(key) {
		http.Error(w, fmt.Sprintf("key %q is not in the trie alphabet", key), http.StatusBadRequest)
		return nil, false
	}
	return key, true
}

func (s *Server) getSlot(w http.ResponseWriter, r *http.Request) {
	key, ok := s.key(w, r)
	if !ok {
		return
	}
	s.mu.RLock()
	resp := slotResponse{
		Key:   string(key),
		Slot:  s.trie.Index(key),
		Value: s.trie.Get(key),
	}
	s.mu.RUnlock()
	s.writeJSON(w, resp)
}

func (s *Server) putSlot(w http.ResponseWriter, r *http.Request) {
	key, ok := s.key(w, r)
	if !ok {
		return
	}
	value, ok := s.readBody(w, r)
	if !ok {
		return
	}
	s.mu.Lock()
	s.trie.Insert(key, value)
	s.mu.Unlock()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) reset(w http.ResponseWriter, r *http.Request) {
	fill, ok := s.readBody(w, r)
	if !ok {
		return
	}
	s.mu.Lock()
	s.trie.Reset(fill)
	s.mu.Unlock()
	s.log.Info("trie reset", zap.String("fill", fill))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) readBody(w http.ResponseWriter, r *http.Request) (string, bool) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxValueSize+1))
	if err != nil {
		s.log.Warn("unable to read body", zap.Error(err))
		http.Error(w, "unable to read body", http.StatusBadRequest)
		return "", false
	}
	if len(body) > maxValueSize {
		http.Error(w, "value too large", http.StatusRequestEntityTooLarge)
		return "", false
	}
	return string(body), true
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error("unable to encode response", zap.Error(err))
	}
}
