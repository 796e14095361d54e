// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: BUSL-1.1

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/akamensky/argparse"
	"go.uber.org/zap"

	flattrie "github.com/absolutelightning/go-flat-trie"
	"github.com/absolutelightning/go-flat-trie/internal/config"
	"github.com/absolutelightning/go-flat-trie/internal/dataset"
	"github.com/absolutelightning/go-flat-trie/internal/logging"
	"github.com/absolutelightning/go-flat-trie/internal/server"
)

func main() {
	parser := argparse.NewParser("flattrie", "fixed depth flat array trie")

	serveCmd := parser.NewCommand("serve", "serve the trie over HTTP")
	serveConfig := serveCmd.String("c", "config", &argparse.Options{Required: false, Help: "YAML configuration file"})
	serveData := serveCmd.String("d", "data", &argparse.Options{Required: false, Help: "tab separated key/value file to preload"})
	serveAddr := serveCmd.String("a", "addr", &argparse.Options{Required: false, Help: "listen address, overrides server.addr"})

	lookupCmd := parser.NewCommand("lookup", "load a data file and print the value of each key")
	lookupConfig := lookupCmd.String("c", "config", &argparse.Options{Required: false, Help: "YAML configuration file"})
	lookupData := lookupCmd.String("d", "data", &argparse.Options{Required: true, Help: "tab separated key/value file"})
	lookupKeys := lookupCmd.StringList("k", "key", &argparse.Options{Required: true, Help: "key to look up, repeatable"})

	if err := parser.Parse(os.Args); err != nil {
		fmt.Print(parser.Usage(err))
		os.Exit(2)
	}

	var err error
	switch {
	case serveCmd.Happened():
		err = serve(*serveConfig, *serveData, *serveAddr)
	case lookupCmd.Happened():
		err = lookup(*lookupConfig, *lookupData, *lookupKeys)
	}
	logging.Sync()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func setup(configPath, dataPath string) (*config.Config, *flattrie.Trie[byte, string], error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	if err := logging.Init(cfg.Log.Level); err != nil {
		return nil, nil, err
	}
	trie, err := cfg.BuildTrie()
	if err != nil {
		return nil, nil, err
	}
	layout := trie.Layout()
	logging.Info("trie ready",
		zap.String("alphabet", cfg.Trie.Alphabet),
		zap.Int("max key length", layout.MaxKeyLen),
		zap.Stringer("addressing", layout.Addressing),
		zap.Int("slots", layout.Slots))

	if dataPath != "" {
		n, err := dataset.LoadFile(dataPath, trie)
		if err != nil {
			return nil, nil, fmt.Errorf("load %s: %w", dataPath, err)
		}
		logging.Info("dataset loaded", zap.String("filename", dataPath), zap.Int("pairs", n))
	}
	return cfg, trie, nil
}

func serve(configPath, dataPath, addr string) error {
	cfg, trie, err := setup(configPath, dataPath)
	if err != nil {
		return err
	}
	if addr == "" {
		addr = cfg.Server.Addr
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(trie, logging.L())
	if err := srv.ListenAndServe(ctx, addr, cfg.Server.ReadTimeout, cfg.Server.WriteTimeout); err != nil {
		logging.Error("server failure", zap.Error(err))
		return err
	}
	logging.Info("server stopped")
	return nil
}

func lookup(configPath, dataPath string, keys []string) error {
	_, trie, err := setup(configPath, dataPath)
	if err != nil {
		return err
	}
	for _, k := range keys {
		key := []byte(k)
		if !trie.Valid(key) {
			logging.Warn("key is not in the trie alphabet", zap.String("key", k))
			continue
		}
		fmt.Printf("%s\t%s\n", k, trie.Get(key))
	}
	return nil
}
