// Command kvs-server runs the TCP front end over a log-structured or
// bbolt-backed engine rooted at the current working directory.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/kvignite/ignite/internal/engine"
	"github.com/kvignite/ignite/internal/pool"
	"github.com/kvignite/ignite/internal/server"
	"github.com/kvignite/ignite/pkg/logger"
	"github.com/kvignite/ignite/pkg/options"
)

const version = "0.1.0"

func main() {
	os.Exit(run())
}

func run() int {
	fs := flag.NewFlagSet("kvs-server", flag.ContinueOnError)
	addr := fs.String("addr", options.DefaultAddr, "a v4 or v6 IP address with a port number")
	fs.StringVar(addr, "a", options.DefaultAddr, "shorthand for --addr")
	backend := fs.String("engine", options.DefaultBackend, "engine backend: kvs or sled")
	fs.StringVar(backend, "e", options.DefaultBackend, "shorthand for --engine")
	showVersion := fs.Bool("version", false, "print the version")
	fs.BoolVar(showVersion, "V", false, "shorthand for --version")

	if err := fs.Parse(os.Args[1:]); err != nil {
		return 1
	}
	if *showVersion {
		fmt.Println(version)
		return 0
	}

	log := logger.New("kvs-server")

	dir, err := os.Getwd()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	log.Infow("kvs-server initializing", "version", version, "addr", *addr, "engine", *backend)

	eng, err := engine.Open(*backend, dir, options.DefaultCompactionThreshold, log)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer eng.Close()

	p := pool.NewFixedPool(options.DefaultPoolSize, options.DefaultPoolSize*4)
	defer p.Close()

	srv := server.New(*addr, eng, p, log)
	if err := srv.ListenAndServe(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}
