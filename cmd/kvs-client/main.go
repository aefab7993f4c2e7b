// Command kvs-client talks to a running kvs-server over TCP.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/kvignite/ignite/internal/client"
	"github.com/kvignite/ignite/pkg/options"
)

const version = "0.1.0"

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		usage()
		return 1
	}

	switch args[0] {
	case "-V", "--version":
		fmt.Println(version)
		return 0
	case "set":
		return runSet(args[1:])
	case "get":
		return runGet(args[1:])
	case "rm":
		return runRemove(args[1:])
	default:
		usage()
		return 1
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: kvs-client {set KEY VALUE|get KEY|rm KEY} [--addr ip:port]")
}

func runSet(args []string) int {
	fs := flag.NewFlagSet("set", flag.ContinueOnError)
	addr := fs.String("addr", options.DefaultAddr, "server address")
	fs.StringVar(addr, "a", options.DefaultAddr, "shorthand for --addr")
	if err := fs.Parse(args); err != nil || fs.NArg() != 2 {
		usage()
		return 1
	}
	key, value := fs.Arg(0), fs.Arg(1)

	c, err := client.Connect(*addr)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer c.Close()

	if err := c.Set(key, value); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runGet(args []string) int {
	fs := flag.NewFlagSet("get", flag.ContinueOnError)
	addr := fs.String("addr", options.DefaultAddr, "server address")
	fs.StringVar(addr, "a", options.DefaultAddr, "shorthand for --addr")
	if err := fs.Parse(args); err != nil || fs.NArg() != 1 {
		usage()
		return 1
	}
	key := fs.Arg(0)

	c, err := client.Connect(*addr)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer c.Close()

	value, found, err := c.Get(key)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if !found {
		fmt.Println("Key not found")
		return 0
	}
	fmt.Println(value)
	return 0
}

func runRemove(args []string) int {
	fs := flag.NewFlagSet("rm", flag.ContinueOnError)
	addr := fs.String("addr", options.DefaultAddr, "server address")
	fs.StringVar(addr, "a", options.DefaultAddr, "shorthand for --addr")
	if err := fs.Parse(args); err != nil || fs.NArg() != 1 {
		usage()
		return 1
	}
	key := fs.Arg(0)

	c, err := client.Connect(*addr)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer c.Close()

	if err := c.Remove(key); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}
