// Command kvs is a standalone library tool: it opens an Ignite store
// directly on the current working directory, with no server in between.
package main

import (
	"fmt"
	"os"

	"github.com/kvignite/ignite/pkg/ignite"
	"github.com/kvignite/ignite/pkg/kverrors"
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
	fmt.Fprintln(os.Stderr, "usage: kvs {set KEY VALUE|get KEY|rm KEY}")
}

func openHere() (*ignite.Instance, error) {
	dir, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	return ignite.NewInstance("kvs", options.WithDataDir(dir))
}

func runSet(args []string) int {
	if len(args) != 2 {
		usage()
		return 1
	}
	db, err := openHere()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer db.Close()

	if err := db.Set(args[0], args[1]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runGet(args []string) int {
	if len(args) != 1 {
		usage()
		return 1
	}
	db, err := openHere()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer db.Close()

	value, found, err := db.Get(args[0])
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
	if len(args) != 1 {
		usage()
		return 1
	}
	db, err := openHere()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer db.Close()

	err = db.Remove(args[0])
	if err == nil {
		return 0
	}
	if kverrors.IsKeyNotFound(err) {
		fmt.Println("Key not found")
		return 1
	}
	fmt.Fprintln(os.Stderr, err)
	return 1
}
