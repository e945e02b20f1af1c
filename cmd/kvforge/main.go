// Command kvforge is a playground CLI for exercising a kvforge store from
// the shell: put, get, delete, a replay-stats report, and the legacy
// linear-scan lookup kept as an oracle for the indexed path.
//
// Usage:
//
//	kvforge --db path/to/store.db put <key> <value>
//	kvforge --db path/to/store.db get <key>
//	kvforge --db path/to/store.db delete <key>
//	kvforge --db path/to/store.db scan <key>
//	kvforge --db path/to/store.db stats
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/nilfade/kvforge/pkg/kvforge"
	"github.com/nilfade/kvforge/pkg/options"
	"github.com/spf13/pflag"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "kvforge: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	flags := pflag.NewFlagSet("kvforge", pflag.ContinueOnError)
	dbPath := flags.StringP("db", "d", options.DefaultPath, "path to the kvforge log file")
	noSync := flags.Bool("no-sync", false, "disable fsync-on-append (throughput testing only)")
	noBloom := flags.Bool("no-bloom", false, "disable the index's Bloom-filter accelerator")

	if err := flags.Parse(args); err != nil {
		return err
	}

	rest := flags.Args()
	if len(rest) == 0 {
		fmt.Println(usage())
		return nil
	}

	opts := []options.OptionFunc{options.WithPath(*dbPath)}
	if *noSync {
		opts = append(opts, options.WithSyncOnAppendDisabled())
	}
	if *noBloom {
		opts = append(opts, options.WithBloomFilterDisabled())
	}

	cmd, cmdArgs := rest[0], rest[1:]

	switch cmd {
	case "put":
		return cmdPut(opts, cmdArgs)
	case "get":
		return cmdGet(opts, cmdArgs)
	case "delete", "rm":
		return cmdDelete(opts, cmdArgs)
	case "scan":
		return cmdScan(opts, cmdArgs)
	case "stats":
		return cmdStats(opts, cmdArgs)
	case "help", "-h", "--help":
		fmt.Println(usage())
		return nil
	default:
		return fmt.Errorf("unknown command: %s\n%s", cmd, usage())
	}
}

func usage() string {
	return `kvforge - a single-file embeddable key/value store

Commands:
  put <key> <value>    Store a key-value pair
  get <key>             Look up a key via the in-memory index
  delete, rm <key>      Tombstone a key
  scan <key>            Look up a key via the legacy linear scan
  stats                 Open the store and report its replayed size

Flags:
  -d, --db string    path to the log file (default "kvforge.db")
      --no-sync       disable fsync-on-append
      --no-bloom      disable the Bloom-filter accelerator`
}

func cmdPut(opts []options.OptionFunc, args []string) error {
	if len(args) != 2 {
		return errors.New("usage: kvforge put <key> <value>")
	}
	s, err := kvforge.OpenOrCreate(opts...)
	if err != nil {
		return err
	}
	defer s.Close()

	return s.Put([]byte(args[0]), []byte(args[1]))
}

func cmdGet(opts []options.OptionFunc, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: kvforge get <key>")
	}
	s, err := kvforge.OpenOrCreate(opts...)
	if err != nil {
		return err
	}
	defer s.Close()

	val, ok, err := s.Get([]byte(args[0]))
	if err != nil {
		return err
	}
	if !ok {
		fmt.Println("(not found)")
		return nil
	}
	fmt.Println(string(val))
	return nil
}

func cmdDelete(opts []options.OptionFunc, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: kvforge delete <key>")
	}
	s, err := kvforge.OpenOrCreate(opts...)
	if err != nil {
		return err
	}
	defer s.Close()

	return s.Delete([]byte(args[0]))
}

func cmdScan(opts []options.OptionFunc, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: kvforge scan <key>")
	}
	s, err := kvforge.OpenOrCreate(opts...)
	if err != nil {
		return err
	}
	defer s.Close()

	val, ok, err := s.GetLinearScan([]byte(args[0]))
	if err != nil {
		return err
	}
	if !ok {
		fmt.Println("(not found)")
		return nil
	}
	fmt.Println(string(val))
	return nil
}

func cmdStats(opts []options.OptionFunc, _ []string) error {
	s, err := kvforge.OpenOrCreate(opts...)
	if err != nil {
		return err
	}
	defer s.Close()

	fmt.Printf("path: %s\n", s.Path())
	fmt.Printf("keys: %d\n", s.Size())
	fmt.Printf("capacity: %d\n", s.Capacity())
	return nil
}
