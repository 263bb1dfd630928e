package app

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"ipregistry/internal/domain"
	"ipregistry/internal/storage"
)

// runCommands reads commands line by line until quit or end of input.
// Parse failures, duplicates and append errors are reported and the loop
// keeps going; only a broken input stream ends it with an error.
func runCommands(store *storage.Store, in io.Reader, out io.Writer) error {
	fmt.Fprintln(out, "ipregistry ready, type 'help' for commands")

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			return scanner.Err()
		}

		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		command, args := fields[0], fields[1:]

		switch command {
		case "insert":
			runInsert(store, out, args)
		case "lookup":
			runLookup(store, out, args)
		case "cidr":
			runFindByCIDR(store, out, args)
		case "note":
			runFindByNote(store, out, args)
		case "list":
			printEntries(out, store.FindByNote(""))
		case "help":
			printHelp(out)
		case "quit", "exit":
			return nil
		default:
			fmt.Fprintf(out, "unknown command %q, type 'help'\n", command)
		}
	}
}

func runInsert(store *storage.Store, out io.Writer, args []string) {
	if len(args) == 0 {
		fmt.Fprintln(out, "usage: insert <address> [note...]")
		return
	}

	address, note := args[0], strings.Join(args[1:], " ")
	err := store.Insert(address, note)
	switch {
	case errors.Is(err, storage.ErrDuplicate):
		fmt.Fprintf(out, "skip insert: address %q already exists\n", address)
	case err != nil:
		fmt.Fprintf(out, "insert failed: %v\n", err)
	default:
		fmt.Fprintf(out, "inserted %s\n", address)
	}
}

func runLookup(store *storage.Store, out io.Writer, args []string) {
	if len(args) != 1 {
		fmt.Fprintln(out, "usage: lookup <address>")
		return
	}

	entry, ok := store.Lookup(args[0])
	if !ok {
		fmt.Fprintf(out, "address %q not found\n", args[0])
		return
	}
	fmt.Fprintln(out, entry)
}

func runFindByCIDR(store *storage.Store, out io.Writer, args []string) {
	if len(args) != 1 {
		fmt.Fprintln(out, "usage: cidr <block>")
		return
	}

	matches, err := store.FindByCIDR(args[0])
	if err != nil {
		fmt.Fprintf(out, "search failed: %v\n", err)
		return
	}
	printEntries(out, matches)
}

func runFindByNote(store *storage.Store, out io.Writer, args []string) {
	printEntries(out, store.FindByNote(strings.Join(args, " ")))
}

func printEntries(out io.Writer, entries []*domain.Address) {
	if len(entries) == 0 {
		fmt.Fprintln(out, "no matches")
		return
	}
	for _, entry := range entries {
		fmt.Fprintln(out, entry)
	}
}

func printHelp(out io.Writer) {
	fmt.Fprintln(out, "commands:")
	fmt.Fprintln(out, "  insert <address> [note...]  store an address")
	fmt.Fprintln(out, "  lookup <address>            exact lookup by the stored text")
	fmt.Fprintln(out, "  cidr <block>                list addresses inside a CIDR block")
	fmt.Fprintln(out, "  note <substring>            list addresses by note substring")
	fmt.Fprintln(out, "  list                        list every stored address")
	fmt.Fprintln(out, "  quit                        exit")
}
