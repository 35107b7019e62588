// ledgerctl operates on the access ledger journal directly: it submits
// writes, answers view calls, and audits the journal for tampering.
//
// The API server must not be running against the same journal; the journal
// file is locked by whichever process opens it first.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"recordgate/internal/address"
	"recordgate/internal/contenthash"
	"recordgate/internal/ledger"
	"recordgate/internal/ledger/boltjournal"
	"recordgate/internal/ledger/chain"
)

const usage = `ledgerctl manages the recordgate access ledger journal.

Usage:
  ledgerctl <command> [flags]

Commands:
  register  register a content hash (or a file's hash) to an owner
  grant     grant a grantee access to an owner's record
  revoke    revoke a grantee's access
  check     report whether a requester may read a record
  records   list an owner's records
  shared    list the records shared with a grantee
  verify    check the journal hash chain and replay it
  log       print finalized journal entries

Run "ledgerctl <command> --help" for command flags.
`

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

type command struct {
	name  string
	flags *pflag.FlagSet
	out   io.Writer

	ledgerPath string
	output     string
	timeout    time.Duration
}

func newCommand(name string, out io.Writer) *command {
	c := &command{name: name, out: out, flags: pflag.NewFlagSet(name, pflag.ContinueOnError)}
	c.flags.SetOutput(out)
	c.flags.StringVar(&c.ledgerPath, "ledger", envOr("LEDGER_PATH", "data/ledger.db"), "path to the ledger journal")
	c.flags.StringVarP(&c.output, "output", "o", "text", "output format: text, json or yaml")
	c.flags.DurationVar(&c.timeout, "timeout", 10*time.Second, "how long to wait for finality")
	return c
}

func (c *command) parse(args []string) error {
	if err := c.flags.Parse(args); err != nil {
		return err
	}
	if rest := c.flags.Args(); len(rest) > 0 {
		return fmt.Errorf("%s: unexpected argument %q", c.name, rest[0])
	}
	switch c.output {
	case "text", "json", "yaml":
		return nil
	default:
		return fmt.Errorf("unsupported output format %q", c.output)
	}
}

// open replays the journal into a chain. The returned closer releases both.
func (c *command) open() (*chain.Chain, func(), error) {
	j, err := boltjournal.Open(c.ledgerPath)
	if err != nil {
		return nil, nil, err
	}
	ch, err := chain.New(chain.Options{Journal: j})
	if err != nil {
		j.Close()
		return nil, nil, err
	}
	return ch, func() {
		ch.Close()
		j.Close()
	}, nil
}

func run(args []string, out io.Writer) error {
	if len(args) == 0 || args[0] == "-h" || args[0] == "--help" || args[0] == "help" {
		fmt.Fprint(out, usage)
		return nil
	}

	name, args := args[0], args[1:]
	var fn func(*command, []string) error
	switch name {
	case "register":
		fn = runRegister
	case "grant":
		fn = runAccess(ledger.KindGrant)
	case "revoke":
		fn = runAccess(ledger.KindRevoke)
	case "check":
		fn = runCheck
	case "records":
		fn = runRecords
	case "shared":
		fn = runShared
	case "verify":
		fn = runVerify
	case "log":
		fn = runLog
	default:
		return fmt.Errorf("unknown command %q\n\n%s", name, usage)
	}

	err := fn(newCommand(name, out), args)
	if errors.Is(err, pflag.ErrHelp) {
		return nil
	}
	return err
}

func runRegister(c *command, args []string) error {
	var owner, hash, file string
	c.flags.StringVar(&owner, "owner", "", "owner address")
	c.flags.StringVar(&hash, "hash", "", "content hash (CID)")
	c.flags.StringVar(&file, "file", "", "compute the hash from this file instead of --hash")
	if err := c.parse(args); err != nil {
		return err
	}

	if file != "" {
		if hash != "" {
			return errors.New("register: use either --hash or --file")
		}
		data, err := os.ReadFile(file)
		if err != nil {
			return err
		}
		if hash, err = contenthash.Compute(data); err != nil {
			return err
		}
	}
	return c.execute(ledger.RegisterRecord(owner, hash))
}

func runAccess(kind ledger.Kind) func(*command, []string) error {
	return func(c *command, args []string) error {
		var owner, grantee, hash string
		c.flags.StringVar(&owner, "owner", "", "owner address")
		c.flags.StringVar(&grantee, "grantee", "", "grantee address")
		c.flags.StringVar(&hash, "hash", "", "content hash (CID)")
		if err := c.parse(args); err != nil {
			return err
		}
		return c.execute(ledger.Transaction{Kind: kind, Sender: owner, Grantee: grantee, Hash: hash})
	}
}

func (c *command) execute(tx ledger.Transaction) error {
	ch, closeAll, err := c.open()
	if err != nil {
		return err
	}
	defer closeAll()

	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	// A rejected transaction still has a finalized receipt worth printing.
	r, err := ledger.Execute(ctx, ch, tx)
	if err != nil && r.Status != ledger.StatusRejected {
		return err
	}
	if perr := c.print(r, receiptText(r)); perr != nil {
		return perr
	}
	return err
}

func runCheck(c *command, args []string) error {
	var owner, requester, hash string
	c.flags.StringVar(&owner, "owner", "", "owner address")
	c.flags.StringVar(&requester, "requester", "", "requester address")
	c.flags.StringVar(&hash, "hash", "", "content hash (CID)")
	if err := c.parse(args); err != nil {
		return err
	}

	ch, closeAll, err := c.open()
	if err != nil {
		return err
	}
	defer closeAll()

	ok, err := ch.CheckAccess(context.Background(), owner, requester, hash)
	if err != nil {
		return err
	}
	return c.print(map[string]bool{"allowed": ok}, func(w io.Writer) {
		fmt.Fprintln(w, ok)
	})
}

func runRecords(c *command, args []string) error {
	var owner string
	var desc bool
	c.flags.StringVar(&owner, "owner", "", "owner address")
	c.flags.BoolVar(&desc, "desc", false, "newest first")
	if err := c.parse(args); err != nil {
		return err
	}

	ch, closeAll, err := c.open()
	if err != nil {
		return err
	}
	defer closeAll()

	records, err := ch.ListRecordsOf(context.Background(), owner)
	if err != nil {
		return err
	}
	if desc {
		slices.Reverse(records)
	}
	return c.print(records, func(w io.Writer) {
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "HASH\tOWNER\tREGISTERED")
		for _, r := range records {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", r.Hash, display(r.Owner), r.RegisteredAt.Format(time.RFC3339))
		}
		tw.Flush()
	})
}

func runShared(c *command, args []string) error {
	var grantee string
	c.flags.StringVar(&grantee, "grantee", "", "grantee address")
	if err := c.parse(args); err != nil {
		return err
	}

	ch, closeAll, err := c.open()
	if err != nil {
		return err
	}
	defer closeAll()

	shared, err := ch.ListSharedWith(context.Background(), grantee)
	if err != nil {
		return err
	}
	return c.print(shared, func(w io.Writer) {
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "HASH\tOWNER\tGRANTED")
		for _, s := range shared {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", s.Hash, display(s.Owner), s.GrantedAt.Format(time.RFC3339))
		}
		tw.Flush()
	})
}

func runVerify(c *command, args []string) error {
	if err := c.parse(args); err != nil {
		return err
	}

	j, err := boltjournal.Open(c.ledgerPath)
	if err != nil {
		return err
	}
	defer j.Close()

	height, err := j.Verify()
	if err != nil {
		return err
	}
	// Replaying through a fresh chain re-derives every recorded outcome.
	ch, err := chain.New(chain.Options{Journal: j})
	if err != nil {
		return err
	}
	ch.Close()

	return c.print(map[string]any{"height": height, "ok": true}, func(w io.Writer) {
		fmt.Fprintf(w, "journal ok: %d entries\n", height)
	})
}

func runLog(c *command, args []string) error {
	var from uint64
	c.flags.Uint64Var(&from, "from", 1, "first sequence number to print")
	if err := c.parse(args); err != nil {
		return err
	}

	j, err := boltjournal.Open(c.ledgerPath)
	if err != nil {
		return err
	}
	defer j.Close()

	var entries []ledger.Entry
	if err := j.Replay(func(e ledger.Entry) error {
		if e.Seq >= from {
			entries = append(entries, e)
		}
		return nil
	}); err != nil {
		return err
	}

	return c.print(entries, func(w io.Writer) {
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "SEQ\tKIND\tSENDER\tGRANTEE\tHASH\tSTATUS")
		for _, e := range entries {
			status := string(e.Status)
			if e.Reason != "" {
				status += " (" + e.Reason + ")"
			}
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
				e.Seq, e.Tx.Kind, display(e.Tx.Sender), display(e.Tx.Grantee), e.Tx.Hash, status)
		}
		tw.Flush()
	})
}

func receiptText(r ledger.Receipt) func(io.Writer) {
	return func(w io.Writer) {
		fmt.Fprintf(w, "%s %s seq=%d handle=%s", r.Tx.Kind, r.Status, r.Seq, r.Handle)
		if r.Reason != "" {
			fmt.Fprintf(w, " reason=%q", r.Reason)
		}
		fmt.Fprintln(w)
	}
}

// print renders v in the selected format; text uses the given renderer.
func (c *command) print(v any, text func(io.Writer)) error {
	switch c.output {
	case "json":
		enc := json.NewEncoder(c.out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(c.out)
		defer enc.Close()
		return enc.Encode(v)
	}
	text(c.out)
	return nil
}

// display renders a canonical address with its EIP-55 checksum.
func display(a string) string {
	if a == "" {
		return "-"
	}
	if s, err := address.Checksum(a); err == nil {
		return s
	}
	return a
}

func envOr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}
