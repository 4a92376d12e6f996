// Command memdb is an interactive shell and statement runner for the memdb
// in memory store.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"

	"github.com/chirst/memdb/db"
	"github.com/chirst/memdb/internal/logging"
	"github.com/chirst/memdb/repl"
)

const version = "0.1.0"

// Globals are the flags shared by every command.
type Globals struct {
	LogLevel  string `name:"log-level" help:"Log level (debug, info, warn, error)" default:"info" enum:"debug,info,warn,error" env:"MEMDB_LOG_LEVEL"`
	LogFormat string `name:"log-format" help:"Log format (text, json)" default:"text" enum:"text,json" env:"MEMDB_LOG_FORMAT"`
	CacheSize int    `name:"cache-size" help:"Compiled statement cache size, 0 disables it" default:"128" env:"MEMDB_CACHE_SIZE"`
}

// CLI defines the command-line interface for memdb.
type CLI struct {
	Globals

	Repl    ReplCmd    `cmd:"" default:"1" help:"Start the interactive shell (default)"`
	Exec    ExecCmd    `cmd:"" help:"Execute statements against a fresh store"`
	Version VersionCmd `cmd:"" help:"Print version information"`
}

// open configures logging and creates an empty store.
func (g *Globals) open(logOut io.Writer) (*db.DB, error) {
	level, err := logging.ParseLevel(g.LogLevel)
	if err != nil {
		return nil, err
	}
	format, err := logging.ParseFormat(g.LogFormat)
	if err != nil {
		return nil, err
	}
	logging.InitLogger(level, format, logOut)
	return db.New(
		db.WithLogger(logging.Component("db")),
		db.WithStatementCache(g.CacheSize),
	), nil
}

type ReplCmd struct{}

func (c *ReplCmd) Run(g *Globals) error {
	d, err := g.open(os.Stderr)
	if err != nil {
		return err
	}
	return repl.New(d).Run()
}

// ExecCmd runs each argument as one statement. Every statement is attempted;
// the command fails when any of them failed.
type ExecCmd struct {
	Statements []string `arg:"" help:"Statements to execute in order"`
	Print      bool     `help:"Print a snapshot of the store after executing"`
}

func (c *ExecCmd) Run(g *Globals, out io.Writer) error {
	d, err := g.open(os.Stderr)
	if err != nil {
		return err
	}
	failed := 0
	for _, s := range c.Statements {
		res, err := d.SQL(s)
		if err != nil {
			failed++
			fmt.Fprintf(out, "Err: %s\n", err)
			continue
		}
		switch {
		case res.Record != nil:
			b, err := json.Marshal(res.Record)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%s %s\n", res.Schema, b)
		case res.Schema != "":
			fmt.Fprintf(out, "Created %s\n", res.Schema)
		default:
			fmt.Fprintln(out, "Statement ignored")
		}
	}
	if c.Print {
		s := d.Print()
		digest, err := s.Digest()
		if err != nil {
			return err
		}
		j, err := s.JSON()
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Digest: %s\n%s\n", digest, j)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d statements failed", failed, len(c.Statements))
	}
	return nil
}

type VersionCmd struct{}

func (c *VersionCmd) Run(out io.Writer) error {
	fmt.Fprintf(out, "memdb version %s\n", version)
	return nil
}

func newParser(cli *CLI, out io.Writer) (*kong.Kong, error) {
	return kong.New(cli,
		kong.Name("memdb"),
		kong.Description("In memory record store with a small SQL front end"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Writers(out, os.Stderr),
		kong.Bind(&cli.Globals),
		kong.BindTo(out, (*io.Writer)(nil)),
	)
}

// run parses args and runs the selected command writing results to out.
func run(args []string, out io.Writer) error {
	var cli CLI
	parser, err := newParser(&cli, out)
	if err != nil {
		return err
	}
	ctx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	return ctx.Run()
}

func main() {
	var cli CLI
	parser, err := newParser(&cli, os.Stdout)
	if err != nil {
		panic(err)
	}
	ctx, err := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)
	err = ctx.Run()
	ctx.FatalIfErrorf(err)
}
