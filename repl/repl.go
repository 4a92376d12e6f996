// repl (read eval print loop) adapts db to the command line.
package repl

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"strings"
	"syscall"

	"github.com/chirst/memdb/catalog"
	"github.com/chirst/memdb/coltype"
	"github.com/chirst/memdb/db"
	"github.com/chirst/memdb/table"
	"golang.org/x/term"
)

const (
	// emptyRowValue is printed when the cell in a row is nil.
	emptyRowValue = "NULL"
	// emptyHeaderValue is printed when the cell in a header is the empty string
	emptyHeaderValue = "<anonymous>"
	// idHeader heads the record identifier column.
	idHeader = "#"
	// prompt is the prompt.
	prompt = "memdb> "
	// promptContinued is the prompt when it is pending termination for example
	// by a semi colon.
	promptContinued = "...> "
	historyFile     = ".memdb_history"
)

type repl struct {
	db       *db.DB
	terminal *term.Terminal
	// fd is put in raw mode while a line is read. It is -1 when input is not
	// a terminal.
	fd          int
	historyPath string
}

type stdio struct {
	io.Reader
	io.Writer
}

// New creates a repl reading from stdin and writing to stdout. History is
// loaded from the home directory when it can be found.
func New(db *db.DB) *repl {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		fd = -1
	}
	r := newRepl(db, stdio{os.Stdin, os.Stdout})
	r.fd = fd
	if p, err := getHistoryPath(); err != nil {
		r.writeWarning("failed to get history path " + err.Error())
	} else {
		r.historyPath = p
	}
	r.loadHistory()
	return r
}

func newRepl(db *db.DB, rw io.ReadWriter) *repl {
	return &repl{
		db:       db,
		terminal: term.NewTerminal(rw, prompt),
		fd:       -1,
	}
}

// Run reads and evaluates input until .exit, end of input or an interrupt.
// History is saved before Run returns.
func (r *repl) Run() error {
	r.writeLn("Welcome to memdb. Type .exit to exit")
	r.writeWarning("WARN the store is in memory and changes are lost on exit")

	// Handling kill signals works under two methods for the REPL. When the
	// terminal is in raw mode the signals are caught by readline as bytes. When
	// the terminal is not in raw mode the signals are caught by the following
	// channel.
	c := make(chan os.Signal, 2)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(c)
	go func() {
		if _, ok := <-c; ok {
			r.saveHistory()
			os.Exit(0)
		}
	}()

	previousInput := ""
	for {
		line, err := r.readLine(previousInput)
		if err != nil {
			r.saveHistory()
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("err reading line: %w", err)
		}
		input := previousInput + line
		if strings.TrimSpace(input) == "" {
			previousInput = ""
			continue
		}
		out, pending, exit := r.eval(input)
		if exit {
			r.saveHistory()
			return nil
		}
		if pending {
			previousInput = input + "\n"
			continue
		}
		previousInput = ""
		if out != "" {
			r.write(out)
		}
	}
}

// eval evaluates one complete or partial input. pending is true when a
// statement is not yet terminated by a semi colon and more input is needed.
func (r *repl) eval(input string) (out string, pending, exit bool) {
	trimmed := strings.TrimSpace(input)
	if trimmed[0] == '.' {
		if trimmed == ".exit" {
			return "", false, true
		}
		return r.command(strings.Fields(trimmed)), false, false
	}
	if !strings.HasSuffix(trimmed, ";") {
		return "", true, false
	}
	res, err := r.db.SQL(trimmed)
	if err != nil {
		return "Err: " + err.Error() + "\n", false, false
	}
	switch {
	case res.Record != nil:
		t, err := r.db.Table(res.Schema)
		if err != nil {
			return r.printRecords(nil, []table.Record{*res.Record}), false, false
		}
		return r.printRecords(t.Columns(), []table.Record{*res.Record}), false, false
	case res.Schema != "":
		return "Created " + res.Schema + "\n", false, false
	}
	return "Statement ignored\n", false, false
}

func (r *repl) command(args []string) string {
	switch args[0] {
	case ".tables":
		tables := r.db.Tables()
		if len(tables) == 0 {
			return "(0 tables)\n"
		}
		return strings.Join(tables, "\n") + "\n"
	case ".schema":
		if len(args) != 2 {
			return "Usage: .schema <name>\n"
		}
		t, err := r.db.Table(args[1])
		if err != nil {
			return "Err: " + err.Error() + "\n"
		}
		return formatSchema(t.Name(), t.Columns()) + "\n"
	case ".all":
		if len(args) != 2 {
			return "Usage: .all <name>\n"
		}
		t, err := r.db.Table(args[1])
		if err != nil {
			return "Err: " + err.Error() + "\n"
		}
		return r.printRecords(t.Columns(), t.GetAll())
	case ".print":
		s := r.db.Print()
		digest, err := s.Digest()
		if err != nil {
			return "Err: " + err.Error() + "\n"
		}
		j, err := s.JSON()
		if err != nil {
			return "Err: " + err.Error() + "\n"
		}
		return "Digest: " + digest + "\n" + string(j) + "\n"
	}
	return "Command not supported\n"
}

func formatSchema(name string, columns []catalog.ColumnDef) string {
	cols := make([]string, 0, len(columns))
	for _, c := range columns {
		if c.Nullable {
			cols = append(cols, c.Name+" NULL")
			continue
		}
		cols = append(cols, c.Name)
	}
	return fmt.Sprintf("%s (%s)", name, strings.Join(cols, ", "))
}

func (r *repl) readLine(previousInput string) (string, error) {
	if r.fd >= 0 {
		oldState, err := term.MakeRaw(r.fd)
		if err != nil {
			return "", err
		}
		defer term.Restore(r.fd, oldState)
	}
	if previousInput == "" {
		r.terminal.SetPrompt(prompt)
	} else {
		r.terminal.SetPrompt(promptContinued)
	}
	return r.terminal.ReadLine()
}

func (r *repl) write(text string) {
	r.terminal.Write([]byte(text))
}

func (r *repl) writeLn(text string) {
	r.write(text + "\n")
}

func (r *repl) writeWarning(text string) {
	r.terminal.Write(r.terminal.Escape.Yellow)
	r.writeLn(text)
	r.terminal.Write(r.terminal.Escape.Reset)
}

// printRecords renders records as a grid with the identifier first and one
// column per schema column. Without columns the fields are ordered by name.
func (r *repl) printRecords(columns []catalog.ColumnDef, records []table.Record) string {
	names := []string{}
	for _, c := range columns {
		names = append(names, c.Name)
	}
	if len(columns) == 0 && len(records) != 0 {
		for k := range records[0].Fields {
			names = append(names, k)
		}
		slices.Sort(names)
	}
	header := append([]string{idHeader}, names...)
	rows := [][]*string{}
	for _, rec := range records {
		id, _ := coltype.Format(rec.ID)
		row := []*string{&id}
		for _, n := range names {
			if s, ok := coltype.Format(rec.Fields[n]); ok {
				row = append(row, &s)
				continue
			}
			row = append(row, nil)
		}
		rows = append(rows, row)
	}
	return r.printRows(header, rows)
}

func (r *repl) printRows(resultHeader []string, resultRows [][]*string) string {
	ret := ""
	widths := r.getWidths(resultHeader, resultRows)
	ret += r.printHeader(resultHeader, widths)
	ret = ret + "\n"
	for _, row := range resultRows {
		ret += r.printRow(row, widths)
		ret = ret + "\n"
	}
	if len(resultRows) == 0 {
		ret = ret + "(0 rows)\n"
	}
	return ret
}

func (*repl) getWidths(header []string, rows [][]*string) []int {
	widths := make([]int, len(header))
	for i, hCol := range header {
		size := len(emptyHeaderValue)
		if hCol != "" {
			size = len(hCol)
		}
		if widths[i] < size {
			widths[i] = size
		}
	}
	for _, row := range rows {
		for i, column := range row {
			size := len(emptyRowValue)
			if column != nil {
				size = len(*column)
			}
			if widths[i] < size {
				widths[i] = size
			}
		}
	}
	return widths
}

func (*repl) printHeader(row []string, widths []int) string {
	ret := ""
	for i, column := range row {
		v := emptyHeaderValue
		if column != "" {
			v = column
		}
		ret = ret + fmt.Sprintf(" %-*s ", widths[i], v)
		if i != len(row)-1 {
			ret = ret + "|"
		}
	}
	ret = ret + "\n"
	for i := range row {
		ret = ret + fmt.Sprintf("-%s-", strings.Repeat("-", widths[i]))
		if i != len(row)-1 {
			ret = ret + "+"
		}
	}
	return ret
}

func (*repl) printRow(row []*string, widths []int) string {
	ret := ""
	for i, column := range row {
		v := emptyRowValue
		if column != nil {
			v = *column
		}
		ret = ret + fmt.Sprintf(" %-*s ", widths[i], v)
		if i != len(row)-1 {
			ret = ret + "|"
		}
	}
	return ret
}

func (r *repl) loadHistory() {
	if r.historyPath == "" {
		return
	}
	contents, err := os.ReadFile(r.historyPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return
		}
		r.writeWarning("failed to load history " + err.Error())
		return
	}
	lines := strings.Split((string)(contents), "\n")
	slices.Reverse(lines)
	for _, line := range lines {
		if line == "" {
			continue
		}
		r.terminal.History.Add(line)
	}
}

func (r *repl) saveHistory() {
	if r.historyPath == "" {
		return
	}
	history := []byte{}
	for i := range r.terminal.History.Len() {
		entry := r.terminal.History.At(i)
		history = append(history, ([]byte)(entry+"\n")...)
	}
	if err := os.WriteFile(r.historyPath, history, 0644); err != nil {
		r.writeWarning("failed to write history " + err.Error())
	}
}

func getHistoryPath() (string, error) {
	dir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, historyFile), nil
}
