/*
Copyright © 2026 James Lawson (jpl-au) <hello@caelisco.net>
*/

// flags.go holds the persistent flags shared by every command and the
// accessors extensions use to read them, plus the output helpers that
// switch between text and -o json.
//
// --db and --dir fall back to DOCVER_DB and DOCVER_DIR, which may also come
// from a .env file loaded before the command runs.

package cmd

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jpl-au/docver/internal/config"
	"github.com/spf13/cobra"
)

var validOutputFormats = []string{"json"}

var (
	output string
	author string
	force  bool
	db     string
	dir    string
)

// Command I/O. Tests swap these to script prompts and capture output.
var (
	out io.Writer = os.Stdout
	in  io.Reader = os.Stdin
)

// Out returns the output writer.
func Out() io.Writer { return out }

// SetOut sets the output writer.
func SetOut(w io.Writer) { out = w }

// SetIn sets the reader Confirm reads answers from.
func SetIn(r io.Reader) { in = r }

// Output returns the -o value.
func Output() string { return output }

// Author returns the author recorded in audit log entries.
func Author() string { return author }

// Force reports whether --force was given.
func Force() bool { return force }

// DB returns the database name: --db, then DOCVER_DB, else "" (docver.db).
func DB() string { return flagOrEnv(db, "DOCVER_DB") }

// Dir returns the repository directory: --dir, then DOCVER_DIR, else ""
// (discover upwards from the working directory).
func Dir() string { return flagOrEnv(dir, "DOCVER_DIR") }

func flagOrEnv(v, key string) string {
	if v != "" {
		return v
	}
	return os.Getenv(key)
}

// JSON reports whether -o json was given.
func JSON() bool { return output == "json" }

// Confirm asks a y/N question and reports the answer. --force and -o json
// answer yes without asking. End of input counts as no.
func Confirm(prompt string) bool {
	if force || JSON() {
		return true
	}
	fmt.Fprintf(out, "%s [y/N] ", prompt)
	line, _ := bufio.NewReader(in).ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	fmt.Fprintln(out)
	return false
}

// PrintJSON writes v as one line of JSON when -o json is set; otherwise it
// does nothing.
func PrintJSON(v any) error {
	if !JSON() {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	fmt.Fprintln(out, string(b))
	return nil
}

// PrintJSONError reports err as {"error": ...} under -o json and returns nil
// so cobra does not print it a second time. Without -o json err is returned
// unchanged.
func PrintJSONError(err error) error {
	if !JSON() || err == nil {
		return err
	}
	_ = PrintJSON(map[string]string{"error": err.Error()})
	return nil
}

// detectAuthor reads author.name from config when --author is absent.
func detectAuthor() string {
	if cfg, err := config.Load(); err == nil {
		return cfg.Author.Name
	}
	return ""
}

func init() {
	f := rootCmd.PersistentFlags()
	f.StringVarP(&output, "output", "o", "", "Output format: json")
	f.StringVarP(&author, "author", "a", "", "Author recorded in the audit log")
	f.BoolVar(&force, "force", false, "Skip confirmations and overwrite existing files")
	f.StringVar(&db, "db", "", "Database name (docs selects .docver/docver-docs.db)")
	f.StringVar(&dir, "dir", "", "Repository directory (skip discovery)")

	_ = rootCmd.RegisterFlagCompletionFunc("output", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return validOutputFormats, cobra.ShellCompDirectiveNoFileComp
	})
}
