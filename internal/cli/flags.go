package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
)

// Output formats
const (
	FormatJSON = "json"
	FormatCSV  = "csv"
)

// FeatureFlags are the flags of the recur-features command.
type FeatureFlags struct {
	Input   string // CSV file; when empty, transactions come from -db
	DBPath  string
	UserID  string // "" = every user in the database
	Format  string
	Output  string // "" = stdout
	Save    bool
	Config  string
	Verbose bool
}

// ParseFeatureFlags parses args (without the program name).
func ParseFeatureFlags(args []string, stderr io.Writer) (*FeatureFlags, error) {
	flags := &FeatureFlags{}
	fs := flag.NewFlagSet("recur-features", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&flags.Input, "input", "", "CSV file with id,user_id,name,amount,date columns")
	fs.StringVar(&flags.DBPath, "db", "", "SQLite database path (defaults to config storage path)")
	fs.StringVar(&flags.UserID, "user", "", "Only score this user's stored transactions")
	fs.StringVar(&flags.Format, "format", FormatJSON, "Output format: json (one object per line) or csv")
	fs.StringVar(&flags.Output, "output", "", "Write features to this file instead of stdout")
	fs.BoolVar(&flags.Save, "save", false, "Store input transactions and the feature run in the database")
	fs.StringVar(&flags.Config, "config", "", "Configuration file path")
	fs.BoolVar(&flags.Verbose, "verbose", false, "Verbose output")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if err := flags.Validate(); err != nil {
		return nil, err
	}
	return flags, nil
}

// Validate checks flag combinations.
func (f *FeatureFlags) Validate() error {
	if f.Format != FormatJSON && f.Format != FormatCSV {
		return fmt.Errorf("unknown format %q (want json or csv)", f.Format)
	}
	if f.Input != "" && f.UserID != "" {
		return errors.New("-user only applies to database input; drop -input")
	}
	return nil
}

// UsesDatabase reports whether the command needs storage.
func (f *FeatureFlags) UsesDatabase() bool {
	return f.Input == "" || f.Save
}

// ServeFlags holds the CLI flags for the api command.
type ServeFlags struct {
	Port    int // 0 = config port
	Config  string
	Verbose bool
}

// ParseServeFlags parses args (without the program name).
func ParseServeFlags(args []string, stderr io.Writer) (*ServeFlags, error) {
	flags := &ServeFlags{}
	fs := flag.NewFlagSet("api", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.IntVar(&flags.Port, "port", 0, "Port to listen on (defaults to config)")
	fs.StringVar(&flags.Config, "config", "", "Configuration file path")
	fs.BoolVar(&flags.Verbose, "verbose", false, "Verbose output")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return flags, nil
}
