package commands

import (
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Default file names inside a data directory
const (
	RecipesFileName   = "recipes.csv"
	MachinesFileName  = "machines.csv"
	ResourcesFileName = "resources.csv"
	DemandsFileName   = "demands.csv"
)

// Config holds configuration shared by every subcommand
type Config struct {
	// Catalog sources: a data directory, individual CSV files, or a game data JSON file
	DataDir       string
	RecipesFile   string
	MachinesFile  string
	ResourcesFile string
	DemandsFile   string
	GameDataFile  string
	EnvFile       string

	// Output
	OutputDir  string
	Format     string
	Sort       string
	Descending bool

	// Planning
	Item        string
	Demands     StringList
	Enable      StringList
	Disable     StringList
	Pins        StringList
	Selector    string
	EnabledOnly bool
	Query       string

	MetricsFile string
	Verbose     bool
	Help        bool

	// Stdin feeds the interactive session; nil means os.Stdin
	Stdin io.Reader
	// Stdout receives reports; nil means os.Stdout
	Stdout io.Writer
	// Stderr receives logs; nil means os.Stderr
	Stderr io.Writer
}

// StringList collects a repeatable or comma separated flag
type StringList []string

func (l *StringList) String() string {
	return strings.Join(*l, ",")
}

// Set implements flag.Value
func (l *StringList) Set(value string) error {
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			*l = append(*l, part)
		}
	}
	return nil
}

func (c Config) stdin() io.Reader {
	if c.Stdin != nil {
		return c.Stdin
	}
	return os.Stdin
}

func (c Config) stdout() io.Writer {
	if c.Stdout != nil {
		return c.Stdout
	}
	return os.Stdout
}

func (c Config) stderr() io.Writer {
	if c.Stderr != nil {
		return c.Stderr
	}
	return os.Stderr
}

// sourceFiles resolves the CSV file paths. Files given explicitly win over the data directory.
func (c Config) sourceFiles() map[string]string {
	files := map[string]string{
		"Recipes":   c.RecipesFile,
		"Machines":  c.MachinesFile,
		"Resources": c.ResourcesFile,
		"Demands":   c.DemandsFile,
	}
	if c.DataDir == "" {
		return files
	}

	defaults := map[string]string{
		"Recipes":   RecipesFileName,
		"Machines":  MachinesFileName,
		"Resources": ResourcesFileName,
		"Demands":   DemandsFileName,
	}
	for name, file := range defaults {
		if files[name] == "" {
			files[name] = filepath.Join(c.DataDir, file)
		}
	}
	return files
}

func fileExists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}
