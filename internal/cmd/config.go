package cmd

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"regexp"

	"github.com/adrg/xdg"
	"github.com/dendrascience/dendra-storage-index/dsidx"
	"github.com/docker/go-units"
	"github.com/spf13/cobra"
)

// configRelPath locates the config file beneath the XDG config directory.
const configRelPath = "dsidx/config.json"

// Config holds the optional defaults loaded from the config file. Values
// given on the command line always win over config values.
type Config struct {
	MaxSize        string `json:"max_size"`        // human-readable quota, e.g. "10GB"
	Workers        int    `json:"workers"`         // hashing workers, 0 means one per CPU
	ExcludePattern string `json:"exclude_pattern"` // overrides the timestamp-suffix predicate
}

// loadConfig reads the config file if one exists. A missing file yields a
// zero Config; a malformed one is reported and ignored.
func loadConfig() Config {
	var cfg Config
	path, err := xdg.SearchConfigFile(configRelPath)
	if err != nil {
		return cfg
	}
	f, err := os.Open(path)
	if err != nil {
		return cfg
	}
	defer f.Close()
	if err := json.NewDecoder(f).Decode(&cfg); err != nil {
		log.Printf("Ignoring malformed config %s: %v", path, err)
		return Config{}
	}
	return cfg
}

// excludeFunc compiles the configured exclusion pattern, matched against
// the final path element. Nil means "keep the built-in default".
func (c Config) excludeFunc() dsidx.ExcludeFunc {
	if c.ExcludePattern == "" {
		return nil
	}
	re, err := regexp.Compile(c.ExcludePattern)
	if err != nil {
		log.Printf("Ignoring invalid exclude_pattern %q: %v", c.ExcludePattern, err)
		return nil
	}
	return func(path string) bool {
		return re.MatchString(filepath.Base(path))
	}
}

// newScanner assembles a scanner from the config and the workers flag. A
// positive flag value beats the config value.
func newScanner(cfg Config, workers int) *dsidx.Scanner {
	var opts []dsidx.Option
	if workers <= 0 {
		workers = cfg.Workers
	}
	if workers > 0 {
		opts = append(opts, dsidx.WithWorkers(workers))
	}
	if fn := cfg.excludeFunc(); fn != nil {
		opts = append(opts, dsidx.WithExclude(fn))
	}
	return dsidx.NewScanner(opts...)
}

// resolveMaxSize turns the flag value, or the config value when the flag
// is empty, into a byte count. Zero means no quota is configured.
func resolveMaxSize(flagValue string, cfg Config) int64 {
	value := flagValue
	if value == "" {
		value = cfg.MaxSize
	}
	if value == "" {
		return 0
	}
	limit, err := units.RAMInBytes(value)
	if err != nil {
		log.Fatalf("Invalid size %q: %v", value, err)
	}
	return limit
}

// NewConfigCmd creates and returns the config subcommand for the dsidx
// CLI.
func NewConfigCmd() *cobra.Command {
	var initialize bool

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or initialize the dsidx configuration",
		Long: `Show the effective configuration and where it was loaded from.

dsidx reads optional defaults from ` + configRelPath + ` under the XDG config
directory. Command-line flags always override config values.`,
		Args: cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			runConfig(initialize)
		},
	}
	cmd.Flags().BoolVar(&initialize, "init", false, "Write a default config file if none exists")
	return cmd
}

func runConfig(initialize bool) {
	path, err := xdg.SearchConfigFile(configRelPath)
	if initialize {
		if err == nil {
			fmt.Printf("Config already exists at %s\n", path)
		} else {
			target, terr := xdg.ConfigFile(configRelPath)
			if terr != nil {
				log.Fatalf("Failed to resolve config path: %v", terr)
			}
			if werr := dsidx.WriteJSONFile(target, Config{}); werr != nil {
				log.Fatalf("Failed to write config: %v", werr)
			}
			fmt.Printf("Wrote default config to %s\n", target)
			path, err = target, nil
		}
	}

	if err != nil {
		fmt.Println("No config file found, using built-in defaults")
	} else {
		fmt.Printf("Config file: %s\n", path)
	}

	cfg := loadConfig()
	maxSize := cfg.MaxSize
	if maxSize == "" {
		maxSize = "(no quota)"
	}
	pattern := cfg.ExcludePattern
	if pattern == "" {
		pattern = "(built-in timestamp suffix)"
	}
	fmt.Printf("  max_size:        %s\n", maxSize)
	fmt.Printf("  workers:         %d (0 means one per CPU)\n", cfg.Workers)
	fmt.Printf("  exclude_pattern: %s\n", pattern)
}
