package cli

import (
	"github.com/neboloop/cdpctl/internal/config"
)

// Shared CLI flags (used across multiple command files)
var (
	cfgFile   string
	host      string
	port      int
	targetURL string
	stateDir  string
	verbose   bool
	quiet     bool
	jsonOut   bool
)

// AppConfig holds the loaded configuration (set by main)
var AppConfig *config.Config
