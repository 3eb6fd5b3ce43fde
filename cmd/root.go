package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zjrosen/loupe/internal/config"
	"github.com/zjrosen/loupe/internal/log"
	"github.com/zjrosen/loupe/internal/render"
	"github.com/zjrosen/loupe/internal/session"
	"github.com/zjrosen/loupe/internal/term"
	"github.com/zjrosen/loupe/internal/textbuf"
)

var (
	version = "dev"
	cfgFile string
	cfg     config.Config
)

var errStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)

var rootCmd = &cobra.Command{
	Use:     "loupe [file]",
	Short:   "A terminal text viewer",
	Long: `A terminal-resident text viewer: loads a file into memory, wraps its
lines across the window, and navigates with the arrow, paging, Home and End
keys. Exit with Ctrl-C.`,
	Args:          cobra.MaximumNArgs(1),
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runViewer,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: ~/.config/loupe/config.yaml)")
	rootCmd.Flags().Bool("debug", false,
		"write structured debug logs to the log file")
	rootCmd.Flags().String("log-file", "",
		"debug log destination")

	// Bind flags to viper
	_ = viper.BindPFlag("debug", rootCmd.Flags().Lookup("debug"))
	_ = viper.BindPFlag("log_file", rootCmd.Flags().Lookup("log-file"))
}

func initConfig() {
	defaults := config.Defaults()
	viper.SetDefault("debug", defaults.Debug)
	viper.SetDefault("log_file", defaults.LogFile)
	viper.SetDefault("ui.filler", defaults.UI.Filler)

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// Config lookup order:
		// 1. .loupe/config.yaml (current directory)
		// 2. ~/.config/loupe/config.yaml (user config)
		if _, err := os.Stat(".loupe/config.yaml"); err == nil {
			viper.SetConfigFile(".loupe/config.yaml")
		} else {
			home, _ := os.UserHomeDir()
			viper.AddConfigPath(filepath.Join(home, ".config", "loupe"))
			viper.SetConfigName("config")
			viper.SetConfigType("yaml")
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		// No config file found anywhere - create default at .loupe/config.yaml
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			defaultPath := ".loupe/config.yaml"
			if writeErr := config.WriteDefaultConfig(defaultPath); writeErr == nil {
				viper.SetConfigFile(defaultPath)
				_ = viper.ReadInConfig()
			}
			// If write fails, just continue with defaults (no config file)
		}
	}

	_ = viper.Unmarshal(&cfg)
}

func runViewer(cmd *cobra.Command, args []string) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if cfg.Debug {
		cleanup, err := log.Init(cfg.LogFile)
		if err != nil {
			return fmt.Errorf("initializing debug log: %w", err)
		}
		defer cleanup()
	}
	log.Info(log.CatConfig, "configuration loaded", "file", viper.ConfigFileUsed())

	buf := textbuf.Empty()
	if len(args) == 1 {
		var err error
		buf, err = textbuf.Load(args[0])
		if err != nil {
			// Deliberate degradation: the session proceeds with a blank
			// buffer, matching the viewer's open-anything contract.
			log.Warn(log.CatBuffer, "file load failed, using empty buffer",
				"path", args[0], "error", err)
		}
	}

	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return fmt.Errorf("stdin is not a terminal")
	}
	raw, err := term.EnterRaw(fd)
	if err != nil {
		return err
	}
	defer func() {
		// Restore the user's screen on every exit path.
		_, _ = os.Stdout.WriteString(render.ClearScreen + "\x1b[1;1H")
		if restoreErr := raw.Restore(); restoreErr != nil {
			log.ErrorErr(log.CatTerm, "restoring terminal failed", restoreErr)
		}
	}()

	sess := session.New(buf, os.Stdin, os.Stdout,
		term.ProtocolSizer{In: os.Stdin, Out: os.Stdout}, cfg.FillerByte())
	return sess.Run()
}

// SetVersion sets the version string shown by --version.
func SetVersion(v string) {
	rootCmd.Version = v
}

// Execute runs the root command, printing any failure to stderr.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errStyle.Render("loupe: "+err.Error()))
		return err
	}
	return nil
}
