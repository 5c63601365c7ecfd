package main

import (
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/saravenpi/duet/internal/app"
	"github.com/saravenpi/duet/internal/chat"
	"github.com/saravenpi/duet/internal/config"
	"github.com/saravenpi/duet/internal/logger"
	"github.com/saravenpi/duet/internal/notify"
	"github.com/saravenpi/duet/internal/profiles"
	"github.com/saravenpi/duet/internal/session"
	"github.com/saravenpi/duet/internal/storage"
	"github.com/saravenpi/duet/internal/ui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const version = "1.0.0"

const longHelp = `Duet - two-person terminal chat

Two fixed profiles share one local conversation. Switch between them to
reply to yourself, react to messages and watch read receipts flip.

Navigation:
  ↑/↓ or j/k        Navigate lists / select messages
  Enter             Select, or send while composing
  ESC               Go back
  q                 Quit from current view
  ctrl+c            Force quit

Chat:
  n or c            Compose a message
  e                 Insert an emoji (ctrl+e while composing)
  a                 Attach an image file
  /                 Search messages
  tab               Switch profile
  m                 Mute / unmute the send bell
  r / l             React ❤️ / 👍 to the selected message
  d                 Delete the selected message (your own only)
  X                 Clear the whole chat

Storage:
  Messages and the mute flag live in ~/.duet (sqlite by default).
  Settings may be placed in ~/.duet/config.yml or DUET_* variables.
`

var flags struct {
	dataDir  string
	backend  string
	logLevel string
}

func main() {
	root := &cobra.Command{
		Use:           "duet",
		Short:         "Two-person terminal chat demo",
		Long:          longHelp,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI()
		},
	}
	root.PersistentFlags().StringVar(&flags.dataDir, "data-dir", "", "directory for messages, config and logs")
	root.PersistentFlags().StringVar(&flags.backend, "backend", "", "storage backend: sqlite, pebble or memory")
	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "log level: debug, info, warn or error")

	root.AddCommand(versionCmd(), dumpCmd(), resetCmd())

	if err := root.Execute(); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("Duet v%s\n", version)
		},
	}
}

func dumpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dump",
		Short: "Print the stored chatMessages blob",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			kv, err := storage.Open(cfg.Backend, cfg.DataDir)
			if err != nil {
				return err
			}
			defer kv.Close()

			raw, err := storage.NewAdapter(kv).RawMessages()
			if errors.Is(err, storage.ErrNotFound) {
				fmt.Println("[]")
				return nil
			}
			if err != nil {
				return fmt.Errorf("failed to read messages: %w", err)
			}
			fmt.Println(string(raw))
			return nil
		},
	}
}

func resetCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete all stored messages and the mute flag",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("refusing to reset without --yes")
			}
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			kv, err := storage.Open(cfg.Backend, cfg.DataDir)
			if err != nil {
				return err
			}
			defer kv.Close()

			if err := storage.NewAdapter(kv).Reset(); err != nil {
				return err
			}
			fmt.Println("Chat history cleared.")
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm the reset")
	return cmd
}

func loadConfig() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return cfg, err
	}
	if flags.dataDir != "" {
		cfg.DataDir = flags.dataDir
	}
	if flags.backend != "" {
		cfg.Backend = flags.backend
	}
	if flags.logLevel != "" {
		cfg.LogLevel = flags.logLevel
	}
	return cfg, cfg.Validate()
}

func runTUI() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	closeLog, err := logger.Init(cfg.LogPath(), cfg.LogLevel)
	if err != nil {
		return err
	}
	defer closeLog()

	users, err := profiles.Default()
	if err != nil {
		return err
	}
	sess, err := session.New(users)
	if err != nil {
		return err
	}

	kv, err := storage.Open(cfg.Backend, cfg.DataDir)
	if err != nil {
		return err
	}
	defer kv.Close()

	policy, err := chat.ParseIDPolicy(cfg.IDPolicy)
	if err != nil {
		return err
	}

	out := notify.NewTerminal(os.Stdout)
	a, err := app.New(storage.NewAdapter(kv), sess, notify.NewBell(out), chat.WithIDPolicy(policy))
	if err != nil {
		return err
	}
	logger.Log.Info("duet_started",
		zap.String("backend", cfg.Backend),
		zap.String("data_dir", cfg.DataDir),
		zap.Int("messages", len(a.Messages())))

	p := tea.NewProgram(ui.NewMenuModel(a, cfg.TypingDelay), tea.WithAltScreen(), tea.WithOutput(out))
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}
