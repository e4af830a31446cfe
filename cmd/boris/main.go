package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/sethgrid/boris/internal/anim"
	"github.com/sethgrid/boris/internal/behaviour"
	"github.com/sethgrid/boris/internal/discovery"
	"github.com/sethgrid/boris/internal/inbox"
	"github.com/sethgrid/boris/internal/mode"
	"github.com/sethgrid/boris/internal/sprite"
	"github.com/sethgrid/boris/internal/storage"
	"github.com/spf13/cobra"
)

var (
	configPath  string
	packDir     string
	variantName string
	seed        int64
	logPath     string
	debug       bool
)

const Version = "v0.1.0"

func main() {
	rootCmd := &cobra.Command{
		Use:   "boris",
		Short: "Boris - a watchface with a small animated resident",
		Run: func(cmd *cobra.Command, args []string) {
			if version, _ := cmd.Flags().GetBool("version"); version {
				fmt.Println(Version)
				return
			}
			cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to settings file")
	rootCmd.PersistentFlags().StringVar(&packDir, "pack", "", "Directory holding pack.yaml (default: built-in animations)")
	rootCmd.PersistentFlags().StringVar(&variantName, "variant", sprite.Boris.Name, "Behaviour set: boris or classic")
	rootCmd.PersistentFlags().Int64Var(&seed, "seed", 0, "Seed for behaviour selection (0 = time based)")
	rootCmd.PersistentFlags().StringVar(&logPath, "log-file", "", "Log file (default: boris.log next to the settings file)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Log every behaviour decision")
	rootCmd.Flags().BoolP("version", "v", false, "Print version information")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(windowCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(setCmd)
	rootCmd.AddCommand(pushCmd)
	rootCmd.AddCommand(behavioursCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func settingsPath() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current directory: %w", err)
	}
	return discovery.Resolve(configPath, cwd)
}

func selectedVariant() (sprite.Variant, error) {
	return sprite.VariantByName(variantName)
}

// openLogger writes text logs to --log-file, or next to the settings file.
// The returned close func is never nil.
func openLogger(path string) (*slog.Logger, func(), error) {
	if logPath == "" {
		logPath = discovery.Sibling(path, discovery.LogFile)
	}
	if logPath == "-" {
		return newLogger(os.Stderr), func() {}, nil
	}
	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return newLogger(f), func() { f.Close() }, nil
}

func newLogger(w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write default settings into .boris in this directory",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		global, _ := cmd.Flags().GetBool("global")

		var baseDir string
		if global {
			home, err := os.UserHomeDir()
			if err != nil {
				return fmt.Errorf("failed to get home directory: %w", err)
			}
			baseDir = home
		} else {
			cwd, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to get current directory: %w", err)
			}
			baseDir = cwd
		}

		path, err := storage.Init(baseDir)
		if errors.Is(err, storage.ErrExists) {
			fmt.Printf("Settings already exist at %s\n", path)
			return nil
		}
		if err != nil {
			return err
		}
		fmt.Printf("Wrote default settings to %s\n", path)
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the saved settings and whether Boris is awake",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := settingsPath()
		if err != nil {
			return err
		}
		s, err := storage.Load(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}

		now := time.Now()
		fmt.Printf("Settings:   %s\n", path)
		fmt.Printf("Background: %s\n", s.BackgroundColor)
		fmt.Printf("Last seen:  %s at (%d, %d), size %d\n", s.State, s.X, s.Y, s.Size)
		fmt.Printf("Schedule:   bed %s, up %s\n", s.Bedtime, s.GetUpTime)
		fmt.Printf("Now:        %s, %s\n", mode.Clock(now), mode.Describe(now, s.Schedule()))
		return nil
	},
}

var setCmd = &cobra.Command{
	Use:   "set KEY VALUE",
	Short: "Change a setting (bedtime, getup, background, size)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := settingsPath()
		if err != nil {
			return err
		}
		s, err := storage.Load(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
		if err := applySetting(&s, args[0], args[1]); err != nil {
			return err
		}
		if err := storage.Save(path, s); err != nil {
			return err
		}
		fmt.Printf("Saved %s to %s\n", strings.ToLower(args[0]), path)
		return nil
	},
}

func applySetting(s *storage.Settings, key, value string) error {
	switch strings.ToLower(key) {
	case "bedtime":
		sched, err := mode.Schedule{Bedtime: value, GetUp: s.GetUpTime}.Normalize()
		if err != nil {
			return err
		}
		s.Bedtime = sched.Bedtime
	case "getup", "getup_time":
		sched, err := mode.Schedule{Bedtime: s.Bedtime, GetUp: value}.Normalize()
		if err != nil {
			return err
		}
		s.GetUpTime = sched.GetUp
	case "background", "background_color":
		c, err := storage.ParseColor(value)
		if err != nil {
			return err
		}
		s.BackgroundColor = c
	case "size":
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return fmt.Errorf("invalid size %q", value)
		}
		s.Size = n
	default:
		return fmt.Errorf("unknown setting %q", key)
	}
	return nil
}

var pushCmd = &cobra.Command{
	Use:   "push",
	Short: "Drop a message into the inbox of a running face",
	Long: `Writes a message file into the inbox watched by "boris run".
Temperature is in kelvin. Bedtime and getup must be given together.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, _ := cmd.Flags().GetString("inbox")
		if dir == "" {
			path, err := settingsPath()
			if err != nil {
				return err
			}
			dir = discovery.Sibling(path, discovery.InboxDir)
		}

		var m inbox.Message
		flags := cmd.Flags()
		if flags.Changed("temperature") {
			v, _ := flags.GetFloat64("temperature")
			m.Temperature = &v
		}
		for name, dst := range map[string]**string{
			"icon":       &m.Icon,
			"background": &m.BackgroundColor,
			"bedtime":    &m.Bedtime,
			"getup":      &m.GetUpTime,
		} {
			if flags.Changed(name) {
				v, _ := flags.GetString(name)
				*dst = &v
			}
		}

		path, err := inbox.Write(dir, m)
		if err != nil {
			return err
		}
		fmt.Printf("Queued %s\n", path)
		return nil
	},
}

var behavioursCmd = &cobra.Command{
	Use:   "behaviours",
	Short: "List the behaviours of the selected variant",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		v, err := selectedVariant()
		if err != nil {
			return err
		}
		pack := anim.Builtin(storage.DefaultSize)
		if packDir != "" {
			pack, err = anim.LoadPack(packDir, v.Behaviours(), storage.DefaultSize)
			if err != nil {
				return err
			}
		}

		fmt.Printf("Variant %s (%s to %s per behaviour)\n\n", v.Name, v.MinDuration, v.MaxDuration)
		tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "BEHAVIOUR\tFRAMES\tPLAYS")
		for _, b := range v.Behaviours() {
			frames := pack[b]
			if frames == nil {
				fmt.Fprintf(tw, "%s\t-\tmissing\n", b)
				continue
			}
			fmt.Fprintf(tw, "%s\t%d\t%s\n", b, frames.TotalFrames(), plays(b, frames.TotalFrames()))
		}
		return tw.Flush()
	},
}

func plays(b behaviour.Behaviour, frames int) string {
	if b.IsTransition() || frames >= sprite.OneShotFrames {
		return "once"
	}
	return "loop"
}

func init() {
	initCmd.Flags().Bool("global", false, "Write to the home directory instead")

	pushCmd.Flags().String("inbox", "", "Inbox directory (default: inbox next to the settings file)")
	pushCmd.Flags().Float64("temperature", 0, "Temperature in kelvin")
	pushCmd.Flags().String("icon", "", "Weather icon code, e.g. 01d")
	pushCmd.Flags().String("background", "", "Background colour, e.g. #005500")
	pushCmd.Flags().String("bedtime", "", "Bedtime, HH:MM")
	pushCmd.Flags().String("getup", "", "Get-up time, HH:MM")
}
