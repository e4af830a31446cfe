package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/sethgrid/boris/internal/app"
	"github.com/sethgrid/boris/internal/battery"
	"github.com/sethgrid/boris/internal/chime"
	"github.com/sethgrid/boris/internal/discovery"
	"github.com/sethgrid/boris/internal/display"
	"github.com/sethgrid/boris/internal/display/window"
	"github.com/sethgrid/boris/internal/face"
	"github.com/spf13/cobra"
)

// newApp builds the app from the persistent flags and the surface flags
// shared by run and window.
func newApp(cmd *cobra.Command) (*app.App, func(), error) {
	path, err := settingsPath()
	if err != nil {
		return nil, nil, err
	}
	v, err := selectedVariant()
	if err != nil {
		return nil, nil, err
	}
	logger, closeLog, err := openLogger(path)
	if err != nil {
		return nil, nil, err
	}

	opts := app.Options{
		SettingsPath: path,
		PackDir:      packDir,
		Variant:      v,
		Seed:         seed,
		Battery:      battery.Sysfs{Root: battery.DefaultRoot},
		Logger:       logger,
	}
	if useInbox, _ := cmd.Flags().GetBool("inbox"); useInbox {
		opts.InboxDir = discovery.Sibling(path, discovery.InboxDir)
		opts.OutboxDir = discovery.Sibling(path, discovery.OutboxDir)
	}
	if useChime, _ := cmd.Flags().GetBool("chime"); useChime {
		vol, _ := cmd.Flags().GetFloat64("volume")
		opts.Chime = chime.NewPlayer(vol, logger.With("component", "chime"))
	}

	a, err := app.New(opts)
	if err != nil {
		logger.Error("startup failed", "err", err)
		closeLog()
		return nil, nil, err
	}
	return a, closeLog, nil
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Show the face in the terminal",
	Long: `Shows the face in the terminal until q, Esc or Ctrl-C.

Keys: n next behaviour, s sleep, w wake, c cycle background.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		scale, _ := cmd.Flags().GetInt("scale")

		a, closeLog, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer closeLog()

		term, err := display.NewTerminal(scale)
		if err != nil {
			return errors.Join(err, a.Close())
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		keysDone := make(chan struct{})
		go func() {
			defer close(keysDone)
			term.Keys(func(k display.Key) {
				a.Post(func() { a.HandleKey(k) })
			})
		}()

		runErr := a.Run(ctx, term)
		closeErr := a.Close()
		term.Close()
		<-keysDone
		return errors.Join(runErr, closeErr)
	},
}

var windowCmd = &cobra.Command{
	Use:   "window",
	Short: "Show the face in a desktop window",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		zoom, _ := cmd.Flags().GetInt("zoom")
		floating, _ := cmd.Flags().GetBool("float")

		a, closeLog, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer closeLog()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		g := window.NewGame(a, face.Width, face.Height)
		a.Begin(g)
		quitOnDone(ctx, a)
		runErr := window.Run(g, window.Options{Zoom: zoom, Floating: floating})
		closeErr := a.Close()
		if runErr == nil {
			runErr = a.Err()
		}
		return errors.Join(runErr, closeErr)
	},
}

type quitter interface {
	Post(fn func())
	HandleKey(k display.Key)
}

// quitOnDone asks q to quit, on its own loop, once ctx ends. Surfaces that
// own their frame loop use it so a signal still goes through Close.
func quitOnDone(ctx context.Context, q quitter) {
	go func() {
		<-ctx.Done()
		q.Post(func() { q.HandleKey(display.KeyQuit) })
	}()
}

func init() {
	for _, c := range []*cobra.Command{runCmd, windowCmd} {
		c.Flags().Bool("inbox", true, "Watch the inbox and request weather through the outbox")
		c.Flags().Bool("chime", false, "Play a chime when Boris gets up")
		c.Flags().Float64("volume", chime.DefaultVolume, "Chime volume, 0..1 (0 mutes)")
	}
	runCmd.Flags().Int("scale", 2, "Downscale factor for the terminal")
	windowCmd.Flags().Int("zoom", 3, "Window zoom factor")
	windowCmd.Flags().Bool("float", false, "Keep the window above others")
}
