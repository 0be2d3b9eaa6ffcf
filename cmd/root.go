// Package cmd implements the command-line interface for cadence.
package cmd

import (
	"fmt"
	"os"
	"strings"

	cc "github.com/ivanpirog/coloredcobra"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/cadence-player/cadence/app"
	"github.com/cadence-player/cadence/backend"
	"github.com/cadence-player/cadence/color"
	"github.com/cadence-player/cadence/constant"
	"github.com/cadence-player/cadence/control"
	"github.com/cadence-player/cadence/icon"
	"github.com/cadence-player/cadence/input"
	"github.com/cadence-player/cadence/key"
	"github.com/cadence-player/cadence/log"
	"github.com/cadence-player/cadence/proc"
	"github.com/cadence-player/cadence/style"
	"github.com/cadence-player/cadence/ui"
	"github.com/cadence-player/cadence/where"
)

func init() {
	rootCmd.Flags().BoolP("version", "v", false, "Print the application version")

	rootCmd.Flags().BoolP("repeat", "r", false, "Start with repeat mode enabled")
	lo.Must0(viper.BindPFlag(key.PlaylistRepeat, rootCmd.Flags().Lookup("repeat")))

	rootCmd.Flags().BoolP("random", "R", false, "Start with random mode enabled")
	lo.Must0(viper.BindPFlag(key.PlaylistRandom, rootCmd.Flags().Lookup("random")))

	rootCmd.Flags().BoolP("restricted", "n", false, "Restricted mode: no shell-outs, no file writes")

	rootCmd.PersistentFlags().StringP("icons", "I", "", "Set the visual icon variant (e.g., nerd, emoji, plain)")
	lo.Must0(rootCmd.RegisterFlagCompletionFunc("icons", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return icon.AvailableVariants(), cobra.ShellCompDirectiveDefault
	}))
	lo.Must0(viper.BindPFlag(key.IconsVariant, rootCmd.PersistentFlags().Lookup("icons")))
}

// rootCmd runs the player on the files, directories and playlists named as
// arguments.
var rootCmd = &cobra.Command{
	Use:   constant.Cadence + " [files...]",
	Short: "A terminal controller for external audio players",
	Long: style.New().Italic(true).Foreground(color.HiPurple).
		Render("    - drives mpg123, ogg123, mplayer and friends from one keyboard"),
	Run: func(cmd *cobra.Command, args []string) {
		if cmd.Flags().Changed("version") {
			versionCmd.Run(versionCmd, args)
			return
		}
		handleErr(runPlayer(args, lo.Must(cmd.Flags().GetBool("restricted"))))
	},
}

// runPlayer wires the event loop to the terminal, the supervisor pipes and
// the remote-control fifo, then blocks until quit.
func runPlayer(paths []string, restricted bool) error {
	sup, err := proc.NewSupervisor()
	if err != nil {
		return err
	}
	defer sup.Close()

	player := app.New(sup)
	player.SetRestricted(restricted)
	player.SetOutputSources(app.Relay(sup.Stdout()), app.Relay(sup.Stderr()))

	for _, path := range paths {
		if _, err := player.AddPath(path); err != nil {
			return err
		}
	}

	if viper.GetBool(key.ControlEnable) {
		remote, err := control.Listen(where.ControlPipe())
		if err != nil {
			log.Warnf("remote control disabled: %v", err)
		} else {
			player.SetRemoteSource(remote)
		}
	}

	restore, err := input.RawMode()
	if err != nil {
		return fmt.Errorf("terminal: %w", err)
	}
	defer restore()

	player.SetKeySource(input.Keys(os.Stdin))
	player.ListenSignals()

	view := ui.New(os.Stdout)
	player.Callbacks = app.Callbacks{
		OnPositionChanged: func(pos backend.Position) {
			view.Draw(view.PositionLine(pos))
		},
		OnStatusChanged: func(state ui.State, message string, transient bool) {
			if transient {
				view.Println(view.TransientLine(message))
				return
			}
			view.Println(view.StatusLine(state, message))
		},
		OnCounterToggled: func() { view.ToggleCounter() },
	}

	player.Run()
	view.Println("")
	return nil
}

// Execute initializes child command routing and processes the CLI entry point.
func Execute() {
	if viper.GetBool(key.CliColored) {
		cc.Init(&cc.Config{
			RootCmd:       rootCmd,
			Headings:      cc.HiCyan + cc.Bold + cc.Underline,
			Commands:      cc.HiYellow + cc.Bold,
			Example:       cc.Italic,
			ExecName:      cc.Bold,
			Flags:         cc.Bold,
			FlagsDataType: cc.Italic + cc.HiBlue,
		})
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func handleErr(err error) {
	if err != nil {
		log.Error(err)
		_, _ = fmt.Fprintf(os.Stderr, "%s %s\n", icon.Get(icon.Fail), strings.Trim(err.Error(), " \n"))
		os.Exit(1)
	}
}
