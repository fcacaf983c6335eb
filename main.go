package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	gomidi "gitlab.com/gomidi/midi/v2"

	"fretnote/audio"
	"fretnote/config"
	"fretnote/debug"
	"fretnote/fretboard"
	"fretnote/midi"
	"fretnote/theme"
	"fretnote/trainer"
	"fretnote/tui"
)

type options struct {
	configPath string
	debug      bool
	minFret    int
	maxFret    int
	mode       string
	noAudio    bool
}

func main() {
	defer gomidi.CloseDriver()
	cobra.CheckErr(newRootCmd(&options{}).Execute())
}

func newRootCmd(opts *options) *cobra.Command {
	root := &cobra.Command{
		Use:   "fretnote",
		Short: "Learn the notes of the guitar fretboard",
		Long: `fretnote shows four notes on a treble staff and asks for each one on
the fretboard, by picking string and fret, clicking the neck, or playing
it on a connected Launchpad or MIDI instrument.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, opts)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "config file (default ~/.config/fretnote/config.json)")
	flags.BoolVar(&opts.debug, "debug", false, "write a debug log to ~/.config/fretnote/debug.log")
	flags.IntVar(&opts.minFret, "min-fret", 0, "lowest fret in the training range")
	flags.IntVar(&opts.maxFret, "max-fret", 3, "highest fret in the training range")
	flags.StringVar(&opts.mode, "mode", "", "input mode: picker or fretboard")
	flags.BoolVar(&opts.noAudio, "no-audio", false, "disable answer tones")

	root.AddCommand(newServeCmd(opts))
	return root
}

// loadConfig reads the config file and applies flags that were set explicitly
func loadConfig(cmd *cobra.Command, opts *options) (*config.Config, error) {
	if opts.debug {
		if err := debug.Enable(debug.DefaultPath()); err != nil {
			fmt.Fprintf(os.Stderr, "debug log: %v\n", err)
		}
	}

	var (
		cfg *config.Config
		err error
	)
	if opts.configPath != "" {
		cfg, err = config.LoadFrom(opts.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("min-fret") {
		cfg.Trainer.MinFret = opts.minFret
	}
	if flags.Changed("max-fret") {
		cfg.Trainer.MaxFret = opts.maxFret
	}
	if flags.Changed("mode") {
		mode, err := trainer.ParseInputMode(opts.mode)
		if err != nil {
			return nil, err
		}
		cfg.Trainer.InputMode = mode
	}
	if opts.noAudio {
		cfg.Audio.Enabled = false
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	debug.Log("main", "config %+v", cfg.Trainer)
	return cfg, nil
}

// outputPreview plays picker previews on a MIDI output
type outputPreview struct {
	out      *midi.Output
	velocity uint8
}

func (p outputPreview) Play(pitch fretboard.Pitch) { p.out.Play(pitch, p.velocity) }

// openSound picks the answer feedback sink: a MIDI output when one is
// configured and reachable, otherwise the speaker
func openSound(cfg *config.Config) (trainer.Feedback, tui.Previewer, func()) {
	if !cfg.Audio.Enabled {
		return nil, nil, func() {}
	}

	if name := cfg.Audio.MIDIOutput; name != "" {
		out, err := midi.OpenOutput(name, 0, cfg.Audio.Velocity)
		if err == nil {
			return out, outputPreview{out: out, velocity: cfg.Audio.Velocity}, out.Close
		}
		debug.Log("main", "midi output: %v, using speaker", err)
	}

	tp, err := audio.NewTonePlayer()
	if err != nil {
		debug.Log("main", "audio disabled: %v", err)
	}
	return tp, tp, tp.Close
}

func runTUI(cmd *cobra.Command, opts *options) error {
	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return err
	}
	defer debug.Disable()

	palette, err := theme.Resolve(cfg.UI.Palette)
	if err != nil {
		debug.Log("main", "palette: %v", err)
	}
	th := theme.New(palette)

	feedback, preview, closeSound := openSound(cfg)
	defer closeSound()

	var mopts []trainer.Option
	if feedback != nil {
		mopts = append(mopts, trainer.WithFeedback(feedback))
	}
	manager, err := trainer.NewManager(cfg.Trainer, mopts...)
	if err != nil {
		return err
	}
	manager.Start()

	// Create MIDI device manager (handles hot-plug)
	deviceMgr := midi.NewDeviceManager()
	deviceMgr.SetFilter(cfg.AllowsController)
	for _, c := range cfg.Controllers {
		if c.Type == config.ControllerKeyboard && c.InputChannel > 0 {
			deviceMgr.SetKeyboardChannel(c.InputChannel)
		}
	}
	if cfg.Audio.MIDIOutput != "" {
		deviceMgr.IgnorePort(cfg.Audio.MIDIOutput)
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	go deviceMgr.Run(ctx)

	m := tui.NewModel(manager, deviceMgr, th, cfg, preview)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err = p.Run()
	return err
}
