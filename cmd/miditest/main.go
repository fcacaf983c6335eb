package main

import (
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"

	"fretnote/fretboard"
	"fretnote/midi"
	"fretnote/trainer"
)

func main() {
	defer gomidi.CloseDriver()

	root := &cobra.Command{
		Use:   "miditest",
		Short: "MIDI test scripts for fretnote",
	}
	root.AddCommand(listCmd(), watchCmd(), toneCmd(), gridCmd())
	cobra.CheckErr(root.Execute())
}

func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all MIDI ports",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("=== MIDI Input Ports ===")
			fmt.Println("(waiting up to 3 seconds...)")

			ins, outs, ok := midi.ListPorts(3 * time.Second)
			if !ok {
				fmt.Println("\nTIMEOUT! CoreMIDI is hung.")
				fmt.Println("Fix: sudo killall coreaudiod midiserver")
				return
			}
			for i, name := range ins {
				fmt.Printf("  %d: %s\n", i, name)
			}
			fmt.Println("\n=== MIDI Output Ports ===")
			for i, name := range outs {
				fmt.Printf("  %d: %s\n", i, name)
			}
		},
	}
}

func watchCmd() *cobra.Command {
	var maxFret int
	cmd := &cobra.Command{
		Use:   "watch [port]",
		Short: "Print incoming notes with their fretboard positions",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var ports []drivers.In
			for _, p := range gomidi.GetInPorts() {
				if len(args) == 0 || strings.Contains(strings.ToLower(p.String()), strings.ToLower(args[0])) {
					ports = append(ports, p)
				}
			}
			if len(ports) == 0 {
				return fmt.Errorf("no matching input ports")
			}

			for _, p := range ports {
				name := p.String()
				stop, err := gomidi.ListenTo(p, func(msg gomidi.Message, _ int32) {
					var ch, key, vel uint8
					if msg.GetNoteStart(&ch, &key, &vel) {
						fmt.Printf("[%s] %s\n", name, describeNote(fretboard.Pitch(key), maxFret))
					}
				})
				if err != nil {
					return fmt.Errorf("listen %s: %w", name, err)
				}
				defer stop()
				fmt.Printf("Listening on %s\n", name)
			}

			fmt.Println("Play some notes. Ctrl+C to exit.")
			sig := make(chan os.Signal, 1)
			signal.Notify(sig, os.Interrupt)
			<-sig
			return nil
		},
	}
	cmd.Flags().IntVar(&maxFret, "max-fret", 12, "highest fret to list positions for")
	return cmd
}

// describeNote formats a pitch and every place it can be played, e.g.
// "E4 (64): 1/0 2/5 3/9"
func describeNote(p fretboard.Pitch, maxFret int) string {
	var where []string
	for _, pos := range fretboard.Standard.Positions(p, 0, maxFret) {
		where = append(where, fmt.Sprintf("%d/%d", pos.String, pos.Fret))
	}
	if len(where) == 0 {
		where = append(where, "not on the neck")
	}
	return fmt.Sprintf("%s (%d): %s", p.Name(true), int(p), strings.Join(where, " "))
}

func toneCmd() *cobra.Command {
	var port string
	cmd := &cobra.Command{
		Use:   "tone [note]",
		Short: "Send a test note to an output port",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			note := 64
			if len(args) == 1 {
				n, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("note must be a MIDI number: %w", err)
				}
				note = n
			}
			out, err := midi.OpenOutput(port, 0, 100)
			if err != nil {
				return err
			}
			fmt.Printf("Sending %s to %s\n", fretboard.Pitch(note).Name(true), out.Name())
			out.Feedback(fretboard.Pitch(note), trainer.Correct)
			time.Sleep(time.Second)
			out.Close()
			return nil
		},
	}
	cmd.Flags().StringVar(&port, "port", "", "output port name (substring match)")
	cmd.MarkFlagRequired("port")
	return cmd
}

func gridCmd() *cobra.Command {
	var minFret, maxFret int
	cmd := &cobra.Command{
		Use:   "grid",
		Short: "Show the fret window on a Launchpad",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := trainer.Config{MinFret: minFret, MaxFret: maxFret, InputMode: trainer.ModeFretboard}
			if err := cfg.Validate(); err != nil {
				return err
			}

			var in drivers.In
			var out drivers.Out
			for _, p := range gomidi.GetInPorts() {
				if isLaunchpad(p.String()) {
					in = p
					break
				}
			}
			for _, p := range gomidi.GetOutPorts() {
				if isLaunchpad(p.String()) {
					out = p
					break
				}
			}
			if in == nil || out == nil {
				return fmt.Errorf("no Launchpad found")
			}

			lp, err := midi.NewLaunchpadController(in.String(), in, out)
			if err != nil {
				return err
			}
			defer lp.Close()

			w := midi.WindowFor(cfg)
			if err := lp.SetLEDBatch(w.Frame(cfg)); err != nil {
				return err
			}
			fmt.Printf("Showing frets %d-%d. Press pads to see coordinates, Enter to clear...\n", w.Start, w.Start+midi.WindowWidth-1)

			go func() {
				for pad := range lp.PadEvents() {
					if c, ok := w.Coordinate(pad.Row, pad.Col); ok {
						p := fretboard.Standard.MustPitchOf(c.String, c.Fret)
						fmt.Printf("  string %d fret %d: %s\n", c.String, c.Fret, p.Name(true))
					}
				}
			}()
			fmt.Scanln()
			return nil
		},
	}
	cmd.Flags().IntVar(&minFret, "min-fret", 0, "first fret of the training range")
	cmd.Flags().IntVar(&maxFret, "max-fret", 3, "last fret of the training range")
	return cmd
}

func isLaunchpad(name string) bool {
	name = strings.ToLower(name)
	return strings.Contains(name, "launchpad") && strings.Contains(name, "midi")
}
