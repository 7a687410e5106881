package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/leandrodaf/midicore/sdk/contracts"
	"github.com/leandrodaf/midicore/sdk/device"
	"github.com/leandrodaf/midicore/sdk/message"
	"github.com/leandrodaf/midicore/sdk/midi"
)

// apisCmd prints the compiled-in backends
var apisCmd = &cobra.Command{
	Use:   "apis",
	Short: "List the MIDI backends available in this build",
	RunE: func(cmd *cobra.Command, args []string) error {
		apis := midi.AvailableAPIs()
		if len(apis) == 0 {
			return fmt.Errorf("%w: rebuild with -tags rtmidi", midi.ErrUnsupportedOS)
		}
		for _, api := range apis {
			fmt.Fprintf(cmd.OutOrStdout(), "Available API: %s\n", api)
		}
		return nil
	},
}

// listCmd prints input and output ports
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List MIDI input and output ports",
	RunE:  runList,
}

func runList(cmd *cobra.Command, args []string) error {
	m, _, _, err := openManager()
	if err != nil {
		return err
	}
	defer m.Close()

	out := cmd.OutOrStdout()
	inputs, err := m.InputDevices()
	if err != nil {
		return err
	}
	printDevices(out, "Inputs", inputs)

	outputs, err := m.OutputDevices()
	switch {
	case errors.Is(err, device.ErrNotSupported):
		fmt.Fprintf(out, "\nOutputs: not supported by %s\n", m.API())
	case err != nil:
		return err
	default:
		fmt.Fprintln(out)
		printDevices(out, "Outputs", outputs)
	}
	return nil
}

func printDevices(w io.Writer, title string, devices []contracts.DeviceInfo) {
	fmt.Fprintf(w, "%s (%d):\n", title, len(devices))
	for _, d := range devices {
		fmt.Fprintf(w, "  %d: %s\n", d.Port, d.Name)
		if d.Manufacturer != "" {
			fmt.Fprintf(w, "     Manufacturer: %s\n", d.Manufacturer)
		}
	}
}

var monitorAll bool

// monitorCmd opens inputs and prints what arrives
var monitorCmd = &cobra.Command{
	Use:   "monitor [input names...]",
	Short: "Print messages arriving on MIDI inputs",
	Long: `Open MIDI inputs and print NoteOn and ControlChange messages until
interrupted. Names match exactly or as a substring; with no names the ports
from the config file are used, and with none configured every input is opened.`,
	Example: `  # Every input
  midimon monitor

  # One keyboard, every message type
  midimon monitor Keystation --all`,
	RunE: runMonitor,
}

func init() {
	monitorCmd.Flags().BoolVar(&monitorAll, "all", false, "Print every channel message, not only NoteOn and ControlChange")
}

func runMonitor(cmd *cobra.Command, args []string) error {
	m, cfg, log, err := openManager()
	if err != nil {
		return err
	}
	defer m.Close()

	names := args
	if len(names) == 0 {
		names = cfg.Ports
	}
	infos, err := selectInputs(m, names)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, info := range infos {
		fmt.Fprintf(out, "Opening %s\n", info.Name)
		d, err := m.CreateInput(info)
		if err != nil {
			log.Error("Failed to create MIDI input", log.Field().String("device", info.Name), log.Field().Error("error", err))
			continue
		}
		attachPrinters(out, d, monitorAll)
		if err := d.Open(); err != nil {
			d.Dispose()
		}
	}
	if in, _ := m.Devices(); in == 0 {
		return errors.New("no MIDI input could be opened")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	fmt.Fprintln(out, "Press Ctrl+C to stop...")
	<-ctx.Done()
	return nil
}

func selectInputs(m *device.Manager, names []string) ([]contracts.DeviceInfo, error) {
	if len(names) == 0 {
		infos, err := m.InputDevices()
		if err != nil {
			return nil, err
		}
		if len(infos) == 0 {
			return nil, device.ErrNoDevice
		}
		return infos, nil
	}
	infos := make([]contracts.DeviceInfo, 0, len(names))
	for _, name := range names {
		info, err := m.FindInput(name)
		if err != nil {
			return nil, err
		}
		infos = append(infos, info)
	}
	return infos, nil
}

// attachPrinters prints NoteOn and ControlChange lines, or every message when all is set.
func attachPrinters(w io.Writer, d *device.InputDevice, all bool) {
	if all {
		d.OnMessage(func(src *device.InputDevice, msg message.Message) {
			fmt.Fprintf(w, "[%s] %s\n", src.Name(), msg)
		})
		return
	}
	d.OnControlChange(func(src *device.InputDevice, msg message.ControlChange) {
		fmt.Fprintf(w, "[%s] ControlChange: Channel:%d Control:%d Value:%d\n", src.Name(), msg.Channel(), msg.Control(), msg.Value())
	})
	d.OnNoteOn(func(src *device.InputDevice, msg message.NoteOn) {
		fmt.Fprintf(w, "[%s] NoteOn: Channel:%d Key:%s Velocity:%d\n", src.Name(), msg.Channel(), msg.Key(), msg.Velocity())
	})
}

var sendOutput string

// sendCmd writes one message to an output
var sendCmd = &cobra.Command{
	Use:   "send <type> <channel> <values...>",
	Short: "Send one channel message to a MIDI output",
	Long: `Send one channel message. Types and their values:

  note-on          channel key velocity
  note-off         channel key velocity
  poly-pressure    channel key pressure
  cc               channel control value
  program-change   channel program
  channel-pressure channel pressure
  pitch-bend       channel value (0-16383, 8192 is centre)`,
	Example: `  midimon send --output Synth note-on 0 60 100
  midimon send --output Synth cc 0 7 127`,
	Args: cobra.MinimumNArgs(3),
	RunE: runSend,
}

func init() {
	sendCmd.Flags().StringVar(&sendOutput, "output", "", "Output port name (default from config, else the first output)")
}

func runSend(cmd *cobra.Command, args []string) error {
	msg, err := parseMessage(args[0], args[1:])
	if err != nil {
		return err
	}

	m, cfg, _, err := openManager()
	if err != nil {
		return err
	}
	defer m.Close()

	name := sendOutput
	if name == "" {
		name = cfg.Output
	}
	info, err := selectOutput(m, name)
	if err != nil {
		return err
	}
	o, err := m.CreateOutput(info)
	if err != nil {
		return err
	}
	if err := o.Open(); err != nil {
		return err
	}
	if err := o.Send(msg); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "[%s] sent %s (% X)\n", o.Name(), msg, message.Encode(msg))
	return nil
}

func selectOutput(m *device.Manager, name string) (contracts.DeviceInfo, error) {
	if name != "" {
		return m.FindOutput(name)
	}
	outputs, err := m.OutputDevices()
	if err != nil {
		return contracts.DeviceInfo{}, err
	}
	if len(outputs) == 0 {
		return contracts.DeviceInfo{}, device.ErrNoDevice
	}
	return outputs[0], nil
}

// parseMessage builds a message from the send command's arguments.
func parseMessage(kind string, args []string) (message.Message, error) {
	values := make([]int, len(args))
	for i, a := range args {
		v, err := strconv.Atoi(a)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %q is not a number", i+2, a)
		}
		values[i] = v
	}
	want := func(n int) error {
		if len(values) != n {
			return fmt.Errorf("%s takes %d values, got %d", kind, n, len(values))
		}
		return nil
	}

	switch strings.ToLower(kind) {
	case "note-on":
		if err := want(3); err != nil {
			return nil, err
		}
		return message.NewNoteOn(values[0], values[1], values[2])
	case "note-off":
		if err := want(3); err != nil {
			return nil, err
		}
		return message.NewNoteOff(values[0], values[1], values[2])
	case "poly-pressure":
		if err := want(3); err != nil {
			return nil, err
		}
		return message.NewPolyPressure(values[0], values[1], values[2])
	case "cc", "control-change":
		if err := want(3); err != nil {
			return nil, err
		}
		return message.NewControlChange(values[0], values[1], values[2])
	case "pc", "program-change":
		if err := want(2); err != nil {
			return nil, err
		}
		return message.NewProgramChange(values[0], values[1])
	case "channel-pressure":
		if err := want(2); err != nil {
			return nil, err
		}
		return message.NewChannelPressure(values[0], values[1])
	case "pitch-bend":
		if err := want(2); err != nil {
			return nil, err
		}
		return message.NewPitchBend(values[0], values[1])
	}
	return nil, fmt.Errorf("unknown message type %q", kind)
}
