package main

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/leandrodaf/midicore/internal/logger"
	"github.com/leandrodaf/midicore/sdk/contracts"
	"github.com/leandrodaf/midicore/sdk/device"
	"github.com/leandrodaf/midicore/sdk/message"
	"github.com/leandrodaf/midicore/sdk/midi"
)

func main() {
	log := logger.NewConsoleLogger()

	for _, api := range midi.AvailableAPIs() {
		fmt.Println("Available API:", api)
	}

	manager, err := midi.NewManager(
		contracts.WithLogger(log),
		contracts.WithLogLevel(contracts.InfoLevel),
	)
	if err != nil {
		log.Error("Failed to initialize MIDI", log.Field().Error("error", err))
		return
	}
	defer manager.Close()

	devices, err := manager.InputDevices()
	if err != nil || len(devices) == 0 {
		log.Error("No MIDI devices found or error listing devices", log.Field().Error("error", err))
		return
	}

	for _, info := range devices {
		fmt.Println("Opening", info.Name)
		input, err := manager.CreateInput(info)
		if err != nil {
			log.Error("Failed to create MIDI input", log.Field().Error("error", err))
			continue
		}

		input.OnNoteOn(func(src *device.InputDevice, msg message.NoteOn) {
			log.Info("NoteOn",
				log.Field().String("device", src.Name()),
				log.Field().Int("channel", int(msg.Channel())),
				log.Field().String("key", msg.Key().String()),
				log.Field().Int("velocity", int(msg.Velocity())),
			)
		})
		input.OnControlChange(func(src *device.InputDevice, msg message.ControlChange) {
			log.Info("ControlChange",
				log.Field().String("device", src.Name()),
				log.Field().Int("channel", int(msg.Channel())),
				log.Field().Int("control", int(msg.Control())),
				log.Field().Int("value", int(msg.Value())),
			)
		})

		if err := input.Open(); err != nil {
			input.Dispose()
		}
	}

	fmt.Println("Capturing MIDI events... Press Ctrl+C to exit.")
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	<-interrupt
}
