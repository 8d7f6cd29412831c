package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli"

	"github.com/valerio/go-chip8/chip8"
	"github.com/valerio/go-chip8/chip8/addr"
	"github.com/valerio/go-chip8/chip8/backend"
	"github.com/valerio/go-chip8/chip8/backend/headless"
	"github.com/valerio/go-chip8/chip8/backend/sdl2"
	"github.com/valerio/go-chip8/chip8/backend/terminal"
	"github.com/valerio/go-chip8/chip8/cpu"
	"github.com/valerio/go-chip8/chip8/disasm"
	"github.com/valerio/go-chip8/chip8/display"
	"github.com/valerio/go-chip8/chip8/input"
	"github.com/valerio/go-chip8/chip8/input/action"
	"github.com/valerio/go-chip8/chip8/input/event"
	"github.com/valerio/go-chip8/chip8/memory"
	"github.com/valerio/go-chip8/chip8/timing"
)

func main() {
	app := cli.NewApp()
	app.Name = "chip8"
	app.Description = "A CHIP-8 interpreter"
	app.Usage = "chip8 [options] <ROM file>"
	app.Version = "1.0.0"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "rom",
			Usage: "Path to the ROM file",
		},
		cli.StringFlag{
			Name:  "backend",
			Usage: "Backend to use: terminal, sdl2, headless",
			Value: "terminal",
		},
		cli.IntFlag{
			Name:  "frames",
			Usage: "Number of frames to run in headless mode (required for headless)",
			Value: 0,
		},
		cli.IntFlag{
			Name:  "cycles-per-frame",
			Usage: "Instructions executed per 60 Hz frame",
			Value: timing.DefaultCyclesPerFrame,
		},
		cli.Uint64Flag{
			Name:  "seed",
			Usage: "Seed for the random number instruction (0 = time based)",
		},
		cli.StringFlag{
			Name:  "limiter",
			Usage: "Frame pacing for interactive backends: adaptive, ticker",
			Value: "adaptive",
		},
		cli.BoolFlag{
			Name:  "disassemble",
			Usage: "Print a disassembly of the ROM and exit",
		},
		cli.BoolFlag{
			Name:  "test-pattern",
			Usage: "Display a test pattern instead of emulation (for debugging display)",
		},
		cli.IntFlag{
			Name:  "snapshot-interval",
			Usage: "Save frame snapshots every N frames in headless mode (0 = disabled)",
			Value: 0,
		},
		cli.StringFlag{
			Name:  "snapshot-dir",
			Usage: "Directory to save frame snapshots (default: temp directory)",
		},
		cli.BoolFlag{
			Name:  "debug",
			Usage: "Show debug panels and enable debug logging",
		},
		cli.IntFlag{
			Name:  "scale",
			Usage: "Window scale factor (sdl2)",
			Value: display.DefaultPixelScale,
		},
	}
	app.Action = runEmulator

	err := app.Run(os.Args)
	if err != nil {
		slog.Error("Error running emulator", "error", err)
		os.Exit(1)
	}
}

func runEmulator(c *cli.Context) error {
	testPattern := c.Bool("test-pattern")

	romPath := c.String("rom")
	if romPath == "" && c.NArg() > 0 {
		romPath = c.Args().Get(0)
	}

	if c.Bool("disassemble") {
		if romPath == "" {
			return errors.New("no ROM path provided")
		}
		return disassemble(c.App.Writer, romPath)
	}

	var emu chip8.Emulator
	var machine *chip8.Machine
	if testPattern {
		slog.Info("Running in test pattern mode")
		emu = chip8.NewTestPatternEmulator()
	} else {
		if romPath == "" {
			cli.ShowAppHelp(c)
			return errors.New("no ROM path provided")
		}

		var err error
		machine, err = chip8.NewWithFile(romPath, chip8.Config{
			CyclesPerFrame: c.Int("cycles-per-frame"),
			Seed:           c.Uint64("seed"),
		})
		if err != nil {
			return err
		}
		slog.Info("Machine configured",
			"cycles_per_frame", c.Int("cycles-per-frame"),
			"instructions_per_second", timing.InstructionsPerSecond(c.Int("cycles-per-frame")))
		emu = machine
	}

	backendName := c.String("backend")

	var snapshotConfig headless.SnapshotConfig
	if backendName == "headless" {
		var err error
		snapshotConfig, err = headless.CreateSnapshotConfig(c.Int("snapshot-interval"), c.String("snapshot-dir"), romPath)
		if err != nil {
			return err
		}
	}

	b, err := newBackend(backendName, c.Int("frames"), snapshotConfig)
	if err != nil {
		return err
	}

	if backendName != "headless" {
		limiter, err := newLimiter(c.String("limiter"))
		if err != nil {
			return err
		}
		if ticker, ok := limiter.(*timing.TickerLimiter); ok {
			defer ticker.Stop()
		}
		emu.SetFrameLimiter(limiter)
	}

	title := "CHIP-8"
	if romPath != "" {
		title = strings.TrimSuffix(filepath.Base(romPath), filepath.Ext(romPath))
	}

	err = run(emu, b, backend.BackendConfig{
		Title:         title,
		Scale:         c.Int("scale"),
		ShowDebug:     c.Bool("debug"),
		TestPattern:   testPattern,
		SnapshotName:  title,
		DebugProvider: emu,
	})

	var fault *cpu.StackFaultError
	if machine != nil && errors.As(err, &fault) {
		for _, line := range machine.Disassemble(4, 2) {
			slog.Error("Fault context", "line", disasm.FormatDisassemblyLine(line, line.Address == fault.PC))
		}
	}

	return err
}

// disassemble prints a listing of the program image as it would be loaded.
func disassemble(w io.Writer, romPath string) error {
	data, err := os.ReadFile(romPath)
	if err != nil {
		return fmt.Errorf("reading program: %w", err)
	}

	mmu, err := memory.NewWithProgram(data)
	if err != nil {
		return err
	}

	count := (len(data) + 1) / disasm.InstructionLength
	for _, line := range disasm.DisassembleRange(addr.ProgramStart, count, mmu) {
		if _, err := fmt.Fprintln(w, disasm.FormatDisassemblyLine(line, false)); err != nil {
			return err
		}
	}
	return nil
}

func newLimiter(name string) (timing.Limiter, error) {
	switch name {
	case "adaptive":
		return timing.NewAdaptiveLimiter(), nil
	case "ticker":
		return timing.NewTickerLimiter(), nil
	default:
		return nil, fmt.Errorf("unknown limiter %q, expected adaptive or ticker", name)
	}
}

func newBackend(name string, frames int, snapshotConfig headless.SnapshotConfig) (backend.Backend, error) {
	switch name {
	case "terminal":
		return terminal.New(), nil
	case "sdl2":
		return sdl2.New(), nil
	case "headless":
		return headless.New(frames, snapshotConfig), nil
	default:
		return nil, fmt.Errorf("unknown backend %q, expected terminal, sdl2 or headless", name)
	}
}

// run drives the host loop until the backend or the user asks to quit:
// advance one frame, present it, then dispatch the collected input.
func run(emu chip8.Emulator, b backend.Backend, config backend.BackendConfig) error {
	running := true
	config.Callbacks.OnQuit = func() {
		running = false
	}

	// backends replace the default logger, restore it for the final error report
	previous := slog.Default()
	defer slog.SetDefault(previous)

	if err := b.Init(config); err != nil {
		return err
	}
	defer b.Cleanup()

	var keys input.KeySetter
	if ks, ok := emu.(input.KeySetter); ok {
		keys = ks
	}
	manager := input.NewManager(keys)
	registerActions(manager, emu, b, func() { running = false })

	for running {
		if err := emu.RunUntilFrame(); err != nil {
			return err
		}

		events, err := b.Update(emu.GetCurrentFrame())
		if err != nil {
			return err
		}
		for _, evt := range events {
			manager.Trigger(evt.Action, evt.Type)
		}
	}

	if machine, ok := emu.(*chip8.Machine); ok {
		slog.Info("Run completed",
			"frames", machine.GetFrameCount(),
			"instructions", machine.GetInstructionCount())
	}

	return nil
}

func registerActions(manager *input.Manager, emu chip8.Emulator, b backend.Backend, quit func()) {
	manager.On(action.EmulatorQuit, event.Press, quit)

	for _, act := range []action.Action{
		action.EmulatorPauseToggle,
		action.EmulatorStepFrame,
		action.EmulatorStepInstruction,
		action.EmulatorTestPatternCycle,
	} {
		manager.On(act, event.Press, func() {
			emu.HandleAction(act, true)
		})
	}

	handler, ok := b.(backend.ActionHandler)
	if !ok {
		return
	}
	for _, act := range []action.Action{
		action.EmulatorSnapshot,
		action.EmulatorDebugToggle,
		action.DebugLogLevelIncrease,
		action.DebugLogLevelDecrease,
	} {
		manager.On(act, event.Press, func() {
			handler.HandleAction(act)
		})
	}
}
