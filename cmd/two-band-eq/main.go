package main

import (
	"encoding/binary"
	"fmt"
	"log"
	"math"
	"math/cmplx"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/agusx1211/two-band-eq/internal/audio"
	"github.com/agusx1211/two-band-eq/internal/config"
	"github.com/agusx1211/two-band-eq/internal/equalizer"
	"github.com/agusx1211/two-band-eq/internal/mqtt"
	"github.com/agusx1211/two-band-eq/internal/noise"
	"github.com/agusx1211/two-band-eq/internal/panel"
	"github.com/agusx1211/two-band-eq/internal/source"
	"github.com/agusx1211/two-band-eq/internal/tui"
	"github.com/alecthomas/kong"
	tea "github.com/charmbracelet/bubbletea"
)

var version = "0.1.0"

// CLI defines the command-line interface
type CLI struct {
	Color    string  `short:"c" enum:"white,pink,brown,blue,violet" default:"pink" help:"Noise colour of the looped test signal"`
	Tone     float64 `short:"t" help:"Loop a sine at this frequency in Hz instead of noise"`
	Seconds  float64 `short:"s" default:"1" help:"Length of the looped signal in seconds"`
	Stereo   bool    `help:"Filter two independent channels"`
	Cutoff   float64 `help:"Initial cutoff in Hz (overrides INITIAL_CUTOFF)"`
	Headless bool    `help:"Run without the terminal UI"`
	Version  bool    `short:"v" help:"Show version information"`
}

const signalAmplitude = 0.5

func main() {
	cliArgs := &CLI{}
	kong.Parse(cliArgs,
		kong.Name("two-band-eq"),
		kong.Description("Real-time two-band shelving equalizer"),
		kong.UsageOnError(),
	)

	if cliArgs.Version {
		fmt.Printf("two-band-eq %s\n", version)
		os.Exit(0)
	}

	cfg := config.Load()
	if cliArgs.Cutoff > 0 {
		cfg.InitialCutoff = cliArgs.Cutoff
	}

	if !cliArgs.Headless {
		logFile, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			log.Fatalf("Failed to open log file: %v", err)
		}
		defer logFile.Close()
		log.SetOutput(logFile)
	}

	eqCfg := equalizer.Config{
		SampleRate:    float64(cfg.SampleRate),
		InitialCutoff: cfg.InitialCutoff,
		Stereo:        cliArgs.Stereo,
	}

	loop, err := buildSource(cliArgs, cfg.SampleRate, eqCfg.Channels(), randomSeed())
	if err != nil {
		log.Fatalf("Failed to build test signal: %v", err)
	}

	eq, err := equalizer.New(eqCfg, loop)
	if err != nil {
		log.Fatalf("Failed to create equalizer: %v", err)
	}

	pnl := panel.New("Two-Band Equalizer", equalizer.NumParams)
	if err := eq.Attach(pnl); err != nil {
		log.Fatalf("Failed to attach control panel: %v", err)
	}

	gain := audio.NewGain(cfg.Volume, true)
	restoreState(pnl, gain, cfg.StateFile)
	logResponse(eq)

	player, err := audio.NewPlayer(cfg.SampleRate, eq.Channels(), cfg.BufferSize, gain)
	if err != nil {
		log.Fatalf("Failed to create audio player: %v", err)
	}
	defer player.Close()

	var program *tea.Program
	if !cliArgs.Headless {
		defaults := eq.Defaults()
		model := tui.NewModel(pnl, defaults[:], gain)
		program = tea.NewProgram(model, tea.WithAltScreen())
		pnl.OnValueChanged(func(int, int) {
			program.Send(tui.ParamsChangedMsg{})
		})
	}

	if cfg.MQTTEnabled() {
		commandChan := make(chan mqtt.Command, 100)
		stateFn := func() mqtt.State {
			return mqtt.NewState(pnl.Params(), mqtt.MatchPreset(pnl.Values()), gain.Volume(), gain.Power())
		}

		mqttClient, err := mqtt.NewClient(
			cfg.MQTTBroker,
			cfg.MQTTPort,
			cfg.MQTTUser,
			cfg.MQTTPassword,
			cfg.MQTTTopic,
			stateFn,
			commandChan,
		)
		if err != nil {
			log.Fatalf("Failed to create MQTT client: %v", err)
		}
		defer mqttClient.Close()

		onOutput := func() {}
		if program != nil {
			onOutput = func() { program.Send(tui.OutputChangedMsg{}) }
		}
		go processCommands(pnl, gain, commandChan, mqttClient.PublishState, onOutput, cfg.StateFile)
	}

	player.Start(func(out []float64) bool {
		return eq.Render(out) == equalizer.Continue
	})
	log.Printf("Streaming %d channel(s) at %d Hz, %d frames per block", eq.Channels(), cfg.SampleRate, cfg.BufferSize)

	if program != nil {
		if _, err := program.Run(); err != nil {
			log.Printf("UI error: %v", err)
		}
	} else {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan
	}

	log.Println("Shutting down...")
	eq.Stop()
	saveState(pnl, gain, cfg.StateFile)
}

// buildSource renders the looped test signal: a sine when a tone is given,
// coloured noise otherwise.
func buildSource(cliArgs *CLI, sampleRate, channels int, seed int64) (*source.Loop, error) {
	frames := int(math.Round(cliArgs.Seconds * float64(sampleRate)))
	if frames < 1 {
		return nil, fmt.Errorf("loop length %.3fs is shorter than one frame", cliArgs.Seconds)
	}

	if cliArgs.Tone > 0 {
		log.Printf("Test signal: %.1f Hz sine, %d frames", cliArgs.Tone, frames)
		return source.FromFloat(source.Tone(cliArgs.Tone, float64(sampleRate), signalAmplitude, frames, channels), channels)
	}

	color, err := noise.ParseColor(cliArgs.Color)
	if err != nil {
		return nil, err
	}
	log.Printf("Test signal: %s noise, %d frames", color, frames)
	return source.NewLoop(noise.NewGenerator(seed).PCM16(color, frames, channels, signalAmplitude), channels)
}

func randomSeed() int64 {
	f, err := os.Open("/dev/random")
	if err != nil {
		log.Printf("Failed to open /dev/random: %v", err)
		return time.Now().UnixNano()
	}
	defer f.Close()

	var seed int64
	if err := binary.Read(f, binary.LittleEndian, &seed); err != nil {
		log.Printf("Failed to read /dev/random: %v", err)
		return time.Now().UnixNano()
	}
	return seed
}

func logResponse(eq *equalizer.Equalizer) {
	db := func(f float64) float64 {
		return 20 * math.Log10(cmplx.Abs(eq.Response(f)))
	}
	log.Printf("EQ: cutoff=%.1f Hz, %s, 50 Hz %+.1f dB, 10 kHz %+.1f dB",
		eq.Cutoff(), eq.Order(), db(50), db(10000))
}

func processCommands(pnl *panel.Panel, gain *audio.Gain, cmdChan <-chan mqtt.Command, publish, onOutput func(), stateFile string) {
	stateTicker := time.NewTicker(2 * time.Second)
	defer stateTicker.Stop()

	for {
		select {
		case cmd, ok := <-cmdChan:
			if !ok {
				return
			}
			output, err := applyCommand(pnl, gain, cmd)
			if err != nil {
				log.Printf("Rejected MQTT command %s: %v", cmd.Action, err)
			}
			if output {
				onOutput()
			}
			saveState(pnl, gain, stateFile)
			publish()
		case <-stateTicker.C:
			publish()
		}
	}
}

// applyCommand runs one MQTT command. It reports whether the output stage
// changed.
func applyCommand(pnl *panel.Panel, gain *audio.Gain, cmd mqtt.Command) (bool, error) {
	switch cmd.Action {
	case mqtt.ActionPowerOn:
		gain.SetPower(true)
		return true, nil
	case mqtt.ActionPowerOff:
		gain.SetPower(false)
		return true, nil
	case mqtt.ActionSetVolume:
		gain.SetVolume(cmd.Volume)
		return true, nil
	case mqtt.ActionSetParam:
		return false, pnl.SetValue(cmd.Index, cmd.Value)
	case mqtt.ActionSetPreset:
		p := mqtt.FindPreset(cmd.Preset)
		if p == nil {
			return false, fmt.Errorf("unknown preset %q", cmd.Preset)
		}
		for i, v := range p.Values {
			if err := pnl.SetValue(i, v); err != nil {
				return false, err
			}
		}
		return false, nil
	}
	return false, fmt.Errorf("unknown action %q", cmd.Action)
}
