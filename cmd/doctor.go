package cmd

import (
	"context"
	"errors"
	"time"

	"github.com/hpkotak/huh/internal/capture"
	"github.com/hpkotak/huh/internal/doctor"
	"github.com/hpkotak/huh/internal/logging"
	"github.com/hpkotak/huh/internal/platform"
	"github.com/spf13/cobra"
)

const doctorTimeout = 10 * time.Second

var detectMux = platform.DetectMultiplexer

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check shell detection, terminal capture and provider access",
	Args:  cobra.NoArgs,
	RunE:  runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

func runDoctor(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := logging.New(debugFlag, ioErr)
	defer func() { _ = logger.Sync() }()

	sh := detectShell(cfg.Shells, logger)
	in := doctor.Inputs{
		Shell:       sh,
		Multiplexer: detectMux(),
		Capture: capturePane(capture.Options{
			ScrollbackLines: cfg.ScrollbackLines,
			ShellName:       sh.Name,
		}, logger),
	}
	in.Provider, in.ProviderErr = newProvider(cfg)

	ctx, cancel := context.WithTimeout(context.Background(), doctorTimeout)
	defer cancel()

	report := doctor.Run(ctx, in)
	report.Write(ioOut)
	if !report.Healthy() {
		return errors.New("some checks failed")
	}
	return nil
}
