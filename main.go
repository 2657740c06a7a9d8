package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/nstehr/fieldbattle/config"
	"github.com/nstehr/fieldbattle/logs"
	"github.com/nstehr/fieldbattle/model"
	"github.com/nstehr/fieldbattle/scenario"
)

const banner = `
 ___ _     _    _ _         _   _   _     
| __(_)___| |__| | |__  __ _| |_| |_| |___ 
| _|| / -_) / _' | '_ \/ _' |  _|  _| / -_)
|_| |_\___|_\__,_|_.__/\__,_|\__|\__|_\___|

Brigade orders and sightlines`

func main() {
	fs := pflag.NewFlagSet("fieldbattle", pflag.ExitOnError)
	config.Flags(fs)
	_ = fs.Parse(os.Args[1:])

	cfg, _, err := config.Load(fs)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if err := logs.Init("fieldbattle", cfg.Log); err != nil {
		fmt.Fprintln(os.Stderr, "failed to init logger:", err)
		os.Exit(1)
	}
	defer func() { _ = logs.Sync() }()

	fmt.Println(banner)
	logs.Info("starting fieldbattle", zap.String("scenario", cfg.Scenario))

	state, err := scenario.LoadState(cfg.Scenario)
	if err != nil {
		logs.Error("failed to load scenario", zap.String("path", cfg.Scenario), zap.Error(err))
		os.Exit(1)
	}
	if err := evaluate(os.Stdout, state, cfg); err != nil {
		logs.Error("evaluation failed", zap.Error(err))
		os.Exit(1)
	}

	if !cfg.Watch {
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err = scenario.Watch(cfg.Scenario, func(s *model.State, err error) {
		if err != nil {
			logs.Error("scenario reload failed", zap.Error(err))
			return
		}
		if err := evaluate(os.Stdout, s, cfg); err != nil {
			logs.Error("evaluation failed", zap.Error(err))
		}
	})
	if err != nil {
		logs.Error("failed to watch scenario", zap.Error(err))
		os.Exit(1)
	}
	logs.Info("watching scenario", zap.String("path", cfg.Scenario))

	<-ctx.Done()
	logs.Info("shutting down")
}
