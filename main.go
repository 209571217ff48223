package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/quantfold/ctabacktester/common"
	"github.com/quantfold/ctabacktester/config"
	"github.com/quantfold/ctabacktester/engine"
	"github.com/quantfold/ctabacktester/optimize"
	"github.com/quantfold/ctabacktester/strategy"
	_ "github.com/quantfold/ctabacktester/strategy/doublema"
	_ "github.com/quantfold/ctabacktester/strategy/rsirev"
)

var configPath string

func main() {
	app := &cli.App{
		Name:  "ctabacktester",
		Usage: "event driven backtesting for CTA strategies",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "path to a run config file",
				Required:    true,
				Destination: &configPath,
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "run",
				Usage:  "replay the configured strategy and print its performance report",
				Action: runBacktest,
			},
			{
				Name:   "optimize",
				Usage:  "evaluate the configured parameter grid and rank the results",
				Action: runOptimization,
			},
			{
				Name:   "strategies",
				Usage:  "list the registered strategies",
				Action: listStrategies,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func setup() (*config.Config, *config.AppSettings, error) {
	app := config.LoadAppSettings()
	common.SetupLogger(app.LogLevel)
	cfg, err := config.ReadConfigFromFile(configPath)
	if err != nil {
		return nil, nil, err
	}
	return cfg, app, nil
}

func runBacktest(*cli.Context) error {
	cfg, app, err := setup()
	if err != nil {
		return err
	}
	settings, err := cfg.EngineSettings()
	if err != nil {
		return err
	}
	provider, err := cfg.Provider(app.CacheCapacity)
	if err != nil {
		return err
	}
	handler, err := strategy.New(cfg.StrategyToLoad)
	if err != nil {
		return err
	}
	if err = handler.SetCustomSettings(cfg.CustomSettings); err != nil {
		return err
	}
	bt, err := engine.New(settings, handler, provider)
	if err != nil {
		return err
	}
	if err = bt.Run(); err != nil {
		return err
	}
	bt.CalculateStatistics(nil).Print()
	return nil
}

func runOptimization(*cli.Context) error {
	cfg, app, err := setup()
	if err != nil {
		return err
	}
	setting, err := cfg.OptimizationSetting()
	if err != nil {
		return err
	}
	settings, err := cfg.EngineSettings()
	if err != nil {
		return err
	}
	provider, err := cfg.Provider(app.CacheCapacity)
	if err != nil {
		return err
	}
	workers := app.Workers
	if cfg.Optimization.Workers > 0 {
		workers = cfg.Optimization.Workers
	}
	eval := optimize.Backtest(settings, provider, cfg.StrategyToLoad, cfg.CustomSettings, setting.Target)
	results, err := optimize.Run(setting, workers, eval)
	if err != nil {
		return err
	}
	log := common.Log(common.LogOptimize)
	for i := range results {
		log.Infof("#%d %v %v=%v", i+1, results[i].Parameters, setting.Target, results[i].Target)
	}
	results[0].Summary.Print()
	return nil
}

func listStrategies(*cli.Context) error {
	for _, name := range strategy.Names() {
		fmt.Println(name)
	}
	return nil
}
