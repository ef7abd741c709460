package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"k8s.io/klog/v2"

	"github.com/lazytensor/lazyrt/pkg/arena"
	"github.com/lazytensor/lazyrt/pkg/config"
	"github.com/lazytensor/lazyrt/pkg/engine/fallback"
	"github.com/lazytensor/lazyrt/pkg/metrics"
	"github.com/lazytensor/lazyrt/pkg/tensor"
)

func main() {
	ctx := context.Background()
	err := run(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		os.Exit(1)
	}
}

// run drives a short simulated training loop against the runtime
// registry, mostly as a smoke test and a way to inspect seed
// trajectories on real configs.
func run(ctx context.Context) error {
	configPath := ""
	steps := 3
	tensorsPerStep := 4

	klog.InitFlags(nil)
	flag.StringVar(&configPath, "config", configPath, "path to engine config YAML")
	flag.IntVar(&steps, "steps", steps, "number of steps to simulate")
	flag.IntVar(&tensorsPerStep, "tensors-per-step", tensorsPerStep, "tensors to register per device per step")
	flag.Parse()

	log := klog.FromContext(ctx)

	cfg := config.DefaultEngine()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	devices, err := cfg.DeviceList()
	if err != nil {
		return err
	}

	backend := fallback.NewWithCapacity(cfg.Capacity)
	a := arena.InitDefault(backend)
	if cfg.Seed != 0 {
		for _, dev := range devices {
			a.SetRNGSeed(dev, cfg.Seed)
		}
	}

	for step := 0; step < steps; step++ {
		// Strong refs for this step only; dropping the slice lets the
		// next GC collect the data, leaving dangling registry entries
		// behind as the runtime expects.
		var live []tensor.Tensor

		for _, dev := range devices {
			for i := 0; i < tensorsPerStep; i++ {
				data := tensor.NewData(dev)
				a.RegisterTensor(data)
				live = append(live, tensor.Create(data))
			}

			seedValue, err := a.SeedValue(dev)
			if err != nil {
				return fmt.Errorf("deriving seed on %s: %w", dev, err)
			}
			log.Info("seed drawn", "step", step, "device", dev, "node", seedValue.Node(), "runningSeed", a.RunningSeed(dev))
		}

		log.Info("live tensors", "step", step, "count", len(a.LiveTensors(nil)))

		for _, t := range live {
			a.UnregisterTensor(t.Data())
		}
		for _, dev := range devices {
			a.MarkStep(dev)
		}
	}

	snapshot := metrics.Default().Snapshot()
	for _, name := range metrics.Default().Names() {
		log.Info("counter", "name", name, "value", snapshot[name])
	}

	return nil
}
