package heap

import "github.com/orizon-lang/uheap/internal/config"

// LoadConfig reads heap.toml-shaped configuration from path and applies its
// policy and log path to this package's process-wide state. It is a thin
// convenience wrapper over SetPolicy/InitLog; it introduces no new heap
// semantics.
func LoadConfig(path string) error {
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}

	switch cfg.Policy {
	case "best_fit":
		SetPolicy(BestFit)
	case "worst_fit":
		SetPolicy(WorstFit)
	case "first_fit", "":
		SetPolicy(FirstFit)
	}

	return InitLog(cfg.LogPath)
}
