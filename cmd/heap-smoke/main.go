// Command heap-smoke is a small demonstration binary exercising the heap
// package end to end: it is not the external test harness spec.md §1 names
// as out of scope, just a minimal usage example in the style of the
// teacher's cmd/orizon-smoke-test tools.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/orizon-lang/uheap"
)

func main() {
	var (
		policy  = flag.String("policy", "first_fit", "placement policy: first_fit|best_fit|worst_fit")
		logPath = flag.String("log", "", "path to write allocator event log (empty disables logging)")
		config  = flag.String("config", "", "optional heap.toml to load instead of -policy/-log")
	)

	flag.Parse()

	if *config != "" {
		if err := heap.LoadConfig(*config); err != nil {
			log.Fatalf("heap-smoke: load config: %v", err)
		}
	} else {
		switch *policy {
		case "best_fit":
			heap.SetPolicy(heap.BestFit)
		case "worst_fit":
			heap.SetPolicy(heap.WorstFit)
		default:
			heap.SetPolicy(heap.FirstFit)
		}

		if err := heap.InitLog(*logPath); err != nil {
			log.Fatalf("heap-smoke: init log: %v", err)
		}
	}

	defer heap.CloseLog()

	ptrs := make([]uintptr, 0, 8)

	for _, size := range []uintptr{64, 128, 256, 32} {
		p := heap.Allocate(size)
		if p == nil {
			fmt.Fprintf(os.Stderr, "allocate(%d) failed\n", size)

			continue
		}

		ptrs = append(ptrs, uintptr(p))
	}

	totalAlloc, totalFree, allocBlocks, freeBlocks := heap.UsageStats()
	fmt.Printf("alloc=%d free=%d allocBlocks=%d freeBlocks=%d fragmentation=%.4f\n",
		totalAlloc, totalFree, allocBlocks, freeBlocks, heap.FragmentationRate())

	// CheckConsistency already reports each violation to os.Stderr itself;
	// this binary only needs to act on the count.
	if violations := heap.CheckConsistency(); len(violations) > 0 {
		os.Exit(1)
	}
}
