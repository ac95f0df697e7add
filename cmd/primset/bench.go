package main

import (
	"fmt"
	"math/rand"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/Jeffail/tunny"
	"github.com/cyraxred/primset"
	"github.com/gogo/protobuf/sortkeys"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/ssh/terminal"
	progress "gopkg.in/cheggaaa/pb.v1"
)

// benchConfig describes a randomized workload.
type benchConfig struct {
	Trials      int
	Keys        int
	Ops         int
	Seed        int64
	Coloring    primset.Coloring
	RemoveRatio float64
	Workers     int
	Verify      bool
	Logger      primset.Logger
}

// trialResult is the outcome of a single workload run.
type trialResult struct {
	Trial       int
	Stats       primset.Stats
	Added       int
	Removed     int
	Duration    time.Duration
	Fingerprint uint64
	Error       string
}

// benchReport gathers all the trials in their original order.
type benchReport struct {
	Config  benchConfig
	Trials  []trialResult
	RunTime time.Duration
}

// initialKeys generates n random keys in ascending order without duplicates.
func initialKeys(r *rand.Rand, n int) []int64 {
	keys := make([]int64, n)
	for i := range keys {
		keys[i] = r.Int63n(int64(4*n + 1))
	}
	sortkeys.Int64s(keys)
	return dedupSorted(keys)
}

// runTrial builds the initial set in bulk and mutates it randomly.
// The outcome depends only on the config and the trial number.
func runTrial(config benchConfig, trial int) trialResult {
	r := rand.New(rand.NewSource(config.Seed + int64(trial)))
	result := trialResult{Trial: trial}
	start := time.Now()
	set, err := primset.FromSortedUnique(initialKeys(r, config.Keys), config.Coloring,
		primset.WithColoring(config.Coloring), primset.WithLogger(config.Logger))
	if err != nil {
		result.Error = err.Error()
		return result
	}
	keyRange := int64(4*config.Keys + 1)
	for i := 0; i < config.Ops; i++ {
		key := r.Int63n(keyRange)
		if r.Float64() < config.RemoveRatio {
			if set.Remove(key) {
				result.Removed++
			}
		} else if set.Add(key) {
			result.Added++
		}
	}
	result.Duration = time.Since(start)
	if config.Verify {
		if err := set.Verify(); err != nil {
			result.Error = err.Error()
		}
	}
	result.Stats = set.Stats()
	result.Fingerprint = fingerprint(set.ToSortedArray())
	return result
}

// runBench executes the trials on a pool of goroutines. onProgress is called
// after each finished trial and may be nil.
func runBench(config benchConfig, onProgress func()) benchReport {
	workers := config.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	pool := tunny.NewFunc(workers, func(payload interface{}) interface{} {
		return runTrial(config, payload.(int))
	})
	defer pool.Close()
	report := benchReport{Config: config, Trials: make([]trialResult, config.Trials)}
	start := time.Now()
	wg := sync.WaitGroup{}
	for i := 0; i < config.Trials; i++ {
		wg.Add(1)
		go func(trial int) {
			defer wg.Done()
			report.Trials[trial] = pool.Process(trial).(trialResult)
			if onProgress != nil {
				onProgress()
			}
		}(i)
	}
	wg.Wait()
	report.RunTime = time.Since(start)
	return report
}

func (config benchConfig) validate() error {
	if config.Trials <= 0 {
		return errors.Errorf("--trials must be positive, got %d", config.Trials)
	}
	if config.Keys < 0 || config.Ops < 0 {
		return errors.New("--keys and --ops must not be negative")
	}
	if config.RemoveRatio < 0 || config.RemoveRatio > 1 {
		return errors.Errorf("--remove-ratio must be within [0, 1], got %v", config.RemoveRatio)
	}
	return nil
}

// benchCmd runs the randomized workloads
var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Run randomized insert/remove workloads and report the tree shapes.",
	Long: `Each trial builds a set from random sorted keys in bulk, applies random insertions
and removals and measures the result. The trials are independent and run in parallel.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		v := bindFlags(cmd.Flags())
		coloring, err := primset.ParseColoring(v.GetString("coloring"))
		if err != nil {
			return err
		}
		templateText, err := loadTemplate(v.GetString("template"))
		if err != nil {
			return errors.Wrap(err, "failed to load the template")
		}
		logger, err := newLogger(v.GetString("log-format"), v.GetBool("verbose"))
		if err != nil {
			return err
		}
		defer syncLogger(logger)
		config := benchConfig{
			Trials:      v.GetInt("trials"),
			Keys:        v.GetInt("keys"),
			Ops:         v.GetInt("ops"),
			Seed:        v.GetInt64("seed"),
			Coloring:    coloring,
			RemoveRatio: v.GetFloat64("remove-ratio"),
			Workers:     v.GetInt("workers"),
			Verify:      v.GetBool("verify"),
			Logger:      logger,
		}
		if err = config.validate(); err != nil {
			return err
		}
		var onProgress func()
		var bar *progress.ProgressBar
		if !v.GetBool("quiet") {
			bar = progress.New(config.Trials)
			bar.Callback = func(msg string) {
				os.Stderr.WriteString("\033[2K\r" + msg)
			}
			bar.NotPrint = true
			bar.ShowPercent = false
			bar.ShowSpeed = false
			bar.SetMaxWidth(80).Start()
			onProgress = func() { bar.Increment() }
		}
		report := runBench(config, onProgress)
		if bar != nil {
			bar.Finish()
			fmt.Fprint(os.Stderr, "\033[2K\r")
		}
		if templateText != "" {
			return tmpl(cmd.OutOrStdout(), templateText, report)
		}
		printBenchReport(cmd.OutOrStdout(), report)
		for _, trial := range report.Trials {
			if trial.Error != "" {
				return errors.Errorf("trial %d failed: %s", trial.Trial, trial.Error)
			}
		}
		return nil
	},
}

func init() {
	flags := benchCmd.Flags()
	flags.Int("trials", 4, "Number of independent workloads.")
	flags.Int("keys", 100000, "Number of random keys each set starts with; duplicates are dropped.")
	flags.Int("ops", 1000000, "Number of random insertions and removals per trial.")
	flags.Int64("seed", 1, "Random seed of the first trial; the others use the following numbers.")
	flags.Float64("remove-ratio", 0.5, "Share of the removals among the random operations.")
	flags.Int("workers", runtime.NumCPU(), "Number of trials which run in parallel.")
	flags.Bool("verify", false, "Check the tree invariants at the end of each trial.")
	flags.Bool("quiet", !terminal.IsTerminal(int(os.Stdin.Fd())),
		"Do not print status updates to stderr.")
	flags.Bool("verbose", false, "Log the storage compactions.")
	flags.String("log-format", "zap", "Logger of the compaction events: zap (structured) "+
		"or plain (standard log package). Both write to stderr.")
	addCommonFlags(flags)
	if err := benchCmd.MarkFlagFilename("template"); err != nil {
		panic(err)
	}
}
