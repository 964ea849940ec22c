package cmd

import (
	"fmt"
	"os"
	"slices"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	sim "github.com/inference-sim/cpusim/sim"
	"github.com/inference-sim/cpusim/sim/trace"
	"github.com/inference-sim/cpusim/sim/workload"
)

var (
	// CLI flags for the run configuration
	policies         []string // Policies to simulate ("all" = every policy)
	quantum          int64    // Round Robin time quantum (in ticks)
	horizon          int64    // Latest admissible event time (in ticks); 0 = the built-in limit
	maxEvents        int      // Bound on pending events; 0 = unbounded
	traceLevel       string   // Decision trace verbosity
	policyConfigPath string   // YAML run bundle overriding defaults
	logLevel         string   // Log verbosity level
	showGantt        bool     // Render the occupancy timeline per policy
	showTrace        bool     // Print the decision trace summary per policy

	// CLI flags for the workload
	workloadSpecPath string // YAML workload file
	csvPath          string // CSV process list
	preset           string // Named generator preset in defaults.yaml
	defaultsFilePath string // Path to defaults.yaml
	numProcesses     int    // Process count for the built-in generator
	seed             int64  // Seed for workload generation
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "cpusim",
	Short: "Discrete-event simulator for CPU scheduling policies",
}

// runCmd executes the simulation using parameters from CLI flags
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the scheduling simulation",
	Run: func(cmd *cobra.Command, args []string) {
		setLogLevel()

		cfg, names, err := buildRunConfig(cmd)
		if err != nil {
			logrus.Fatalf("Invalid run configuration: %v", err)
		}
		specs, err := loadProcessSpecs()
		if err != nil {
			logrus.Fatalf("Unable to load workload: %v", err)
		}

		logrus.Infof("Simulating %d processes under %v, quantum=%d, horizon=%d",
			len(specs), names, cfg.Quantum, cfg.Horizon)

		results, err := sim.RunAll(specs, names, cfg)
		if err != nil {
			logrus.Fatalf("Simulation failed: %v", err)
		}

		out := cmd.OutOrStdout()
		printProcessList(out, specs)
		for _, r := range results {
			printResult(out, r, showGantt)
			if showTrace {
				printTraceSummary(out, r)
			}
		}
		if len(results) > 1 {
			printComparison(out, results)
		}
		logrus.Info("Simulation complete.")
	},
}

// policiesCmd lists the available scheduling policies
var policiesCmd = &cobra.Command{
	Use:   "policies",
	Short: "List the available scheduling policies",
	Run: func(cmd *cobra.Command, args []string) {
		printPolicies(cmd.OutOrStdout(), quantum)
	},
}

func setLogLevel() {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		logrus.Fatalf("Invalid log level: %s", logLevel)
	}
	logrus.SetLevel(level)
}

// buildRunConfig layers the run configuration: built-in defaults, then the
// defaults file, then the --policy-config bundle, then explicitly set flags.
func buildRunConfig(cmd *cobra.Command) (sim.SimConfig, []string, error) {
	cfg := sim.DefaultSimConfig()
	names := []string{"all"}

	if defaultsFilePath != "" {
		if _, err := os.Stat(defaultsFilePath); err == nil {
			defaults, err := loadDefaultsConfig(defaultsFilePath)
			if err != nil {
				return cfg, nil, err
			}
			if defaults.Defaults.Quantum > 0 {
				cfg.Quantum = defaults.Defaults.Quantum
			}
			if len(defaults.Defaults.Policies) > 0 {
				names = defaults.Defaults.Policies
			}
		} else if cmd.Flags().Changed("defaults") {
			return cfg, nil, fmt.Errorf("defaults file: %w", err)
		}
	}

	if policyConfigPath != "" {
		bundle, err := sim.LoadRunBundle(policyConfigPath)
		if err != nil {
			return cfg, nil, err
		}
		if err := bundle.Validate(); err != nil {
			return cfg, nil, fmt.Errorf("run config %s: %w", policyConfigPath, err)
		}
		bundle.Apply(&cfg)
		if len(bundle.Policies) > 0 {
			names = bundle.Policies
		}
	}

	// explicitly set flags win over every file
	if cmd.Flags().Changed("quantum") {
		cfg.Quantum = quantum
	}
	if cmd.Flags().Changed("horizon") {
		cfg.Horizon = horizon
	}
	if cmd.Flags().Changed("max-events") {
		cfg.MaxEvents = maxEvents
	}
	if cmd.Flags().Changed("trace-level") {
		if !trace.IsValidTraceLevel(traceLevel) {
			return cfg, nil, fmt.Errorf("unknown trace level %q", traceLevel)
		}
		cfg.TraceLevel = trace.TraceLevel(traceLevel)
	}
	if showTrace && cfg.TraceLevel != trace.TraceLevelDecisions {
		cfg.TraceLevel = trace.TraceLevelDecisions
	}
	if cmd.Flags().Changed("policy") {
		names = policies
	}

	resolved, err := resolvePolicyNames(names)
	if err != nil {
		return cfg, nil, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, nil, err
	}
	return cfg, resolved, nil
}

// resolvePolicyNames expands "all" and rejects unknown or repeated names.
func resolvePolicyNames(names []string) ([]string, error) {
	if len(names) == 0 || slices.Contains(names, "all") {
		return slices.Clone(sim.PolicyNames), nil
	}
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		if !sim.IsValidPolicy(n) {
			return nil, fmt.Errorf("unknown policy %q; valid: all, %v", n, sim.SortedPolicyNames())
		}
		if seen[n] {
			return nil, fmt.Errorf("policy %q listed twice", n)
		}
		seen[n] = true
	}
	return names, nil
}

// loadProcessSpecs picks the workload source: --workload, then --csv, then
// --preset, then the built-in generator.
func loadProcessSpecs() ([]sim.ProcessSpec, error) {
	switch {
	case workloadSpecPath != "":
		spec, err := workload.LoadWorkloadSpec(workloadSpecPath)
		if err != nil {
			return nil, err
		}
		return spec.ProcessSpecs()
	case csvPath != "":
		f, err := os.Open(csvPath)
		if err != nil {
			return nil, fmt.Errorf("opening process CSV: %w", err)
		}
		defer func() {
			if closeErr := f.Close(); closeErr != nil {
				logrus.Warnf("Error closing %s: %v", csvPath, closeErr)
			}
		}()
		return workload.LoadCSV(f)
	case preset != "":
		gen, err := GetPreset(preset, defaultsFilePath)
		if err != nil {
			return nil, err
		}
		return workload.Generate(gen, seed)
	default:
		gen := workload.DefaultGeneratorSpec()
		gen.Count = numProcesses
		return workload.Generate(gen, seed)
	}
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// registerRunFlags binds the run flags to fs, resetting each bound variable to its default.
func registerRunFlags(fs *pflag.FlagSet) {
	fs.StringSliceVar(&policies, "policy", []string{"all"}, "Policies to simulate: all, fcfs, sjf, psjf, priority, ppriority, rr")
	fs.Int64Var(&quantum, "quantum", sim.DefaultQuantum, "Round Robin time quantum (in ticks)")
	fs.Int64Var(&horizon, "horizon", 0, "Latest admissible event time (in ticks); 0 = the built-in limit")
	fs.IntVar(&maxEvents, "max-events", 0, "Maximum pending events before the run fails; 0 = unbounded")
	fs.StringVar(&traceLevel, "trace-level", "none", "Decision trace level (none, decisions)")
	fs.StringVar(&policyConfigPath, "policy-config", "", "YAML run configuration (policies, quantum, horizon, max_events, trace_level)")
	fs.StringVar(&logLevel, "log", "error", "Log level (trace, debug, info, warn, error, fatal, panic)")
	fs.BoolVar(&showGantt, "gantt", true, "Render the occupancy timeline for each policy")
	fs.BoolVar(&showTrace, "trace-summary", false, "Print a decision trace summary for each policy")

	// Workload sources
	fs.StringVar(&workloadSpecPath, "workload", "", "YAML workload file (explicit processes or generator ranges)")
	fs.StringVar(&csvPath, "csv", "", "CSV process list: pid,priority,arrival,cpu_burst,io_burst,io_request")
	fs.StringVar(&preset, "preset", "", "Named workload preset from the defaults file")
	fs.StringVar(&defaultsFilePath, "defaults", "defaults.yaml", "Path to the defaults file")
	fs.IntVar(&numProcesses, "num-processes", 5, "Number of processes for the built-in generator")
	fs.Int64Var(&seed, "seed", 42, "Seed for workload generation")
}

// init sets up CLI flags and subcommands
func init() {
	registerRunFlags(runCmd.Flags())
	policiesCmd.Flags().Int64Var(&quantum, "quantum", sim.DefaultQuantum, "Round Robin time quantum shown in the description")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(policiesCmd)
	rootCmd.AddCommand(generateCmd)
}
