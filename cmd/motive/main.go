package main

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/nareth/motive/internal/clock"
	"github.com/nareth/motive/internal/config"
	"github.com/nareth/motive/internal/spring"
	"github.com/nareth/motive/internal/trace"
	"github.com/nareth/motive/internal/tui"
	"github.com/nareth/motive/internal/vec"
)

var (
	from       string
	to         string
	frequency  float64
	damping    float64
	dt         float64
	maxTime    float64
	frameRate  int
	preset     string
	configFile string
	format     string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "motive",
		Short: "spring-based motion animation",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := buildConfig(cmd)
			if err != nil {
				return err
			}
			return tui.Run(cfg)
		},
	}

	rootCmd.PersistentFlags().StringVar(&from, "from", "0", "initial value (comma-separated components)")
	rootCmd.PersistentFlags().StringVar(&to, "to", "1", "target value (comma-separated components)")
	rootCmd.PersistentFlags().Float64Var(&frequency, "frequency", config.DefaultFrequency, "oscillation rate, cycles per second")
	rootCmd.PersistentFlags().Float64Var(&damping, "damping", config.DefaultDamping, "damping ratio (<1 bounces, 1 critical, >1 drags)")
	rootCmd.PersistentFlags().Float64Var(&dt, "dt", config.DefaultDt, "timestep in seconds")
	rootCmd.PersistentFlags().Float64Var(&maxTime, "time", config.DefaultMaxTime, "simulated-time budget")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "tuning preset (see 'motive presets')")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "animate to convergence and plot the trajectory",
		RunE:  runAnimation,
	}

	exportCmd := &cobra.Command{
		Use:   "export [file]",
		Short: "animate to convergence and export the trace",
		Args:  cobra.MaximumNArgs(1),
		RunE:  exportAnimation,
	}
	exportCmd.Flags().StringVar(&format, "format", "csv", "export format: csv or json")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "interactive terminal animation",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := buildConfig(cmd)
			if err != nil {
				return err
			}
			return tui.Run(cfg)
		},
	}
	liveCmd.Flags().IntVar(&frameRate, "fps", config.DefaultFrameRate, "frames per second")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list tuning presets",
		Run: func(cmd *cobra.Command, args []string) {
			listPresets()
		},
	}

	initCmd := &cobra.Command{
		Use:   "init [file]",
		Short: "write a default config file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "motive.yaml"
			if len(args) > 0 {
				path = args[0]
			}
			if err := config.Save(path, config.DefaultConfig()); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", path)
			return nil
		},
	}

	rootCmd.AddCommand(runCmd, exportCmd, liveCmd, presetsCmd, initCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	var cfg *config.Config
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	} else {
		cfg = config.DefaultConfig()
		cfg.Frequency = frequency
		cfg.Damping = damping
		cfg.Dt = dt
		cfg.MaxTime = maxTime

		var err error
		if cfg.From, err = parseComponents(from); err != nil {
			return nil, err
		}
		if cfg.To, err = parseComponents(to); err != nil {
			return nil, err
		}
	}

	if cmd.Flags().Changed("fps") {
		cfg.FrameRate = frameRate
	}
	if preset != "" {
		if !cfg.ApplyPreset(preset) {
			return nil, fmt.Errorf("unknown preset %q", preset)
		}
	}

	return cfg, cfg.Validate()
}

func parseComponents(s string) ([]float64, error) {
	parts := strings.Split(s, ",")
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("bad component %q: %w", p, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// animate runs one spring to convergence on a fixed-step clock and returns
// the recording.
func animate(cfg *config.Config) (*trace.Recorder, *spring.Spring, error) {
	initial, err := vec.FromSlice(cfg.From)
	if err != nil {
		return nil, nil, err
	}
	target, err := vec.FromSlice(cfg.To)
	if err != nil {
		return nil, nil, err
	}

	clk := clock.NewFixedStep(cfg.Dt)
	s, err := spring.New(clk, initial,
		spring.WithFrequency(cfg.Frequency),
		spring.WithDamping(cfg.Damping))
	if err != nil {
		return nil, nil, err
	}

	rec := trace.NewRecorder(cfg.Dt)
	rec.Attach(s)

	if err := s.SetTarget(target); err != nil {
		return nil, nil, err
	}
	clk.RunUntil(func() bool { return !s.Active() }, cfg.MaxTime)

	return rec, s, nil
}

func runAnimation(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	rec, s, err := animate(cfg)
	if err != nil {
		return err
	}

	for i := 0; i < s.Kind().Dim(); i++ {
		fmt.Println(rec.Plot(i, 12, 72))
		fmt.Println()
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
	fmt.Fprintf(w, "frequency\t%.3f\n", s.Frequency())
	fmt.Fprintf(w, "damping\t%.3f\t(%s)\n", s.Damping(), regime(s.Damping()))
	fmt.Fprintf(w, "steps\t%d\n", rec.Len())
	fmt.Fprintf(w, "settled\t%v\n", !s.Active())
	fmt.Fprintf(w, "final value\t%s\n", s.Value())
	fmt.Fprintf(w, "simulated time\t%.3fs\n", rec.Duration())
	return w.Flush()
}

func regime(damping float64) string {
	switch {
	case damping < 1:
		return "underdamped"
	case damping == 1:
		return "critically damped"
	default:
		return "overdamped"
	}
}

// checkFormat rejects unknown export formats up front so stdout and file
// destinations behave the same.
func checkFormat(format string) error {
	switch format {
	case "csv", "json":
		return nil
	default:
		return fmt.Errorf("unknown format %q (want csv or json)", format)
	}
}

func exportAnimation(cmd *cobra.Command, args []string) error {
	if err := checkFormat(format); err != nil {
		return err
	}
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	rec, s, err := animate(cfg)
	if err != nil {
		return err
	}

	if len(args) == 0 {
		if format == "json" {
			return rec.ExportJSON(os.Stdout, s.Frequency(), s.Damping())
		}
		return rec.ExportCSV(os.Stdout)
	}

	path := args[0]
	if format == "json" {
		err = rec.ExportJSONFile(path, s.Frequency(), s.Damping())
	} else {
		err = rec.ExportCSVFile(path)
	}
	if err != nil {
		return err
	}
	fmt.Printf("wrote %s (%d samples)\n", path, rec.Len())
	return nil
}

func listPresets() {
	names := config.ListPresets()
	sort.Strings(names)

	w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
	fmt.Fprintln(w, "name\tfrequency\tdamping\tcharacter")
	for _, name := range names {
		t, _ := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%.2f\t%.2f\t%s\n", name, t.Frequency, t.Damping, regime(t.Damping))
	}
	w.Flush()
}
