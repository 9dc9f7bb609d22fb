package main

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/lunfardo314/sestring"
	"github.com/lunfardo314/sestring/pipeline"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check <file>",
	Short: "Decode every hex line of the file and verify the round trip",
	Long: `Each non-empty line not starting with '#' is a hex encoded string.
Fails if any line does not decode or does not re-encode to the same bytes.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := loadEnvironment(cmd)
		if err != nil {
			return err
		}
		inputs, err := readHexLines(args[0])
		if err != nil {
			return err
		}
		var newContext pipeline.ContextFunc
		if doResolve, _ := cmd.Flags().GetBool("resolve"); doResolve {
			newContext = func(_ uint64) (*sestring.Context, error) {
				return env.newContext()
			}
		}
		failed := 0
		out := cmd.OutOrStdout()
		registry := prometheus.NewRegistry()
		p := pipeline.New(env.log, newContext, func(r *pipeline.Result) {
			if r.Err != nil || !r.RoundTrip {
				failed++
			}
			fmt.Fprintf(out, "%s round trip: %v\n", r, r.Err == nil && r.RoundTrip)
		}, pipeline.WithMetrics(pipeline.NewMetrics(registry)))
		p.Start()
		for _, data := range inputs {
			p.Process(data)
		}
		p.Stop()
		p.Wait()

		env.log.Infof("%s", p.Stats())
		if showMetrics, _ := cmd.Flags().GetBool("metrics"); showMetrics {
			if err = printCounters(out, registry); err != nil {
				return err
			}
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d strings failed", failed, len(inputs))
		}
		return nil
	},
}

func init() {
	checkCmd.Flags().Bool("resolve", false, "also resolve strings using sheets from the config")
	checkCmd.Flags().Bool("metrics", false, "print pipeline counters")
	rootCmd.AddCommand(checkCmd)
}

// printCounters prints every counter of the registry as 'name{label=value,...} count'
func printCounters(w io.Writer, registry *prometheus.Registry) error {
	families, err := registry.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			labels := make([]string, 0, len(m.GetLabel()))
			for _, l := range m.GetLabel() {
				labels = append(labels, l.GetName()+"="+l.GetValue())
			}
			fmt.Fprintf(w, "%s{%s} %v\n", mf.GetName(), strings.Join(labels, ","), m.GetCounter().GetValue())
		}
	}
	return nil
}

func readHexLines(path string) ([][]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	ret := make([][]byte, 0)
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		data, err := hex.DecodeString(line)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", path, lineNo, err)
		}
		ret = append(ret, data)
	}
	return ret, scanner.Err()
}
