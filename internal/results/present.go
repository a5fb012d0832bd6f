package results

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/dekarrin/rosed"

	"github.com/dekarrin/quicksc/internal/determinize"
)

const tableWidth = 80

// Table renders the aggregate statistics of all collected results as a
// sequence of text tables, one for the benchmark solution and one per
// algorithm.
func (c *Collector) Table() string {
	out := fmt.Sprintf("Session %s, %d testcases\n", c.sessionID, c.Len())

	solNames, solMetrics := c.SolutionMetrics()
	out += "\nSolution:\n"
	out += c.metricTable(solNames, solMetrics)

	for _, algo := range c.algorithms {
		out += fmt.Sprintf("\n%s (success: %.1f%%):\n", algo.Name(), c.SuccessPercentage(algo.Abbr())*100)

		algoNames, algoMetrics := c.AlgorithmMetrics(algo.Abbr())
		out += c.metricTable(algoNames, algoMetrics)

		runtimeNames, runtimeMetrics := c.runtimeMetrics(algo)
		if len(runtimeNames) > 0 {
			out += c.metricTable(runtimeNames, runtimeMetrics)
		}
	}

	return out
}

// runtimeMetrics returns one metric per runtime stat the algorithm reports,
// in the algorithm's own order.
func (c *Collector) runtimeMetrics(algo determinize.Algorithm) ([]string, map[string]Metric) {
	abbr := algo.Abbr()

	var names []string
	metrics := map[string]Metric{}
	for _, stat := range algo.RuntimeStatsList() {
		stat := stat
		names = append(names, string(stat))
		metrics[string(stat)] = func(r *Result) float64 {
			return r.RuntimeStats[abbr][stat]
		}
	}

	return names, metrics
}

func (c *Collector) metricTable(names []string, metrics map[string]Metric) string {
	data := [][]string{
		{"METRIC", "MIN", "AVG", "MAX", "DEV"},
	}

	for _, name := range names {
		sum := c.Summarize(metrics[name])
		data = append(data, []string{
			name,
			formatStat(sum.Min),
			formatStat(sum.Avg),
			formatStat(sum.Max),
			formatStat(sum.Dev),
		})
	}

	return rosed.Edit("").
		InsertTableOpts(0, data, tableWidth, rosed.Options{
			TableHeaders:             true,
			NoTrailingLineSeparators: true,
		}).
		String() + "\n"
}

func formatStat(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}

// CSVHeader returns the column names of the CSV log: the session metadata
// followed by the min, avg, max, and dev of every metric.
func (c *Collector) CSVHeader() []string {
	header := []string{"session", "testcases"}

	appendCols := func(prefix string, names []string) {
		for _, name := range names {
			header = append(header,
				prefix+name+" min",
				prefix+name+" avg",
				prefix+name+" max",
				prefix+name+" dev",
			)
		}
	}

	solNames, _ := c.SolutionMetrics()
	appendCols("", solNames)

	for _, algo := range c.algorithms {
		algoNames, _ := c.AlgorithmMetrics(algo.Abbr())
		appendCols(algo.Abbr()+" ", algoNames)

		runtimeNames, _ := c.runtimeMetrics(algo)
		appendCols(algo.Abbr()+" ", runtimeNames)
	}

	return header
}

// CSVRecord returns one CSV row of aggregate statistics for the collected
// results, in the same column order as CSVHeader.
func (c *Collector) CSVRecord() []string {
	record := []string{c.sessionID.String(), strconv.Itoa(c.Len())}

	appendSums := func(names []string, metrics map[string]Metric) {
		for _, name := range names {
			sum := c.Summarize(metrics[name])
			record = append(record,
				formatStat(sum.Min),
				formatStat(sum.Avg),
				formatStat(sum.Max),
				formatStat(sum.Dev),
			)
		}
	}

	solNames, solMetrics := c.SolutionMetrics()
	appendSums(solNames, solMetrics)

	for _, algo := range c.algorithms {
		algoNames, algoMetrics := c.AlgorithmMetrics(algo.Abbr())
		appendSums(algoNames, algoMetrics)

		runtimeNames, runtimeMetrics := c.runtimeMetrics(algo)
		appendSums(runtimeNames, runtimeMetrics)
	}

	return record
}

// WriteCSV appends the aggregate statistics to w as a CSV row. If withHeader
// is set, the column names are written first.
func (c *Collector) WriteCSV(w io.Writer, withHeader bool) error {
	cw := csv.NewWriter(w)

	if withHeader {
		if err := cw.Write(c.CSVHeader()); err != nil {
			return fmt.Errorf("could not write CSV header: %w", err)
		}
	}
	if err := cw.Write(c.CSVRecord()); err != nil {
		return fmt.Errorf("could not write CSV record: %w", err)
	}

	cw.Flush()
	return cw.Error()
}
