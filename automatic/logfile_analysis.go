package automatic

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/nutok/nutok/stats"
)

// AnalyzeLogFile reads a run log written from Run's CSV lines and spits
// out a few statistics about it.
func AnalyzeLogFile(filepath string) (string, error) {
	file, err := os.Open(filepath)
	if err != nil {
		return "", err
	}
	defer file.Close()
	r := csv.NewReader(file)

	// Record looks like:
	// game,order,seed,placements,left,hash
	placements := &stats.Statistic{}
	left := &stats.Statistic{}
	var bestGame, bestSeed string
	complete := 0
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
		if record[0] == "game" {
			// this is the header line
			continue
		}
		p, err := strconv.Atoi(record[3])
		if err != nil {
			return "", err
		}
		l, err := strconv.Atoi(record[4])
		if err != nil {
			return "", err
		}
		if placements.Iterations() == 0 || float64(p) > placements.Max() {
			bestGame, bestSeed = record[0], record[2]
		}
		placements.Push(float64(p))
		left.Push(float64(l))
		if l == 0 {
			complete++
		}
	}
	if placements.Iterations() == 0 {
		return "", fmt.Errorf("%s: no games found", filepath)
	}

	games := placements.Iterations()
	s := fmt.Sprintf("Games played: %d\n", games)
	s += fmt.Sprintf("Stack emptied: %d (%.3f%%)\n", complete, 100.0*float64(complete)/float64(games))
	s += fmt.Sprintf("Placements Mean: %.6f  Stdev: %.6f  Stderr: %.6f\n",
		placements.Mean(), placements.Stdev(), placements.StandardError())
	s += fmt.Sprintf("Left Mean: %.6f  Stdev: %.6f\n", left.Mean(), left.Stdev())
	s += fmt.Sprintf("Best: game %s (seed %s) with %.0f placements\n", bestGame, bestSeed, placements.Max())
	return s, nil
}
