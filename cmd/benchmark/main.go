package main

import (
	"bytes"
	"encoding/csv"
	"flag"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/limaJavier/touist/pkg/logging"
	"github.com/limaJavier/touist/pkg/solve"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
)

const (
	KB         = 1024
	MB float32 = 1024 * 1024
)

type ResultType int

const (
	satisfiable ResultType = iota
	unsatisfiable
	failed
)

var resultTypes = map[ResultType]string{
	satisfiable:   "satisfiable",
	unsatisfiable: "unsatisfiable",
	failed:        "failed",
}

var logger = logging.NewLogger("benchmark")

type TestMetadata struct {
	Name      string
	Variables uint64
	Clauses   int
}

type BenchmarkResult struct {
	Backend       string
	Test          TestMetadata
	Models        int
	Duration      int64
	Memory        float32
	CpuPercentage int64
	Result        ResultType
}

func main() {
	executablePtr := flag.String("executable", "./bin/touist", "Path to the touist executable")
	directoryPtr := flag.String("dir", "testdata", "Directory holding the instances to benchmark")
	backendsPtr := flag.String("backends", strings.Join(solve.Backends(), ","), "Comma separated backends to benchmark")
	limitPtr := flag.Int("limit", 0, "Stop each run after this many models; 0 enumerates all of them")
	outPtr := flag.String("out", "benchmark_results.csv", "Path of the CSV report")
	flag.Parse()

	tests := getTests(*directoryPtr)
	backends := lo.Filter(strings.Split(*backendsPtr, ","), func(backend string, _ int) bool {
		if !solve.IsBackend(backend) {
			logger.Warnf("skipping unknown backend %q", backend)
			return false
		}
		return true
	})
	results := make([]BenchmarkResult, 0, len(tests)*len(backends))

	for _, test := range tests {
		for _, backend := range backends {
			logger.WithFields(logrus.Fields{"test": test.Name, "backend": backend}).Info("benchmarking")

			result := measure(*executablePtr, backend, *limitPtr, test)
			results = append(results, result)
		}
	}

	toCsv(*outPtr, results)
}

func getTests(directory string) []TestMetadata {
	testFiles, err := os.ReadDir(directory)
	if err != nil {
		logger.Fatalf("cannot read directory: %v", err)
	}

	tests := make([]TestMetadata, 0, len(testFiles))
	for _, file := range testFiles {
		if file.IsDir() {
			continue
		}
		filename := filepath.Join(directory, file.Name())
		instance, err := solve.LoadInstance(filename, solve.FormatAuto)
		if err != nil {
			logger.WithError(err).Warnf("skipping %s", filename)
			continue
		}

		tests = append(tests, TestMetadata{
			Name:      filename,
			Variables: instance.Variables,
			Clauses:   len(instance.Clauses),
		})
	}
	return tests
}

func measure(executable, backend string, limit int, test TestMetadata) BenchmarkResult {
	cmd := exec.Command("/usr/bin/time", "-v", executable, "solve", "--backend", backend, "--limit", strconv.Itoa(limit), test.Name)

	var stdOut bytes.Buffer
	cmd.Stdout = &stdOut
	var stdErr bytes.Buffer
	cmd.Stderr = &stdErr

	result := BenchmarkResult{Backend: backend, Test: test}
	if err := cmd.Run(); cmd.ProcessState == nil {
		logger.Fatalf("cannot run /usr/bin/time: %v", err)
	}
	switch cmd.ProcessState.ExitCode() {
	case 10:
		result.Result = satisfiable
		result.Models = countModels(stdOut.String())
	case 20:
		result.Result = unsatisfiable
	default:
		logger.Errorf("touist failed on %q with backend %q: %v", test.Name, backend, stdErr.String())
		result.Result = failed
		return result
	}

	splits := strings.Split(stdErr.String(), "\n")
	getLine := func(substr string) string {
		line, ok := lo.Find(splits, func(line string) bool {
			return strings.Contains(strings.ToLower(line), substr)
		})
		if !ok {
			logger.Fatalf("Substring \"%v\" could not be found", substr)
		}
		return line
	}

	result.Duration = parseDurationLine(getLine("wall clock"))
	result.Memory = parseMemoryLine(getLine("maximum resident set size"))
	result.CpuPercentage = parseCpuPercentageLine(getLine("percent of cpu"))
	return result
}

// countModels counts the models in the output of "touist solve".
func countModels(output string) int {
	if strings.TrimSpace(output) == "" {
		return 0
	}
	return strings.Count(output, "=====\n") + 1
}

func toCsv(path string, results []BenchmarkResult) {
	file, err := os.Create(path)
	if err != nil {
		logger.Panicf("cannot create CSV file: %v", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{"Backend", "Test", "Variables", "Clauses", "Models", "Duration(ms)", "Memory(MB)", "CPU(%)", "Result"}
	if err := writer.Write(header); err != nil {
		logger.Panicf("cannot write CSV header: %v", err)
	}

	for _, result := range results {
		record := []string{
			result.Backend,
			result.Test.Name,
			fmt.Sprintf("%d", result.Test.Variables),
			fmt.Sprintf("%d", result.Test.Clauses),
			fmt.Sprintf("%d", result.Models),
			fmt.Sprintf("%d", result.Duration),
			fmt.Sprintf("%.1f", result.Memory),
			fmt.Sprintf("%d", result.CpuPercentage),
			resultTypes[result.Result],
		}
		if err := writer.Write(record); err != nil {
			logger.Panicf("cannot write CSV record: %v", err)
		}
	}
}

func parseDurationLine(line string) int64 {
	durationStr := strings.Split(line, "(h:mm:ss or m:ss):")[1][1:]
	return parseDuration(durationStr)
}

func parseDuration(durationStr string) int64 {
	parts := strings.Split(durationStr, ":")
	secondsStr := parts[len(parts)-1]
	secondsParts := strings.Split(secondsStr, ".")

	var duration int64
	if len(parts) == 3 { // h:mm:ss
		hours := lo.Must(strconv.Atoi(parts[0]))
		minutes := lo.Must(strconv.Atoi(parts[1]))
		seconds := lo.Must(strconv.Atoi(secondsParts[0]))
		hundredthOfSeconds := lo.Must(strconv.Atoi(secondsParts[1]))
		duration = int64(hours*3600+minutes*60+seconds)*1000 + int64(hundredthOfSeconds*10)
	} else if len(parts) == 2 { // m:ss
		minutes := lo.Must(strconv.Atoi(parts[0]))
		seconds := lo.Must(strconv.Atoi(secondsParts[0]))
		hundredthOfSeconds := lo.Must(strconv.Atoi(secondsParts[1]))
		duration = int64(minutes*60+seconds)*1000 + int64(hundredthOfSeconds*10)
	} else {
		logger.Fatalf("unexpected duration format: %v", durationStr)
	}
	return duration
}

// parseMemoryLine converts the maximum resident set size from KB to MB.
func parseMemoryLine(line string) float32 {
	memoryStr := strings.Split(line, ":")[1][1:]
	return float32(lo.Must(strconv.ParseFloat(memoryStr, 32))) * KB / MB
}

func parseCpuPercentageLine(line string) int64 {
	percentageStr := strings.Split(line, ":")[1][1:]
	percentageStr = percentageStr[:len(percentageStr)-1]
	return int64(lo.Must(strconv.Atoi(percentageStr)))
}
