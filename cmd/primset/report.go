package main

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/cyraxred/primset"
	"github.com/cyraxred/primset/yaml"
	"github.com/minio/highwayhash"
)

var hashKey = []byte{
	0x70, 0x72, 0x69, 0x6d, 0x73, 0x65, 0x74, 0x2d, 0x66, 0x69, 0x6e, 0x67, 0x65, 0x72, 0x70, 0x72,
	0x69, 0x6e, 0x74, 0x2d, 0x6b, 0x65, 0x79, 0x2d, 0x76, 0x31, 0x00, 0x00, 0x00, 0x00, 0x00, 0x01,
}

// fingerprint hashes the keys so that equal contents are recognizable across runs.
func fingerprint(keys []int64) uint64 {
	buffer := make([]byte, 8*len(keys))
	for i, key := range keys {
		binary.LittleEndian.PutUint64(buffer[8*i:], uint64(key))
	}
	return highwayhash.Sum64(buffer, hashKey)
}

func printHeader(writer io.Writer, command string) {
	fmt.Fprintln(writer, "primset:")
	fmt.Fprintf(writer, "  version: %d\n", primset.BinaryVersion)
	fmt.Fprintln(writer, "  hash:", primset.BinaryGitHash)
	fmt.Fprintln(writer, "  command:", command)
}

var statsColumns = []string{
	"trial", "len", "capacity", "frontier", "free", "height", "black_height",
	"compactions", "added", "removed", "time_ms",
}

func printBenchReport(writer io.Writer, report benchReport) {
	printHeader(writer, "bench")
	config := report.Config
	fmt.Fprintln(writer, "bench:")
	fmt.Fprintln(writer, "  trials:", config.Trials)
	fmt.Fprintln(writer, "  keys:", config.Keys)
	fmt.Fprintln(writer, "  ops:", config.Ops)
	fmt.Fprintln(writer, "  seed:", config.Seed)
	fmt.Fprintln(writer, "  coloring:", config.Coloring)
	fmt.Fprintln(writer, "  remove_ratio:", config.RemoveRatio)
	fmt.Fprintln(writer, "  run_time:", report.RunTime.Nanoseconds()/1e6)
	rows := make([][]int64, len(report.Trials))
	for i, trial := range report.Trials {
		stats := trial.Stats
		rows[i] = []int64{
			int64(trial.Trial), int64(stats.Len), int64(stats.Capacity), int64(stats.Frontier),
			int64(stats.Free), int64(stats.Height), int64(stats.BlackHeight),
			int64(stats.Compactions), int64(trial.Added), int64(trial.Removed),
			trial.Duration.Nanoseconds() / 1e6,
		}
	}
	yaml.PrintTable(writer, statsColumns, rows, 2, "stats")
	fmt.Fprintln(writer, "  fingerprints:")
	for _, trial := range report.Trials {
		fmt.Fprintf(writer, "    - \"%016x\"\n", trial.Fingerprint)
	}
	var failed []trialResult
	for _, trial := range report.Trials {
		if trial.Error != "" {
			failed = append(failed, trial)
		}
	}
	if len(failed) > 0 {
		fmt.Fprintln(writer, "  errors:")
		for _, trial := range failed {
			fmt.Fprintf(writer, "    %d: %s\n", trial.Trial, yaml.SafeString(trial.Error))
		}
	}
}

func printSortReport(writer io.Writer, report sortReport, perLine int) {
	printHeader(writer, "sort")
	fmt.Fprintln(writer, "sort:")
	fmt.Fprintln(writer, "  source:", yaml.SafeString(report.Source))
	fmt.Fprintln(writer, "  read:", report.Read)
	fmt.Fprintln(writer, "  duplicates:", report.Duplicates)
	fmt.Fprintln(writer, "  coloring:", report.Coloring)
	fmt.Fprintln(writer, "  height:", report.Stats.Height)
	fmt.Fprintln(writer, "  black_height:", report.Stats.BlackHeight)
	fmt.Fprintf(writer, "  fingerprint: \"%016x\"\n", fingerprint(report.Keys))
	fmt.Fprint(writer, "  keys: ")
	yaml.PrintInts(writer, report.Keys, 9, perLine)
}
