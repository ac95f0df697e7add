package main

import (
	"bufio"
	"io"
	"os"
	"strconv"

	"github.com/cyraxred/primset"
	"github.com/gogo/protobuf/sortkeys"
	"github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// sortReport describes a set loaded from an arbitrary sequence.
type sortReport struct {
	Source     string
	Read       int
	Duplicates int
	Coloring   primset.Coloring
	Stats      primset.Stats
	Keys       []int64
}

// readKeys parses whitespace-separated decimal integers.
func readKeys(reader io.Reader) ([]int64, error) {
	scanner := bufio.NewScanner(reader)
	scanner.Split(bufio.ScanWords)
	var keys []int64
	for scanner.Scan() {
		key, err := strconv.ParseInt(scanner.Text(), 10, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "value #%d", len(keys)+1)
		}
		keys = append(keys, key)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return keys, nil
}

// dedupSorted removes the repeated neighbors in place.
func dedupSorted(keys []int64) []int64 {
	if len(keys) == 0 {
		return keys
	}
	unique := keys[:1]
	for _, key := range keys[1:] {
		if key != unique[len(unique)-1] {
			unique = append(unique, key)
		}
	}
	return unique
}

// sortKeys sorts the keys, drops the duplicates and builds a set from the rest.
func sortKeys(source string, keys []int64, coloring primset.Coloring) (sortReport, error) {
	report := sortReport{Source: source, Read: len(keys), Coloring: coloring}
	sortkeys.Int64s(keys)
	unique := dedupSorted(keys)
	report.Duplicates = len(keys) - len(unique)
	set, err := primset.FromSortedUnique(unique, coloring)
	if err != nil {
		return report, err
	}
	if err = set.Verify(); err != nil {
		return report, err
	}
	report.Stats = set.Stats()
	report.Keys = set.ToSortedArray()
	return report, nil
}

// sortCmd loads a sequence of integers in bulk
var sortCmd = &cobra.Command{
	Use:   "sort [FILE]",
	Short: "Sort and deduplicate integers through a bulk-built set.",
	Long: `Reads whitespace-separated 64-bit integers from FILE or from stdin, sorts them,
drops the duplicates, builds a set from the rest in linear time and prints it.`,
	Args: cobra.MaximumNArgs(1),
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
		source := "-"
		var input io.Reader = cmd.InOrStdin()
		if len(args) == 1 && args[0] != "-" {
			source, err = homedir.Expand(args[0])
			if err != nil {
				return err
			}
			file, err := os.Open(source)
			if err != nil {
				return err
			}
			defer file.Close()
			input = file
		}
		keys, err := readKeys(input)
		if err != nil {
			return errors.Wrapf(err, "failed to read %s", source)
		}
		report, err := sortKeys(source, keys, coloring)
		if err != nil {
			return err
		}
		if templateText != "" {
			return tmpl(cmd.OutOrStdout(), templateText, report)
		}
		printSortReport(cmd.OutOrStdout(), report, v.GetInt("per-line"))
		return nil
	},
}

func init() {
	flags := sortCmd.Flags()
	flags.Int("per-line", 16, "Number of keys in each line of the output.")
	addCommonFlags(flags)
	if err := sortCmd.MarkFlagFilename("template"); err != nil {
		panic(err)
	}
}
