package yaml

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// SafeString returns a string which is sufficiently quoted and escaped for YAML.
func SafeString(str string) string {
	str = strings.Replace(str, "\\", "\\\\", -1)
	str = strings.Replace(str, "\"", "\\\"", -1)
	return "\"" + str + "\""
}

// PrintTable outputs a rectangular integer table as a YAML literal block with
// the column names in the first line. Every column is right-aligned.
//
// `indent` is the current YAML indentation level - the number of spaces.
// `name` is the name of the YAML block.
func PrintTable(writer io.Writer, columns []string, rows [][]int64, indent int, name string) {
	widths := make([]int, len(columns))
	for i, column := range columns {
		widths[i] = len(column)
	}
	for _, row := range rows {
		for i, val := range row {
			if i >= len(widths) {
				break
			}
			if w := len(strconv.FormatInt(val, 10)); w > widths[i] {
				widths[i] = w
			}
		}
	}
	fmt.Fprintf(writer, "%s%s: |-\n", strings.Repeat(" ", indent), SafeString(name))
	prefix := strings.Repeat(" ", indent+2)
	fmt.Fprint(writer, prefix)
	for i, column := range columns {
		if i > 0 {
			fmt.Fprint(writer, " ")
		}
		fmt.Fprintf(writer, "%[1]*[2]s", widths[i], column)
	}
	fmt.Fprintln(writer)
	for _, row := range rows {
		fmt.Fprint(writer, prefix)
		for i := range columns {
			var val int64
			if i < len(row) {
				val = row[i]
			}
			if i > 0 {
				fmt.Fprint(writer, " ")
			}
			fmt.Fprintf(writer, "%[1]*[2]d", widths[i], val)
		}
		fmt.Fprintln(writer)
	}
}

// PrintInts outputs a flow sequence of integers, wrapping the lines after
// `perLine` values. `indent` is the indentation of the continuation lines.
func PrintInts(writer io.Writer, values []int64, indent, perLine int) {
	if len(values) == 0 {
		fmt.Fprintln(writer, "[]")
		return
	}
	if perLine <= 0 {
		perLine = len(values)
	}
	fmt.Fprint(writer, "[")
	for i, val := range values {
		if i > 0 {
			if i%perLine == 0 {
				fmt.Fprintf(writer, ",\n%s", strings.Repeat(" ", indent))
			} else {
				fmt.Fprint(writer, ", ")
			}
		}
		fmt.Fprint(writer, strconv.FormatInt(val, 10))
	}
	fmt.Fprintln(writer, "]")
}
