package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"

	"github.com/reelmark/reelmark/internal/review"
	"github.com/reelmark/reelmark/internal/util"
	"github.com/reelmark/reelmark/pkg/core"
)

// splitScriptLine tokenizes one script line. Whitespace separates tokens, a
// double-quoted run is one token (quotes are kept; the command parsers undo
// them), a doubled quote inside a quoted run is an escaped quote, and '#'
// outside quotes starts a comment.
func splitScriptLine(line string) []string {
	var tokens []string
	var b strings.Builder
	inQuotes := false

	flush := func() {
		if b.Len() > 0 {
			tokens = append(tokens, b.String())
			b.Reset()
		}
	}

	runes := []rune(line)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case r == '"':
			if inQuotes && i+1 < len(runes) && runes[i+1] == '"' {
				b.WriteString(`""`)
				i++
				continue
			}
			inQuotes = !inQuotes
			b.WriteRune(r)
		case r == '#' && !inQuotes:
			flush()
			return tokens
		case unicode.IsSpace(r) && !inQuotes:
			flush()
		default:
			b.WriteRune(r)
		}
	}
	flush()
	return tokens
}

// runScript feeds a script to the dispatcher line by line. A failing
// command is reported and the script carries on, mirroring the per-file
// isolation of :LOAD:. :SHUTDOWN: ends the script early.
func runScript(rt *runtime, r io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(r)
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		tokens := splitScriptLine(scanner.Text())
		if len(tokens) == 0 {
			continue
		}

		command := tokens[0]
		result, err := rt.dispatch(command, tokens[1:]...)
		if err != nil {
			fmt.Fprintf(out, "line %d: %s %v\n", lineNo, command, err)
		}
		printResult(out, result)

		if command == review.CmdShutdown && err == nil {
			break
		}
	}

	return scanner.Err()
}

// printResult renders the outcomes a script author cares about; commands
// without a result stay silent.
func printResult(out io.Writer, result any) {
	switch v := result.(type) {
	case core.ReviewInfo:
		fmt.Fprintf(out, "review %s %q\n", v.ID, v.Title)
	case *review.LoadReport:
		for _, info := range v.Loaded {
			fmt.Fprintf(out, "loaded %s\n",
				util.FormatStreamLabel(info.ID, info.DisplayName, info.PlaybackSpeed))
		}
	case core.MarkedFrame:
		fmt.Fprintf(out, "marked stream %d at %.2fs\n", v.StreamID, v.TimeSeconds)
	case review.StatusReport:
		fmt.Fprintln(out, renderStatus(v))
	case string:
		fmt.Fprintln(out, v)
	}
}

// renderStatus formats a :STATUS: report as a stream table plus a mark
// count line.
func renderStatus(status review.StatusReport) string {
	rows := make([][]string, 0, len(status.Streams))
	for _, s := range status.Streams {
		rows = append(rows, []string{
			strconv.FormatUint(uint64(s.ID), 10),
			s.DisplayName,
			strconv.FormatFloat(s.AspectRatio, 'f', 2, 64),
			strconv.FormatFloat(s.PlaybackSpeed, 'f', 1, 64),
		})
	}

	table := renderTable([]string{"ID", "Stream", "Aspect", "Speed"}, rows)

	return fmt.Sprintf("review %q\n%s\n%d marks", status.Review.Title, table, status.Marks)
}
