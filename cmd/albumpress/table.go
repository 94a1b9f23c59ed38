package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"albumpress/internal/batch"
	"albumpress/internal/config"
)

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

func renderTable(headers []string, rows [][]string, aligns []columnAlignment) string {
	return renderTitledTable("", headers, rows, aligns)
}

func renderTitledTable(title string, headers []string, rows [][]string, aligns []columnAlignment) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	if title != "" {
		tw.SetTitle(title)
	}

	header := make(table.Row, columns)
	for i := 0; i < columns; i++ {
		header[i] = headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := 0; i < columns; i++ {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	columnConfigs := make([]table.ColumnConfig, 0, columns)
	for i := 0; i < columns; i++ {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == alignRight {
			align = text.AlignRight
		}
		columnConfigs = append(columnConfigs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(columnConfigs)

	return tw.Render()
}

// renderSummary prints the end-of-run counters.
func renderSummary(run config.Run, stats batch.Stats) string {
	rows := [][]string{
		{"File Count", count(stats.Total)},
		{"Processed", count(stats.Processed)},
		{"Ignored", count(stats.Ignored)},
		{"Keep", count(stats.KeptOriginal)},
		{"Failed", count(stats.Failed)},
	}
	if stats.Canceled {
		rows = append(rows, []string{"Not started", count(stats.NotStarted)})
	}
	rows = append(rows,
		[]string{"Threads", fmt.Sprintf("%d (peak %d)", run.Threads, stats.PeakInFlight)},
		[]string{"Elapsed", formatElapsed(stats.Elapsed)},
		[]string{"Run ID", stats.RunID},
	)
	title := "Summary"
	if stats.Canceled {
		title = "Summary (interrupted)"
	}
	return renderTitledTable(title, []string{"Item", "Value"}, rows, []columnAlignment{alignLeft, alignRight})
}

func count(n int64) string {
	return humanize.Comma(n)
}

func formatElapsed(d time.Duration) string {
	if d < time.Second {
		return d.Round(time.Millisecond).String()
	}
	return d.Round(time.Second).String()
}

func formatSize(n int64) string {
	if n <= 0 {
		return "-"
	}
	return humanize.IBytes(uint64(n))
}

func shortID(id string) string {
	if i := strings.IndexByte(id, '-'); i > 0 {
		return id[:i]
	}
	return id
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
