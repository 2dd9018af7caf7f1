package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/mattn/go-runewidth"

	"github.com/donaldgifford/device-compare/internal/compare"
	"github.com/donaldgifford/device-compare/pkg/normalize"
	domain "github.com/donaldgifford/device-compare/pkg/types"
)

const timeLayout = "2006-01-02 15:04:05"

// tabWriter wraps tabwriter with error tracking.
type tabWriter struct {
	*tabwriter.Writer
	err error
}

func newTabWriter(w io.Writer) *tabWriter {
	return &tabWriter{Writer: tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)}
}

func (tw *tabWriter) writef(format string, args ...any) {
	if tw.err != nil {
		return
	}
	_, tw.err = fmt.Fprintf(tw.Writer, format, args...)
}

func (tw *tabWriter) finish() error {
	if tw.err != nil {
		return tw.err
	}
	return tw.Flush()
}

func printProductsTable(w io.Writer, products []domain.Product) error {
	tw := newTabWriter(w)
	tw.writef("ID\tNAME\tPRICE\tSCORE\tRATING\tBADGE\n")
	for i := range products {
		p := &products[i]
		tw.writef("%s\t%s\t%s\t%d\t%.1f\t%s\n",
			p.ID,
			truncate(p.Name, 32),
			normalize.FormatINR(p.Price),
			p.BeebomScore,
			p.Rating,
			p.Highlight,
		)
	}
	return tw.finish()
}

func printProductDetail(w io.Writer, p *domain.Product) error {
	tw := newTabWriter(w)
	tw.writef("ID:\t%s\n", p.ID)
	tw.writef("Name:\t%s\n", p.Name)
	tw.writef("Price:\t%s (was %s)\n", normalize.FormatINR(p.Price), normalize.FormatINR(p.OldPrice))
	tw.writef("Score:\t%d/100 %s\n", p.BeebomScore, p.Highlight)
	tw.writef("Rating:\t%.1f/5 (%s)\n", p.Rating, p.Reviews)
	tw.writef("Launched:\t%s\n", p.LaunchDate)
	tw.writef("Processor:\t%s\n", p.Specs.Processor)
	tw.writef("Display:\t%s\n", p.Specs.Display)
	tw.writef("Memory:\t%s / %s\n", p.Specs.RAM, p.Specs.Storage)
	tw.writef("Battery:\t%s\n", p.Specs.Battery)
	for _, offer := range p.PriceComparison {
		tw.writef("Offer:\t%s %s\n", offer.Retailer, normalize.FormatINR(offer.Price))
	}
	if p.ExpertData != nil {
		tw.writef("Experts:\t%.1f/5 from %d reviews\n", p.ExpertData.AverageScore, p.ExpertData.Count)
	}
	return tw.finish()
}

func printCompareTable(w io.Writer, t *compare.Table) error {
	tw := newTabWriter(w)
	tw.writef(" ")
	for _, col := range t.Columns {
		tw.writef("\t%s", truncate(col.Name, 24))
	}
	tw.writef("\n")
	for _, cat := range t.Categories {
		tw.writef("[%s]\n", cat.Title)
		for _, row := range cat.Rows {
			marker := " "
			if row.Differs {
				marker = "*"
			}
			tw.writef("%s %s", marker, row.Label)
			for _, v := range row.Values {
				tw.writef("\t%s", truncate(v, 24))
			}
			tw.writef("\n")
		}
	}
	return tw.finish()
}

func printAffiliatesTable(w io.Writer, statuses []domain.AffiliateStatus) error {
	tw := newTabWriter(w)
	tw.writef("ID\tNAME\tAMAZON\tFLIPKART\n")
	for i := range statuses {
		s := &statuses[i]
		tw.writef("%s\t%s\t%s\t%s\n", s.ID, truncate(s.Name, 32), linkState(s.Amazon), linkState(s.Flipkart))
	}
	return tw.finish()
}

func printJobRunsTable(w io.Writer, runs []domain.JobRun) error {
	tw := newTabWriter(w)
	tw.writef("JOB\tSTATUS\tSTARTED\tCOMPLETED\tPRODUCTS\tERROR\n")
	for i := range runs {
		r := &runs[i]
		completed := "-"
		if r.CompletedAt != nil {
			completed = r.CompletedAt.Format(timeLayout)
		}
		rows := "-"
		if r.RowsAffected != nil {
			rows = strconv.Itoa(*r.RowsAffected)
		}
		tw.writef("%s\t%s\t%s\t%s\t%s\t%s\n",
			r.JobName,
			r.Status,
			r.StartedAt.Format(timeLayout),
			completed,
			rows,
			truncate(r.ErrorText, 40),
		)
	}
	return tw.finish()
}

func linkState(link string) string {
	if link == "" {
		return "missing"
	}
	return "ok"
}

func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// truncate shortens s to at most width terminal cells. Device names carry
// wide glyphs, so widths are measured in cells rather than bytes.
func truncate(s string, width int) string {
	return runewidth.Truncate(s, width, "...")
}
