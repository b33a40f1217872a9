package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/dealwarden/dealwarden/internal/itad"
	domain "github.com/dealwarden/dealwarden/pkg/types"
)

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

func printGamesTable(games []domain.Game) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("ID\tTITLE\tTHRESHOLD\tHISTORY LOW\tITAD ID\n")
	for i := range games {
		g := &games[i]
		low := "-"
		if g.HistoryLow != nil {
			low = fmt.Sprintf("$%.2f (%s)", *g.HistoryLow, g.HistoryLowStore)
		}
		itadID := "-"
		if g.ExternalID != nil {
			itadID = *g.ExternalID
		}
		tw.writef("%d\t%s\t$%.2f\t%s\t%s\n",
			g.ID, truncate(g.Title, 40), g.PriceThreshold, low, itadID)
	}
	return tw.finish()
}

func printGameDetail(g *domain.Game) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("ID:\t%d\n", g.ID)
	tw.writef("Title:\t%s\n", g.Title)
	if g.ExternalID != nil {
		tw.writef("ITAD ID:\t%s\n", *g.ExternalID)
	}
	tw.writef("Threshold:\t$%.2f\n", g.PriceThreshold)
	if g.HistoryLow != nil {
		tw.writef("History Low:\t$%.2f (%s)\n", *g.HistoryLow, g.HistoryLowStore)
	}
	if g.ReleaseDate != "" {
		tw.writef("Released:\t%s\n", g.ReleaseDate)
	}
	if g.ReviewScore != nil {
		tw.writef("Review Score:\t%d\n", *g.ReviewScore)
	}
	if len(g.Tags) > 0 {
		tw.writef("Tags:\t%v\n", g.Tags)
	}
	tw.writef("Added:\t%s\n", g.CreatedAt.Format("2006-01-02"))
	return tw.finish()
}

func printDealsTable(deals []domain.Deal) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("GAME\tPRICE\tREGULAR\tCUT\tSHOP\tSOURCE\tSEEN\n")
	for i := range deals {
		d := &deals[i]
		tw.writef("%d\t$%.2f\t$%.2f\t%d%%\t%s\t%s\t%s\n",
			d.GameID, d.SalePrice, d.RegularPrice, d.CutPercent,
			d.ShopName, d.Source, d.ReceivedAt.Format("2006-01-02 15:04"))
	}
	return tw.finish()
}

func printBestDealsTable(deals []domain.GameDeal) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("TITLE\tPRICE\tREGULAR\tCUT\tSHOP\tSEEN\n")
	for i := range deals {
		d := &deals[i]
		title := truncate(d.Title, 40)
		if d.Flag == domain.FlagHistoricalLow || d.Flag == domain.FlagNewLow {
			title += " *"
		}
		tw.writef("%s\t$%.2f\t$%.2f\t%d%%\t%s\t%s\n",
			title, d.SalePrice, d.Regular, d.CutPercent,
			d.ShopName, d.ReceivedAt.Format("2006-01-02"))
	}
	return tw.finish()
}

func printInvitesTable(invites []domain.InviteCode) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("ID\tCODE\tCREATED BY\tREDEEMED BY\tREDEEMED AT\n")
	for i := range invites {
		inv := &invites[i]
		redeemer, redeemedAt := "-", "-"
		if inv.RedeemedByName != "" {
			redeemer = inv.RedeemedByName
		}
		if inv.RedeemedAt != nil {
			redeemedAt = inv.RedeemedAt.Format("2006-01-02 15:04")
		}
		tw.writef("%d\t%s\t%s\t%s\t%s\n",
			inv.ID, inv.Code, inv.CreatedByName, redeemer, redeemedAt)
	}
	return tw.finish()
}

func printSearchTable(results []itad.SearchResult) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("TITLE\tTYPE\tITAD ID\n")
	for i := range results {
		tw.writef("%s\t%s\t%s\n",
			truncate(results[i].Title, 50), results[i].Type, results[i].ID)
	}
	return tw.finish()
}

func printHistoryTable(history []domain.ShopHistory) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("SHOP\tDATE\tPRICE\n")
	for i := range history {
		for _, p := range history[i].Prices {
			tw.writef("%s\t%s\t$%.2f\n",
				history[i].Shop.Name,
				time.Unix(p.Timestamp, 0).Format("2006-01-02"),
				p.Amount)
		}
	}
	return tw.finish()
}

func printJobRunsTable(runs []domain.JobRun) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("JOB\tSTATUS\tSTARTED\tCOMPLETED\tROWS\tERROR\n")
	for i := range runs {
		r := &runs[i]
		completed := "-"
		if r.CompletedAt != nil {
			completed = r.CompletedAt.Format("2006-01-02 15:04:05")
		}
		tw.writef("%s\t%s\t%s\t%s\t%d\t%s\n",
			r.JobName, r.Status,
			r.StartedAt.Format("2006-01-02 15:04:05"),
			completed, r.RowsAffected, truncate(r.ErrorText, 40))
	}
	return tw.finish()
}

func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
