package cli

import (
	"fmt"
	"math"
	"text/tabwriter"

	"github.com/schollz/progressbar/v3"

	"github.com/dmitrijs2005/tgcloud/internal/client/models"
)

// The setters below implement observer.View. They only run on the loop.

func (a *App) SetAuthenticated(ok bool) {
	a.authenticated = ok
	// every login attempt ends with this notification
	a.authBusy = false
}

func (a *App) SetStatus(text string) {
	if text == "" {
		return
	}
	a.status = text
	if a.bar != nil {
		_ = a.bar.Clear()
	}
	a.println(text)
}

func (a *App) SetUploading(on bool) {
	if on {
		a.bar = progressbar.NewOptions(100,
			progressbar.OptionSetDescription("upload"),
			progressbar.OptionSetWriter(a.out),
			progressbar.OptionSetWidth(30),
			progressbar.OptionSetPredictTime(false),
			progressbar.OptionOnCompletion(func() {
				fmt.Fprint(a.out, "\n")
			}),
			progressbar.OptionSetRenderBlankState(true),
		)
		return
	}
	if a.bar != nil && !a.bar.IsFinished() {
		_ = a.bar.Clear()
	}
	a.bar = nil
}

func (a *App) SetProgress(fraction float64) {
	if a.bar == nil {
		return
	}
	_ = a.bar.Set(int(math.Round(fraction * 100)))
}

func (a *App) SetSelectedFile(name string) {
	a.selected = name
}

func (a *App) SetRecords(rows []models.RecordView) {
	a.records = rows
	a.printRecords()
}

func (a *App) printRecords() {
	if len(a.records) == 0 {
		a.println("No uploads yet.")
		return
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "FILE\tSIZE\tUPLOADED\tID")
	for _, r := range a.records {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", r.Filename, r.Size, r.UploadedAt, r.RemoteID)
	}
	_ = w.Flush()
}
