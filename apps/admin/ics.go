package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/ratiba/core/calendar"
	"github.com/trezcool/ratiba/services/icalendar"
)

// importICS creates the events of an iCalendar feed.
// Events whose title already exists on their start day are skipped.
func (cli *commandLine) importICS(path, ownerID string) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrap(err, "opening calendar file")
	}
	defer f.Close()

	events, skipped, err := icalendar.Decode(f, ownerID, cli.loc)
	if err != nil {
		return err
	}
	for _, sErr := range skipped {
		fmt.Fprintf(cli.out, "skipped: %v\n", sErr)
	}

	ctx := context.Background()
	var created int
	for _, ev := range events {
		dupes, err := cli.svc.Query(ctx, calendar.QueryFilter{OwnerID: ownerID, Title: ev.Title, From: ev.StartDate, To: ev.StartDate})
		if err != nil {
			return errors.Wrapf(err, "looking up %q", ev.Title)
		}
		if len(dupes) > 0 {
			fmt.Fprintf(cli.out, "skipped: %q on %s already exists\n", ev.Title, ev.StartDate)
			continue
		}
		if _, err = cli.svc.Import(ctx, ev); err != nil {
			return errors.Wrapf(err, "importing %q", ev.Title)
		}
		created++
	}
	fmt.Fprintf(cli.out, "imported %d event(s) for owner %s\n", created, ownerID)
	return nil
}

// exportICS writes the owner's month as an iCalendar feed to outPath (stdout if empty).
func (cli *commandLine) exportICS(ownerID string, year, month int, outPath string) error {
	cursor := calendar.CursorOf(calendar.Today())
	if year != 0 {
		cursor.Year = year
	}
	if month != 0 {
		if month < 1 || month > 12 {
			return errors.Errorf("month must be between 1 and 12 (got %d)", month)
		}
		cursor.Month = time.Month(month)
	}

	events, err := cli.svc.ListMonth(context.Background(), ownerID, cursor)
	if err != nil {
		return errors.Wrap(err, "listing month events")
	}

	var w io.Writer = cli.out
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return errors.Wrap(err, "creating output file")
		}
		defer f.Close()
		w = f
	}
	return icalendar.Encode(w, fmt.Sprintf("%s %s", cli.conf.AppName, cursor), events, cli.loc)
}
