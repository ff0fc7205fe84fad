package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"studio/internal/admin"
	"studio/internal/booking"
	"studio/internal/catalog"
	"studio/internal/export"
	"studio/internal/models"
	"studio/internal/probe"
)

func (a *app) runCatalog(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("catalog", flag.ContinueOnError)
	asJSON := fs.Bool("json", false, "print the catalog as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}

	c := catalog.NewLoader(a.gw, a.component("catalog")).Load(ctx)
	if *asJSON {
		enc := json.NewEncoder(a.out)
		enc.SetIndent("", "  ")
		return enc.Encode(c)
	}

	fmt.Fprintf(a.out, "Услуги (%s)\n", c.ServicesSource)
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	for _, s := range c.Services {
		fmt.Fprintf(tw, "  %s\t%s\t%s\n", s.Title, formatPrice(s.PriceFrom), formatDuration(s.DurationMin))
	}
	_ = tw.Flush()

	fmt.Fprintf(a.out, "\nПортфолио (%s)\n", c.PortfolioSource)
	for _, p := range c.Portfolio {
		mark := " "
		if p.Featured {
			mark = "*"
		}
		fmt.Fprintf(a.out, " %s %s [%s] %s\n", mark, p.Title, p.Style, p.ImageURL)
	}
	return nil
}

func formatPrice(p *float64) string {
	if p == nil {
		return "-"
	}
	return fmt.Sprintf("от %.0f", *p)
}

func formatDuration(d *int) string {
	if d == nil {
		return "-"
	}
	return fmt.Sprintf("%d мин", *d)
}

func (a *app) runBook(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("book", flag.ContinueOnError)
	var form models.BookingForm
	fs.StringVar(&form.ClientName, "name", "", "client name")
	fs.StringVar(&form.Phone, "phone", "", "phone or Telegram handle")
	fs.StringVar(&form.PreferredDate, "date", "", "preferred date, YYYY-MM-DD")
	fs.StringVar(&form.PreferredTime, "time", "", "preferred time, HH:MM")
	fs.StringVar(&form.Note, "note", "", "idea description")
	retry := fs.Bool("retry", false, "resend the saved draft of this session")
	if err := fs.Parse(args); err != nil {
		return err
	}

	s := booking.NewSubmitter(a.gw, a.drafts, a.bus, a.cfg.Session.Name, a.component("booking"))
	if *retry {
		restored, err := s.Restore(ctx)
		if err != nil {
			return err
		}
		if !restored {
			fmt.Fprintln(a.out, models.MsgNoDraft)
			if !a.draftsKept {
				fmt.Fprintln(a.out, models.MsgDraftLost)
			}
			return errReported
		}
	} else {
		s.SetForm(form)
	}

	st, err := s.Submit(ctx)
	reported := a.report(st, err)
	if err != nil && !errors.Is(err, models.ErrValidation) && !errors.Is(err, models.ErrInFlight) {
		a.draftHint()
	}
	return reported
}

// draftHint tells whether a failed booking can be resent with -retry.
func (a *app) draftHint() {
	if a.draftsKept {
		fmt.Fprintln(a.out, models.MsgDraftKept)
		return
	}
	fmt.Fprintln(a.out, models.MsgDraftLost)
}

func (a *app) runAdmin(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("admin", flag.ContinueOnError)
	password := fs.String("password", "", "admin password (or STUDIO_ADMIN_PASSWORD)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *password == "" {
		*password = os.Getenv("STUDIO_ADMIN_PASSWORD")
	}
	rest := fs.Args()
	if len(rest) == 0 {
		return errors.New("admin: missing operation (appointments, add-service, add-work, backup)")
	}

	console := admin.NewConsole(a.gw, a.bus, a.component("admin"))
	console.SetCredential(*password)
	defer console.Close()

	op, opArgs := rest[0], rest[1:]
	switch op {
	case "appointments":
		return a.adminAppointments(ctx, console, opArgs)
	case "add-service":
		return a.adminAddService(ctx, console, opArgs)
	case "add-work":
		return a.adminAddWork(ctx, console, opArgs)
	case "backup":
		return a.adminBackup(ctx, console, opArgs)
	default:
		return fmt.Errorf("admin: unknown operation %q", op)
	}
}

func (a *app) adminAppointments(ctx context.Context, console *admin.Console, args []string) error {
	fs := flag.NewFlagSet("appointments", flag.ContinueOnError)
	xlsx := fs.Bool("xlsx", false, "also save the list as a spreadsheet")
	dir := fs.String("dir", a.cfg.Exports.Path, "spreadsheet directory")
	if err := fs.Parse(args); err != nil {
		return err
	}

	st, err := console.LoadAppointments(ctx)
	if err != nil {
		return a.report(st, err)
	}
	printAppointments(a.out, console.Appointments())
	if err := a.report(st, nil); err != nil {
		return err
	}

	if *xlsx {
		st, err := console.ExportAppointments(export.NewXLSXWriter(*dir))
		return a.report(st, err)
	}
	return nil
}

func printAppointments(w io.Writer, list []models.Appointment) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tИМЯ\tТЕЛЕФОН\tДАТА\tВРЕМЯ\tСТАТУС\tКОММЕНТАРИЙ")
	for _, ap := range list {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			ap.ID, ap.ClientName, ap.Phone, ap.PreferredDate, ap.PreferredTime, ap.Status,
			strings.ReplaceAll(ap.Note, "\n", " "))
	}
	_ = tw.Flush()
}

func (a *app) adminAddService(ctx context.Context, console *admin.Console, args []string) error {
	fs := flag.NewFlagSet("add-service", flag.ContinueOnError)
	var form admin.ServiceForm
	fs.StringVar(&form.Title, "title", "", "service title")
	fs.StringVar(&form.Description, "description", "", "service description")
	fs.StringVar(&form.PriceFrom, "price", "", "starting price, empty for none")
	fs.StringVar(&form.DurationMin, "duration", "", "duration in minutes, empty for none")
	if err := fs.Parse(args); err != nil {
		return err
	}

	console.SetServiceForm(form)
	st, err := console.AddService(ctx)
	return a.report(st, err)
}

func (a *app) adminAddWork(ctx context.Context, console *admin.Console, args []string) error {
	fs := flag.NewFlagSet("add-work", flag.ContinueOnError)
	var form admin.PortfolioForm
	fs.StringVar(&form.Title, "title", "", "work title")
	fs.StringVar(&form.ImageURL, "image", "", "image URL")
	fs.StringVar(&form.Style, "style", "", "style")
	fs.StringVar(&form.Description, "description", "", "description")
	fs.BoolVar(&form.Featured, "featured", false, "show on the home page")
	if err := fs.Parse(args); err != nil {
		return err
	}

	console.SetPortfolioForm(form)
	st, err := console.AddPortfolioItem(ctx)
	return a.report(st, err)
}

func (a *app) adminBackup(ctx context.Context, console *admin.Console, args []string) error {
	fs := flag.NewFlagSet("backup", flag.ContinueOnError)
	dir := fs.String("dir", a.cfg.Exports.Path, "backup directory")
	if err := fs.Parse(args); err != nil {
		return err
	}

	st, err := console.ExportBackup(ctx, export.NewFileSink(*dir))
	return a.report(st, err)
}

func (a *app) runProbe(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("probe", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	report := probe.New(a.gw, a.gw.BaseURL(), a.component("probe")).Run(ctx)
	fmt.Fprintf(a.out, "Backend URL: %s\n", report.BackendURL)
	fmt.Fprintf(a.out, "Backend:     %s\n", report.BackendStatus)
	if report.Database != nil {
		d := report.Database
		fmt.Fprintf(a.out, "Database:    %s (%s)\n", d.ConnectionStatus, d.Database)
		fmt.Fprintf(a.out, "  name:        %s\n", d.DatabaseName)
		fmt.Fprintf(a.out, "  url:         %s\n", d.DatabaseURL)
		fmt.Fprintf(a.out, "  collections: %s\n", strings.Join(d.Collections, ", "))
		return nil
	}
	fmt.Fprintf(a.out, "Database:    %s\n", report.DatabaseError)
	return errReported
}

// report prints the user-facing status of a flow and maps failure to errReported.
func (a *app) report(st models.Status, err error) error {
	if errors.Is(err, models.ErrInFlight) {
		fmt.Fprintln(a.out, models.MsgInFlight)
		return errReported
	}
	if st.Message != "" {
		fmt.Fprintln(a.out, st.Message)
	}
	if err != nil || !st.OK {
		return errReported
	}
	return nil
}
