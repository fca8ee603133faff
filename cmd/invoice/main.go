package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/contractor-tools/invoicegen/internal/config"
	"github.com/contractor-tools/invoicegen/internal/onboard"
	"github.com/contractor-tools/invoicegen/internal/render"
	"github.com/contractor-tools/invoicegen/internal/store"
	"github.com/contractor-tools/invoicegen/internal/usecase"
	"github.com/contractor-tools/invoicegen/pkg/invoice"
)

// Exit codes, one per error category, so scripts can tell failures apart.
const (
	exitUsage        = 1
	exitNotOnboarded = 2
	exitNoTemplate   = 3
	exitValidation   = 4
	exitStorage      = 5
	exitRender       = 6
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "configuration error:", err)
		os.Exit(exitUsage)
	}

	logger := newLogger(cfg.LogLevel)
	st := store.New(cfg.DataFile, logger)

	app := &cli.App{
		Name:  "invoice",
		Usage: "generate sequentially numbered PDF invoices for contractor billing",
		Commands: []*cli.Command{
			generateCommand(cfg, st, logger),
			templatesCommand(st),
			onboardCommand(st),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitUsage)
	}
}

func generateCommand(cfg *config.Config, st *store.Store, logger *slog.Logger) *cli.Command {
	return &cli.Command{
		Name:  "generate",
		Usage: "generate an invoice PDF and advance the invoice counter",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "template", Aliases: []string{"t"}, Usage: "saved template to load defaults from"},
			&cli.StringFlag{Name: "amount", Usage: "invoice amount in USD", Required: true},
			&cli.StringFlag{Name: "service-period", Usage: "service period, e.g. \"Services provided during January 2025\"", Required: true},
			&cli.StringFlag{Name: "issue-date", Usage: "issue date (YYYY-MM-DD)", Value: time.Now().Format("2006-01-02")},
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "output PDF path"},
			&cli.StringFlag{Name: "save-template", Usage: "save the merged fields as a template with this name"},
			&cli.StringFlag{Name: "contractor-name", Usage: "contractor name"},
			&cli.StringFlag{Name: "contractor-tax-id", Usage: "contractor tax ID"},
			&cli.StringFlag{Name: "contractor-tax-status", Usage: "contractor tax status"},
			&cli.StringFlag{Name: "client-name", Usage: "client name"},
			&cli.StringFlag{Name: "client-address", Usage: "client address"},
			&cli.StringFlag{Name: "client-tax-id", Usage: "client tax ID"},
			&cli.StringFlag{Name: "payment-tag", Usage: "payment method identifier, e.g. $username"},
			&cli.StringFlag{Name: "account-holder", Usage: "account holder name"},
			&cli.StringFlag{Name: "additional-payment-info", Usage: "extra payment instructions"},
			&cli.StringFlag{Name: "service-description", Usage: "service description"},
		},
		Action: func(ctx *cli.Context) error {
			svc := usecase.NewGenerateInvoiceService(st, render.NewPDFRenderer(), logger)

			result, err := svc.Execute(usecase.GenerateParams{
				TemplateName:   ctx.String("template"),
				Overrides:      overridesFromFlags(ctx),
				Amount:         ctx.String("amount"),
				ServicePeriod:  ctx.String("service-period"),
				IssueDate:      ctx.String("issue-date"),
				OutputPath:     outputPath(cfg, ctx.String("output")),
				SaveTemplateAs: ctx.String("save-template"),
			})
			if err != nil {
				return exitError(err)
			}

			fmt.Fprintf(ctx.App.Writer, "Invoice #%s generated: %s\n", result.Number, result.OutputPath)
			return nil
		},
	}
}

func templatesCommand(st *store.Store) *cli.Command {
	return &cli.Command{
		Name:  "templates",
		Usage: "manage saved invoice templates",
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Usage: "list saved templates",
				Action: func(ctx *cli.Context) error {
					summaries, err := usecase.NewListTemplatesService(st).Execute()
					if err != nil {
						return exitError(err)
					}
					if len(summaries) == 0 {
						fmt.Fprintln(ctx.App.Writer, "No templates saved yet.")
						return nil
					}
					fmt.Fprintln(ctx.App.Writer, "Available templates:")
					for _, s := range summaries {
						fmt.Fprintf(ctx.App.Writer, "  %-16s %s -> %s\n", s.Name, s.ContractorName, s.ClientName)
					}
					return nil
				},
			},
		},
	}
}

func onboardCommand(st *store.Store) *cli.Command {
	return &cli.Command{
		Name:  "onboard",
		Usage: "set up contractor details and the first template",
		Action: func(ctx *cli.Context) error {
			err := onboard.RunInteractive(os.Stdin, ctx.App.Writer, st)
			if errors.Is(err, onboard.ErrCancelled) {
				fmt.Fprintln(ctx.App.Writer, "Onboarding cancelled.")
				return nil
			}
			if err != nil {
				return exitError(err)
			}
			return nil
		},
	}
}

// overridesFromFlags maps set flags to override pointers. A flag passed
// with an empty value is still an override: it clears the template
// default instead of falling back to it.
func overridesFromFlags(ctx *cli.Context) invoice.Overrides {
	return invoice.Overrides{
		ContractorName:        flagPtr(ctx, "contractor-name"),
		ContractorTaxID:       flagPtr(ctx, "contractor-tax-id"),
		ContractorTaxStatus:   flagPtr(ctx, "contractor-tax-status"),
		ClientName:            flagPtr(ctx, "client-name"),
		ClientAddress:         flagPtr(ctx, "client-address"),
		ClientTaxID:           flagPtr(ctx, "client-tax-id"),
		PaymentTag:            flagPtr(ctx, "payment-tag"),
		AccountHolder:         flagPtr(ctx, "account-holder"),
		AdditionalPaymentInfo: flagPtr(ctx, "additional-payment-info"),
		ServiceDescription:    flagPtr(ctx, "service-description"),
	}
}

func flagPtr(ctx *cli.Context, name string) *string {
	if !ctx.IsSet(name) {
		return nil
	}
	v := ctx.String(name)
	return &v
}

func outputPath(cfg *config.Config, path string) string {
	if path == "" {
		path = filepath.Join(cfg.OutputDir, fmt.Sprintf("invoice_%s.pdf", time.Now().Format("20060102_150405")))
	}
	if !strings.HasSuffix(path, ".pdf") {
		path += ".pdf"
	}
	return path
}

// exitError maps an error to its category's exit code with an
// actionable message.
func exitError(err error) error {
	var missing *invoice.MissingFieldError
	switch {
	case errors.Is(err, store.ErrNotOnboarded):
		return cli.Exit(fmt.Sprintf("Error: %v.\nRun \"invoice onboard\" to get set up.", err), exitNotOnboarded)
	case errors.Is(err, store.ErrTemplateNotFound):
		return cli.Exit(fmt.Sprintf("Error: %v.\nUse \"invoice templates list\" to see saved templates.", err), exitNoTemplate)
	case errors.Is(err, invoice.ErrInvalidAmount),
		errors.Is(err, invoice.ErrInvalidDate),
		errors.As(err, &missing):
		return cli.Exit(fmt.Sprintf("Error: %v. No invoice number was consumed.", err), exitValidation)
	case errors.Is(err, render.ErrIncompleteRecord):
		return cli.Exit(fmt.Sprintf("Error: %v.", err), exitRender)
	default:
		return cli.Exit(fmt.Sprintf("Error: %v.", err), exitStorage)
	}
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
