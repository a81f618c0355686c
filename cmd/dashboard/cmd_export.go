package main

import (
	"fmt"
	"os"

	"shipment-dashboard/internal/core/logger"
	"shipment-dashboard/internal/features/shipments/domain"
	"shipment-dashboard/internal/features/shipments/export"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

var exportFlags struct {
	credentials
	dashboardURL string
	format       string
	output       string
	browserBin   string
	filters      map[string]string
}

// exportCmd renders the shipment page to a file
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Render the shipment page of a running dashboard to PDF or PNG",
	RunE:  runExport,
}

func init() {
	f := exportCmd.Flags()
	addCredentialFlags(f, &exportFlags.credentials)
	f.StringVar(&exportFlags.dashboardURL, "url", "http://localhost:8080", "Root URL of the running dashboard")
	f.StringVar(&exportFlags.format, "format", "pdf", "Output format: pdf or png")
	f.StringVarP(&exportFlags.output, "output", "o", "", "Output file (default shipments.<format>)")
	f.StringVar(&exportFlags.browserBin, "browser", "", "Chromium binary; empty downloads or finds one")
	exportFlags.filters = addFilterFlags(f)
}

func runExport(cmd *cobra.Command, _ []string) error {
	format, err := export.ParseFormat(exportFlags.format)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	defer logger.Sync()

	a, err := newApp(cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	store, err := a.signIn(cmd.Context(), exportFlags.credentials)
	if err != nil {
		return err
	}

	exporter, err := export.New(export.Options{
		BaseURL: exportFlags.dashboardURL,
		Proxy:   cfg.Proxy.Settings(),
		Bin:     exportFlags.browserBin,
	})
	if err != nil {
		return err
	}

	loc, err := filterLocation("/shipments", exportFlags.filters)
	if err != nil {
		return err
	}
	filters := domain.FiltersFromQuery(loc.Query())

	output := exportFlags.output
	if output == "" {
		output = "shipments." + string(format)
	}
	file, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", output, err)
	}
	defer file.Close()

	if err := exporter.Export(cmd.Context(), store, filters, format, file); err != nil {
		return err
	}
	logger.Get().Info("Export written", zap.String("file", output))
	fmt.Fprintln(cmd.OutOrStdout(), output)
	return nil
}

// addCredentialFlags registers the sign-in flags of the terminal commands.
func addCredentialFlags(f *pflag.FlagSet, c *credentials) {
	f.StringVar(&c.email, "email", "", "Account email")
	f.StringVar(&c.password, "password", "", "Account password")
	f.StringVar(&c.accessToken, "token", "", "Access token to use instead of signing in")
	f.StringVar(&c.refreshToken, "refresh-token", "", "Refresh token used to renew --token")
}

// addFilterFlags registers one flag per shipment filter.
func addFilterFlags(f *pflag.FlagSet) map[string]string {
	values := map[string]string{}
	bind := func(field domain.Field, name, usage string) {
		f.Func(name, usage, func(v string) error {
			values[string(field)] = v
			return nil
		})
	}
	bind(domain.FieldExternalID, "external-id", "Order number filter")
	bind(domain.FieldInvoiceCode, "invoice-code", "Invoice code filter")
	bind(domain.FieldStatus, "status", "Status filter")
	return values
}
