package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/piwi3910/SiteEstimator/internal/export"
	"github.com/piwi3910/SiteEstimator/internal/logging"
	"github.com/piwi3910/SiteEstimator/internal/model"
	"github.com/piwi3910/SiteEstimator/internal/project"
	"github.com/piwi3910/SiteEstimator/internal/store"
)

// env is what every subcommand needs once the settings are loaded.
type env struct {
	cfg   model.AppConfig
	store store.Backend
	log   *zap.Logger
}

// close releases whatever the pre-run managed to open.
func (e *env) close() {
	if e.store != nil {
		_ = e.store.Close()
	}
	if e.log != nil {
		_ = e.log.Sync()
	}
}

// execute runs root and closes e afterwards. PersistentPostRun is skipped
// when a command fails, so cleanup cannot live there.
func execute(root *cobra.Command, e *env) error {
	defer e.close()
	return root.Execute()
}

func newRootCmd(out io.Writer, e *env) *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "estimatorctl",
		Short:         "Inspect and export saved site estimates",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := project.LoadAppConfig(configPath)
			if err != nil {
				return err
			}
			log, err := logging.New(logging.Options{Level: cfg.LogLevel, File: cfg.LogFile})
			if err != nil {
				return err
			}
			st, err := store.New(cfg, log)
			if err != nil {
				return err
			}
			*e = env{cfg: cfg, store: st, log: log}
			return nil
		},
	}
	root.SetOut(out)
	root.PersistentFlags().StringVar(&configPath, "config", project.DefaultConfigPath(), "settings file")

	root.AddCommand(
		newListCmd(e),
		newShowCmd(e),
		newExportCmd(e),
		newPDFCmd(e),
	)
	return root
}

func newListCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved estimates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			names, err := e.store.List(cmd.Context())
			if err != nil {
				return err
			}
			for _, n := range names {
				fmt.Fprintln(cmd.OutOrStdout(), n)
			}
			return nil
		},
	}
}

func newShowCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "show <name>",
		Short: "Print the line items and totals of a saved estimate",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, est, err := e.load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printEstimate(cmd.OutOrStdout(), snap, est, e.cfg.CurrencySymbol)
		},
	}
}

func newExportCmd(e *env) *cobra.Command {
	var output, site, rep, date string
	cmd := &cobra.Command{
		Use:   "export <name>",
		Short: "Write a saved estimate to an Excel workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, est, err := e.load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if output == "" {
				output = e.cfg.Export.FileName
			}
			opts := export.OptionsFromConfig(e.cfg.Export)
			opts.Header = export.Header{Site: site, Rep: rep, Date: date}
			if err := export.ExportXLSX(output, est, opts); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output .xlsx path (default from settings)")
	cmd.Flags().StringVar(&site, "site", "", "site written next to SITE :-")
	cmd.Flags().StringVar(&rep, "rep", "", "representative written next to REP :-")
	cmd.Flags().StringVar(&date, "date", "", "date written next to DATE :-")
	return cmd
}

func newPDFCmd(e *env) *cobra.Command {
	var output, site string
	cmd := &cobra.Command{
		Use:   "pdf <name>",
		Short: "Write a PDF summary of a saved estimate",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, est, err := e.load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if output == "" {
				output = snap.Name + ".pdf"
			}
			info := export.SummaryInfo{Name: snap.Name, ID: snap.ID, Header: export.Header{Site: site}}
			if !snap.SavedOn.IsZero() {
				info.SavedOn = snap.SavedOn.Format(time.RFC3339)
			}
			if err := export.ExportPDF(output, est, info); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output .pdf path (default <name>.pdf)")
	cmd.Flags().StringVar(&site, "site", "", "site printed in the summary header")
	return cmd
}

func (e *env) load(ctx context.Context, name string) (model.Snapshot, model.Estimate, error) {
	snap, err := e.store.Load(ctx, name)
	if err != nil {
		return model.Snapshot{}, model.Estimate{}, err
	}
	return snap, e.cfg.Evaluator().EstimateSnapshot(snap), nil
}

func printEstimate(w io.Writer, snap model.Snapshot, est model.Estimate, symbol string) error {
	fmt.Fprintf(w, "%s", snap.Name)
	if !snap.SavedOn.IsZero() {
		fmt.Fprintf(w, "  (saved %s)", snap.SavedOn.Format("2006-01-02 15:04"))
	}
	fmt.Fprintln(w)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ITEM\tQTY/SQFT\tRATE\tWEIGHT (KG)\tVALUE")
	for _, l := range est.Lines {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			l.Item, export.QuantityText(l), amount(l.Rate), amount(l.WeightKg), model.FormatAmount(l.Value))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	t := est.Totals.Rounded()
	fmt.Fprintf(w, "\nMATERIAL TOTAL     %s\n", model.FormatMoney(symbol, t.Material))
	fmt.Fprintf(w, "LABOUR TOTAL       %s\n", model.FormatMoney(symbol, t.Labour))
	fmt.Fprintf(w, "FABRIC TOTAL       %s\n", model.FormatMoney(symbol, t.Fabric))
	fmt.Fprintf(w, "GRAND TOTAL        %s\n", model.FormatMoney(symbol, t.Grand))
	fmt.Fprintf(w, "TOTAL WEIGHT (KG)  %s\n", model.FormatAmount(t.WeightKg))
	return nil
}

func amount(p *float64) string {
	if p == nil {
		return ""
	}
	return model.FormatAmount(*p)
}
