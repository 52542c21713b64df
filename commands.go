package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/spf13/cobra"

	"salesdesk/collections"
	"salesdesk/config"
	"salesdesk/services"
	"salesdesk/sheets"
)

// newSheetCmd prints a sheet as aligned columns. Handy to check how a
// link is read before saving it in the settings.
func newSheetCmd(cfg *config.Config) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "sheet <url>",
		Short: "Fetch a Google Sheet and print it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := sheets.ParseURL(args[0])
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 2*cfg.SheetsTimeout)
			defer cancel()
			t, err := newFetcher(ctx, cfg).Fetch(ctx, src)
			if err != nil {
				return err
			}
			return printTable(cmd.OutOrStdout(), t, limit)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "rows to print, 0 for all")
	return cmd
}

func printTable(w io.Writer, t *sheets.Table, limit int) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(t.Headers, "\t"))
	for i, row := range t.Rows {
		if limit > 0 && i >= limit {
			break
		}
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%d rows\n", t.Len())
	return err
}

// newEvaluateCmd runs a comodato evaluation over the configured sheets.
func newEvaluateCmd(app *pocketbase.PocketBase, data services.DataSource, cfg *config.Config) *cobra.Command {
	var (
		client   string
		contract float64
		months   int
		elapsed  int
		rate     float64
		target   float64
	)
	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Evaluate a comodato deal from the sales and equipment sheets",
		RunE: func(cmd *cobra.Command, args []string) error {
			collections.Setup(app)
			ctx, cancel := context.WithTimeout(cmd.Context(), 4*cfg.SheetsTimeout)
			defer cancel()

			in := services.EvaluationInput{
				ClientRUT:      client,
				ContractMonths: months,
				ElapsedMonths:  elapsed,
				CommissionRate: rate,
				TargetMargin:   target,
			}
			sales, err := data.Sales(ctx)
			if err != nil {
				return err
			}
			in.Sales = services.GroupSalesByLine(services.SalesForClient(sales, client))

			if contract > 0 {
				in.Equipment = []services.EquipmentLine{{Description: "Contrato", Quantity: 1, UnitValue: contract}}
			} else {
				equipment, err := data.Equipment(ctx)
				if err != nil {
					return fmt.Errorf("%w (or pass --contract)", err)
				}
				in.Equipment = services.EquipmentForClient(equipment, client)
			}

			printEvaluation(cmd.OutOrStdout(), services.Evaluate(in))
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&client, "client", "", "client RUT; empty uses every sales row")
	f.Float64Var(&contract, "contract", 0, "contract value in CLP; overrides the equipment sheet")
	f.IntVar(&months, "months", 24, "contract length in months")
	f.IntVar(&elapsed, "elapsed", 0, "months already elapsed")
	f.Float64Var(&rate, "rate", services.CommissionOptions[0], "base commission rate, percent")
	f.Float64Var(&target, "target", cfg.TargetMargin, "target net margin, percent")
	return cmd
}

func printEvaluation(w io.Writer, ev services.Evaluation) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(tw, "Línea\tVenta\tMargen bruto\tComodato\tComisión\tMargen neto\t%%\t\n")
	for _, l := range ev.Lines {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t\n",
			l.ProductLine,
			services.FormatCLP(l.Revenue),
			services.FormatCLP(l.GrossMargin),
			services.FormatCLP(l.AllocatedLoan),
			services.FormatCLP(l.Commission),
			services.FormatCLP(l.NetMargin),
			services.FormatPercent(l.NetMarginPct))
	}
	tw.Flush()

	fmt.Fprintf(w, "\nContrato %s, cuota mensual %s, saldo %s\n",
		services.FormatCLP(ev.ContractTotal), services.FormatCLP(ev.MonthlyLoan), services.FormatCLP(ev.Remaining))
	fmt.Fprintf(w, "Comisión efectiva %s, margen neto %s (objetivo %s)\n",
		services.FormatPercent(ev.EffectiveCommissionRate), services.FormatPercent(ev.NetMarginPct), services.FormatPercent(ev.TargetMargin))
	if ev.PaybackMonths > 0 {
		fmt.Fprintf(w, "Recuperación en %s meses\n", services.FormatNumber(ev.PaybackMonths))
	}
	fmt.Fprintf(w, "Resultado: %s (%s)\n", ev.Verdict.Label(), time.Now().Format("02-01-2006"))
}
