package commands

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/splitbook-dev/splitbook/internal/activitylog"
	"github.com/splitbook-dev/splitbook/internal/config"
	"github.com/splitbook-dev/splitbook/internal/importer"
	"github.com/splitbook-dev/splitbook/internal/ledger"
	"github.com/splitbook-dev/splitbook/internal/model"
)

func newRunCommand() *cobra.Command {
	var expensesPath string
	var settlements []string

	cmd := &cobra.Command{
		Use:   "run [directory]",
		Short: "Replay expenses and settlements, then print the passbook",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			return runRun(absDir, expensesPath, settlements, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&expensesPath, "expenses", "", "expenses CSV path (default <dir>/import/expenses.csv)")
	cmd.Flags().StringArrayVar(&settlements, "settle", nil, "settlement as payer:payee:amount (repeatable)")

	return cmd
}

func runRun(dir, expensesPath string, settlements []string, out io.Writer) error {
	cfg, err := config.Load(filepath.Join(dir, "group.yaml"))
	if err != nil {
		return err
	}

	group, byName, err := buildGroup(cfg)
	if err != nil {
		return err
	}

	if expensesPath == "" {
		expensesPath = filepath.Join(dir, "import", "expenses.csv")
	}
	rows, err := importer.ReadFile(expensesPath)
	if err != nil {
		return err
	}

	var logEntries []activitylog.Entry
	for i, row := range rows {
		exp, err := applyRow(group, byName, row)
		if err != nil {
			return fmt.Errorf("expense %d: %w", i+1, err)
		}
		logEntries = append(logEntries, activitylog.Entry{
			Timestamp: time.Now().UTC(),
			Group:     group.Name(),
			Action:    activitylog.ActionAddExpense,
			Details:   fmt.Sprintf("%s paid %s (%s)", row.Payer, row.Amount, row.SplitType),
			RefID:     exp.ID,
		})
	}

	for _, spec := range settlements {
		payerName, payeeName, amount, err := parseSettlement(spec)
		if err != nil {
			return err
		}
		payer, ok := byName[payerName]
		if !ok {
			return fmt.Errorf("settlement %q: unknown payer %q", spec, payerName)
		}
		payee, ok := byName[payeeName]
		if !ok {
			return fmt.Errorf("settlement %q: unknown payee %q", spec, payeeName)
		}
		if err := group.Settle(payer.ID, payee.ID, amount); err != nil {
			return fmt.Errorf("settlement %q: %w", spec, err)
		}
		logEntries = append(logEntries, activitylog.Entry{
			Timestamp: time.Now().UTC(),
			Group:     group.Name(),
			Action:    activitylog.ActionSettle,
			Details:   fmt.Sprintf("%s paid %s to %s", payerName, amount, payeeName),
		})
	}

	if len(logEntries) > 0 {
		if err := activitylog.Append(dir, logEntries); err != nil {
			return err
		}
	}

	printPassbook(out, group)
	return nil
}

// buildGroup creates participants and the group from a config, returning a
// name -> participant index for resolving CSV rows and settlement specs.
func buildGroup(cfg *config.Config) (*ledger.Group, map[string]*model.Participant, error) {
	byName := make(map[string]*model.Participant, len(cfg.Participants))
	participants := make([]*model.Participant, 0, len(cfg.Participants))
	for _, pc := range cfg.Participants {
		if _, ok := byName[pc.Name]; ok {
			return nil, nil, fmt.Errorf("duplicate participant name %q", pc.Name)
		}
		p := ledger.NewParticipant(pc.Name)
		byName[pc.Name] = p
		participants = append(participants, p)
	}

	group, err := ledger.New(cfg.Group.Name, participants, cfg.Settlement())
	if err != nil {
		return nil, nil, err
	}
	return group, byName, nil
}

func applyRow(group *ledger.Group, byName map[string]*model.Participant, row importer.Row) (*model.Expense, error) {
	payer, ok := byName[row.Payer]
	if !ok {
		return nil, fmt.Errorf("unknown payer %q", row.Payer)
	}

	var shares map[string]decimal.Decimal
	if row.Shares != nil {
		shares = make(map[string]decimal.Decimal, len(row.Shares))
		for name, value := range row.Shares {
			p, ok := byName[name]
			if !ok {
				return nil, fmt.Errorf("unknown participant %q in shares", name)
			}
			shares[p.ID] = value
		}
	}

	return group.AddExpense(ledger.AddExpenseParams{
		PayerID:      payer.ID,
		Amount:       row.Amount,
		SplitType:    row.SplitType,
		CustomShares: shares,
		Description:  row.Description,
		Date:         row.Date,
	})
}

func parseSettlement(spec string) (payer, payee string, amount decimal.Decimal, err error) {
	parts := strings.Split(spec, ":")
	if len(parts) != 3 {
		return "", "", decimal.Zero, fmt.Errorf("invalid settlement %q, want payer:payee:amount", spec)
	}
	amount, err = decimal.NewFromString(parts[2])
	if err != nil {
		return "", "", decimal.Zero, fmt.Errorf("invalid settlement amount %q: %w", parts[2], err)
	}
	return parts[0], parts[1], amount, nil
}

// printPassbook writes one line per outstanding debt, debtors and creditors
// in group insertion order.
func printPassbook(out io.Writer, group *ledger.Group) {
	passbook := group.Passbook()
	participants := group.Participants()

	fmt.Fprintf(out, "Passbook for %s (%s settlement)\n", group.Name(), group.Algo())
	settled := true
	for _, debtor := range participants {
		row, ok := passbook[debtor.ID]
		if !ok {
			continue
		}
		for _, creditor := range participants {
			amt, ok := row[creditor.ID]
			if !ok {
				continue
			}
			fmt.Fprintf(out, "%s owes %s %s\n", debtor.Name, creditor.Name, amt.StringFixed(2))
			settled = false
		}
	}
	if settled {
		fmt.Fprintln(out, "All settled up.")
	}
}
