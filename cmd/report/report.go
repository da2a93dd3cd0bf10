// Package report implements the reporting commands: account balances,
// monthly category spending, processed-file history, and per-account
// transaction listings.
package report

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/gocarina/gocsv"
	"github.com/spf13/cobra"

	"github.com/adaves/wealth-tracker/cmd/root"
	"github.com/adaves/wealth-tracker/internal/dateutils"
	"github.com/adaves/wealth-tracker/internal/ledger"
	"github.com/adaves/wealth-tracker/internal/models"
)

var (
	spendingYear  int
	spendingMonth int
	exportPath    string
)

var (
	header   = color.New(color.Bold, color.Underline)
	negative = color.New(color.FgRed)
	positive = color.New(color.FgGreen)
)

// Cmd is the report command
var Cmd = &cobra.Command{
	Use:   "report",
	Short: "Reports over the ledger: balances, spending, history, transactions",
}

var balancesCmd = &cobra.Command{
	Use:   "balances",
	Short: "Show the latest reported balance for every account",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withLedger(func(l *ledger.Ledger) error {
			balances, err := l.AllAccountBalances()
			if err != nil {
				return err
			}

			header.Println("Account balances")
			for _, name := range models.SeededAccounts {
				balance := balances[name]
				line := fmt.Sprintf("%-18s %12s", name, balance.StringFixed(2))
				if balance.IsNegative() {
					negative.Println(line)
				} else {
					fmt.Println(line)
				}
			}

			avg, err := l.YTDAverageBalance(root.Cfg.Accounts.Primary)
			if err != nil {
				return err
			}
			fmt.Printf("\nYTD average balance (%s): %s\n", root.Cfg.Accounts.Primary, avg.StringFixed(2))
			return nil
		})
	},
}

var spendingCmd = &cobra.Command{
	Use:   "spending",
	Short: "Show monthly spending grouped by category",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withLedger(func(l *ledger.Ledger) error {
			entries, err := l.MonthlySpendingByCategory(spendingYear, spendingMonth)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Println("No spending recorded.")
				return nil
			}

			header.Println("Monthly spending by category")
			currentMonth := ""
			for _, entry := range entries {
				if entry.Month != currentMonth {
					currentMonth = entry.Month
					fmt.Printf("\n%s\n", currentMonth)
				}
				fmt.Printf("  %-20s %12s\n", entry.Category, entry.Spending.StringFixed(2))
			}
			return nil
		})
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List processed statement files, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withLedger(func(l *ledger.Ledger) error {
			files, err := l.ProcessedFiles()
			if err != nil {
				return err
			}
			if len(files) == 0 {
				fmt.Println("No files have been processed.")
				return nil
			}

			header.Println("Processed files")
			for _, f := range files {
				fmt.Printf("%-40s %-18s %s  %d transactions\n",
					f.Filename, f.AccountName, f.ProcessedAt.Format("2006-01-02 15:04"), f.TransactionCount)
			}
			return nil
		})
	},
}

var transactionsCmd = &cobra.Command{
	Use:   "transactions <account>",
	Short: "List an account's transactions, newest first",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withLedger(func(l *ledger.Ledger) error {
			transactions, err := l.AccountTransactions(args[0])
			if err != nil {
				return err
			}
			if len(transactions) == 0 {
				fmt.Printf("No transactions for %q.\n", args[0])
				return nil
			}

			if exportPath != "" {
				if err := exportCSV(transactions, exportPath); err != nil {
					return err
				}
				fmt.Printf("Exported %d transactions to %s\n", len(transactions), exportPath)
				return nil
			}

			header.Printf("Transactions for %s\n", args[0])
			for _, t := range transactions {
				line := fmt.Sprintf("%s  %10s  %-40s %s",
					dateutils.ToISODate(t.Date), t.Amount.StringFixed(2), t.Description, t.Category)
				if t.IsDebit() {
					negative.Println(line)
				} else {
					positive.Println(line)
				}
			}
			return nil
		})
	},
}

// exportRow is the CSV shape of an exported transaction.
type exportRow struct {
	Date        string `csv:"Date"`
	Description string `csv:"Description"`
	Amount      string `csv:"Amount"`
	Category    string `csv:"Category"`
	Account     string `csv:"Account"`
	Balance     string `csv:"Balance"`
}

func exportCSV(transactions []models.Transaction, path string) error {
	rows := make([]exportRow, 0, len(transactions))
	for _, t := range transactions {
		row := exportRow{
			Date:        dateutils.ToISODate(t.Date),
			Description: t.Description,
			Amount:      t.Amount.StringFixed(2),
			Category:    t.Category,
			Account:     t.Account,
		}
		if t.Balance.Valid {
			row.Balance = t.Balance.Decimal.StringFixed(2)
		}
		rows = append(rows, row)
	}

	file, err := os.Create(path) // #nosec G304 -- export path is user-chosen
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	defer func() {
		_ = file.Close()
	}()

	if err := gocsv.MarshalFile(&rows, file); err != nil {
		return fmt.Errorf("failed to write export file: %w", err)
	}
	return nil
}

func withLedger(fn func(*ledger.Ledger) error) error {
	l, err := root.OpenLedger()
	if err != nil {
		return err
	}
	defer func() {
		_ = l.Close()
	}()
	return fn(l)
}

func init() {
	spendingCmd.Flags().IntVar(&spendingYear, "year", 0, "filter to a specific year")
	spendingCmd.Flags().IntVar(&spendingMonth, "month", 0, "filter to a specific month (1-12)")
	transactionsCmd.Flags().StringVar(&exportPath, "export", "", "write the listing to a CSV file instead of printing")

	Cmd.AddCommand(balancesCmd)
	Cmd.AddCommand(spendingCmd)
	Cmd.AddCommand(historyCmd)
	Cmd.AddCommand(transactionsCmd)
}
