package app

import (
	"fmt"
	"io"
	"strings"

	"github.com/incomelogins-commits/cryptomine-frontend/internal/dashboard"
	"github.com/incomelogins-commits/cryptomine-frontend/internal/mining"
	"github.com/incomelogins-commits/cryptomine-frontend/internal/models"
)

// render - отрисовка текущего снимка состояния. Рендер ничего не меняет
// и не дергает сеть, только читает снимок.
func (a *App) render(out io.Writer) {
	if a.ctrl == nil {
		fmt.Fprintln(out, "CryptoMine: not signed in")
		return
	}

	snapshot := a.ctrl.Snapshot()

	if snapshot.ShowJackpot {
		fmt.Fprintf(out, "*** JACKPOT WINNER! You've won $%s. Contact support to withdraw. ***\n",
			snapshot.Wallet.JackpotWinnings.StringFixed(2))
	}
	if snapshot.Toast != nil {
		fmt.Fprintf(out, "[%s] %s\n", snapshot.Toast.Severity, snapshot.Toast.Message)
		// золотое уведомление дополнительно зовёт в чат поддержки
		if snapshot.Toast.Severity == dashboard.SeverityGold {
			fmt.Fprintln(out, "type 'chat' to contact support")
		}
	}

	switch snapshot.View {
	case dashboard.ViewMining:
		renderMining(out, snapshot)
	case dashboard.ViewWallet:
		renderWallet(out, snapshot)
	case dashboard.ViewTransactions:
		renderTransactions(out, snapshot.Transactions, len(snapshot.Transactions))
	default:
		renderOverview(out, snapshot)
	}
}

func renderOverview(out io.Writer, snapshot dashboard.Snapshot) {
	fmt.Fprintf(out, "-- Overview --\n")
	fmt.Fprintf(out, "Wallet Balance: $%s\n", snapshot.Wallet.Balance.StringFixed(2))
	if snapshot.Stats != nil {
		fmt.Fprintf(out, "Hash Rate:      %d MH/s\n", snapshot.Stats.HashRate)
		fmt.Fprintf(out, "Total Uptime:   %.1fh\n", snapshot.Stats.Uptime)
		fmt.Fprintf(out, "Coins Mined:    %.6f\n", snapshot.Stats.CoinsMined)
	}
	renderTransactions(out, snapshot.Transactions, 6)
}

func renderMining(out io.Writer, snapshot dashboard.Snapshot) {
	fmt.Fprintf(out, "-- Mining Rig --\n")
	if snapshot.MiningState == mining.StateIdle {
		fmt.Fprintln(out, "Ready to mine")
	} else {
		bar := strings.Repeat("#", snapshot.MiningProgress/5)
		fmt.Fprintf(out, "Mining in progress [%-20s] %d%%\n", bar, snapshot.MiningProgress)
	}
	if snapshot.Stats != nil {
		fmt.Fprintf(out, "Sessions Completed: %d\n", len(snapshot.Stats.SessionHistory))
		fmt.Fprintf(out, "Total Earnings:     $%s\n", snapshot.Stats.TotalEarnings.StringFixed(2))
	}
}

func renderWallet(out io.Writer, snapshot dashboard.Snapshot) {
	fmt.Fprintf(out, "-- Wallet --\n")
	fmt.Fprintf(out, "Balance: $%s\n", snapshot.Wallet.Balance.StringFixed(2))
	if snapshot.Wallet.JackpotWinnings.IsPositive() {
		fmt.Fprintf(out, "Includes jackpot winnings of $%s\n", snapshot.Wallet.JackpotWinnings.StringFixed(2))
	}
	if snapshot.Wallet.Address != "" {
		fmt.Fprintf(out, "Linked address: %s\n", snapshot.Wallet.Address)
	}
}

// renderTransactions - транзакции печатаются в порядке, выбранном
// сервером, клиент не пересортировывает
func renderTransactions(out io.Writer, transactions []models.Transaction, limit int) {
	fmt.Fprintf(out, "-- Recent Activity --\n")
	if len(transactions) == 0 {
		fmt.Fprintln(out, "no transactions yet")
		return
	}
	for i, transaction := range transactions {
		if i >= limit {
			break
		}
		sign := "+"
		if transaction.Type == models.TransactionTypeWithdrawal {
			sign = "-"
		}
		fmt.Fprintf(out, "%-10s %s$%-12s %s\n",
			transaction.Type, sign, transaction.Amount.StringFixed(2), transaction.Description)
	}
}
