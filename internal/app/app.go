package app

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/incomelogins-commits/cryptomine-frontend/internal/client"
	"github.com/incomelogins-commits/cryptomine-frontend/internal/config"
	"github.com/incomelogins-commits/cryptomine-frontend/internal/dashboard"
	"github.com/incomelogins-commits/cryptomine-frontend/internal/logger"
	"github.com/incomelogins-commits/cryptomine-frontend/internal/mining"
	"github.com/incomelogins-commits/cryptomine-frontend/internal/models"
	"github.com/incomelogins-commits/cryptomine-frontend/internal/session"
	"github.com/incomelogins-commits/cryptomine-frontend/internal/storage"
	"github.com/incomelogins-commits/cryptomine-frontend/internal/support"
)

const msgAuthFailed = "Something went wrong"

// App - терминальный дашборд поверх контроллера
type App struct {
	gateway  client.Gateway
	sessions *session.Store
	chat     support.Chat
	scoped   storage.KeyValue
	ctrl     *dashboard.Controller
}

func Run(cfg config.Config) error {
	durable, err := storage.NewSqlite(cfg.App.StatePath)
	if err != nil {
		return err
	}
	defer durable.Close()

	sessions := session.NewStore(durable)
	app := &App{
		gateway:  client.NewClient(cfg.Client.BaseURL, &http.Client{Timeout: cfg.Client.Timeout}, sessions),
		sessions: sessions,
		chat:     support.NewTawkChat(),
		scoped:   storage.NewMemory(),
	}

	ctx := context.Background()
	// сохранённый токен означает условную аутентификацию,
	// протухший обнаружится при первом защищённом вызове
	if app.sessions.Restore(ctx) {
		app.mount(ctx)
	}

	app.loop(ctx, os.Stdin, os.Stdout)

	if app.ctrl != nil {
		app.ctrl.Close()
	}
	logger.Info("Dashboard stopped")
	return nil
}

// mount - монтирование контроллера после входа
func (a *App) mount(ctx context.Context) {
	var initial *models.Wallet
	if identity := a.sessions.Identity(); identity != nil {
		initial = identity.Wallet
	}
	a.ctrl = dashboard.NewController(a.gateway, a.chat, a.scoped, mining.DefaultConfig(), initial)
	a.ctrl.Refresh(ctx)
}

func (a *App) loop(ctx context.Context, in io.Reader, out io.Writer) {
	scanner := bufio.NewScanner(in)
	a.render(out)
	fmt.Fprint(out, "> ")

	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) > 0 {
			if fields[0] == "quit" || fields[0] == "exit" {
				return
			}
			a.handle(ctx, out, fields)
		}
		a.render(out)
		fmt.Fprint(out, "> ")
	}
}

func (a *App) handle(ctx context.Context, out io.Writer, fields []string) {
	command, args := fields[0], fields[1:]

	if a.ctrl == nil {
		a.handleAuth(ctx, out, command, args)
		return
	}

	switch command {
	case "help":
		fmt.Fprintln(out, "commands: view <overview|mining|wallet|transactions>, mine, withdraw <amount>, connect <address>, refresh, jackpot, dismiss, chat, logout, quit")
	case "logout":
		if err := a.sessions.Logout(ctx); err != nil {
			logger.Warn("Logout failed", err)
		}
		a.ctrl.Close()
		a.ctrl = nil
	case "view":
		if len(args) != 1 {
			fmt.Fprintln(out, "usage: view <overview|mining|wallet|transactions>")
			return
		}
		if err := a.ctrl.SetView(dashboard.View(args[0])); err != nil {
			fmt.Fprintln(out, err)
		}
	case "mine":
		if err := a.ctrl.StartMining(ctx); err != nil {
			fmt.Fprintln(out, err)
		}
	case "withdraw":
		if len(args) != 1 {
			fmt.Fprintln(out, "usage: withdraw <amount>")
			return
		}
		// нечисловая сумма отклоняется молча, как и пустая
		_ = a.ctrl.Withdraw(ctx, args[0])
	case "connect":
		if len(args) != 1 {
			fmt.Fprintln(out, "usage: connect <address>")
			return
		}
		_ = a.ctrl.ConnectWallet(ctx, args[0])
	case "refresh":
		a.ctrl.Refresh(ctx)
	case "jackpot":
		a.ctrl.ShowJackpot()
	case "dismiss":
		a.ctrl.DismissJackpot(ctx)
	case "chat":
		a.chat.Open()
	case "trigger-jackpot":
		// отладочная команда, в справке не показывается
		if err := a.gateway.TriggerJackpot(ctx); err != nil {
			fmt.Fprintln(out, client.ServerMessage(err, msgAuthFailed))
		}
	default:
		fmt.Fprintln(out, "unknown command, try: help")
	}
}

func (a *App) handleAuth(ctx context.Context, out io.Writer, command string, args []string) {
	switch command {
	case "help":
		fmt.Fprintln(out, "commands: login <email> <password>, register <username> <email> <password>, quit")
	case "login":
		if len(args) != 2 {
			fmt.Fprintln(out, "usage: login <email> <password>")
			return
		}
		response, err := a.gateway.Login(ctx, models.LoginRequest{Email: args[0], Password: args[1]})
		if err != nil {
			fmt.Fprintln(out, client.ServerMessage(err, msgAuthFailed))
			return
		}
		a.signIn(ctx, out, response)
	case "register":
		if len(args) != 3 {
			fmt.Fprintln(out, "usage: register <username> <email> <password>")
			return
		}
		response, err := a.gateway.Register(ctx, models.RegisterRequest{Username: args[0], Email: args[1], Password: args[2]})
		if err != nil {
			fmt.Fprintln(out, client.ServerMessage(err, msgAuthFailed))
			return
		}
		a.signIn(ctx, out, response)
	default:
		fmt.Fprintln(out, "sign in first, try: help")
	}
}

func (a *App) signIn(ctx context.Context, out io.Writer, response *models.AuthResponse) {
	if err := a.sessions.Login(ctx, response.User, response.Token); err != nil {
		fmt.Fprintln(out, msgAuthFailed)
		return
	}
	a.mount(ctx)
}
