package dashboard

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/incomelogins-commits/cryptomine-frontend/internal/client"
	"github.com/incomelogins-commits/cryptomine-frontend/internal/logger"
	"github.com/incomelogins-commits/cryptomine-frontend/internal/mining"
	"github.com/incomelogins-commits/cryptomine-frontend/internal/models"
	"github.com/incomelogins-commits/cryptomine-frontend/internal/storage"
	"github.com/incomelogins-commits/cryptomine-frontend/internal/support"
	"github.com/shopspring/decimal"
)

// View - режим отображения дашборда
type View string

const (
	ViewOverview     View = "overview"
	ViewMining       View = "mining"
	ViewWallet       View = "wallet"
	ViewTransactions View = "transactions"
)

// Severity - тип уведомления. Gold означает джекпот и дополнительно
// предлагает открыть чат поддержки.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
	SeverityGold    Severity = "gold"
)

// Toast - одноразовое самоисчезающее уведомление
type Toast struct {
	Message  string
	Severity Severity
}

var (
	ErrInvalidAmount = errors.New("withdrawal amount is missing or not a number")
	ErrUnknownView   = errors.New("unknown view")
)

const (
	// флаг сессионного хранилища: модалка джекпота уже закрыта
	JackpotDismissedKey = "jackpot_dismissed"

	DefaultToastTTL  = 5 * time.Second
	DefaultChatDelay = 800 * time.Millisecond
)

// Запасные тексты уведомлений, когда сервер не прислал своих
const (
	msgMiningFailed    = "Mining session failed"
	msgWithdrawFailed  = "Withdrawal failed"
	msgWithdrawOK      = "Withdrawal request submitted!"
	msgJackpotWithdraw = "Jackpot withdrawal, opening support chat"
	msgConnectFailed   = "Failed to connect wallet"
	msgConnectOK       = "Wallet connected successfully!"
)

// Controller - владелец всего изменяемого состояния дашборда.
// Сетевые вызовы уходят через Gateway, симуляция майнинга - через
// оркестратор, состояние меняется только методами контроллера.
type Controller struct {
	mu     sync.Mutex
	closed bool

	gateway client.Gateway
	chat    support.Chat
	scoped  storage.KeyValue
	miner   *mining.Orchestrator

	stats        *models.Stats
	wallet       models.Wallet
	transactions []models.Transaction
	view         View
	toast        *Toast
	toastTimer   *time.Timer
	chatTimer    *time.Timer
	showJackpot  bool

	// настраиваются до первого использования, в тестах сокращаются
	ToastTTL  time.Duration
	ChatDelay time.Duration
}

// Snapshot - снимок состояния для отрисовки
type Snapshot struct {
	View           View
	Stats          *models.Stats
	Wallet         models.Wallet
	Transactions   []models.Transaction
	Toast          *Toast
	ShowJackpot    bool
	MiningState    mining.State
	MiningProgress int
}

// NewController - конструктор контроллера. initial - кошелёк из профиля
// пользователя до первого ответа сервера, может быть nil.
func NewController(gateway client.Gateway, chat support.Chat, scoped storage.KeyValue, cfg mining.Config, initial *models.Wallet) *Controller {
	c := &Controller{
		gateway:   gateway,
		chat:      chat,
		scoped:    scoped,
		view:      ViewOverview,
		ToastTTL:  DefaultToastTTL,
		ChatDelay: DefaultChatDelay,
	}
	if initial != nil {
		c.wallet = *initial
	}
	c.miner = mining.NewOrchestrator(gateway, c, cfg)
	return c
}

// Refresh - загрузка статистики и транзакций. Оба запроса уходят
// одновременно, состояние применяется только когда готовы оба,
// частичные обновления снаружи не наблюдаемы.
func (c *Controller) Refresh(ctx context.Context) {
	var (
		statsResponse *models.StatsResponse
		transactions  []models.Transaction
		statsErr      error
		transactErr   error
		wg            sync.WaitGroup
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		statsResponse, statsErr = c.gateway.GetStats(ctx)
	}()
	go func() {
		defer wg.Done()
		transactions, transactErr = c.gateway.GetTransactions(ctx)
	}()
	wg.Wait()

	if statsErr != nil || transactErr != nil {
		logger.Warn("Dashboard refresh failed", statsErr, transactErr)
		return
	}

	dismissed := c.jackpotDismissed(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.stats = &statsResponse.Stats
	c.wallet = statsResponse.Wallet
	c.transactions = transactions
	if statsResponse.JackpotTriggered && !dismissed {
		c.showJackpot = true
	}
}

// StartMining - запуск симулируемой сессии, максимум одна за раз
func (c *Controller) StartMining(ctx context.Context) error {
	return c.miner.Start(ctx)
}

// SessionCompleted - кошелёк замещается ответом сервера целиком,
// клиент не считает дельты сам.
func (c *Controller) SessionCompleted(ctx context.Context, wallet models.Wallet, earnings decimal.Decimal) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.wallet = wallet
	c.mu.Unlock()

	c.showToast(fmt.Sprintf("Session complete! Earned $%s", earnings.StringFixed(2)), SeveritySuccess)
	c.Refresh(ctx)
}

// SessionFailed - кошелёк остаётся прежним
func (c *Controller) SessionFailed(ctx context.Context, err error) {
	c.showToast(client.ServerMessage(err, msgMiningFailed), SeverityError)
}

// Withdraw - запрос вывода средств. Пустая или нечисловая сумма
// отклоняется молча: ни вызова API, ни изменения состояния.
func (c *Controller) Withdraw(ctx context.Context, raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ErrInvalidAmount
	}
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return ErrInvalidAmount
	}

	response, err := c.gateway.Withdraw(ctx, amount)
	if err != nil {
		c.showToast(client.ServerMessage(err, msgWithdrawFailed), SeverityError)
		return err
	}

	if response.RequiresSupport {
		// джекпот: обращение в поддержку вместо обновления статистики
		c.showToast(msgJackpotWithdraw, SeverityGold)
		supportAmount := amount
		if err := c.gateway.CreateSupportRequest(ctx, models.SupportRequest{
			Type:   models.SupportTypeJackpotWithdrawal,
			Method: models.SupportMethodLiveChat,
			Amount: &supportAmount,
		}); err != nil {
			logger.Warn("Failed to create support request", err)
		}
		c.mu.Lock()
		if !c.closed {
			c.chatTimer = time.AfterFunc(c.ChatDelay, c.chat.Open)
		}
		c.mu.Unlock()
		return nil
	}

	if response.Wallet != nil {
		c.mu.Lock()
		if !c.closed {
			c.wallet = *response.Wallet
		}
		c.mu.Unlock()
	}
	c.showToast(msgWithdrawOK, SeveritySuccess)
	c.Refresh(ctx)
	return nil
}

// ConnectWallet - привязка адреса внешнего кошелька. Локальный кошелёк
// не меняется, адрес придёт со следующим ответом сервера.
func (c *Controller) ConnectWallet(ctx context.Context, address string) error {
	if strings.TrimSpace(address) == "" {
		return nil
	}
	if err := c.gateway.ConnectWallet(ctx, address); err != nil {
		c.showToast(client.ServerMessage(err, msgConnectFailed), SeverityError)
		return err
	}
	c.showToast(msgConnectOK, SeveritySuccess)
	return nil
}

// DismissJackpot - закрытие модалки до конца текущей сессии приложения
func (c *Controller) DismissJackpot(ctx context.Context) {
	c.mu.Lock()
	c.showJackpot = false
	c.mu.Unlock()

	if err := c.scoped.Set(ctx, JackpotDismissedKey, "1"); err != nil {
		logger.Warn("Failed to persist jackpot dismissal", err)
	}
}

// ShowJackpot - повторное открытие модалки вручную, без перезагрузки данных
func (c *Controller) ShowJackpot() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.showJackpot = true
}

// SetView - переключение режима отображения. Данные не перезагружаются,
// все режимы читают одно и то же состояние.
func (c *Controller) SetView(view View) error {
	switch view {
	case ViewOverview, ViewMining, ViewWallet, ViewTransactions:
	default:
		return ErrUnknownView
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.view = view
	return nil
}

// Snapshot - копия состояния для отрисовки
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	snapshot := Snapshot{
		View:           c.view,
		Wallet:         c.wallet,
		ShowJackpot:    c.showJackpot,
		MiningState:    c.miner.State(),
		MiningProgress: c.miner.Progress(),
	}
	if c.stats != nil {
		stats := *c.stats
		snapshot.Stats = &stats
	}
	if c.toast != nil {
		toast := *c.toast
		snapshot.Toast = &toast
	}
	snapshot.Transactions = make([]models.Transaction, len(c.transactions))
	copy(snapshot.Transactions, c.transactions)
	return snapshot
}

// Close - контроллер размонтирован, поздние ответы игнорируются
func (c *Controller) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	if c.toastTimer != nil {
		c.toastTimer.Stop()
	}
	if c.chatTimer != nil {
		c.chatTimer.Stop()
	}
	c.mu.Unlock()

	c.miner.Close()
}

// showToast - единственный слот уведомления: новое замещает старое,
// таймер прежнего гасится.
func (c *Controller) showToast(message string, severity Severity) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	if c.toastTimer != nil {
		c.toastTimer.Stop()
	}
	toast := &Toast{Message: message, Severity: severity}
	c.toast = toast
	c.toastTimer = time.AfterFunc(c.ToastTTL, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		// слот мог быть перезанят, гасим только своё уведомление
		if c.closed || c.toast != toast {
			return
		}
		c.toast = nil
		c.toastTimer = nil
	})
}

func (c *Controller) jackpotDismissed(ctx context.Context) bool {
	_, err := c.scoped.Get(ctx, JackpotDismissedKey)
	return err == nil
}
