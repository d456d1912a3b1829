package mining

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/incomelogins-commits/cryptomine-frontend/internal/logger"
	"github.com/incomelogins-commits/cryptomine-frontend/internal/models"
	"github.com/shopspring/decimal"
)

// State - состояние симулируемой сессии майнинга
type State int

const (
	StateIdle State = iota
	StateRunning
	StateSettling
)

func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateSettling:
		return "settling"
	default:
		return "idle"
	}
}

var (
	ErrSessionRunning = errors.New("mining session already running")
)

// Границы случайных параметров сессии. Значения косметические,
// сервер сам решает, сколько начислить.
const (
	DurationMin = 30
	DurationMax = 90
	HashRateMin = 150
	HashRateMax = 750
)

// Gateway - часть API, нужная оркестратору
type Gateway interface {
	StartSession(ctx context.Context, request models.SessionRequest) (*models.SessionResponse, error)
}

// Events - приёмник результатов сессии
type Events interface {
	SessionCompleted(ctx context.Context, wallet models.Wallet, earnings decimal.Decimal)
	SessionFailed(ctx context.Context, err error)
}

// Config - тайминги симуляции
type Config struct {
	TickInterval    time.Duration // шаг косметического прогресса
	ProgressStep    int           // прирост прогресса за шаг
	ProgressCeiling int           // потолок прогресса до завершения
	SessionDuration time.Duration // длительность симуляции
	SettleDelay     time.Duration // пауза перед возвратом в Idle
}

func DefaultConfig() Config {
	return Config{
		TickInterval:    90 * time.Millisecond,
		ProgressStep:    3,
		ProgressCeiling: 95,
		SessionDuration: 3 * time.Second,
		SettleDelay:     600 * time.Millisecond,
	}
}

// Orchestrator - машина состояний одной симулируемой сессии майнинга:
// Idle -> Running -> Settling -> Idle. Одновременно идёт максимум
// одна сессия, повторный запуск отклоняется.
type Orchestrator struct {
	mu       sync.Mutex
	state    State
	progress int
	closed   bool

	gateway Gateway
	events  Events
	cfg     Config
	randInt func(n int) int

	ticker     *time.Ticker
	tickQuit   chan struct{}
	completion *time.Timer
	settle     *time.Timer
}

// NewOrchestrator - конструктор оркестратора сессий
func NewOrchestrator(gateway Gateway, events Events, cfg Config) *Orchestrator {
	return &Orchestrator{
		gateway: gateway,
		events:  events,
		cfg:     cfg,
		randInt: rand.Intn,
	}
}

// Start - запуск сессии. Возвращает ErrSessionRunning, если сессия
// уже идёт или ещё не рассчиталась.
func (o *Orchestrator) Start(ctx context.Context) error {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return errors.New("orchestrator closed")
	}
	if o.state != StateIdle {
		o.mu.Unlock()
		return ErrSessionRunning
	}
	o.state = StateRunning
	o.progress = 0

	ticker := time.NewTicker(o.cfg.TickInterval)
	quit := make(chan struct{})
	o.ticker = ticker
	o.tickQuit = quit
	o.completion = time.AfterFunc(o.cfg.SessionDuration, func() { o.complete(ctx) })
	o.mu.Unlock()

	go o.runTicker(ticker, quit)

	logger.Info("Mining session started")
	return nil
}

// runTicker - косметический прогресс, не привязан к реальному времени
func (o *Orchestrator) runTicker(ticker *time.Ticker, quit chan struct{}) {
	for {
		select {
		case <-quit:
			return
		case <-ticker.C:
			o.advance()
		}
	}
}

func (o *Orchestrator) advance() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.state != StateRunning {
		return
	}
	o.progress += o.cfg.ProgressStep
	if o.progress > o.cfg.ProgressCeiling {
		o.progress = o.cfg.ProgressCeiling
	}
}

// complete - завершение симуляции: тикер гасится ровно один раз,
// прогресс фиксируется на 100, результат запрашивается у сервера.
func (o *Orchestrator) complete(ctx context.Context) {
	o.mu.Lock()
	if o.closed || o.state != StateRunning {
		o.mu.Unlock()
		return
	}
	o.state = StateSettling
	o.progress = 100
	o.ticker.Stop()
	close(o.tickQuit)
	o.ticker = nil
	o.tickQuit = nil

	request := models.SessionRequest{
		Duration: o.randInt(DurationMax-DurationMin) + DurationMin,
		HashRate: o.randInt(HashRateMax-HashRateMin) + HashRateMin,
	}
	o.mu.Unlock()

	response, err := o.gateway.StartSession(ctx, request)
	if err != nil {
		logger.Warn("Mining session failed", err)
		o.events.SessionFailed(ctx, err)
	} else {
		o.events.SessionCompleted(ctx, response.Wallet, response.SessionEarnings)
	}

	o.mu.Lock()
	if !o.closed {
		o.settle = time.AfterFunc(o.cfg.SettleDelay, o.reset)
	}
	o.mu.Unlock()
}

func (o *Orchestrator) reset() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return
	}
	o.state = StateIdle
	o.progress = 0
}

// State - текущее состояние машины
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Progress - отображаемый прогресс, 0-100
func (o *Orchestrator) Progress() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.progress
}

// Close - останавливает таймеры. Запросы в полёте не отменяются,
// их результаты после Close игнорируются.
func (o *Orchestrator) Close() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return
	}
	o.closed = true
	if o.ticker != nil {
		o.ticker.Stop()
		close(o.tickQuit)
		o.ticker = nil
		o.tickQuit = nil
	}
	if o.completion != nil {
		o.completion.Stop()
	}
	if o.settle != nil {
		o.settle.Stop()
	}
}
