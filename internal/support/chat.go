package support

import (
	"sync"

	"github.com/incomelogins-commits/cryptomine-frontend/internal/logger"
)

// Chat - внешний виджет живого чата с единственной операцией
// "вывести на передний план"
type Chat interface {
	Open()
}

// TawkChat - адаптер виджета Tawk. Если виджет ещё не инициализирован,
// Open безопасно бездействует.
type TawkChat struct {
	mu       sync.Mutex
	maximize func()
}

// NewTawkChat - конструктор адаптера чата
func NewTawkChat() *TawkChat {
	return &TawkChat{}
}

// Bind - вызывается после инициализации виджета
func (c *TawkChat) Bind(maximize func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.maximize = maximize
}

func (c *TawkChat) Open() {
	c.mu.Lock()
	maximize := c.maximize
	c.mu.Unlock()

	if maximize == nil {
		logger.Debug("Chat widget is not ready, open skipped")
		return
	}
	maximize()
}
