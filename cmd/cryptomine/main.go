package main

import (
	"fmt"

	"github.com/incomelogins-commits/cryptomine-frontend/internal/app"
	"github.com/incomelogins-commits/cryptomine-frontend/internal/config"
	"github.com/incomelogins-commits/cryptomine-frontend/internal/logger"
)

func main() {
	// загрузка конфига
	config := config.NewConfig()
	// инициализация логгера
	if err := logger.Initialize(config.App.LogLevel); err != nil {
		panic(fmt.Sprintf("can't initialize logger: %s ", err.Error()))
	}
	defer logger.Sync()
	// запуск дашборда
	if err := app.Run(config); err != nil {
		logger.Error("error running dashboard", err.Error())
	}
}
