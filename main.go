package main

import (
	"context"
	"flag"
	"strings"

	"budgetbuddy/config"
	"budgetbuddy/database"
	"budgetbuddy/middleware"
	"budgetbuddy/router"
	"budgetbuddy/service"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// @title BudgetBuddy API
// @version 1.0
// @description Personal finance backend: accounts, transactions, budgets, bills, goals and ML-backed forecasts. Account balances are kept consistent with their linked transactions.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

var (
	configFile  string
	port        string
	showVersion bool
)

func init() {
	flag.StringVar(&configFile, "config", "", "external config file path (optional)")
	flag.StringVar(&configFile, "c", "", "external config file path (shorthand)")
	flag.StringVar(&port, "port", "", "listen port, e.g. 8080 or :8080")
	flag.StringVar(&port, "p", "", "listen port (shorthand)")
	flag.BoolVar(&showVersion, "version", false, "print version")
	flag.BoolVar(&showVersion, "v", false, "print version (shorthand)")
}

func main() {
	flag.Parse()

	if showVersion {
		logrus.Info("budgetbuddy v1.0.0")
		return
	}

	// .env is optional, real env vars win either way
	_ = godotenv.Load()

	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		logrus.WithError(err).Fatal("load config failed")
	}

	if cfg.Server.Mode == "release" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetLevel(logrus.DebugLevel)
	}

	if port != "" {
		if !strings.HasPrefix(port, ":") {
			port = ":" + port
		}
		cfg.Server.Port = port
		logrus.WithField("port", port).Info("port overridden from command line")
	}

	config.PrintConfig()

	if err := database.Init(cfg); err != nil {
		logrus.WithError(err).Fatal("database init failed")
	}

	middleware.InitJWT(cfg)

	if cfg.Reminder.Enabled {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		sender := service.NewEmailService(&cfg.Email)
		reminder := service.NewReminderService(database.DB, sender, &cfg.Reminder)
		go reminder.Run(ctx)
	}

	r := router.SetupRouter(cfg)

	logrus.WithFields(logrus.Fields{
		"addr":    cfg.Server.Port,
		"swagger": "http://localhost" + cfg.Server.Port + "/swagger/index.html",
	}).Info("budgetbuddy listening")

	if err := r.Run(cfg.Server.Port); err != nil {
		logrus.WithError(err).Fatal("server exited")
	}
}
