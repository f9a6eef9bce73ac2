package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/vocabnest/vocabnest/config"
	"github.com/vocabnest/vocabnest/database"
	"github.com/vocabnest/vocabnest/logger"
	"github.com/vocabnest/vocabnest/util/crypto"
	"github.com/vocabnest/vocabnest/web"

	"github.com/spf13/cobra"
)

func initLogger() {
	level, err := logger.ParseLevel(config.GetLogLevel())
	if err != nil {
		log.Fatal(err)
	}
	logger.InitLogger(level)
}

func initDB() error {
	dbConfig, err := config.GetDatabaseConfig()
	if err != nil {
		return err
	}
	return database.InitDB(dbConfig)
}

func runWebServer() {
	log.Printf("%v %v", config.GetName(), config.GetVersion())

	initLogger()
	defer logger.CloseLogger()

	crypto.SetCost(config.GetBcryptCost())

	if err := initDB(); err != nil {
		log.Fatal(err)
	}
	defer func() {
		if err := database.CloseDB(); err != nil {
			logger.Warning("close database err:", err)
		}
	}()

	server := web.NewServer()
	if err := server.Start(); err != nil {
		logger.Error("start server err:", err)
		return
	}

	sigCh := make(chan os.Signal, 1)
	// Trap shutdown signals
	signal.Notify(sigCh, syscall.SIGHUP, syscall.SIGTERM, os.Interrupt)
	for {
		sig := <-sigCh

		switch sig {
		case syscall.SIGHUP:
			logger.Info("received SIGHUP, restarting web server")
			if err := server.Stop(); err != nil {
				logger.Warning("stop server err:", err)
			}
			server = web.NewServer()
			if err := server.Start(); err != nil {
				logger.Error("restart server err:", err)
				return
			}
		default:
			logger.Info("received", sig, "shutting down")
			if err := server.Stop(); err != nil {
				logger.Warning("stop server err:", err)
			}
			return
		}
	}
}

func migrateDb() {
	initLogger()
	defer logger.CloseLogger()

	if err := initDB(); err != nil {
		fmt.Println("migrate failed:", err)
		os.Exit(1)
	}
	defer database.CloseDB()
	fmt.Println("database is up to date")
}

func showSetting() {
	dbConfig, err := config.GetDatabaseConfig()
	if err != nil {
		fmt.Println("read database config failed:", err)
		return
	}

	redis := config.GetRedisAddr()
	if redis == "" {
		redis = "embedded"
	}

	fmt.Println("current settings as follows:")
	fmt.Println("listen:", config.GetListen())
	fmt.Println("port:", config.GetPort())
	fmt.Println("database:", dbConfig.Type)
	fmt.Println("redis:", redis)
	fmt.Println("public dir:", config.GetPublicDir())
	fmt.Println("session max age (minutes):", config.GetSessionMaxAge())
	fmt.Println("login rate limit (per minute):", config.GetLoginRateLimit())
	fmt.Println("trusted proxies:", config.GetTrustedProxies())
	fmt.Println("session secret set:", config.GetSessionSecret() != "")
}

func main() {
	config.LoadEnv()

	var rootCmd = &cobra.Command{
		Use:   config.GetName(),
		Short: "Vocabulary notebook server",
		Run: func(cmd *cobra.Command, args []string) {
			runWebServer()
		},
	}

	var runCmd = &cobra.Command{
		Use:   "run",
		Short: "Run the web server",
		Run: func(cmd *cobra.Command, args []string) {
			runWebServer()
		},
	}

	var migrateCmd = &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations and exit",
		Run: func(cmd *cobra.Command, args []string) {
			migrateDb()
		},
	}

	var versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(config.GetName(), config.GetVersion())
		},
	}

	var settingCmd = &cobra.Command{
		Use:   "setting",
		Short: "Show current settings",
		Run: func(cmd *cobra.Command, args []string) {
			showSetting()
		},
	}

	rootCmd.AddCommand(runCmd, migrateCmd, versionCmd, settingCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
