package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"payledger/account"
	"payledger/currency"
	"payledger/postgres"
	"payledger/transfer"
	"payledger/web"
)

func main() {
	cli := &cli{}

	cmd := &cobra.Command{
		Use:     "payledger: a payments ledger with an atomic transfer engine",
		PreRunE: cli.setupConfig,
		RunE:    cli.run,
	}

	var err error

	err = setupFlags(cmd)
	if err != nil {
		log.Fatal(err)
	}

	err = cmd.Execute()
	if err != nil {
		log.Fatal(err)
	}
}

type cfg struct {
	HTTPAddr        string
	Currencies      []string
	ShutdownTimeout time.Duration
}

type cli struct {
	cfg cfg
}

// Reads the config fields from flags or a file
func (c *cli) setupConfig(cmd *cobra.Command, args []string) error {
	var err error

	configFile, err := cmd.Flags().GetString("config-file")
	if err != nil {
		return err
	}

	viper.SetConfigFile(configFile)

	if err = viper.ReadInConfig(); err != nil {
		// allow non-existent config file
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return err
		}
	}

	c.cfg.HTTPAddr = viper.GetString("http-addr")
	c.cfg.Currencies = viper.GetStringSlice("currencies")
	c.cfg.ShutdownTimeout = viper.GetDuration("shutdown-timeout")

	return nil
}

func (c *cli) run(cmd *cobra.Command, args []string) error {
	logger, err := zap.NewProduction()
	if err != nil {
		return err
	}
	defer logger.Sync()

	pgConfig, err := postgres.Parse()
	if err != nil {
		return err
	}
	db, err := postgres.Connect(pgConfig)
	if err != nil {
		return err
	}
	defer db.Close()

	currencies, err := currency.NewPostgresRepo(db)
	if err != nil {
		return err
	}
	if err = currency.Ensure(currencies, c.cfg.Currencies...); err != nil {
		return err
	}

	accounts, err := account.NewPostgresRepo(db)
	if err != nil {
		return err
	}
	payments, err := transfer.NewPostgresPaymentRepo(db)
	if err != nil {
		return err
	}
	engine, err := transfer.NewEngine(&transfer.Config{
		DB:       db,
		Accounts: accounts,
		Logger:   logger,
	})
	if err != nil {
		return err
	}

	server := web.NewHTTPServer(c.cfg.HTTPAddr, &web.Config{
		Engine:   engine,
		Accounts: accounts,
		Payments: payments,
		Logger:   logger,
	})

	errc := make(chan error, 1)
	go func() {
		logger.Info("serving api", zap.String("addr", c.cfg.HTTPAddr))
		errc <- server.ListenAndServe()
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err = <-errc:
		return err
	case <-sigc: // block until the OS terminates the program
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.cfg.ShutdownTimeout)
	defer cancel()
	return server.Shutdown(ctx)
}

func setupFlags(cmd *cobra.Command) error {
	fs := cmd.Flags()

	fs.String("config-file", "", "Path to config file")
	fs.String("http-addr", ":8080", "Address to serve the API on")
	fs.StringSlice("currencies", []string{"USD", "EUR"}, "Reference currency codes to register at startup")
	fs.Duration("shutdown-timeout", 10*time.Second, "How long to wait for in-flight requests on shutdown")

	return viper.BindPFlags(cmd.Flags())
}
