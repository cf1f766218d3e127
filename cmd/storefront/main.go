// Command storefront is a small CLI over the storefront request layer.
//
//	storefront -config reqx.yaml -cmd home
//	storefront -cmd token-set -token "Bearer abc"
//	storefront -cmd token-clear
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/bluescreen10/reqx"
	"github.com/bluescreen10/reqx/api/home"
	"github.com/bluescreen10/reqx/internal/config"
	"github.com/bluescreen10/reqx/session"
	"github.com/bluescreen10/reqx/state"
)

func main() {
	var (
		configPath = flag.String("config", "reqx.yaml", "Path to the YAML configuration")
		envFile    = flag.String("env", ".env", "Path to an optional .env file")
		command    = flag.String("cmd", "home", "Command: home|cart|token-show|token-set|token-clear")
		token      = flag.String("token", "", "Token stored by token-set")
		mock       = flag.Bool("mock", false, "Route requests to the mock base URL")
	)
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg, err := config.Load(*configPath, *envFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	log := cfg.Logger(zerolog.ConsoleWriter{Out: os.Stderr})

	if err := run(ctx, cfg, log, *command, *token, *mock); err != nil {
		log.Fatal().Err(err).Str("cmd", *command).Msg("Command failed")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger, command, token string, mock bool) error {
	store, closer, err := config.OpenStore(ctx, cfg.Store, log)
	if err != nil {
		return err
	}
	defer closer.Close()

	storage := reqx.NewStorage(store)
	storage.SetTokenKey(cfg.TokenKey)

	user := state.NewUser(ctx, storage)
	cart, err := state.LoadCart(ctx, storage)
	if err != nil {
		return fmt.Errorf("failed to load cart: %w", err)
	}

	switch command {
	case "token-show":
		fmt.Println(user.Token())
		return nil
	case "token-set":
		return user.SetToken(ctx, token)
	case "token-clear":
		return user.Logout(ctx)
	case "cart":
		for _, item := range cart.Items() {
			fmt.Printf("%-8s %-24s %4d x %8.2f checked=%v\n", item.ID, item.Name, item.CartNum, item.Price, item.Checked)
		}
		fmt.Printf("total %d.%02d\n", cart.TotalPrice()/100, cart.TotalPrice()%100)
		return nil
	case "home":
	default:
		return fmt.Errorf("unknown command %q", command)
	}

	opts := []reqx.Option{
		reqx.WithBaseURL(cfg.BaseURL),
		reqx.WithMockURL(cfg.MockURL),
		reqx.WithTimeout(cfg.Timeout),
		reqx.WithStorage(storage),
		reqx.WithLogger(log),
		reqx.WithMetrics(reqx.NewMetrics(prometheus.NewRegistry())),
	}
	if cfg.AccessLog {
		opts = append(opts, reqx.WithMiddleware(reqx.AccessLogWithConfig(reqx.LoggerConfig{Output: os.Stderr})))
	}
	client := reqx.New(opts...)

	ctrl := session.NewController(storage, func(ctx context.Context) error {
		cart.Reset()
		user.Reset(ctx)
		return nil
	})
	ctrl.SetLogger(log)
	ctrl.Attach(client)

	res, err := home.Get(ctx, client, reqx.RequestOptions{Mock: mock})
	if err != nil {
		if ctrl.Resets() > 0 {
			log.Warn().Msg("Session expired, please log in again")
		}
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}
