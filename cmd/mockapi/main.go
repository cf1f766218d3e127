// Command mockapi serves the mock storefront backend.
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/rs/zerolog"

	"github.com/bluescreen10/reqx/mockapi"
)

func main() {
	var (
		addr   = flag.String("addr", ":8081", "Listen address")
		prefix = flag.String("prefix", mockapi.DefaultPrefix, "Path prefix of the mock routes")
		debug  = flag.Bool("debug", false, "Log every request at debug level")
	)
	flag.Parse()

	level := zerolog.InfoLevel
	if *debug {
		level = zerolog.DebugLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()

	srv := &http.Server{
		Addr:              *addr,
		Handler:           mockapi.New(mockapi.WithLogger(log), mockapi.WithPrefix(*prefix)),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	log.Info().Str("addr", *addr).Str("prefix", *prefix).Msg("Mock backend listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("Server failed")
	}
}
