package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/sessionauth/go-session-core/credentials"
	"github.com/sessionauth/go-session-core/internal/config"
	"github.com/sessionauth/go-session-core/kv"
	"github.com/sessionauth/go-session-core/server"
	"github.com/sessionauth/go-session-core/sessions"
	"github.com/sessionauth/go-session-core/token"
	"github.com/sessionauth/go-session-core/users"
)

func main() {
	for {
		if err := run(); err != nil {
			log.Fatalf("Error running server: %s\n", err)
			time.Sleep(1 * time.Second)
		} else {
			break
		}
	}
	log.Printf("Server stopped\n")
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Recovered from panic: %v\n", r)
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	_ = godotenv.Load()

	c := config.New()
	displayAppname(c.GetAppName())

	srv, err := newServer(c)
	if err != nil {
		return fmt.Errorf("newServer: %w", err)
	}

	httpServer := &http.Server{Addr: c.GetPort(), Handler: srv}
	go listenAndServe(httpServer)
	waitForStopSignal()
	returnError = shutdown(httpServer)
	return returnError
}

// newServer wires the core: a file-backed user directory, an in-memory
// primary session channel seeded per request from the cookie, and a durable
// fallback channel (Redis when configured, a file store otherwise).
func newServer(c config.Config) (*server.Server, error) {
	userStore := kv.NewFile(filepath.Join(c.GetDataFolder(), "users.json"))

	directory, err := users.NewDirectory(userStore, credentials.NewHasher())
	if err != nil {
		return nil, fmt.Errorf("users.NewDirectory: %w", err)
	}

	primary := kv.NewMemory()
	var fallback kv.Store
	if addr := c.GetRedisAddr(); addr != "" {
		fallback = kv.NewRedis(redis.NewClient(&redis.Options{Addr: addr}), "sessioncore")
	} else {
		fallback = kv.NewFile(filepath.Join(c.GetDataFolder(), "sessions.json"))
	}

	manager, err := sessions.NewManager(
		directory,
		token.NewCodec(),
		sessions.Channels{Primary: primary, Fallback: fallback},
		sessions.WithTTL(c.GetSessionTTL()),
	)
	if err != nil {
		return nil, fmt.Errorf("sessions.NewManager: %w", err)
	}

	return server.New(c, directory, manager, primary)
}

func listenAndServe(server *http.Server) error {
	log.Printf("Server listening on %s\n", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server.ListenAndServe %w", err)
	}
	return nil
}

func waitForStopSignal() {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
}

func shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
