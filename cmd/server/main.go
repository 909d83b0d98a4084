package main

import (
	"context"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/slightknack/aeromessage/internal/config"
	"github.com/slightknack/aeromessage/internal/contacts"
	"github.com/slightknack/aeromessage/internal/domain"
	"github.com/slightknack/aeromessage/internal/httpserver"
	"github.com/slightknack/aeromessage/internal/security"
	"github.com/slightknack/aeromessage/internal/service"
	"github.com/slightknack/aeromessage/internal/store/chatdb"
	"github.com/slightknack/aeromessage/internal/ws"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using environment")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Contact cache, populated at startup and on demand via the API.
	resolver := contacts.NewResolver()
	if n, err := resolver.LoadAddressBook(context.Background(), cfg.ContactSourcesDir); err != nil {
		log.Printf("contact ingestion failed (continuing without names): %v", err)
	} else {
		log.Printf("loaded %d contacts", n)
	}

	// The message store is opened once per request cycle and closed when
	// assembly completes.
	openStore := func() (domain.ConversationStore, io.Closer, error) {
		db, err := chatdb.Open(cfg.ChatDBPath)
		if err != nil {
			return nil, nil, err
		}
		return chatdb.NewStore(db), db, nil
	}

	tokenSvc := security.NewTokenService(cfg.JWTSecret, time.Duration(cfg.AccessTokenMinutes)*time.Minute)
	passwordHasher := security.NewPasswordHasher(0)

	state := service.NewReplyState()
	convSvc := service.NewConversationService(openStore, resolver, cfg.MessageLimit)
	replySvc := service.NewReplyService(convSvc, state, service.ScriptSender{}, cfg.ChatDBPath)

	hub := ws.NewHub()

	router := httpserver.NewRouter(cfg, convSvc, replySvc, state, resolver, hub, tokenSvc, passwordHasher)

	srv := &http.Server{
		Addr:         cfg.HTTPAddr(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("starting %s on %s", cfg.AppName, cfg.HTTPAddr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Println("shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}
}
