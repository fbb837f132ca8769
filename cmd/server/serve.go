package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"google.golang.org/grpc"

	"hospital-management-api/internal/auth"
	"hospital-management-api/internal/config"
	"hospital-management-api/internal/grpcapi"
	"hospital-management-api/internal/handler"
	"hospital-management-api/internal/logger"
	"hospital-management-api/internal/middleware"
	"hospital-management-api/internal/service"
	"hospital-management-api/internal/store"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Apply migrations and serve the REST API (and gRPC when GRPC_PORT is set)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context())
		},
	}
}

func serve(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logger.New(cfg)
	defer log.Sync()

	st, err := store.Open(ctx, cfg.DB, log)
	if err != nil {
		return err
	}
	defer st.Close()
	if err := st.Migrate(ctx); err != nil {
		return err
	}

	tokens := auth.NewTokens(cfg.Auth.JWTSecret, cfg.Auth.JWTExpiry)
	authSvc := service.NewAuth(st, tokens, cfg.Auth.BcryptCost, log)
	clinic := service.NewClinic(st, cfg.Policy, log)

	// one budget per client across REST and gRPC
	rl := middleware.NewRateLimiter(cfg.Limits.AuthRPS, cfg.Limits.AuthBurst)
	defer rl.Close()

	errCh := make(chan error, 2)

	httpSrv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler.New(authSvc, clinic, log).Routes(cfg, rl),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Info("http listening", zap.String("addr", httpSrv.Addr))
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http: %w", err)
		}
	}()

	var grpcSrv *grpc.Server
	if cfg.GRPCPort != "" {
		lis, err := net.Listen("tcp", ":"+cfg.GRPCPort)
		if err != nil {
			return fmt.Errorf("grpc listen: %w", err)
		}
		grpcSrv = grpcapi.NewGRPCServer(grpcapi.NewServer(authSvc, clinic, log), rl)
		go func() {
			log.Info("grpc listening", zap.String("addr", lis.Addr().String()))
			if err := grpcSrv.Serve(lis); err != nil {
				errCh <- fmt.Errorf("grpc: %w", err)
			}
		}()
	}

	select {
	case <-ctx.Done():
		log.Info("shutting down")
	case err := <-errCh:
		log.Error("server failed", zap.Error(err))
		shutdown(cfg.ShutdownTimeout, httpSrv, grpcSrv, log)
		return err
	}

	shutdown(cfg.ShutdownTimeout, httpSrv, grpcSrv, log)
	return nil
}

func shutdown(timeout time.Duration, httpSrv *http.Server, grpcSrv *grpc.Server, log *zap.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := httpSrv.Shutdown(ctx); err != nil {
		log.Warn("http shutdown", zap.Error(err))
	}
	if grpcSrv == nil {
		return
	}

	done := make(chan struct{})
	go func() {
		grpcSrv.GracefulStop()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		grpcSrv.Stop()
	}
}
