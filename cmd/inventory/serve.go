package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"

	"github.com/rl1809/inventory-tracker/internal/adapter/handler"
	"github.com/rl1809/inventory-tracker/internal/adapter/handler/inventoryrpc"
	"github.com/rl1809/inventory-tracker/internal/adapter/metrics"
	"github.com/rl1809/inventory-tracker/internal/core/service"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the inventory over HTTP and gRPC",
	Long: `Loads the inventory once and serves it over HTTP and gRPC. Every
mutation queues a snapshot that a single persister writes to the backend.
SIGINT or SIGTERM shuts the servers down and flushes the last snapshot.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(commandContext(cmd), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sugar := logger.Sugar()

	b, err := openBackend(ctx, cfg, sugar)
	if err != nil {
		return err
	}
	defer func() {
		if err := b.Close(); err != nil {
			sugar.Warnf("failed to close backend: %v", err)
		}
		sugar.Infof("connections closed")
	}()

	inv, err := b.repo.Load(ctx)
	if err != nil {
		return err
	}
	sugar.Infof("loaded %d items from %s backend", inv.Len(), cfg.Backend)

	recorder := metrics.NewPrometheusRecorder()
	inventoryService := service.NewInventoryService(inv, service.NewStockService(sugar), b.idem, recorder, cfg.Server.QueueSize)

	persisterDone := make(chan struct{})
	go func() {
		defer close(persisterDone)
		service.PersistLoop(inventoryService.GetSaveQueue(), b.repo, sugar, cfg.GetSaveTimeout())
	}()
	sugar.Infof("started persister")

	// Initialize gRPC server
	grpcServer := grpc.NewServer()
	inventoryrpc.RegisterInventoryServer(grpcServer, handler.NewGRPCHandler(inventoryService, cfg.LowStockThreshold))

	lis, err := net.Listen("tcp", cfg.Server.GRPCAddr)
	if err != nil {
		inventoryService.Close()
		<-persisterDone
		return err
	}

	// Initialize HTTP server
	httpHandler := handler.NewHTTPHandler(inventoryService, sugar, cfg.LowStockThreshold)
	httpServer := &http.Server{
		Addr:    cfg.Server.HTTPAddr,
		Handler: httpHandler.Router(recorder.Handler()),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		sugar.Infof("gRPC server listening on %s", cfg.Server.GRPCAddr)
		return grpcServer.Serve(lis)
	})
	g.Go(func() error {
		sugar.Infof("HTTP server listening on %s", cfg.Server.HTTPAddr)
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		sugar.Infof("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.GetShutdownTimeout())
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			sugar.Warnf("HTTP shutdown: %v", err)
		}
		sugar.Infof("HTTP server stopped")

		grpcServer.GracefulStop()
		sugar.Infof("gRPC server stopped")
		return nil
	})

	err = g.Wait()

	// Close the save queue and wait for the last snapshot
	inventoryService.Close()
	<-persisterDone
	sugar.Infof("persister stopped")
	inventoryService.Report()

	return err
}
