// Command drivefsd serves the drivefs HTTP API: a hierarchical
// folder/file view, presigned transfers, and prefix search over a flat
// object store.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/objvault/drivefs/internal/cache"
	"github.com/objvault/drivefs/internal/config"
	"github.com/objvault/drivefs/internal/drive"
	"github.com/objvault/drivefs/internal/logger"
	"github.com/objvault/drivefs/internal/objstore"
	"github.com/objvault/drivefs/internal/objstore/minio"
	"github.com/objvault/drivefs/internal/server"
)

func main() {
	configPath := flag.String("config", "", "path to the YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.New(nil).Fatal(err.Error())
	}

	log := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: os.Stdout,
	})
	logger.SetGlobal(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	storeCfg := &objstore.Config{
		Endpoint:  cfg.Storage.Endpoint,
		AccessKey: cfg.Storage.AccessKey,
		SecretKey: cfg.Storage.SecretKey,
		UseSSL:    cfg.Storage.UseSSL,
		Region:    cfg.Storage.Region,
		Bucket:    cfg.Storage.Bucket,
		PageSize:  cfg.Storage.PageSize,
	}
	driver, err := minio.New(ctx, storeCfg)
	if err != nil {
		log.Fatal("object store unavailable: " + err.Error())
	}

	policy := objstore.DefaultRetryPolicy()
	if cfg.Storage.RetryMaxTries > 0 {
		policy.MaxTries = cfg.Storage.RetryMaxTries
	}
	client := objstore.WithRetry(driver, policy)

	facade := drive.NewFacade(drive.Options{
		Client:           client,
		Cache:            cache.NewMemory(cfg.Cache.TTL.Std()),
		ListTTL:          cfg.Cache.TTL.Std(),
		StatTTL:          cfg.Cache.StatTTL.Std(),
		MaxListPages:     cfg.Limits.MaxListPages,
		MaxUploadBytes:   cfg.Limits.MaxUploadBytes,
		UploadExpiry:     cfg.Presign.UploadExpiry.Std(),
		DownloadExpiry:   cfg.Presign.DownloadExpiry.Std(),
		SearchMaxResults: cfg.Limits.SearchMaxResults,
		Logger:           log,
	})

	srv := server.New(cfg.Server.Addr, facade, log)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil {
			log.Fatal("server failed: " + err.Error())
		}
	case <-ctx.Done():
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout.Std())
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("shutdown incomplete: " + err.Error())
		}
	}
}
