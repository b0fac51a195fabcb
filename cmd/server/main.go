package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/zllovesuki/tlsconnector/connector"
	"github.com/zllovesuki/tlsconnector/profiler"
	"github.com/zllovesuki/tlsconnector/reuse"
	"github.com/zllovesuki/tlsconnector/util"
)

var Version = "dev"

var (
	configPath = flag.String("config", "config.yaml", "path to the config file")
	debug      = flag.Bool("debug", false, "verbose logging")
)

func main() {
	flag.Parse()

	var logCfg zap.Config
	if *debug {
		logCfg = zap.NewDevelopmentConfig()
	} else {
		logCfg = zap.NewProductionConfig()
	}
	logCfg.OutputPaths = []string{"stderr"}
	logger, err := logCfg.Build()
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	undo, err := zap.RedirectStdLogAt(logger, zapcore.DebugLevel)
	if err != nil {
		log.Fatal(err)
	}
	defer undo()

	bundle, err := getConfig(*configPath)
	if err != nil {
		logger.Fatal("reading config", zap.Error(err))
	}

	acceptor, err := newAcceptor(logger, bundle)
	if err != nil {
		logger.Fatal("building acceptor", zap.Error(err))
	}

	if bundle.Metrics.Addr != "" {
		go func() {
			if err := profiler.StartProfiler(bundle.Metrics.Addr); err != nil {
				logger.Error("metrics server stopped", zap.Error(err))
			}
		}()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	addr := fmt.Sprintf("%s:%d", bundle.Network.BindAddr, bundle.Network.Port)
	raw, err := reuse.Listen(ctx, addr)
	if err != nil {
		logger.Fatal("listening", zap.String("addr", addr), zap.Error(err))
	}

	l := connector.NewListener(acceptor, raw, time.Duration(bundle.Network.HandshakeTimeout)*time.Second)
	go l.Serve(ctx)
	go serveEcho(ctx, logger, l)

	logger.Info("echo server started",
		zap.String("version", Version),
		zap.String("addr", addr),
		zap.String("profile", acceptor.Context().Name()),
		zap.Stringer("engine", acceptor.Context().Engine()))

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
	logger.Info("shutting down")
}

func serveEcho(ctx context.Context, logger *zap.Logger, l net.Listener) {
	for {
		conn, err := l.Accept()
		if err != nil {
			logger.Debug("echo listener closed", zap.Error(err))
			return
		}
		go func() {
			defer conn.Close()
			n, err := util.Copy(ctx, conn, conn)
			logger.Debug("echo session ended",
				zap.String("remoteAddr", conn.RemoteAddr().String()),
				zap.Int64("bytes", n),
				zap.Error(err))
		}()
	}
}
