package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var Version = "dev"

func main() {
	connectCommand := flag.NewFlagSet("connect", flag.ExitOnError)
	checkCommand := flag.NewFlagSet("check", flag.ExitOnError)
	gencertCommand := flag.NewFlagSet("gencert", flag.ExitOnError)

	addr := connectCommand.String("addr", "127.0.0.1:8443", "address of the TLS server")
	domain := connectCommand.String("domain", "", "name to verify the server against, defaults to the host of -addr")
	caFile := connectCommand.String("ca", "", "PEM bundle of trusted roots instead of the system roots")
	noSNI := connectCommand.Bool("no-sni", false, "do not send server name indication")
	noVerify := connectCommand.Bool("no-verify-hostname", false, "skip hostname verification (the chain is still verified)")
	alpn := connectCommand.String("alpn", "", "comma separated ALPN protocols")
	cDebug := connectCommand.Bool("debug", false, "verbose logging")

	certFile := checkCommand.String("cert", "", "PEM certificate to check")
	checkDomain := checkCommand.String("domain", "", "name to check the certificate against")
	kDebug := checkCommand.Bool("debug", false, "verbose logging")

	out := gencertCommand.String("out", ".", "output directory")
	hosts := gencertCommand.String("hosts", "localhost,127.0.0.1", "comma separated DNS names and IPs for the leaf")
	rsaKey := gencertCommand.Bool("rsa", false, "issue an RSA leaf instead of ECDSA")
	gDebug := gencertCommand.Bool("debug", false, "verbose logging")

	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "expecting subcommands: connect, check, gencert\n")
		os.Exit(1)
	}

	switch os.Args[1] {
	case "connect":
		connectCommand.Parse(os.Args[2:])
	case "check":
		checkCommand.Parse(os.Args[2:])
	case "gencert":
		gencertCommand.Parse(os.Args[2:])
	default:
		flag.PrintDefaults()
		os.Exit(1)
	}

	var logCfg zap.Config
	if *cDebug || *kDebug || *gDebug {
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

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	if connectCommand.Parsed() {
		var protos []string
		if *alpn != "" {
			protos = strings.Split(*alpn, ",")
		}
		Connect(ctx, ConnectOpts{
			Logger:         logger,
			Addr:           *addr,
			Domain:         *domain,
			CA:             *caFile,
			SNI:            !*noSNI,
			VerifyHostname: !*noVerify,
			NextProtos:     protos,
			Sigs:           sigs,
		})
		return
	}

	if checkCommand.Parsed() {
		if *certFile == "" || *checkDomain == "" {
			checkCommand.PrintDefaults()
			os.Exit(1)
		}
		if !Check(CheckOpts{
			Logger: logger,
			Cert:   *certFile,
			Domain: *checkDomain,
			Output: os.Stdout,
		}) {
			os.Exit(2)
		}
		return
	}

	if gencertCommand.Parsed() {
		GenCert(GenCertOpts{
			Logger: logger,
			Out:    *out,
			Hosts:  strings.Split(*hosts, ","),
			RSA:    *rsaKey,
		})
	}
}
