package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pterm/pterm"

	"popshop/auth"
	"popshop/config"
	"popshop/internal/appinfo"
	mslogger "popshop/logger"
	"popshop/middleware"
	"popshop/server"
	"popshop/store"
	"popshop/utils"
	"popshop/watch"
)

// runServe loads configPath, starts the fiber app, and blocks until an
// interrupt or termination signal arrives, at which point it drains
// in-flight requests and exits.
func runServe(configPath string) int {
	mslogger.Banner(appinfo.Title, appinfo.Version)

	rules, err := config.Load(configPath)
	if err != nil {
		utils.FatalExit("failed to load config", err)
	}

	st := store.New(rules)
	total, mock, proxyCount := rules.Counts()
	mslogger.LogSuccess(fmt.Sprintf("loaded %d rules (%d mock, %d proxy) from %s", total, mock, proxyCount, configPath))

	var adminSecret []byte
	if flagAdmin {
		if flagAdminSecret != "" {
			adminSecret = []byte(flagAdminSecret)
		} else {
			adminSecret = auth.Secret(configPath)
		}
	}

	opts := server.Options{
		Host:       flagHost,
		Port:       flagPort,
		ConfigPath: configPath,
		Middleware: middleware.Config{
			MaxRequestSize: flagMaxRequestSize,
		},
		Admin: server.AdminOptions{
			Enabled: flagAdmin,
			Secret:  adminSecret,
		},
	}.WithDefaults()

	app := server.StartServer(opts, st)

	addr := fmt.Sprintf("%s:%d", opts.Host, opts.Port)
	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Listen(addr)
	}()

	mslogger.LogServerStart(fmt.Sprintf(":%d", opts.Port))
	if opts.Admin.Enabled {
		mslogger.LogInfo("admin API enabled at " + opts.Admin.Path)
	}

	var stopWatch chan struct{}
	if flagWatch {
		w, err := watch.New(configPath, st)
		if err != nil {
			mslogger.LogError("failed to start config watcher: " + err.Error())
		} else {
			stopWatch = make(chan struct{})
			go w.Start(stopWatch)
			mslogger.LogInfo("watching " + configPath + " for changes")
		}
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			mslogger.LogError("server exited: " + err.Error())
			return 1
		}
	case sig := <-sigCh:
		mslogger.LogWarn(fmt.Sprintf("received %s, shutting down...", sig))
		if stopWatch != nil {
			close(stopWatch)
		}
		if err := app.ShutdownWithTimeout(5 * time.Second); err != nil {
			mslogger.LogError("graceful shutdown failed: " + err.Error())
			return 1
		}
	}

	return 0
}

// runValidate parses configPath without starting a server and prints a
// pterm-colorized diagnostic summary, exiting non-zero on any parse
// failure.
func runValidate(configPath string) int {
	rules, err := config.Load(configPath)
	if err != nil {
		pterm.Error.Println(err.Error())
		return 1
	}

	total, mock, proxyCount := rules.Counts()

	pterm.DefaultSection.Println("PopShop config validation")
	tableData := pterm.TableData{
		{"path", configPath},
		{"rules", fmt.Sprintf("%d", total)},
		{"mock rules", fmt.Sprintf("%d", mock)},
		{"proxy rules", fmt.Sprintf("%d", proxyCount)},
	}
	_ = pterm.DefaultTable.WithData(tableData).Render()

	for _, r := range rules.Rules {
		pterm.Success.Printf("%-6s %-30s -> %s\n", r.Pattern.Method, r.Pattern.Path, r.Kind())
	}

	return 0
}

// runToken issues an admin bearer token for the admin secret derived from
// configPath (or POPSHOP_ADMIN_SECRET, if set) and prints it to stdout.
func runToken(configPath string) int {
	secret := auth.Secret(configPath)

	token, err := auth.IssueToken(secret, "cli-operator", ttl())
	if err != nil {
		mslogger.LogError("failed to issue token: " + err.Error())
		return 1
	}

	fmt.Println(token)
	return 0
}
