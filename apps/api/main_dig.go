package main

import (
	"context"
	"expvar"
	"fmt"
	"log"
	"net/http"
	_ "net/http/pprof" // /debug/pprof on the default mux

	"github.com/pkg/errors"

	dig_container "github.com/trezcool/ratiba/apps/api/di/dig"
	echoapi "github.com/trezcool/ratiba/apps/api/echo"
	"github.com/trezcool/ratiba/core"
)

func startWithDig() {
	c := dig_container.New()
	must(c.Invoke(func(conf *core.Config, logger core.Logger, closeDB dig_container.DBCloser, server *echoapi.Server) {
		logger.Info(fmt.Sprintf("ratiba API %q starting (env %s, database %s)", conf.Build, conf.Env, conf.Database.Engine))
		defer func() {
			if err := closeDB(); err != nil {
				logger.Error("closing event store", err)
			}
			logger.Info("ratiba API stopped")
		}()

		serveDebug(conf, logger)
		go server.Start()

		if err := waitShutdown(conf, server); err != nil {
			logger.Error(err.Error(), err)
		}
	}))
}

// serveDebug exposes /debug/vars and /debug/pprof on the debug host, if any.
func serveDebug(conf *core.Config, logger core.Logger) {
	if conf.Server.DebugHost == "" {
		return
	}
	expvar.NewString("build").Set(conf.Build)
	expvar.NewString("env").Set(conf.Env)
	go func() {
		if err := http.ListenAndServe(conf.Server.DebugHost, http.DefaultServeMux); err != nil {
			logger.Warn("debug server closed", err)
		}
	}()
}

// waitShutdown blocks until the server fails or a stop signal arrives, then drains
// in-flight requests for at most server.shutdownTimeout.
func waitShutdown(conf *core.Config, server *echoapi.Server) error {
	select {
	case err := <-server.Errors():
		return errors.Wrap(err, "server error")
	case <-server.ShutdownSignal():
	}

	ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		if cerr := server.Close(); cerr != nil {
			return errors.Wrap(cerr, "forcing server stop")
		}
		return errors.Wrap(err, "draining requests")
	}
	return nil
}

func must(err error) {
	if err != nil {
		log.Fatal(err)
	}
}
