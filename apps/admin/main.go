package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/trezcool/ratiba/core"
	"github.com/trezcool/ratiba/core/calendar"
	logsvc "github.com/trezcool/ratiba/services/logger"
	"github.com/trezcool/ratiba/storage/database"
	"github.com/trezcool/ratiba/storage/database/inmem"
	sqlxrepos "github.com/trezcool/ratiba/storage/database/sqlx"
)

const engineMemory = "memory"

func main() {
	conf := core.NewConfig()
	logger := logsvc.NewRollbarLogger(log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile), conf)
	logger.Enable(!conf.Debug)

	translator := core.NewTranslator()
	validate := core.NewValidate(translator)
	calendar.RegisterValidators(validate, translator)

	cli := commandLine{
		conf:     conf,
		validate: validate,
		loc:      time.Local,
		out:      os.Stdout,
	}

	// set up DB
	if conf.Database.Engine == engineMemory {
		db, err := inmemdb.Open()
		errAndDie(logger, err)
		cli.svc = calendar.NewService(inmemdb.NewEventRepository(db))
	} else {
		ctx := context.Background()
		errAndDie(logger, database.CreateIfNotExist(ctx, conf))
		db, err := database.OpenX(ctx, conf)
		errAndDie(logger, err)
		defer db.Close()
		cli.db = db.DB
		cli.svc = calendar.NewService(sqlxrepos.NewEventRepository(db))
	}

	// start CLI
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Error(fmt.Sprintf("\nerror: %s\n", err), err)
		}
		logger.Close()
		os.Exit(1)
	}
	logger.Close()
}

func errAndDie(logger core.Logger, err error) {
	if err != nil {
		logger.Fatal(err.Error(), err)
	}
}
