package dig_container

import (
	"context"
	"fmt"
	"log"
	"os"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"go.uber.org/dig"

	echoapi "github.com/trezcool/ratiba/apps/api/echo"
	"github.com/trezcool/ratiba/core"
	"github.com/trezcool/ratiba/core/calendar"
	"github.com/trezcool/ratiba/core/chat"
	logsvc "github.com/trezcool/ratiba/services/logger"
	"github.com/trezcool/ratiba/storage/database"
	"github.com/trezcool/ratiba/storage/database/inmem"
	sqlxrepos "github.com/trezcool/ratiba/storage/database/sqlx"
)

// EngineMemory keeps the events in memory instead of postgres.
const EngineMemory = "memory"

type (
	DBLoggerParam struct {
		dig.In
		Logger core.Logger `name:"dbLogger"`
	}

	// DBCloser releases the event storage.
	DBCloser func() error

	ServerParam struct {
		dig.In
		Conf        *core.Config
		Logger      core.Logger
		CalendarSvc *calendar.Service
		Chat        *chat.Interpreter
		Validate    *validator.Validate
		Translator  ut.Translator
	}
)

func newLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "API : ", log.LstdFlags)
	logger := logsvc.NewRollbarLogger(stdLogger, conf)
	logger.Enable(!conf.Debug)
	return logger
}

func newDBLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "DB : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	logger := logsvc.NewRollbarLogger(stdLogger, conf)
	logger.Enable(!conf.Debug)
	return logger
}

func newEventRepository(conf *core.Config, loggerParam DBLoggerParam) (calendar.Repository, DBCloser) {
	if conf.Database.Engine == EngineMemory {
		db, err := inmemdb.Open()
		if err != nil {
			loggerParam.Logger.Fatal(fmt.Sprintf("opening in-memory database: %v", err), err)
		}
		loggerParam.Logger.Info("using the in-memory event store")
		return inmemdb.NewEventRepository(db), func() error { return nil }
	}

	ctx := context.Background()
	setUp := func() (calendar.Repository, DBCloser, error) {
		if err := database.CreateIfNotExist(ctx, conf); err != nil {
			return nil, nil, err
		}

		db, err := database.OpenX(ctx, conf)
		if err != nil {
			return nil, nil, err
		}

		if err = database.Migrate(db.DB, "up"); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		return sqlxrepos.NewEventRepository(db), db.Close, nil
	}

	repo, closeDB, err := setUp()
	if err != nil {
		loggerParam.Logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	return repo, closeDB
}

func newValidate(translator ut.Translator) *validator.Validate {
	validate := core.NewValidate(translator)
	calendar.RegisterValidators(validate, translator)
	return validate
}

func newServer(p ServerParam) *echoapi.Server {
	return echoapi.NewServer(p.Conf, p.Logger, echoapi.Deps{
		CalendarSvc: p.CalendarSvc,
		Chat:        p.Chat,
		Validate:    p.Validate,
		Translator:  p.Translator,
	})
}

// New returns a new dependency injection dig.Container
func New() *dig.Container {
	c := dig.New()

	must(c.Provide(core.NewConfig))
	must(c.Provide(newLogger))
	must(c.Provide(newDBLogger, dig.Name("dbLogger")))
	must(c.Provide(newEventRepository))
	must(c.Provide(core.NewTranslator))
	must(c.Provide(newValidate))
	must(c.Provide(calendar.NewService))
	must(c.Provide(chat.NewInterpreter))
	must(c.Provide(newServer))

	return c
}

// must exits program if err happened
func must(err error) {
	if err != nil {
		log.Fatal(errors.Wrap(err, "failed to provide dependency").Error())
	}
}
