package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/ratiba/core"
	"github.com/trezcool/ratiba/core/calendar"
)

var errHelp = errors.New("help provided")

type commandLine struct {
	conf     *core.Config
	db       *sql.DB
	svc      *calendar.Service
	validate *validator.Validate
	loc      *time.Location
	out      io.Writer
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  migrate COMMAND [ARGS]                           - run a goose command (up, down, status, ...)")
	fmt.Fprintln(cli.out, "  seed -file FILE.yaml [-owner ID]                 - create the events listed in a YAML file")
	fmt.Fprintln(cli.out, "  import -file FILE.ics -owner ID                  - create the events of an iCalendar feed")
	fmt.Fprintln(cli.out, "  export -owner ID [-year Y] [-month M] [-out F]   - write a month as an iCalendar feed")
	fmt.Fprintln(cli.out, "  token -owner ID [-username U] [-email E]         - issue an API bearer token")
}

func (cli *commandLine) newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(cli.out)
	return fs
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	seedCmd := cli.newFlagSet("seed")
	seedFile := seedCmd.String("file", "", "The YAML file listing the events.")
	seedOwner := seedCmd.String("owner", "", "The events owner (overrides the file's owner).")

	importCmd := cli.newFlagSet("import")
	importFile := importCmd.String("file", "", "The iCalendar (.ics) file.")
	importOwner := importCmd.String("owner", "", "The events owner.")

	exportCmd := cli.newFlagSet("export")
	exportOwner := exportCmd.String("owner", "", "The events owner.")
	exportYear := exportCmd.Int("year", 0, "The year (defaults to the current one).")
	exportMonth := exportCmd.Int("month", 0, "The month, 1-12 (defaults to the current one).")
	exportOut := exportCmd.String("out", "", "The output file (defaults to stdout).")

	tokenCmd := cli.newFlagSet("token")
	tokenOwner := tokenCmd.String("owner", "", "The owner ID (token subject).")
	tokenUsername := tokenCmd.String("username", "", "The owner's username.")
	tokenEmail := tokenCmd.String("email", "", "The owner's email.")

	switch args[1] {
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])
	case "seed":
		if err := seedCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *seedFile == "" {
			seedCmd.Usage()
			return errHelp
		}
		return cli.seed(*seedFile, *seedOwner)
	case "import":
		if err := importCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *importFile == "" || *importOwner == "" {
			importCmd.Usage()
			return errHelp
		}
		return cli.importICS(*importFile, *importOwner)
	case "export":
		if err := exportCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *exportOwner == "" {
			exportCmd.Usage()
			return errHelp
		}
		return cli.exportICS(*exportOwner, *exportYear, *exportMonth, *exportOut)
	case "token":
		if err := tokenCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *tokenOwner == "" {
			tokenCmd.Usage()
			return errHelp
		}
		return cli.token(core.User{ID: *tokenOwner, Username: *tokenUsername, Email: *tokenEmail})
	default:
		cli.printUsage()
		return errHelp
	}
}
