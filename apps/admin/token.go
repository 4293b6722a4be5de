package main

import (
	"fmt"

	echoapi "github.com/trezcool/ratiba/apps/api/echo"
	"github.com/trezcool/ratiba/core"
)

// token prints a bearer token for usr, eg. for the dashboard's `backend.token`.
func (cli *commandLine) token(usr core.User) error {
	token, err := echoapi.GenerateToken(cli.conf, echoapi.NewClaims(cli.conf, usr))
	if err != nil {
		return err
	}
	fmt.Fprintln(cli.out, token)
	return nil
}
