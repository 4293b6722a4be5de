package main

import (
	"context"
	"fmt"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/trezcool/ratiba/core"
	"github.com/trezcool/ratiba/core/calendar"
)

var errNoOwner = errors.New("no owner: set it in the file or with -owner")

// seedFile is the YAML layout read by `seed`.
type seedFile struct {
	Owner  string              `yaml:"owner"`
	Events []calendar.NewEvent `yaml:"events"`
}

// seed creates the events listed in a YAML file; nothing is created if any of them is invalid.
func (cli *commandLine) seed(path, ownerID string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "reading seed file")
	}
	var sf seedFile
	if err = yaml.Unmarshal(data, &sf); err != nil {
		return errors.Wrap(err, "decoding seed file")
	}
	if ownerID = core.CleanString(ownerID); ownerID == "" {
		ownerID = core.CleanString(sf.Owner)
	}
	if ownerID == "" {
		return errNoOwner
	}

	for i := range sf.Events {
		if err = sf.Events[i].Validate(cli.validate); err != nil {
			return errors.Wrapf(err, "event #%d (%s)", i+1, sf.Events[i].Title)
		}
	}

	ctx := context.Background()
	for _, ne := range sf.Events {
		if _, err = cli.svc.Create(ctx, ownerID, ne); err != nil {
			return errors.Wrapf(err, "creating %q", ne.Title)
		}
	}
	fmt.Fprintf(cli.out, "seeded %d event(s) for owner %s\n", len(sf.Events), ownerID)
	return nil
}
