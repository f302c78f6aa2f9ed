package cli

import (
	"github.com/urfave/cli/v2"

	deverrors "github.com/AndreyAkinshin/devgenie/internal/errors"
	"github.com/AndreyAkinshin/devgenie/internal/project"
)

func (s *session) cmdScan(c *cli.Context) error {
	if c.Args().Len() > 1 {
		return deverrors.Config("scan: expected at most one directory")
	}
	dir := c.Args().First()
	if dir == "" {
		dir = "."
	}

	paths, err := project.Discover(dir)
	if err != nil {
		return deverrors.Wrap(err, "scan failed")
	}
	if len(paths) == 0 {
		s.out.Info("no build descriptors found under %s", dir)
		return nil
	}
	for _, p := range paths {
		s.out.Println("%s", p)
	}
	return nil
}
