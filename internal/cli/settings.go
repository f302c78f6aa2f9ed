package cli

import (
	"github.com/urfave/cli/v2"

	deverrors "github.com/AndreyAkinshin/devgenie/internal/errors"
	"github.com/AndreyAkinshin/devgenie/internal/settings"
)

func (s *session) settingsCommand() *cli.Command {
	return &cli.Command{
		Name:  "settings",
		Usage: "Read and change persisted settings",
		Subcommands: []*cli.Command{
			{
				Name:         "get",
				Usage:        "Print the value of a setting",
				ArgsUsage:    "<key>",
				Action:       s.cmdSettingsGet,
				OnUsageError: usageError,
			},
			{
				Name:      "set",
				Usage:     "Change a setting",
				ArgsUsage: "<key> <value>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "kind", Usage: "Value kind: string, number, bool or json (default: inferred)"},
				},
				Action:       s.cmdSettingsSet,
				OnUsageError: usageError,
			},
			{
				Name:         "list",
				Usage:        "List all settings",
				Action:       s.cmdSettingsList,
				OnUsageError: usageError,
			},
			{
				Name:         "delete",
				Usage:        "Remove a setting",
				ArgsUsage:    "<key>",
				Action:       s.cmdSettingsDelete,
				OnUsageError: usageError,
			},
		},
	}
}

// openSettings loads the configuration and returns the settings store,
// failing when the settings file could not be read.
func (s *session) openSettings(c *cli.Context) (*settings.Store, error) {
	if err := s.load(c); err != nil {
		return nil, err
	}
	if s.settingsErr != nil {
		return nil, s.settingsErr
	}
	return s.settings, nil
}

func (s *session) cmdSettingsGet(c *cli.Context) error {
	if c.Args().Len() != 1 {
		return deverrors.Config("settings get: expected <key>")
	}
	store, err := s.openSettings(c)
	if err != nil {
		return err
	}
	key := c.Args().First()
	v, ok := store.Get(key)
	if !ok {
		return deverrors.NotFound("setting", key)
	}
	s.out.Println("%s", v.String())
	return nil
}

func (s *session) cmdSettingsSet(c *cli.Context) error {
	if c.Args().Len() != 2 {
		return deverrors.Config("settings set: expected <key> <value>")
	}
	store, err := s.openSettings(c)
	if err != nil {
		return err
	}
	v, err := settings.ParseValue(c.String("kind"), c.Args().Get(1))
	if err != nil {
		return deverrors.Config(err.Error())
	}
	if err := store.Set(c.Args().First(), v); err != nil {
		return err
	}
	s.out.Info("%s = %s (%s)", c.Args().First(), v.String(), v.Kind())
	return nil
}

func (s *session) cmdSettingsList(c *cli.Context) error {
	store, err := s.openSettings(c)
	if err != nil {
		return err
	}
	keys := store.Keys()
	if len(keys) == 0 {
		s.out.Info("no settings stored in %s", store.Path())
		return nil
	}
	rows := make([][]string, 0, len(keys))
	for _, k := range keys {
		v, _ := store.Get(k)
		rows = append(rows, []string{k, string(v.Kind()), v.String()})
	}
	s.out.Table([]string{"Key", "Kind", "Value"}, rows)
	return nil
}

func (s *session) cmdSettingsDelete(c *cli.Context) error {
	if c.Args().Len() != 1 {
		return deverrors.Config("settings delete: expected <key>")
	}
	store, err := s.openSettings(c)
	if err != nil {
		return err
	}
	key := c.Args().First()
	if _, ok := store.Get(key); !ok {
		return deverrors.NotFound("setting", key)
	}
	return store.Delete(key)
}
