package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	app "github.com/erp/automation/internal/application/automation"
	domain "github.com/erp/automation/internal/domain/automation"
	"github.com/erp/automation/internal/infrastructure/config"
	"github.com/erp/automation/internal/infrastructure/erpclient"
	"github.com/erp/automation/internal/infrastructure/logger"
	"github.com/erp/automation/internal/infrastructure/oauth"
)

// session carries what every subcommand needs once flags are parsed
type session struct {
	out    io.Writer
	v      *viper.Viper
	cfg    *config.Config
	log    *zap.Logger
	client *erpclient.Client
}

func (s *session) format() string {
	return s.v.GetString("output")
}

func (s *session) credentials() (domain.Credentials, error) {
	token := s.v.GetString("access-token")
	if token == "" {
		return domain.Credentials{}, fmt.Errorf("an access token is required: pass --access-token or set %s_ACCESS_TOKEN", config.EnvPrefix)
	}
	return domain.Credentials{AccessToken: token}, nil
}

func (s *session) registry() *app.Registry {
	return app.NewRegistry(s.client, app.WithLogger(s.log))
}

func (s *session) oauth() (*oauth.Service, error) {
	return oauth.NewService(oauth.Config{
		BaseURL:      s.cfg.ERP.BaseURL,
		ClientID:     s.cfg.OAuth.ClientID,
		ClientSecret: s.cfg.OAuth.ClientSecret,
		RedirectURI:  s.cfg.OAuth.RedirectURI,
		Scopes:       s.cfg.OAuth.Scopes,
	}, s.client, nil, s.log)
}

func newRootCmd(out io.Writer) *cobra.Command {
	s := &session{out: out, v: viper.New()}

	root := &cobra.Command{
		Use:           "automationctl",
		Short:         "Run ERP automation triggers, actions and searches",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return s.init()
		},
	}
	root.SetOut(out)

	flags := root.PersistentFlags()
	flags.String("config", "", "config file (default: config.toml in the usual locations)")
	flags.StringP("output", "o", "table", "output format: table, json or yaml")
	flags.String("access-token", "", "ERP access token")
	flags.String("erp-url", "", "ERP base URL (overrides config)")
	flags.BoolP("verbose", "v", false, "log backend calls to stderr")
	for _, name := range []string{"config", "output", "access-token", "erp-url", "verbose"} {
		_ = s.v.BindPFlag(name, flags.Lookup(name))
	}
	s.v.SetEnvPrefix(config.EnvPrefix)
	s.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	s.v.AutomaticEnv()

	root.AddCommand(catalogCmd(s))
	root.AddCommand(triggerCmd(s))
	root.AddCommand(actionCmd(s))
	root.AddCommand(searchCmd(s))
	root.AddCommand(oauthCmd(s))
	root.AddCommand(tokenCmd(s))
	return root
}

func (s *session) init() error {
	switch s.format() {
	case formatTable, formatJSON, formatYAML:
	default:
		return fmt.Errorf("unknown output format %q", s.format())
	}

	cfg, err := config.LoadFile(s.v.GetString("config"))
	if err != nil {
		return err
	}
	if u := s.v.GetString("erp-url"); u != "" {
		cfg.ERP.BaseURL = strings.TrimRight(u, "/")
	}
	s.cfg = cfg

	level := "warn"
	if s.v.GetBool("verbose") {
		level = "debug"
	}
	s.log, err = logger.New(&logger.Config{Level: level, Format: "console", Output: "stderr"})
	if err != nil {
		return err
	}

	s.client, err = erpclient.New(erpclient.Config{
		BaseURL:   cfg.ERP.BaseURL,
		Timeout:   cfg.ERP.Timeout,
		UserAgent: "automationctl/" + cfg.App.Version,
	}, erpclient.WithLogger(s.log))
	return err
}
