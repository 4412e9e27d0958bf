package config

import (
	"github.com/m-mizutani/relsum/pkg/domain/model"
	"github.com/m-mizutani/relsum/pkg/infra/rules"
	"github.com/urfave/cli/v3"
)

// Server holds webhook server configuration
type Server struct {
	Addr          string
	WebhookSecret string `masq:"secret"`
	RulesPath     string
}

// Flags returns CLI flags for server configuration
func (c *Server) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "Server address",
			Value:       "localhost:8080",
			Destination: &c.Addr,
			Sources:     cli.EnvVars("RELSUM_ADDR"),
		},
		&cli.StringFlag{
			Name:        "github-webhook-secret",
			Usage:       "GitHub webhook secret",
			Required:    true,
			Destination: &c.WebhookSecret,
			Sources:     cli.EnvVars("RELSUM_GITHUB_WEBHOOK_SECRET"),
		},
		&cli.StringFlag{
			Name:        "rules",
			Usage:       "Per repository rule file (.toml, .yaml or .yml)",
			Destination: &c.RulesPath,
			Sources:     cli.EnvVars("RELSUM_RULES"),
		},
	}
}

// LoadRules reads the rule file. Without a path every repository uses the
// defaults and the returned RuleSet is nil.
func (c *Server) LoadRules() (*model.RuleSet, error) {
	if c.RulesPath == "" {
		return nil, nil
	}
	return rules.Load(c.RulesPath)
}
