package cli

import (
	"github.com/spf13/cobra"

	"github.com/Ramsey-B/fern/config"
)

type columnFlag struct {
	flag     string
	describe string
	target   func(c *config.Config) *string
}

var columnFlags = []columnFlag{
	{"column-account-id", "account id", func(c *config.Config) *string { return &c.ColumnAccountID }},
	{"column-account-name", "account name", func(c *config.Config) *string { return &c.ColumnAccountName }},
	{"column-domain", "email domain", func(c *config.Config) *string { return &c.ColumnDomain }},
	{"column-website", "website", func(c *config.Config) *string { return &c.ColumnWebsite }},
	{"column-billing-country", "billing country", func(c *config.Config) *string { return &c.ColumnBillingCountry }},
	{"column-closed-opportunities", "closed opportunity count", func(c *config.Config) *string { return &c.ColumnClosedOpportunities }},
	{"column-open-opportunities", "open opportunity count", func(c *config.Config) *string { return &c.ColumnOpenOpportunities }},
}

// applyFlags copies every flag the user set onto the loaded config, so flags
// win over the environment and untouched flags keep env values
func applyFlags(cmd *cobra.Command, g *globalFlags, cfg *config.Config) error {
	f := cmd.Flags()

	if f.Changed("log-level") {
		cfg.LogLevel = g.logLevel
	}
	if f.Changed("pretty-logs") {
		cfg.PrettyLogs = g.prettyLogs
	}

	strs := map[string]*string{
		"input-encoding":   &cfg.InputEncoding,
		"output-encoding":  &cfg.OutputEncoding,
		"delimiter":        &cfg.Delimiter,
		"tie-break":        &cfg.TieBreak,
		"preferred-suffix": &cfg.PreferredSuffix,
		"kafka-topic":      &cfg.KafkaOutputTopic,
		"graph-host":       &cfg.GraphDBHost,
		"metrics-file":     &cfg.MetricsFile,
	}
	for _, col := range columnFlags {
		strs[col.flag] = col.target(cfg)
	}
	for name, dst := range strs {
		if !f.Changed(name) {
			continue
		}
		v, err := f.GetString(name)
		if err != nil {
			return err
		}
		*dst = v
	}

	lists := map[string]*[]string{
		"domain-normalizers":  &cfg.DomainNormalizers,
		"name-normalizers":    &cfg.NameNormalizers,
		"primary-countries":   &cfg.PrimaryCountries,
		"secondary-countries": &cfg.SecondaryCountries,
		"kafka-brokers":       &cfg.KafkaBrokers,
	}
	for name, dst := range lists {
		if !f.Changed(name) {
			continue
		}
		v, err := f.GetStringSlice(name)
		if err != nil {
			return err
		}
		*dst = v
	}

	bools := map[string]*bool{
		"kafka": &cfg.KafkaEnabled,
		"graph": &cfg.GraphEnabled,
	}
	for name, dst := range bools {
		if !f.Changed(name) {
			continue
		}
		v, err := f.GetBool(name)
		if err != nil {
			return err
		}
		*dst = v
	}

	ints := map[string]*int{
		"graph-port":    &cfg.GraphDBPort,
		"db-batch-size": &cfg.DatabaseInsertBatchSize,
	}
	for name, dst := range ints {
		if !f.Changed(name) {
			continue
		}
		v, err := f.GetInt(name)
		if err != nil {
			return err
		}
		*dst = v
	}

	return nil
}
