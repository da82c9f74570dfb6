package cli

import (
	"context"
	"strconv"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/pm/internal/config"
)

// PrintConfigCmd returns the print-config command.
func PrintConfigCmd(cfg *config.Config) *Command {
	fs := flag.NewFlagSet("print-config", flag.ContinueOnError)
	fs.Bool("json", false, "Print the config file form as JSON")

	return &Command{
		Flags: fs,
		Usage: "print-config",
		Short: "Show resolved configuration",
		Long:  "Display the effective configuration and which files it was loaded from.",
		Exec: func(_ context.Context, o *IO, _ []string) error {
			asJSON, _ := fs.GetBool("json")
			if asJSON {
				data, err := config.Marshal(*cfg)
				if err != nil {
					return err
				}

				o.Println(string(data))

				return nil
			}

			execPrintConfig(o, cfg)

			return nil
		},
	}
}

func execPrintConfig(o *IO, cfg *config.Config) {
	o.Println("effective_cwd=" + cfg.EffectiveCwd)

	if cfg.SeedFileAbs != "" {
		o.Println("seed_file=" + cfg.SeedFileAbs)
	} else {
		o.Println("seed_file=(demo data)")
	}

	o.Println("views_file=" + cfg.ViewsFileAbs)
	o.Println("default_sort=" + cfg.DefaultSort)
	o.Println("default_order=" + cfg.DefaultOrder)
	o.Println("log_level=" + cfg.LogLevel)
	o.Println("strict=" + strconv.FormatBool(cfg.Strict))

	o.Println("")
	o.Println("# sources")

	if cfg.Sources.Global == "" && cfg.Sources.Project == "" {
		o.Println("(defaults only)")

		return
	}

	if cfg.Sources.Global != "" {
		o.Println("global_config=" + cfg.Sources.Global)
	}

	if cfg.Sources.Project != "" {
		o.Println("project_config=" + cfg.Sources.Project)
	}
}
