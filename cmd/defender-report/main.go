package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/TheBigBear/Get-DefenderReport/internal/collector"
	"github.com/TheBigBear/Get-DefenderReport/internal/config"
	"github.com/TheBigBear/Get-DefenderReport/internal/defender"
	"github.com/TheBigBear/Get-DefenderReport/internal/hostlist"
	"github.com/TheBigBear/Get-DefenderReport/internal/logging"
	"github.com/TheBigBear/Get-DefenderReport/internal/mail"
	"github.com/TheBigBear/Get-DefenderReport/internal/probe"
	"github.com/TheBigBear/Get-DefenderReport/internal/report"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cfg := config.Load()

	cmd := &cobra.Command{
		Use:          "defender-report",
		Short:        "Collect Windows Defender status from hosts and write HTML reports",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cfg)
		},
	}

	cmd.Flags().StringVar(&cfg.HostFile, "hosts", cfg.HostFile, "file with one host per line")
	cmd.Flags().StringVar(&cfg.OutputDir, "out", cfg.OutputDir, "directory for report files")
	cmd.Flags().IntVar(&cfg.Concurrency, "concurrency", cfg.Concurrency, "maximum hosts probed in parallel")
	cmd.Flags().Float64Var(&cfg.RateLimit, "rate", 0, "maximum probe starts per second (0 = unlimited)")
	cmd.Flags().BoolVar(&cfg.Email, "email", false, "email the overview report (SMTP_* environment)")
	cmd.Flags().BoolVar(&cfg.Debug, "debug", false, "enable debug logging")

	return cmd
}

func run(cfg config.Config) error {
	log := logging.New(cfg.Debug)
	defer log.Sync()

	hosts, err := hostlist.Read(cfg.HostFile)
	if err != nil {
		return err
	}
	log.Info("host list loaded", zap.Int("hosts", len(hosts)), zap.String("file", cfg.HostFile))

	querier := &probe.WinRMQuerier{
		Port:     cfg.WinRM.Port,
		User:     cfg.WinRM.User,
		Password: cfg.WinRM.Password,
		Timeout:  cfg.WinRM.Timeout,
	}
	prober := probe.NewProber(probe.Config{Port: cfg.WinRM.Port}, querier, log)
	coll := collector.New(prober, cfg.Concurrency, cfg.RateLimit, log)

	records, err := coll.Collect(context.Background(), hosts)
	if err != nil {
		return err
	}

	now := time.Now()
	logSummary(log, records, now)

	renderer, err := report.NewRenderer()
	if err != nil {
		return err
	}
	overview, err := renderer.RenderOverview(records, now)
	if err != nil {
		return err
	}
	hostDocs := make(map[string]string, len(records))
	for _, rec := range records {
		doc, err := renderer.RenderHost(rec, now)
		if err != nil {
			return err
		}
		hostDocs[rec.Host] = doc
	}

	var mailer report.Mailer
	if cfg.Email {
		smtp, err := mail.NewSMTPMailer(mail.Config{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
			To:       cfg.SMTP.To,
		})
		if err != nil {
			return err
		}
		mailer = smtp
	}

	writer := report.NewWriter(cfg.OutputDir, mailer, log)
	return writer.WriteAll(hostDocs, overview, now)
}

// logSummary tallies derived severities so the run log answers "how bad is the
// fleet" without opening the report.
func logSummary(log *zap.Logger, records []defender.StatusRecord, now time.Time) {
	var critical, warning, normal int
	for _, rec := range records {
		switch rec.Severity(now) {
		case defender.SeverityCritical:
			critical++
		case defender.SeverityWarning:
			warning++
		default:
			normal++
		}
	}
	log.Info("collection complete",
		zap.Int("records", len(records)),
		zap.Int("critical", critical),
		zap.Int("warning", warning),
		zap.Int("normal", normal),
	)
}
