package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/yourusername/bet-outlier/internal/health"
	"github.com/yourusername/bet-outlier/internal/metrics"
	"github.com/yourusername/bet-outlier/internal/report"
	"github.com/yourusername/bet-outlier/internal/scheduler"
)

func newWatchCmd() *cobra.Command {
	var schedule string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-run the configured analysis on a schedule",
		Long:  `Runs the configured matchups on a cron schedule, optionally reloading the reference tables from the config file before each run, and serves health and metrics endpoints.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if schedule == "" {
				schedule = cfg.Schedule.AnalysisCron
			}
			if schedule == "" {
				return fmt.Errorf("no schedule: set schedule.analysis_cron or pass --schedule")
			}
			if len(cfg.Analysis.Matchups) == 0 {
				return fmt.Errorf("no matchups configured")
			}

			ctx := cmd.Context()
			metrics.InitRegistry()

			svc, err := buildService(cfg, cfg.Analysis.Enrich, appLog)
			if err != nil {
				return err
			}

			var healthServer *health.Server
			if cfg.Health.Enabled {
				hcfg := health.Config{
					ServiceName: cfg.App.Name,
					Version:     Version,
					Commit:      GitCommit,
					Port:        cfg.Health.Port,
					Logger:      appLog,
					Checks:      map[string]health.Checker{"reference": svc},
				}
				if cfg.Metrics.Enabled {
					hcfg.MetricsHandler = metrics.Handler()
					hcfg.MetricsPath = cfg.Metrics.Path
				}
				healthServer = health.NewServer(hcfg)
				if err := healthServer.Start(ctx); err != nil {
					return fmt.Errorf("failed to start health server: %w", err)
				}
			}

			job := func(jobCtx context.Context) error {
				if cfg.Schedule.ReloadReference {
					if err := svc.ReloadReferenceFromFile(configFile); err != nil {
						// Keep analyzing with the previous tables
						appLog.WithError(err).Warn("Reference reload failed")
					}
				}
				run, err := svc.Analyze(jobCtx, cfg.Analysis.Matchups, cfg.Analysis.Enrich)
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), report.GenerateConsoleReport(run))
				return nil
			}

			sched := scheduler.NewScheduler(appLog, 5*time.Minute)
			if _, err := sched.ScheduleAnalysis(schedule, "analysis", job); err != nil {
				return err
			}

			sched.RunNow("analysis", job)
			if err := sched.Start(); err != nil {
				return err
			}
			if healthServer != nil {
				healthServer.SetReady(true)
			}
			appLog.WithField("next_run", sched.GetNextRun()).Info("Watching for edges")

			<-ctx.Done()
			appLog.Info("Shutdown signal received")

			if healthServer != nil {
				healthServer.SetReady(false)
			}
			return sched.Stop()
		},
	}

	cmd.Flags().StringVar(&schedule, "schedule", "", "Cron expression overriding schedule.analysis_cron")
	return cmd
}
