package main

import (
	"context"
	"github.com/asaskevich/EventBus"
	"github.com/maxaizer/boss-harvester/internal/browser"
	"github.com/maxaizer/boss-harvester/internal/config"
	"github.com/maxaizer/boss-harvester/internal/detail"
	"github.com/maxaizer/boss-harvester/internal/harvest"
	"github.com/maxaizer/boss-harvester/internal/interrupt"
	"github.com/maxaizer/boss-harvester/internal/logger"
	"github.com/maxaizer/boss-harvester/internal/metrics"
	"github.com/maxaizer/boss-harvester/internal/normalize"
	"github.com/maxaizer/boss-harvester/internal/notify"
	"github.com/maxaizer/boss-harvester/internal/repositories"
	"github.com/maxaizer/boss-harvester/internal/services"
	"github.com/maxaizer/boss-harvester/internal/snapshot"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
	"os"
	"syscall"
)

type harvestEnv struct {
	cfg       *config.Config
	harvester *harvest.Harvester
	fetcher   *detail.Fetcher
	store     *snapshot.Store
	runs      *repositories.Runs
	bus       EventBus.Bus
}

func buildPasses(cfg config.HarvestConfig) []services.Pass {
	var passes []services.Pass
	for _, search := range cfg.Searches {
		for _, city := range cfg.Cities {
			passes = append(passes, services.Pass{
				Search:   normalize.Search{Group: search.GroupOf(), Keyword: search.Keyword, City: city.Name},
				CityCode: city.Code,
			})
		}
	}
	return passes
}

// runOnce runs every pass with a fresh pipeline. Scheduled runs always resume
// from the snapshot so that consecutive runs accumulate into one file.
func (env *harvestEnv) runOnce(ctrl *interrupt.Controller, resume bool) error {
	pipeline := services.NewPipeline(env.harvester, env.fetcher, env.store, env.runs, env.bus,
		services.PipelineOptions{
			FetchDetails: env.cfg.Detail.Enabled,
			FlushEvery:   env.cfg.Detail.FlushEvery,
			PairPause:    env.cfg.Harvest.PairPause,
			Resume:       resume,
		})

	err := pipeline.Run(ctrl, buildPasses(env.cfg.Harvest))
	log.Infof("%d records in %s", len(pipeline.Records()), env.store.Path())
	return err
}

func (env *harvestEnv) runScheduled(ctrl *interrupt.Controller) error {
	var lastErr error
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.PrintfLogger(log.StandardLogger()))))

	_, err := c.AddFunc(env.cfg.Harvest.Schedule, func() {
		if ctrl.Tripped() {
			return
		}
		if lastErr = env.runOnce(ctrl, true); lastErr != nil {
			log.Errorf("scheduled run failed: %v", lastErr)
		}
	})
	if err != nil {
		return err
	}

	c.Start()
	log.Infof("harvest scheduled: %s", env.cfg.Harvest.Schedule)

	<-ctrl.Context().Done()
	<-c.Stop().Done()

	if ctrl.Interrupted() {
		return nil
	}
	return ctrl.Cause()
}

func run() error {
	ctrl := interrupt.New(context.Background())
	ctrl.NotifyOnSignal(syscall.SIGINT, syscall.SIGTERM)
	defer ctrl.Stop()

	cfg := config.Get()

	logger.Setup(cfg.Logger)
	defer logger.Cleanup()

	if cfg.Metrics.Enabled {
		metrics.StartMetricsServer(cfg.Metrics.Address)
	}

	dbContext, err := repositories.NewDbContext(cfg.DB.ConnectionString)
	if err != nil {
		log.Fatalf("can't create db context: %v", err)
	}
	defer dbContext.Close()

	if err = dbContext.Migrate(); err != nil {
		log.Fatalf("can't migrate db context: %v", err)
	}

	runs := repositories.NewRunsRepository(dbContext.DB)
	jobs := repositories.NewJobsRepository(dbContext.DB)
	bus := EventBus.New()

	if _, err = services.NewArchiver(bus, jobs); err != nil {
		log.Fatalf("can't create archiver: %v", err)
	}

	cleaner, err := services.NewRunsCleaner(runs, cfg.DB.RunRetentionDays)
	if err != nil {
		log.Fatalf("can't create runs cleaner: %v", err)
	}
	defer cleaner.Stop()

	if cfg.Notify.Enabled() {
		if _, err = notify.NewTelegram(cfg.Notify.TelegramToken, cfg.Notify.ChatID, bus); err != nil {
			log.WithField(logger.ErrorTypeField, logger.ErrorTypeNotify).Errorf("notifications disabled: %v", err)
		}
	}

	page, err := browser.NewPlaywright(browser.PlaywrightOptions{
		Headless:          cfg.Browser.Headless,
		UserDataDir:       cfg.Browser.UserDataDir,
		InstallBrowsers:   cfg.Browser.Install,
		NavigationTimeout: cfg.Browser.NavigationTimeout,
	})
	if err != nil {
		log.Fatalf("can't start browser: %v", err)
	}
	defer func() {
		if err := page.Close(); err != nil {
			log.Warnf("failed to close browser: %v", err)
		}
	}()

	harvestPacer := browser.NewPacer(cfg.Harvest.MinDelay, cfg.Harvest.MaxDelay)
	detailPacer := browser.NewPacer(cfg.Detail.MinDelay, cfg.Detail.MaxDelay)
	detailPacer.SetRequestsPerMinute(cfg.Detail.RequestsPerMinute)

	env := &harvestEnv{
		cfg: cfg,
		harvester: harvest.NewHarvester(page, harvestPacer, harvest.Options{
			MaxRounds:        cfg.Harvest.MaxRounds,
			MinRounds:        cfg.Harvest.MinRounds,
			EmptyRoundLimit:  cfg.Harvest.EmptyRoundLimit,
			RoundTimeout:     cfg.Harvest.RoundTimeout,
			VerificationWait: cfg.Harvest.VerificationWait,
			ScrollPause:      cfg.Harvest.ScrollPause,
		}),
		fetcher: detail.NewFetcher(detailPacer, cfg.Detail.CacheTTL,
			detail.NewAPISource(page, cfg.Detail.Timeout),
			detail.NewDOMSource(page, cfg.Detail.PanelWait)),
		store: snapshot.NewStore(cfg.Output.Path),
		runs:  runs,
		bus:   bus,
	}

	if cfg.Harvest.Schedule != "" {
		return env.runScheduled(ctrl)
	}
	return env.runOnce(ctrl, cfg.Output.Resume)
}

func main() {
	if err := run(); err != nil {
		log.Errorf("harvest failed: %v", err)
		os.Exit(1)
	}
	log.Info("harvest finished")
}
