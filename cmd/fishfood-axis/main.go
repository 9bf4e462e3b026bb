// Command fishfood-axis is the viam module entrypoint for the linear-axis
// motor component, plus a periodic status report used when the module
// runs as a standalone daemon outside viam-server.
package main

import (
	"context"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"go.viam.com/rdk/components/motor"
	"go.viam.com/rdk/logging"
	"go.viam.com/rdk/module"
	"go.viam.com/utils"

	"github.com/atanisoft/fishfood/internal/linearaxis"
	"github.com/atanisoft/fishfood/internal/report"
)

func main() {
	utils.ContextualMain(mainWithArgs, module.NewLoggerFromArgs(""))
}

func mainWithArgs(ctx context.Context, args []string, logger logging.Logger) error {
	zl, err := zap.NewProduction()
	if err != nil {
		return err
	}
	sink := report.NewZapSink(zl.Sugar())

	statusCron := cron.New()
	if _, err := statusCron.AddFunc("@every 30s", func() {
		sink.Infof("fishfood-axis module alive")
	}); err != nil {
		return err
	}
	statusCron.Start()
	defer statusCron.Stop()

	myMod, err := module.NewModuleFromArgs(ctx, logger)
	if err != nil {
		return err
	}

	if err := myMod.AddModelFromRegistry(ctx, motor.API, linearaxis.Model); err != nil {
		return err
	}

	if err := myMod.Start(ctx); err != nil {
		return err
	}
	defer myMod.Close(ctx)

	<-ctx.Done()
	return nil
}
