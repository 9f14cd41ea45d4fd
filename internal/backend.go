package internal

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/markusressel/rpifanctl/internal/api"
	"github.com/markusressel/rpifanctl/internal/configuration"
	"github.com/markusressel/rpifanctl/internal/device"
	"github.com/markusressel/rpifanctl/internal/fanconfig"
	"github.com/markusressel/rpifanctl/internal/governor"
	"github.com/markusressel/rpifanctl/internal/persistence"
	"github.com/markusressel/rpifanctl/internal/statistics"
	"github.com/markusressel/rpifanctl/internal/thermal"
	"github.com/markusressel/rpifanctl/internal/ui"
	"github.com/markusressel/rpifanctl/internal/util"
	"github.com/oklog/run"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RunDaemon is the foreground body of the adaptive governor process.
// Any failure before the loop reaches its first iteration is fatal to
// this process only; the parent that spawned it has already returned
// after reporting the pid.
func RunDaemon(pollInterval time.Duration) error {
	config := configuration.CurrentConfig

	pidfile := util.NewPidfile(config.PidFilePath)
	if err := pidfile.Acquire(os.Getpid()); err != nil {
		return err
	}
	defer func() {
		_ = pidfile.Release()
	}()

	channel, err := device.Open(config.DevicePath)
	if err != nil {
		return err
	}
	defer func() {
		_ = channel.Close()
	}()

	configByte, err := channel.ReadConfig()
	if err != nil {
		return err
	}
	fanConfig := fanconfig.Decode(configByte)
	if !fanConfig.IsPwmCapable() {
		return fmt.Errorf("current GPIO pin %d is not a PWM pin, unable to use adaptive PWM", fanConfig.GpioNum)
	}

	sampler, err := thermal.NewSampler(config.ThermalZonePath, config.TempRollingWindowSize)
	if err != nil {
		return err
	}
	defer func() {
		_ = sampler.Close()
	}()

	pers := persistence.NewPersistence(config.DbPath, config.HistoryLimit)
	if err = pers.Init(); err != nil {
		ui.Warning("Unable to initialize persistence, history will not be recorded: %v", err)
		pers = nil
	}

	adaptive := governor.NewGovernor(channel, sampler, sampler.Path(), pollInterval)
	if pers != nil {
		if err = pers.SaveGovernorRun(persistence.GovernorRun{
			Pid:          os.Getpid(),
			PollInterval: pollInterval,
			StartedAt:    time.Now(),
		}); err != nil {
			ui.Warning("Unable to record governor run: %v", err)
		}
		defer func() {
			_ = pers.DeleteGovernorRun()
		}()

		adaptive.SetObservationHook(func(state governor.State) {
			err := pers.AppendHistory(persistence.HistoryEntry{
				Timestamp:      state.UpdatedAt,
				Temperature:    state.Temperature,
				MaxTemperature: state.MaxTemperature,
				DutyCycle:      state.DutyCycle,
			})
			if err != nil {
				ui.Warning("Unable to record history entry: %v", err)
			}
		})
	}

	statistics.Register(statistics.NewGovernorCollector())

	ctx, cancel := context.WithCancel(context.Background())

	var g run.Group
	{
		// === adaptive control loop
		g.Add(func() error {
			err := adaptive.Run(ctx)
			ui.Info("Adaptive governor loop stopped.")
			return err
		}, func(err error) {
			if err != nil {
				ui.Warning("Error running governor loop: %v", err)
			}
			cancel()
		})
	}
	{
		if config.Statistics.Enabled {
			// === Prometheus Exporter
			server := &http.Server{
				Addr:    fmt.Sprintf(":%d", config.Statistics.Port),
				Handler: promhttp.Handler(),
			}
			g.Add(func() error {
				err := server.ListenAndServe()
				if err != nil && err != http.ErrServerClosed {
					ui.Error("Cannot start prometheus metrics endpoint (%s)", err.Error())
					return err
				}
				return nil
			}, func(err error) {
				ui.Info("Stopping statistics server...")
				timeoutCtx, timeoutCancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer timeoutCancel()
				_ = server.Shutdown(timeoutCtx)
			})
		}
	}
	{
		if config.Api.Enabled {
			// === REST api
			echoRest := api.CreateRestService(pers)
			g.Add(func() error {
				err := echoRest.Start(fmt.Sprintf(":%d", config.Api.Port))
				if err != nil && err != http.ErrServerClosed {
					ui.Error("Cannot start REST api endpoint (%s)", err.Error())
					return err
				}
				return nil
			}, func(err error) {
				ui.Info("Stopping REST api...")
				timeoutCtx, timeoutCancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer timeoutCancel()
				_ = echoRest.Shutdown(timeoutCtx)
			})
		}
	}
	{
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

		g.Add(func() error {
			select {
			case <-sig:
				ui.Info("Received termination signal, exiting...")
			case <-ctx.Done():
			}
			return nil
		}, func(err error) {
			signal.Stop(sig)
			cancel()
		})
	}

	return g.Run()
}
