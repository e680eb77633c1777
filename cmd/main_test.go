package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"

	"github.com/okian/herocoach/internal/adapters/catalog"
	app "github.com/okian/herocoach/internal/app"
	"github.com/okian/herocoach/internal/config"
	"github.com/okian/herocoach/pkg/logger"
)

func newStartedService(ctx context.Context) *app.Service {
	cfg := config.New()
	cfg.WorkerCount = 2
	svc := app.New(cfg,
		app.WithLogger(logger.Nop()),
		app.WithCatalog(catalog.TestData()),
	)
	if err := svc.Start(ctx); err != nil {
		panic(err)
	}
	return svc
}

func TestMainFunction(t *testing.T) {
	convey.Convey("Given the main application", t, func() {
		convey.Convey("When testing configuration loading", func() {
			_ = os.Setenv("HEROCOACH_ADDR", ":8080")
			_ = os.Setenv("HEROCOACH_WORKER_COUNT", "4")
			defer func() {
				_ = os.Unsetenv("HEROCOACH_ADDR")
				_ = os.Unsetenv("HEROCOACH_WORKER_COUNT")
			}()

			convey.Convey("Then configuration should be loadable", func() {
				cfg, err := config.Load(context.Background())
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.WorkerCount, convey.ShouldEqual, 4)
			})
		})

		convey.Convey("When testing invalid configuration", func() {
			_ = os.Setenv("HEROCOACH_ADDR", "")
			defer func() { _ = os.Unsetenv("HEROCOACH_ADDR") }()

			convey.Convey("Then run should fail before serving", func() {
				ctx, cancel := context.WithTimeout(context.Background(), time.Second)
				defer cancel()
				convey.So(run(ctx), convey.ShouldNotBeNil)
			})
		})
	})
}

func TestNewMux(t *testing.T) {
	convey.Convey("Given a mux around a started service", t, func() {
		ctx := context.Background()
		svc := newStartedService(ctx)
		defer svc.Stop()
		mux := newMux(ctx, svc)

		convey.Convey("Then documentation routes are served", func() {
			for _, path := range []string{"/api-docs", "/openapi.yaml"} {
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, httptest.NewRequest("GET", path, http.NoBody))
				convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
			}
		})

		convey.Convey("Then goals can be extracted end to end", func() {
			w := httptest.NewRecorder()
			body := strings.NewReader(`{"text":"I want to run a marathon and save money"}`)
			mux.ServeHTTP(w, httptest.NewRequest("POST", "/v1/goals/extract", body))
			convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
			convey.So(w.Body.String(), convey.ShouldContainSubstring, `"main_goal":"run a marathon"`)
			convey.So(w.Body.String(), convey.ShouldContainSubstring, `"label":"Finance"`)
		})

		convey.Convey("Then traits come from the catalog", func() {
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, httptest.NewRequest("GET", "/v1/traits", http.NoBody))
			convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
			convey.So(w.Body.String(), convey.ShouldContainSubstring, "STEWARDSHIP")
		})
	})
}

func TestMainApplicationComponents(t *testing.T) {
	convey.Convey("Given main application components", t, func() {
		convey.Convey("When testing system metrics updater", func() {
			convey.Convey("Then it should return when the context ends", func() {
				ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
				defer cancel()

				convey.So(func() {
					startSystemMetricsUpdater(ctx)
				}, convey.ShouldNotPanic)
			})
		})

		convey.Convey("When testing service metrics updater", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
			defer cancel()
			svc := newStartedService(context.Background())
			defer svc.Stop()

			convey.Convey("Then it should return when the context ends", func() {
				convey.So(func() {
					startServiceMetricsUpdater(ctx, svc)
				}, convey.ShouldNotPanic)
			})
		})

		convey.Convey("When testing metric updates", func() {
			svc := app.New(config.New(), app.WithLogger(logger.Nop()))

			convey.Convey("Then they should not panic, even before Start", func() {
				convey.So(updateSystemMetrics, convey.ShouldNotPanic)
				convey.So(func() { updateServiceMetrics(svc) }, convey.ShouldNotPanic)
			})
		})
	})
}
