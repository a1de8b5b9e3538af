package bootstrap

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/kbukum/wirekit/appcontext"
	"github.com/kbukum/wirekit/component"
	"github.com/kbukum/wirekit/config"
	"github.com/kbukum/wirekit/di"
	"github.com/kbukum/wirekit/logger"
)

// testConfig is a minimal config for testing that satisfies the Config interface.
type testConfig struct {
	config.ServiceConfig
}

// mockComponent implements component.Component for testing.
type mockComponent struct {
	name     string
	startErr error
	stopErr  error
	health   component.Health
	started  bool
	stopped  bool
}

func (m *mockComponent) Name() string { return m.name }
func (m *mockComponent) Start(ctx context.Context) error {
	m.started = true
	return m.startErr
}
func (m *mockComponent) Stop(ctx context.Context) error {
	m.stopped = true
	return m.stopErr
}
func (m *mockComponent) Health(ctx context.Context) component.Health {
	return m.health
}

type catalog struct {
	Region string
	items  []string
}

func (c *catalog) Wiring() di.Declaration { return di.Keys("region") }

func newTestConfig(name, version string) *testConfig {
	return &testConfig{
		ServiceConfig: config.ServiceConfig{
			Name:        name,
			Version:     version,
			Environment: "development",
		},
	}
}

func newTestApp(t *testing.T, cfg *testConfig, opts ...Option) *App[*testConfig] {
	t.Helper()
	app, err := NewApp(cfg, append([]Option{WithLogger(logger.NewNop())}, opts...)...)
	if err != nil {
		t.Fatalf("NewApp failed: %v", err)
	}
	return app
}

func TestNewApp(t *testing.T) {
	app := newTestApp(t, newTestConfig("test-svc", "1.0.0"))

	if app.Name != "test-svc" {
		t.Errorf("expected name 'test-svc', got %q", app.Name)
	}
	if app.Version != "1.0.0" {
		t.Errorf("expected version '1.0.0', got %q", app.Version)
	}
	if app.Root == nil || app.Root.Parent() != nil {
		t.Fatal("expected a root context")
	}
	if app.Root.Name() != "test-svc" {
		t.Errorf("expected root named after the service, got %q", app.Root.Name())
	}
	if app.Components == nil || app.Logger == nil {
		t.Error("expected components registry and logger")
	}
	if app.Inspect != nil {
		t.Error("inspect server should be disabled by default")
	}
	if app.Cfg.Name != "test-svc" {
		t.Errorf("expected cfg.Name 'test-svc', got %q", app.Cfg.Name)
	}
}

func TestNewAppWiresConfigAndLogger(t *testing.T) {
	cfg := newTestConfig("test", "1.0")
	app := newTestApp(t, cfg)

	got, err := di.Get[*testConfig](app.Root.Resolver(), ConfigKey)
	if err != nil {
		t.Fatalf("Get config failed: %v", err)
	}
	if got != cfg {
		t.Error("expected the app's config instance")
	}
	if _, err := di.Get[*logger.Logger](app.Root.Resolver(), LoggerKey); err != nil {
		t.Errorf("Get logger failed: %v", err)
	}
}

func TestNewAppValidation(t *testing.T) {
	tests := []struct {
		name string
		cfg  *testConfig
	}{
		{"missing name", &testConfig{ServiceConfig: config.ServiceConfig{Environment: "development"}}},
		{"bad environment", &testConfig{ServiceConfig: config.ServiceConfig{Name: "x", Environment: "qa"}}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewApp(tc.cfg, WithLogger(logger.NewNop())); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestNewAppWithOptions(t *testing.T) {
	app := newTestApp(t, newTestConfig("test", "1.0"),
		WithGracefulTimeout(30*time.Second),
		WithRootDefinition(appcontext.Definition{
			Values:     map[string]any{"region": "eu"},
			Singletons: map[string]di.Factory{"catalog": di.ClassOf[catalog]()},
		}),
	)

	if app.gracefulTimeout != 30*time.Second {
		t.Errorf("expected 30s timeout, got %v", app.gracefulTimeout)
	}
	c, err := di.Get[*catalog](app.Root.Resolver(), "catalog")
	if err != nil {
		t.Fatalf("Get catalog failed: %v", err)
	}
	if c.Region != "eu" {
		t.Errorf("expected injected region, got %q", c.Region)
	}
}

func TestDefaultGracefulTimeout(t *testing.T) {
	app := newTestApp(t, newTestConfig("test", "1.0"))
	if app.gracefulTimeout != 15*time.Second {
		t.Errorf("expected default 15s, got %v", app.gracefulTimeout)
	}
}

func TestNewAppTelemetryComponent(t *testing.T) {
	cfg := newTestConfig("test", "1.0")
	cfg.Telemetry.Enabled = true
	app := newTestApp(t, cfg)

	c := app.Components.Get(telemetryName)
	if c == nil {
		t.Fatal("expected telemetry component to be registered")
	}
	if h := c.Health(context.Background()); h.Status != component.StatusDegraded {
		t.Errorf("expected degraded before start, got %s", h.Status)
	}
	if err := c.Stop(context.Background()); err != nil {
		t.Errorf("Stop before Start should be a no-op, got %v", err)
	}
}

func TestNewAppInspectServer(t *testing.T) {
	cfg := newTestConfig("test", "1.0")
	cfg.Inspect.Enabled = true
	app := newTestApp(t, cfg, WithRootDefinition(appcontext.Definition{
		Values: map[string]any{"region": "eu"},
	}))

	if app.Inspect == nil {
		t.Fatal("expected inspect server")
	}
	if app.Components.Get("inspect-server") == nil {
		t.Error("expected inspect-server component")
	}

	tests := []struct {
		path   string
		status int
		body   string
	}{
		{"/wirings/region", http.StatusOK, `"strategy":"value"`},
		{"/wirings/config", http.StatusOK, `"key":"config"`},
		{"/wirings/nope", http.StatusNotFound, "UNRESOLVED_KEY"},
		{"/health", http.StatusOK, app.Root.ID()},
	}
	for _, tc := range tests {
		t.Run(tc.path, func(t *testing.T) {
			rr := httptest.NewRecorder()
			app.Inspect.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, tc.path, http.NoBody))
			if rr.Code != tc.status {
				t.Fatalf("expected %d, got %d", tc.status, rr.Code)
			}
			if !strings.Contains(rr.Body.String(), tc.body) {
				t.Errorf("expected body containing %q, got %s", tc.body, rr.Body.String())
			}
		})
	}
}

func TestNewContext(t *testing.T) {
	app := newTestApp(t, newTestConfig("test", "1.0"))
	child, err := app.NewContext("editor", appcontext.Definition{
		Values: map[string]any{"title": "draft"},
	})
	if err != nil {
		t.Fatalf("NewContext failed: %v", err)
	}
	if child.Parent() != app.Root {
		t.Error("expected child of root")
	}
	if _, err := child.GetObject(ConfigKey); err != nil {
		t.Errorf("expected child to delegate to root: %v", err)
	}
	if app.Root.Resolver().HasWiring("title") {
		t.Error("child wirings must not leak into root")
	}
}

func TestRegisterComponentDuplicate(t *testing.T) {
	app := newTestApp(t, newTestConfig("test", "1.0"))
	_ = app.RegisterComponent(&mockComponent{name: "db"})
	if err := app.RegisterComponent(&mockComponent{name: "db"}); err == nil {
		t.Error("expected error for duplicate component")
	}
}

func TestHooks(t *testing.T) {
	app := newTestApp(t, newTestConfig("test", "1.0"))
	var order []string
	app.OnStart(
		func(ctx context.Context) error { order = append(order, "first"); return nil },
		func(ctx context.Context) error { order = append(order, "second"); return nil },
	)
	app.OnReady(func(ctx context.Context) error { order = append(order, "ready"); return nil })
	app.OnStop(func(ctx context.Context) error { order = append(order, "stop"); return nil })

	if len(app.onStart) != 2 || len(app.onReady) != 1 || len(app.onStop) != 1 {
		t.Fatalf("unexpected hook counts %d/%d/%d", len(app.onStart), len(app.onReady), len(app.onStop))
	}
	if err := runHooks(context.Background(), app.onStart); err != nil {
		t.Fatalf("hook failed: %v", err)
	}
	if strings.Join(order, ",") != "first,second" {
		t.Errorf("expected [first second], got %v", order)
	}
}

func TestHookErrorStopsExecution(t *testing.T) {
	secondCalled := false
	hooks := []Hook{
		func(ctx context.Context) error { return fmt.Errorf("fail") },
		func(ctx context.Context) error { secondCalled = true; return nil },
	}
	err := runHooks(context.Background(), hooks)
	if err == nil || !strings.Contains(err.Error(), "hook 0 failed") {
		t.Errorf("expected hook 0 failure, got %v", err)
	}
	if secondCalled {
		t.Error("expected second hook not to be called after first fails")
	}
}

func TestReadyCheck(t *testing.T) {
	tests := []struct {
		name    string
		health  []component.Health
		wantErr string
	}{
		{"empty", nil, ""},
		{"all healthy", []component.Health{{Name: "db", Status: component.StatusHealthy}}, ""},
		{"degraded", []component.Health{{Name: "db", Status: component.StatusDegraded}}, "db=degraded"},
		{"unhealthy with message", []component.Health{{Name: "db", Status: component.StatusUnhealthy, Message: "down"}}, "db=unhealthy(down)"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			app := newTestApp(t, newTestConfig("test", "1.0"))
			for _, h := range tc.health {
				_ = app.RegisterComponent(&mockComponent{name: h.Name, health: h})
			}
			err := app.ReadyCheck(context.Background())
			if tc.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("expected error containing %q, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestRunTaskSuccess(t *testing.T) {
	app := newTestApp(t, newTestConfig("test", "1.0"))
	executed := false
	err := app.RunTask(context.Background(), func(ctx context.Context) error {
		executed = true
		return nil
	})
	if err != nil {
		t.Fatalf("RunTask failed: %v", err)
	}
	if !executed {
		t.Error("expected task to be executed")
	}
	if !app.Root.Destroyed() {
		t.Error("expected root context to be destroyed on shutdown")
	}
}

func TestRunTaskError(t *testing.T) {
	app := newTestApp(t, newTestConfig("test", "1.0"))
	err := app.RunTask(context.Background(), func(ctx context.Context) error {
		return fmt.Errorf("task error")
	})
	if err == nil || err.Error() != "task error" {
		t.Errorf("expected 'task error', got %v", err)
	}
}

func TestRunTaskCancellation(t *testing.T) {
	app := newTestApp(t, newTestConfig("test", "1.0"))
	ctx, cancel := context.WithCancel(context.Background())

	err := app.RunTask(ctx, func(taskCtx context.Context) error {
		cancel()
		<-taskCtx.Done()
		return taskCtx.Err()
	})
	if err == nil {
		t.Error("expected error from canceled task")
	}
}

func TestRunTaskLifecycleOrder(t *testing.T) {
	app := newTestApp(t, newTestConfig("test", "1.0"), WithRootDefinition(appcontext.Definition{
		Values:     map[string]any{"region": "eu"},
		Singletons: map[string]di.Factory{"catalog": di.ClassOf[catalog]()},
	}))

	var order []string
	app.OnStart(func(ctx context.Context) error {
		order = append(order, "start")
		return nil
	})
	app.OnConfigure(func(ctx context.Context, a *App[*testConfig]) error {
		order = append(order, "configure")
		c, err := di.Get[*catalog](a.Root.Resolver(), "catalog")
		if err != nil {
			return err
		}
		c.items = append(c.items, "book")
		return nil
	})
	app.OnReady(func(ctx context.Context) error {
		order = append(order, "ready")
		return nil
	})
	app.OnStop(func(ctx context.Context) error {
		order = append(order, "stop")
		return nil
	})

	err := app.RunTask(context.Background(), func(ctx context.Context) error {
		order = append(order, "task")
		c, err := di.Get[*catalog](app.Root.Resolver(), "catalog")
		if err != nil {
			return err
		}
		if len(c.items) != 1 {
			return fmt.Errorf("expected the configured singleton, got %v", c.items)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("RunTask failed: %v", err)
	}

	expected := "start,configure,ready,task,stop"
	if got := strings.Join(order, ","); got != expected {
		t.Errorf("expected %s, got %s", expected, got)
	}
}

func TestRunTaskComponents(t *testing.T) {
	app := newTestApp(t, newTestConfig("test", "1.0"))
	comp := &mockComponent{
		name:   "db",
		health: component.Health{Name: "db", Status: component.StatusHealthy},
	}
	_ = app.RegisterComponent(comp)

	if err := app.RunTask(context.Background(), func(ctx context.Context) error { return nil }); err != nil {
		t.Fatalf("RunTask failed: %v", err)
	}
	if !comp.started || !comp.stopped {
		t.Errorf("expected component started and stopped, got %+v", comp)
	}
	if err := app.Shutdown(context.Background()); err != nil {
		t.Errorf("second shutdown should succeed, got %v", err)
	}
}

func TestRunTaskFailures(t *testing.T) {
	boom := fmt.Errorf("boom")
	tests := []struct {
		name  string
		setup func(app *App[*testConfig])
		want  string
	}{
		{"component start", func(app *App[*testConfig]) {
			_ = app.RegisterComponent(&mockComponent{name: "db", startErr: boom})
		}, "initialization failed"},
		{"start hook", func(app *App[*testConfig]) {
			app.OnStart(func(ctx context.Context) error { return boom })
		}, "onStart hook failed"},
		{"configure", func(app *App[*testConfig]) {
			app.OnConfigure(func(ctx context.Context, a *App[*testConfig]) error { return boom })
		}, "configuration failed"},
		{"ready hook", func(app *App[*testConfig]) {
			app.OnReady(func(ctx context.Context) error { return boom })
		}, "onReady hook failed"},
		{"stop hook", func(app *App[*testConfig]) {
			app.OnStop(func(ctx context.Context) error { return boom })
		}, "boom"},
		{"component stop", func(app *App[*testConfig]) {
			_ = app.RegisterComponent(&mockComponent{
				name:    "db",
				stopErr: boom,
				health:  component.Health{Name: "db", Status: component.StatusHealthy},
			})
		}, "boom"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			app := newTestApp(t, newTestConfig("test", "1.0"))
			tc.setup(app)
			err := app.RunTask(context.Background(), func(ctx context.Context) error { return nil })
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Errorf("expected error containing %q, got %v", tc.want, err)
			}
		})
	}
}

func TestWaitForSignalContextCancellation(t *testing.T) {
	app := newTestApp(t, newTestConfig("test", "1.0"))
	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	if sig := app.WaitForSignal(ctx); sig != nil {
		t.Errorf("expected nil signal on context cancellation, got %v", sig)
	}
}

func TestSummary(t *testing.T) {
	app := newTestApp(t, newTestConfig("catalog", "2.1.0"), WithRootDefinition(appcontext.Definition{
		Values:     map[string]any{"region": "eu"},
		Singletons: map[string]di.Factory{"catalog": di.ClassOf[catalog]()},
	}))
	_ = app.RegisterComponent(&mockComponent{
		name:   "db",
		health: component.Health{Name: "db", Status: component.StatusUnhealthy, Message: "down"},
	})

	s := app.Summary(context.Background(), 1500*time.Millisecond)
	if s.ContextID != app.Root.ID() || len(s.Wirings) != 4 || len(s.Components) != 1 {
		t.Fatalf("unexpected summary %+v", s)
	}

	var buf bytes.Buffer
	s.Render(&buf)
	out := buf.String()
	for _, want := range []string{"catalog v2.1.0 started in 1.50s", "singleton", "region", "❌ db: unhealthy (down)"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected render to contain %q, got:\n%s", want, out)
		}
	}

	var logBuf bytes.Buffer
	s.Log(logger.NewWithWriter(&logBuf, "info"))
	if !strings.Contains(logBuf.String(), `"components_healthy":0`) {
		t.Errorf("unexpected log record %s", logBuf.String())
	}
}

func TestSummaryNoComponents(t *testing.T) {
	app := newTestApp(t, newTestConfig("test", "1.0"))
	var buf bytes.Buffer
	app.Summary(context.Background(), 0).Render(&buf)
	if !strings.Contains(buf.String(), "none registered") {
		t.Errorf("expected empty component note, got %s", buf.String())
	}
}
