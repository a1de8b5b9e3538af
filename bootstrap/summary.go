package bootstrap

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/kbukum/wirekit/component"
	"github.com/kbukum/wirekit/di"
	"github.com/kbukum/wirekit/logger"
)

// Summary is a snapshot of a started application.
type Summary struct {
	Name            string
	Version         string
	ContextID       string
	StartupDuration time.Duration
	InspectAddr     string
	Components      []component.Health
	Wirings         []di.WiringInfo
}

// Summary collects live component health and root wirings.
func (a *App[C]) Summary(ctx context.Context, startup time.Duration) *Summary {
	s := &Summary{
		Name:            a.Name,
		Version:         a.Version,
		ContextID:       a.Root.ID(),
		StartupDuration: startup,
		Components:      a.Components.HealthAll(ctx),
		Wirings:         a.Root.Resolver().Wirings(),
	}
	if a.Inspect != nil {
		s.InspectAddr = a.Inspect.Addr()
	}
	return s
}

// Log writes the summary as a single structured record.
func (s *Summary) Log(log *logger.Logger) {
	counts := map[string]int{}
	for _, w := range s.Wirings {
		counts[w.Kind]++
	}
	healthy := 0
	for _, h := range s.Components {
		if h.Status == component.StatusHealthy {
			healthy++
		}
	}
	fields := logger.Fields(
		"name", s.Name,
		"version", s.Version,
		logger.FieldContextID, s.ContextID,
		logger.FieldDuration, s.StartupDuration.Milliseconds(),
		"components", len(s.Components),
		"components_healthy", healthy,
		"wirings", counts,
	)
	if s.InspectAddr != "" {
		fields["inspect_addr"] = s.InspectAddr
	}
	log.Info("Application started", fields)
}

// Render prints a human-readable tree of the summary to w.
func (s *Summary) Render(w io.Writer) {
	fmt.Fprintf(w, "\n%s v%s started in %.2fs\n", s.Name, s.Version, s.StartupDuration.Seconds())
	fmt.Fprintf(w, "   root context %s\n", s.ContextID)
	if s.InspectAddr != "" {
		fmt.Fprintf(w, "   inspect http://%s\n", s.InspectAddr)
	}

	if len(s.Wirings) > 0 {
		fmt.Fprintf(w, "\nWirings (%d)\n", len(s.Wirings))
		for i, wi := range s.Wirings {
			note := ""
			if wi.Cached {
				note = " cached"
			}
			if wi.Configured {
				note += fmt.Sprintf(" payload=%d", wi.Payload)
			}
			fmt.Fprintf(w, "   %s %-9s %s%s\n", treePrefix(i, len(s.Wirings)), wi.Kind, wi.Key, note)
		}
	}

	fmt.Fprintf(w, "\nComponents\n")
	if len(s.Components) == 0 {
		fmt.Fprintf(w, "   └── none registered\n")
	}
	for i, h := range s.Components {
		msg := ""
		if h.Message != "" {
			msg = " (" + h.Message + ")"
		}
		fmt.Fprintf(w, "   %s %s %s: %s%s\n", treePrefix(i, len(s.Components)), healthStatusIcon(h.Status), h.Name, strings.ToLower(string(h.Status)), msg)
	}
	fmt.Fprintln(w)
}

func treePrefix(i, n int) string {
	if i == n-1 {
		return "└──"
	}
	return "├──"
}

func healthStatusIcon(status component.HealthStatus) string {
	switch status {
	case component.StatusHealthy:
		return "✅"
	case component.StatusDegraded:
		return "⚠️"
	case component.StatusUnhealthy:
		return "❌"
	default:
		return "❓"
	}
}
