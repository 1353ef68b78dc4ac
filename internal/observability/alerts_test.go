package observability

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

type alertRule struct {
	Alert       string            `yaml:"alert"`
	Expr        string            `yaml:"expr"`
	For         string            `yaml:"for"`
	Labels      map[string]string `yaml:"labels"`
	Annotations map[string]string `yaml:"annotations"`
}

type alertGroup struct {
	Name  string      `yaml:"name"`
	Rules []alertRule `yaml:"rules"`
}

type alertSpec struct {
	Groups []alertGroup `yaml:"groups"`
}

func TestAlertRulesWellFormed(t *testing.T) {
	path := filepath.Join("..", "..", "deploy", "prometheus", "alerts", "ledgerdesk.yml")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read alert file: %v", err)
	}

	var spec alertSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		t.Fatalf("failed to unmarshal alert file: %v", err)
	}

	var group *alertGroup
	for i := range spec.Groups {
		if spec.Groups[i].Name == "ledgerdesk" {
			group = &spec.Groups[i]
			break
		}
	}
	if group == nil {
		t.Fatal("ledgerdesk alert group missing")
	}

	wantAlerts := []string{"HighHttpErrorRate", "SlowRequests", "PostingsStalled"}
	byName := map[string]alertRule{}
	for _, rule := range group.Rules {
		byName[rule.Alert] = rule
	}
	for _, name := range wantAlerts {
		rule, ok := byName[name]
		if !ok {
			t.Fatalf("alert %s missing", name)
		}
		if rule.Expr == "" {
			t.Fatalf("alert %s has empty expr", name)
		}
		if !strings.Contains(rule.Expr, "ledgerdesk_") {
			t.Fatalf("alert %s does not reference an application metric: %s", name, rule.Expr)
		}
		if rule.Labels["severity"] == "" {
			t.Fatalf("alert %s missing severity label", name)
		}
		if rule.Annotations["runbook"] == "" {
			t.Fatalf("alert %s missing runbook annotation", name)
		}
	}
}
