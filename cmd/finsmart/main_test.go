package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/dvloznov/finsmart/internal/domain"
)

func TestRootCommandTree(t *testing.T) {
	root := newRootCmd()

	want := []string{"serve", "report", "advise", "notion-sync", "migrate"}
	for _, name := range want {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("subcommand %q not found: %v", name, err)
		}
	}

	for _, flag := range []string{"config", "log-level", "log-format"} {
		if root.PersistentFlags().Lookup(flag) == nil {
			t.Errorf("missing persistent flag --%s", flag)
		}
	}
}

func TestReportCommandDemoSnapshot(t *testing.T) {
	t.Setenv("FINSMART_STORAGE_BACKEND", "memory")

	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"report", "--json", "--log-level", "error"})

	if err := root.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	var doc struct {
		Dashboard struct {
			AccountCount int `json:"accountCount"`
		} `json:"dashboard"`
		Trend []json.RawMessage `json:"trend"`
	}
	if err := json.Unmarshal(out.Bytes(), &doc); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out.String())
	}
	if doc.Dashboard.AccountCount != 2 || len(doc.Trend) != trendMonths {
		t.Errorf("report = %+v", doc)
	}
}

func TestRootRejectsInvalidConfig(t *testing.T) {
	t.Setenv("FINSMART_STORAGE_BACKEND", "postgres")

	root := newRootCmd()
	root.SetArgs([]string{"report"})
	err := root.Execute()
	if err == nil || !strings.Contains(err.Error(), "invalid storage backend") {
		t.Errorf("Execute() error = %v, want storage backend error", err)
	}
}

func TestWriteReport(t *testing.T) {
	now := time.Date(2023, time.December, 20, 0, 0, 0, 0, time.UTC)
	var out bytes.Buffer

	if err := writeReport(&out, domain.Seed(domain.DemoUser), now, "TWD"); err != nil {
		t.Fatalf("writeReport() error = %v", err)
	}

	text := out.String()
	for _, want := range []string{
		"48800.00 TWD",
		"65000.00",
		"2023-12-08  MRT Fare",
		"-50.00",
		"2023-12",
		"Shopping",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("report missing %q:\n%s", want, text)
		}
	}
}
