package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestRepositoryHasNoBoundaryViolations(t *testing.T) {
	violations := collectViolations(filepath.Join("..", "contexts"))
	for _, v := range violations {
		t.Errorf("%s:%d imports %q (%s)", v.File, v.Line, v.Import, v.Rule)
	}
}

func TestDetectsLayerViolations(t *testing.T) {
	root := t.TempDir()
	write := func(rel string, body string) {
		t.Helper()
		path := filepath.Join(root, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	write("peer-review/svc/domain/entities/a.go", `package entities
import _ "confman/contexts/peer-review/svc/ports"
`)
	write("peer-review/svc/application/b.go", `package application
import (
	_ "context"
	_ "confman/internal/platform/db"
	_ "github.com/google/uuid"
	_ "confman/contexts/billing/ledger/domain"
)
`)
	write("peer-review/svc/adapters/memory/c.go", `package memory
import _ "github.com/google/uuid"
`)

	violations := collectViolations(root)
	if len(violations) != 4 {
		t.Fatalf("expected 4 violations, got %d: %+v", len(violations), violations)
	}
	rules := map[string]bool{}
	for _, v := range violations {
		rules[v.Rule] = true
	}
	for _, rule := range []string{
		"domain must not import ports",
		"application must not import runtime infrastructure",
		"application must not import third-party packages",
		"cross-service imports are forbidden",
	} {
		if !rules[rule] {
			t.Fatalf("missing violation %q in %+v", rule, violations)
		}
	}
}
