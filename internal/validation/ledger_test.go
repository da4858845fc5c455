package validation_test

import (
	"strings"
	"sync"
	"testing"

	"qrdaconv/internal/validation"
)

func TestLedgerInitClearsAndArms(t *testing.T) {
	l := validation.NewLedger()
	l.Errorf("1.2", validation.RefClinicalDocument, "missing %s", "tin")
	if l.Len() != 1 || l.ErrorCount() != 1 {
		t.Fatalf("expected one error finding, got %d/%d", l.Len(), l.ErrorCount())
	}

	l.Disarm()
	l.Warnf("1.2", validation.RefNone, "dropped")
	if l.Len() != 1 {
		t.Fatalf("disarmed ledger recorded a finding: %d", l.Len())
	}

	l.Init()
	if !l.Armed() || l.Len() != 0 {
		t.Fatalf("expected armed empty ledger after Init, armed=%v len=%d", l.Armed(), l.Len())
	}

	l.Warnf("", validation.RefNone, "kept")
	l.Clear()
	if l.Len() != 0 {
		t.Fatalf("expected Clear to discard findings, got %d", l.Len())
	}
	if !l.Armed() {
		t.Fatal("Clear should not disarm the ledger")
	}
}

func TestFindingsReturnsCopy(t *testing.T) {
	l := validation.NewLedger()
	l.Warnf("x", validation.RefMeasureIDs, "first")
	got := l.Findings()
	got[0].Message = "mutated"
	if l.Findings()[0].Message != "first" {
		t.Fatal("Findings should return a copy")
	}
	if !strings.HasSuffix(got[0].Reference, "#page=88") {
		t.Fatalf("unexpected reference %q", got[0].Reference)
	}
}

func TestIndependentLedgersDoNotShareState(t *testing.T) {
	ledgers := make([]*validation.Ledger, 8)
	var wg sync.WaitGroup
	for i := range ledgers {
		ledgers[i] = validation.NewLedger()
		wg.Add(1)
		go func(l *validation.Ledger, n int) {
			defer wg.Done()
			for j := 0; j < n; j++ {
				l.Warnf("", validation.RefNone, "finding %d", j)
			}
		}(ledgers[i], i)
	}
	wg.Wait()
	for i, l := range ledgers {
		if l.Len() != i {
			t.Fatalf("ledger %d: expected %d findings, got %d", i, i, l.Len())
		}
	}
}

func TestReferenceNoneIsEmpty(t *testing.T) {
	if validation.RefNone.String() != "" {
		t.Fatalf("expected empty URL for RefNone, got %q", validation.RefNone.String())
	}
}
