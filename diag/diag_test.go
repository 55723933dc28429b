package diag

import "testing"

func TestLocation(t *testing.T) {
	loc := NewLocation("vkCreateGraphicsPipelines")
	if got := loc.String(); got != "vkCreateGraphicsPipelines()" {
		t.Errorf("root String() = %q", got)
	}

	leaf := loc.DotIndex("pCreateInfos", 1).Dot("layout")
	if got := leaf.String(); got != "vkCreateGraphicsPipelines(): pCreateInfos[1].layout" {
		t.Errorf("String() = %q", got)
	}
	if got := leaf.Field(); got != "pCreateInfos[1].layout" {
		t.Errorf("Field() = %q", got)
	}

	// parent location is unchanged
	if loc.Field() != "" {
		t.Errorf("root mutated: %q", loc.Field())
	}
}

func TestOutcome(t *testing.T) {
	var o Outcome
	o.Add(Diagnostic{RuleID: "a", Severity: SeverityWarning, Kind: KindLeakedObject})
	if o.Skip {
		t.Fatal("warnings should not set Skip")
	}
	o.Add(Diagnostic{RuleID: "b", Severity: SeverityError, Kind: KindInvalidHandle})
	if !o.Skip {
		t.Fatal("errors should set Skip")
	}

	var other Outcome
	other.Add(Diagnostic{RuleID: "c", Kind: KindInvalidHandle})
	var merged Outcome
	merged.Merge(o)
	merged.Merge(other)

	if len(merged.Diagnostics) != 3 || !merged.Skip {
		t.Fatalf("merged = %+v", merged)
	}
	if !merged.HasRule("c") || merged.HasRule("z") {
		t.Error("HasRule mismatch")
	}
	if n := len(merged.OfKind(KindInvalidHandle)); n != 2 {
		t.Errorf("OfKind = %d, want 2", n)
	}
}

func TestReporters(t *testing.T) {
	a, b := &Collector{}, &Collector{}
	Reporters{a, b}.Report(Diagnostic{RuleID: "x"})
	if len(a.Diagnostics) != 1 || len(b.Diagnostics) != 1 {
		t.Fatal("fan-out failed")
	}
}
