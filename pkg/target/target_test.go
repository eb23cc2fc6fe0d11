package target

import "testing"

func TestLookupKnownTargets(t *testing.T) {
	for _, name := range []string{"rv64", "rv32e", "x86-64"} {
		t.Run(name, func(t *testing.T) {
			tgt, ok := Lookup(name)
			if !ok {
				t.Fatalf("expected target %q to exist", name)
			}
			if tgt.Name != name {
				t.Errorf("target name = %q, want %q", tgt.Name, name)
			}
		})
	}
	if _, ok := Lookup("m68k"); ok {
		t.Error("unknown target should not resolve")
	}
}

func TestCalleeSavedWithinAllocatable(t *testing.T) {
	for _, name := range Names() {
		tgt, _ := Lookup(name)
		for _, c := range tgt.Classes {
			if c.Limits.CalleeSaved > c.Limits.Allocatable {
				t.Errorf("%s/%s: callee-saved %d exceeds allocatable %d",
					name, c.Name, c.Limits.CalleeSaved, c.Limits.Allocatable)
			}
		}
	}
}

func TestRV32EConstrainedFile(t *testing.T) {
	tgt, _ := Lookup("rv32e")
	lim, ok := tgt.Limits("GPR")
	if !ok {
		t.Fatal("rv32e should define GPR")
	}
	if lim.CalleeSaved != 2 {
		t.Errorf("rv32e callee-saved = %d, want 2 (s0/s1 only)", lim.CalleeSaved)
	}
	fpr, _ := tgt.Limits("FPR")
	if fpr.Allocatable != 0 {
		t.Errorf("rv32e has no float unit, FPR allocatable = %d", fpr.Allocatable)
	}
}

func TestX86XMMNotCalleeSaved(t *testing.T) {
	tgt, _ := Lookup("x86-64")
	lim, ok := tgt.Limits("VR128")
	if !ok {
		t.Fatal("x86-64 should define VR128")
	}
	if lim.CalleeSaved != 0 {
		t.Errorf("SysV XMM registers are caller-saved, got callee-saved = %d", lim.CalleeSaved)
	}
}

func TestLimitsFuncUnknownClassIsZero(t *testing.T) {
	tgt, _ := Lookup("rv64")
	lim := tgt.LimitsFunc()("MASK")
	if lim.Allocatable != 0 {
		t.Errorf("unknown class should report zero allocatable, got %d", lim.Allocatable)
	}
}

func TestRegClassContainment(t *testing.T) {
	tgt, _ := Lookup("rv64")
	if got := tgt.ClassesOf("a0"); len(got) != 1 || got[0] != "GPR" {
		t.Errorf("a0 classes = %v, want [GPR]", got)
	}
	if got := tgt.ClassesOf("fs3"); len(got) != 1 || got[0] != "FPR" {
		t.Errorf("fs3 classes = %v, want [FPR]", got)
	}
	if got := tgt.ClassesOf("bogus"); got != nil {
		t.Errorf("unknown register should have no classes, got %v", got)
	}
}
