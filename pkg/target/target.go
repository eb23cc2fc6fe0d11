// Package target holds the per-architecture register facts consumed
// by the simulator: register classes with their allocatable and
// callee-saved counts, the always-zero register excluded from fixed
// tallies, and the class-containment mapping for physical registers.
//
// The engine treats everything here as opaque configuration. ABI
// differences between variants (e.g. the constrained rv32e register
// file) are expressed as different tables, never derived.
package target

import (
	"fmt"
	"sort"

	"github.com/raymyers/regsim/pkg/regclass"
)

// Class is one register class of a target.
type Class struct {
	Name   string
	Limits regclass.Limits
}

// Target describes one architecture variant.
type Target struct {
	Name    string
	Classes []Class
	// ZeroReg is the designated always-zero register, excluded from
	// fixed-register tallies ("" if the target has none).
	ZeroReg string
	// RegClasses maps a physical register name to the names of every
	// class whose allocatable set contains it. A register appearing
	// in several classes is counted once per class, matching the
	// original tooling's over-approximation.
	RegClasses map[string][]string
}

// Limits returns the capacity facts for a class name.
func (t *Target) Limits(class string) (regclass.Limits, bool) {
	for _, c := range t.Classes {
		if c.Name == class {
			return c.Limits, true
		}
	}
	return regclass.Limits{}, false
}

// LimitsFunc adapts the target table to the catalog's lazy lookup.
// Unknown classes report zero allocatable registers, which the
// catalog treats as "exclude from simulation".
func (t *Target) LimitsFunc() func(class string) regclass.Limits {
	return func(class string) regclass.Limits {
		lim, _ := t.Limits(class)
		return lim
	}
}

// ClassesOf returns the class names containing a physical register.
func (t *Target) ClassesOf(reg string) []string {
	return t.RegClasses[reg]
}

// RISC-V RV64GC: 32 integer registers minus x0/ra/sp/gp/tp, s0-s11
// callee-saved; full float file with fs0-fs11 callee-saved.
var rv64 = &Target{
	Name:    "rv64",
	ZeroReg: "zero",
	Classes: []Class{
		{Name: "GPR", Limits: regclass.Limits{Allocatable: 27, CalleeSaved: 12}},
		{Name: "FPR", Limits: regclass.Limits{Allocatable: 32, CalleeSaved: 12}},
	},
	RegClasses: riscvRegClasses(true),
}

// RV32E: 16-register file, only s0/s1 callee-saved, no float unit.
var rv32e = &Target{
	Name:    "rv32e",
	ZeroReg: "zero",
	Classes: []Class{
		{Name: "GPR", Limits: regclass.Limits{Allocatable: 11, CalleeSaved: 2}},
		{Name: "FPR", Limits: regclass.Limits{Allocatable: 0, CalleeSaved: 0}},
	},
	RegClasses: riscvRegClasses(false),
}

// x86-64 SysV: rsp/rbp reserved, rbx/r12-r15 callee-saved, and the
// XMM file is entirely caller-saved (callee-saved count zero).
var x8664 = &Target{
	Name: "x86-64",
	Classes: []Class{
		{Name: "GR64", Limits: regclass.Limits{Allocatable: 14, CalleeSaved: 5}},
		{Name: "VR128", Limits: regclass.Limits{Allocatable: 16, CalleeSaved: 0}},
	},
	RegClasses: x86RegClasses(),
}

var targets = map[string]*Target{
	rv64.Name:  rv64,
	rv32e.Name: rv32e,
	x8664.Name: x8664,
}

// Lookup returns a built-in target by name.
func Lookup(name string) (*Target, bool) {
	t, ok := targets[name]
	return t, ok
}

// Names lists the built-in target names, sorted.
func Names() []string {
	names := make([]string, 0, len(targets))
	for n := range targets {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func riscvRegClasses(withFloat bool) map[string][]string {
	m := make(map[string][]string)
	abi := []string{"zero", "ra", "sp", "gp", "tp"}
	for i := 0; i <= 6; i++ {
		abi = append(abi, fmt.Sprintf("t%d", i))
	}
	for i := 0; i <= 11; i++ {
		abi = append(abi, fmt.Sprintf("s%d", i))
	}
	for i := 0; i <= 7; i++ {
		abi = append(abi, fmt.Sprintf("a%d", i))
	}
	for _, r := range abi {
		m[r] = []string{"GPR"}
	}
	if withFloat {
		for i := 0; i <= 31; i++ {
			m[fmt.Sprintf("f%d", i)] = []string{"FPR"}
		}
		for i := 0; i <= 7; i++ {
			m[fmt.Sprintf("fa%d", i)] = []string{"FPR"}
			m[fmt.Sprintf("ft%d", i)] = []string{"FPR"}
		}
		for i := 0; i <= 11; i++ {
			m[fmt.Sprintf("fs%d", i)] = []string{"FPR"}
		}
	}
	return m
}

func x86RegClasses() map[string][]string {
	m := make(map[string][]string)
	for _, r := range []string{
		"rax", "rbx", "rcx", "rdx", "rsi", "rdi", "rbp", "rsp",
		"r8", "r9", "r10", "r11", "r12", "r13", "r14", "r15",
	} {
		m[r] = []string{"GR64"}
	}
	for i := 0; i <= 15; i++ {
		m[fmt.Sprintf("xmm%d", i)] = []string{"VR128"}
	}
	return m
}
