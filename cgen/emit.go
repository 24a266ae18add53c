// Copyright 2019 Michal Derkacz. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cgen

import (
	"fmt"
	"io"
	"strings"
)

type generator struct {
	w     io.Writer
	pmap  map[string]*Peripheral
	names map[string]string // generated C identifier -> owning peripheral/register
}

// Gen writes the C declarations for all peripherals of dev to w: a
// do-not-edit header for the whole output, then a banner and base-address
// macro per peripheral and one typedef-plus-macros block per register. A
// peripheral with DerivedFrom set is emitted with the register set of the
// peripheral it derives from, under its own name and base address.
//
// Every register block is rendered and checked in full before it is written,
// so a layout or naming error never leaves a truncated block on w.
func Gen(w io.Writer, dev *Device) error {
	g := &generator{
		w:     w,
		pmap:  make(map[string]*Peripheral, len(dev.Periphs)),
		names: make(map[string]string),
	}
	for _, p := range dev.Periphs {
		g.pmap[p.Name] = p
	}
	_, err := fmt.Fprintf(
		w, "// Code generated by svdcgen from the %s SVD description; DO NOT EDIT.\n\n",
		dev.Name,
	)
	if err != nil {
		return err
	}
	for _, p := range dev.Periphs {
		if err := g.peripheral(p); err != nil {
			return err
		}
	}
	return nil
}

func (g *generator) peripheral(p *Peripheral) error {
	regs := p.Regs
	if p.DerivedFrom != "" {
		orig := g.pmap[p.DerivedFrom]
		if orig == nil {
			return fmt.Errorf(
				"peripheral %s is derived from unknown peripheral %s",
				p.Name, p.DerivedFrom,
			)
		}
		regs = orig.Regs
	}

	var b strings.Builder
	fmt.Fprintln(&b, "//", p.Name)
	fmt.Fprintln(&b, "//", strings.Repeat("=", len(p.Name)))
	if p.Descr != "" {
		fmt.Fprintln(&b, "//", p.Descr)
	}
	if p.DerivedFrom != "" {
		fmt.Fprintln(&b, "//", p.Name, "is derived from", p.DerivedFrom)
	}
	base := p.Name + "_BASE"
	if err := g.claim(base, p.Name); err != nil {
		return err
	}
	fmt.Fprintf(&b, "#define %s %#x\n", base, p.Base)
	if _, err := io.WriteString(g.w, b.String()+"\n"); err != nil {
		return err
	}

	for _, r := range regs {
		s, err := g.register(p, r)
		if err != nil {
			return fmt.Errorf("peripheral %s: register %s: %w", p.Name, r.Name, err)
		}
		if _, err := io.WriteString(g.w, s+"\n"); err != nil {
			return err
		}
	}
	_, err := io.WriteString(g.w, "\n")
	return err
}

// register renders one complete typedef-plus-macros block, without the blank
// line that separates blocks. Nothing is written to the output: the caller
// gets either the whole block or an error.
func (g *generator) register(p *Peripheral, r *Register) (string, error) {
	ms, err := Layout(r.BitSiz, r.Fields)
	if err != nil {
		return "", err
	}
	if r.Len > 0 && r.Stride*8 != r.BitSiz {
		// Element access goes through pointer indexing, so the stride is
		// sizeof(type); any other dimIncrement would address wrong memory.
		return "", fmt.Errorf(
			"dimIncrement %d does not match the %d-bit element size",
			r.Stride, r.BitSiz,
		)
	}
	raw := p.Name + "_" + r.Name
	bits := raw + "bits"
	for _, id := range []string{raw, bits, bits + "_t"} {
		if err := g.claim(id, raw); err != nil {
			return "", err
		}
	}
	typ := CType(r.BitSiz)
	addr := p.Base + r.Offset

	var b strings.Builder
	if r.Descr != "" {
		fmt.Fprintln(&b, "//", r.Descr)
	}
	if r.Len > 0 {
		fmt.Fprintf(&b, "// %d elements, %d-byte stride\n", r.Len, r.Stride)
	}
	fmt.Fprintln(&b, "typedef struct __attribute__((__packed__)) {")
	for _, m := range ms {
		if m.Name == "" {
			fmt.Fprintf(&b, "    %s : %d;\n", typ, m.Width)
		} else {
			fmt.Fprintf(&b, "    %s %s: %d;\n", typ, m.Name, m.Width)
		}
	}
	fmt.Fprintf(&b, "} %s_t;\n", bits)
	if r.Len > 0 {
		// Array registers get plain pointer macros: indexing does the
		// dereference, REG[n] == *(REG + n).
		fmt.Fprintf(&b, "#define %s ((volatile %s *)%#x)\n", raw, typ, addr)
		fmt.Fprintf(&b, "#define %s ((volatile %s_t *)%#x)\n", bits, bits, addr)
	} else {
		fmt.Fprintf(&b, "#define %s (*(volatile %s *)%#x)\n", raw, typ, addr)
		fmt.Fprintf(&b, "#define %s (*(volatile %s_t *)%#x)\n", bits, bits, addr)
	}
	return b.String(), nil
}

func (g *generator) claim(id, owner string) error {
	if prev, ok := g.names[id]; ok {
		return fmt.Errorf("%s and %s both generate %s", prev, owner, id)
	}
	g.names[id] = owner
	return nil
}

func fixSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
