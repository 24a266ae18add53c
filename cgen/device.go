// Copyright 2019 Michal Derkacz. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cgen translates an SVD device description into C register
// definitions: a packed bitfield struct per register and address macros that
// access the register as a raw word or through its bitfield view.
package cgen

import (
	"fmt"

	"github.com/embeddedgo/svdcgen/svd"
)

// Field is a named contiguous bit range within a register.
type Field struct {
	Name   string
	Offset uint // first bit
	Width  uint // number of bits, > 0
}

// Register describes one addressable storage unit of a peripheral. Len > 0
// marks an array register: Len elements spaced Stride bytes apart, each with
// the layout described by Fields.
type Register struct {
	Name   string
	Descr  string
	Offset uint64 // byte offset from the peripheral base address
	BitSiz uint
	Len    int    // array length, 0 for a scalar register
	Stride uint   // byte distance between array elements
	Index  string // dimIndex text, informational only
	Fields []*Field
}

// Peripheral is a named block of registers at a fixed base address. A
// peripheral with DerivedFrom set borrows the register set of the named
// peripheral; Regs is left empty in that case and resolved during emission.
type Peripheral struct {
	Name        string
	Descr       string
	Base        uint64
	DerivedFrom string
	Regs        []*Register
}

type Device struct {
	Name    string
	Periphs []*Peripheral
}

// Translate converts the parsed SVD tree into typed records, checking the
// elements the generator relies on. Registers without their own <size>
// inherit the device-level default; a register left with no size at all is
// rejected.
func Translate(sdev *svd.Device) (*Device, error) {
	defsiz := uint(0)
	if sdev.Size != nil {
		defsiz = uint(*sdev.Size)
	}
	dev := &Device{Name: sdev.Name}
	for i, sp := range sdev.Peripherals {
		if sp.Name == nil {
			return nil, fmt.Errorf("peripheral %d: missing <name>", i)
		}
		if sp.BaseAddress == nil {
			return nil, fmt.Errorf("peripheral %s: missing <baseAddress>", *sp.Name)
		}
		p := &Peripheral{
			Name: *sp.Name,
			Base: uint64(*sp.BaseAddress),
		}
		if sp.Description != nil {
			p.Descr = fixSpaces(*sp.Description)
		}
		if sp.DerivedFrom != nil {
			p.DerivedFrom = *sp.DerivedFrom
		}
		for k, sr := range sp.Registers {
			r, err := translateReg(sr, defsiz)
			if err != nil {
				return nil, fmt.Errorf("peripheral %s: register %d: %w", p.Name, k, err)
			}
			p.Regs = append(p.Regs, r)
		}
		dev.Periphs = append(dev.Periphs, p)
	}
	return dev, nil
}

func translateReg(sr *svd.Register, defsiz uint) (*Register, error) {
	if sr.Name == nil {
		return nil, fmt.Errorf("missing <name>")
	}
	r := &Register{Name: *sr.Name}
	if sr.Description != nil {
		r.Descr = fixSpaces(*sr.Description)
	}
	if sr.AddressOffset == nil {
		return nil, fmt.Errorf("%s: missing <addressOffset>", r.Name)
	}
	r.Offset = uint64(*sr.AddressOffset)
	switch {
	case sr.Size != nil:
		r.BitSiz = uint(*sr.Size)
	case defsiz != 0:
		r.BitSiz = defsiz
	default:
		return nil, fmt.Errorf("%s: missing <size>", r.Name)
	}
	if sr.Dim != nil {
		if sr.DimIncrement == nil {
			return nil, fmt.Errorf("%s: <dim> without <dimIncrement>", r.Name)
		}
		r.Len = int(*sr.Dim)
		r.Stride = uint(*sr.DimIncrement)
		if sr.DimIndex != nil {
			r.Index = *sr.DimIndex
		}
	}
	for _, sf := range sr.Fields {
		if sf.Name == nil {
			return nil, fmt.Errorf("%s: field missing <name>", r.Name)
		}
		f := &Field{Name: *sf.Name}
		if sf.BitOffset == nil {
			return nil, fmt.Errorf("%s: field %s: missing <bitOffset>", r.Name, f.Name)
		}
		f.Offset = uint(*sf.BitOffset)
		if sf.BitWidth == nil {
			return nil, fmt.Errorf("%s: field %s: missing <bitWidth>", r.Name, f.Name)
		}
		f.Width = uint(*sf.BitWidth)
		if f.Width == 0 {
			return nil, fmt.Errorf("%s: field %s: zero <bitWidth>", r.Name, f.Name)
		}
		r.Fields = append(r.Fields, f)
	}
	return r, nil
}
