// Copyright 2019 Michal Derkacz. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package svd

import (
	"strings"
	"testing"
)

const testdoc = `<?xml version="1.0" encoding="utf-8"?>
<device>
  <name>CM0plus</name>
  <version>1.0</version>
  <size>32</size>
  <peripherals>
    <peripheral>
      <name>NVIC</name>
      <baseAddress>0xE000E100</baseAddress>
      <registers>
        <register>
          <name>IP</name>
          <description>Interrupt Priority Register</description>
          <addressOffset>300</addressOffset>
          <size>8</size>
          <dim>32</dim>
          <dimIncrement>0x1</dimIncrement>
          <dimIndex>0-31</dimIndex>
          <fields>
            <field>
              <name>PRI</name>
              <bitOffset>6</bitOffset>
              <bitWidth>2</bitWidth>
            </field>
          </fields>
        </register>
        <register>
          <name>ISER</name>
          <addressOffset>0x0</addressOffset>
          <size>0x20</size>
        </register>
      </registers>
    </peripheral>
    <peripheral derivedFrom="NVIC">
      <name>NVIC2</name>
      <baseAddress>E000F100</baseAddress>
    </peripheral>
  </peripherals>
</device>
`

func TestParse(t *testing.T) {
	dev, err := Parse(strings.NewReader(testdoc))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if dev.Name != "CM0plus" || dev.Size == nil || *dev.Size != 32 {
		t.Errorf("device = %s size %v; want CM0plus size 32", dev.Name, dev.Size)
	}
	if len(dev.Peripherals) != 2 {
		t.Fatalf("got %d peripherals; want 2", len(dev.Peripherals))
	}
	p := dev.Peripherals[0]
	if p.Name == nil || *p.Name != "NVIC" {
		t.Fatalf("peripheral name = %v; want NVIC", p.Name)
	}
	if p.BaseAddress == nil || *p.BaseAddress != 0xe000e100 {
		t.Errorf("baseAddress = %v; want 0xe000e100", p.BaseAddress)
	}
	if len(p.Registers) != 2 {
		t.Fatalf("got %d registers; want 2", len(p.Registers))
	}
	ip := p.Registers[0]
	// addressOffset is hexadecimal even without the 0x prefix.
	if ip.AddressOffset == nil || *ip.AddressOffset != 0x300 {
		t.Errorf("IP addressOffset = %v; want 0x300", ip.AddressOffset)
	}
	if ip.Size == nil || *ip.Size != 8 {
		t.Errorf("IP size = %v; want 8", ip.Size)
	}
	if ip.Dim == nil || *ip.Dim != 32 || ip.DimIncrement == nil || *ip.DimIncrement != 1 {
		t.Errorf("IP dim = %v increment %v; want 32, 1", ip.Dim, ip.DimIncrement)
	}
	if ip.DimIndex == nil || *ip.DimIndex != "0-31" {
		t.Errorf("IP dimIndex = %v; want 0-31", ip.DimIndex)
	}
	if len(ip.Fields) != 1 {
		t.Fatalf("IP got %d fields; want 1", len(ip.Fields))
	}
	f := ip.Fields[0]
	if *f.Name != "PRI" || *f.BitOffset != 6 || *f.BitWidth != 2 {
		t.Errorf("field = %s [%d:%d]; want PRI bits 6..7", *f.Name, *f.BitOffset, *f.BitWidth)
	}
	// size falls back to hexadecimal for 0x-prefixed values.
	if iser := p.Registers[1]; iser.Size == nil || *iser.Size != 32 {
		t.Errorf("ISER size = %v; want 32", iser.Size)
	}
	p2 := dev.Peripherals[1]
	if p2.DerivedFrom == nil || *p2.DerivedFrom != "NVIC" {
		t.Errorf("NVIC2 derivedFrom = %v; want NVIC", p2.DerivedFrom)
	}
	if p2.BaseAddress == nil || *p2.BaseAddress != 0xe000f100 {
		t.Errorf("NVIC2 baseAddress = %v; want 0xe000f100", p2.BaseAddress)
	}
	if ip.Description == nil || *ip.Description != "Interrupt Priority Register" {
		t.Errorf("IP description = %v", ip.Description)
	}
}

func TestParseMalformedNumbers(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{
			"baseAddress not hexadecimal",
			`<device><peripherals><peripheral>
				<name>P</name><baseAddress>xyz</baseAddress>
			</peripheral></peripherals></device>`,
		},
		{
			"bitOffset not decimal",
			`<device><peripherals><peripheral>
				<name>P</name><baseAddress>0</baseAddress>
				<registers><register>
					<name>R</name><addressOffset>0</addressOffset><size>32</size>
					<fields><field>
						<name>F</name><bitOffset>0x4</bitOffset><bitWidth>1</bitWidth>
					</field></fields>
				</register></registers>
			</peripheral></peripherals></device>`,
		},
		{
			"size not a number",
			`<device><peripherals><peripheral>
				<name>P</name><baseAddress>0</baseAddress>
				<registers><register>
					<name>R</name><addressOffset>0</addressOffset><size>word</size>
				</register></registers>
			</peripheral></peripherals></device>`,
		},
	}
	for _, tc := range tests {
		if _, err := Parse(strings.NewReader(tc.doc)); err == nil {
			t.Errorf("%s: Parse: want error", tc.name)
		}
	}
}
