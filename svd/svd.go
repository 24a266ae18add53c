// Copyright 2019 Michal Derkacz. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package svd reads the subset of the CMSIS-SVD format needed to generate C
// register definitions: peripherals, registers and bit fields together with
// their addresses and dimensions. Optional elements are pointer fields so a
// consumer can tell an absent element from a zero value.
package svd

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Hex is an integer written in hexadecimal, with or without the 0x prefix
// (baseAddress, addressOffset).
type Hex uint64

func (h *Hex) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	var s string
	if err := d.DecodeElement(&s, &start); err != nil {
		return err
	}
	t := strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	v, err := strconv.ParseUint(t, 16, 64)
	if err != nil {
		return fmt.Errorf("<%s>: %q is not a hexadecimal integer", start.Name.Local, s)
	}
	*h = Hex(v)
	return nil
}

// Dec is a decimal integer (dim, bitOffset, bitWidth).
type Dec uint

func (n *Dec) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	var s string
	if err := d.DecodeElement(&s, &start); err != nil {
		return err
	}
	v, err := strconv.ParseUint(s, 10, 0)
	if err != nil {
		return fmt.Errorf("<%s>: %q is not a decimal integer", start.Name.Local, s)
	}
	*n = Dec(v)
	return nil
}

// Size is a register bit width: decimal, with a hexadecimal fallback for the
// occasional 0x-prefixed value found in vendor files.
type Size uint

func (z *Size) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	var s string
	if err := d.DecodeElement(&s, &start); err != nil {
		return err
	}
	if v, err := strconv.ParseUint(s, 10, 0); err == nil {
		*z = Size(v)
		return nil
	}
	v, err := strconv.ParseUint(s, 0, 0)
	if err != nil {
		return fmt.Errorf("<%s>: %q is not a decimal or hexadecimal integer", start.Name.Local, s)
	}
	*z = Size(v)
	return nil
}

// Uint accepts any Go integer literal base (dimIncrement).
type Uint uint

func (u *Uint) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	var s string
	if err := d.DecodeElement(&s, &start); err != nil {
		return err
	}
	v, err := strconv.ParseUint(s, 0, 0)
	if err != nil {
		return fmt.Errorf("<%s>: %q is not an integer", start.Name.Local, s)
	}
	*u = Uint(v)
	return nil
}

type Device struct {
	Name        string        `xml:"name"`
	Version     string        `xml:"version"`
	Description string        `xml:"description"`
	Size        *Size         `xml:"size"`
	Width       *Dec          `xml:"width"`
	Peripherals []*Peripheral `xml:"peripherals>peripheral"`
}

type Peripheral struct {
	DerivedFrom *string     `xml:"derivedFrom,attr"`
	Name        *string     `xml:"name"`
	Description *string     `xml:"description"`
	BaseAddress *Hex        `xml:"baseAddress"`
	Registers   []*Register `xml:"registers>register"`
}

type Register struct {
	Name          *string  `xml:"name"`
	Description   *string  `xml:"description"`
	AddressOffset *Hex     `xml:"addressOffset"`
	Size          *Size    `xml:"size"`
	Dim           *Dec     `xml:"dim"`
	DimIncrement  *Uint    `xml:"dimIncrement"`
	DimIndex      *string  `xml:"dimIndex"`
	Fields        []*Field `xml:"fields>field"`
}

type Field struct {
	Name        *string `xml:"name"`
	Description *string `xml:"description"`
	BitOffset   *Dec    `xml:"bitOffset"`
	BitWidth    *Dec    `xml:"bitWidth"`
}

// Parse decodes an SVD document from r.
func Parse(r io.Reader) (*Device, error) {
	dev := new(Device)
	if err := xml.NewDecoder(r).Decode(dev); err != nil {
		return nil, err
	}
	return dev, nil
}

// ParseFile decodes the SVD document stored in the named file.
func ParseFile(path string) (*Device, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	dev, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return dev, nil
}
