// Copyright 2019 Michal Derkacz. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cgen

import (
	"fmt"
	"sort"
)

// Member is one entry of a register's bitfield layout: a named field or, with
// an empty Name, an anonymous run of reserved padding bits.
type Member struct {
	Name  string
	Width uint
}

// CType returns the name of the unsigned C integer type for a register of the
// given bit width. Widths other than 8, 16, 32, 64 map to uintN_t as a
// pass-through default.
func CType(bits uint) string {
	switch bits {
	case 8:
		return "uint8_t"
	case 16:
		return "uint16_t"
	case 32:
		return "uint32_t"
	case 64:
		return "uint64_t"
	}
	return fmt.Sprintf("uint%d_t", bits)
}

// Layout partitions a size-bit register into an ordered sequence of members:
// the fields sorted by ascending bit offset, with reserved members filling
// every gap between and after them. The member widths always sum to exactly
// size; a register with no fields yields a single full-width reserved member.
// Overlapping fields, fields reaching past size and duplicate field names
// make the layout fail.
func Layout(size uint, fields []*Field) ([]Member, error) {
	fs := make([]*Field, len(fields))
	copy(fs, fields)
	sort.Slice(fs, func(i, k int) bool { return fs[i].Offset < fs[k].Offset })

	ms := make([]Member, 0, 2*len(fs)+1)
	names := make(map[string]bool, len(fs))
	end := uint(0) // bits [0, end) are covered
	prev := ""
	for _, f := range fs {
		if f.Width == 0 {
			return nil, fmt.Errorf("field %s: zero width", f.Name)
		}
		// Two comparisons so a huge offset cannot wrap the sum around.
		if f.Offset > size || f.Width > size-f.Offset {
			return nil, fmt.Errorf(
				"field %s: %d bits at offset %d exceed the %d-bit register",
				f.Name, f.Width, f.Offset, size,
			)
		}
		if f.Offset < end {
			return nil, fmt.Errorf(
				"field %s overlaps field %s at bit %d", f.Name, prev, f.Offset,
			)
		}
		if names[f.Name] {
			return nil, fmt.Errorf("duplicate field name %s", f.Name)
		}
		names[f.Name] = true
		if f.Offset > end {
			ms = append(ms, Member{Width: f.Offset - end})
		}
		ms = append(ms, Member{Name: f.Name, Width: f.Width})
		end = f.Offset + f.Width
		prev = f.Name
	}
	if end < size {
		ms = append(ms, Member{Width: size - end})
	}
	return ms, nil
}
