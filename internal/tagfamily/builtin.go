package tagfamily

import (
	"fmt"
	"sort"
	"strings"
)

// Tag16h5 is the 4×4 family with minimum Hamming distance 5.
var Tag16h5 = mustNew("tag16h5", 4, 1, 5, []uint64{
	0x231b, 0x2ea5, 0x346a, 0x45b9, 0x79a6, 0x7f6b, 0xb358, 0xe745,
	0xfe59, 0x156d, 0x380b, 0xf0ab, 0x0d84, 0x4736, 0x8c72, 0xaf10,
	0x093c, 0x93b4, 0xa503, 0x468f, 0xe137, 0x5795, 0xdf42, 0x1c1d,
	0xe9dc, 0x73ad, 0xad5f, 0xd530, 0x07ca, 0xaf2e,
})

// Tag25h9 is the 5×5 family with minimum Hamming distance 9.
var Tag25h9 = mustNew("tag25h9", 5, 1, 9, []uint64{
	0x155cbf1, 0x1e4d1b6, 0x17b0b68, 0x1eac9cd, 0x12e14ce, 0x3548bb, 0x7757e6,
	0x1065dab, 0x1baa2e7, 0xdea688, 0x81d927, 0x51b241, 0xdbc8ae, 0x1e50e19,
	0x15819d2, 0x16d8282, 0x163e035, 0x9d9b81, 0x173eec4, 0xae3a09, 0x5f7c51,
	0x1a137fc, 0xdc9562, 0x1802e45, 0x1c3542c, 0x870fa4, 0x914709, 0x16684f0,
	0xc8f2a5, 0x833ebb, 0x59717f, 0x13cd050, 0xfa0ad1, 0x1b763b0, 0xb991ce,
})

// Tag36h11 is the 6×6 family with minimum Hamming distance 11.
//
// Only ids 0-18 are compiled in; load the full table with LoadFile when
// higher ids are in use.
var Tag36h11 = mustNew("tag36h11", 6, 1, 11, []uint64{
	0xd5d628584, 0xd97f18b49, 0xdd280910e, 0xe479e9c98, 0xebcbca822,
	0xf31dab3ac, 0x056a5d085, 0x10652e1d4, 0x22b1dfead, 0x265ad0472,
	0x34fe91b86, 0x3ff962cd5, 0x43a25329a, 0x474b4385f, 0x4e9d243e9,
	0x5246149ae, 0x5997f5538, 0x683bb6c4c, 0x6be4a7211,
})

var builtins = map[string]*Family{
	Tag16h5.Name():  Tag16h5,
	Tag25h9.Name():  Tag25h9,
	Tag36h11.Name(): Tag36h11,
}

// Lookup returns a built-in family by name. The "tag" prefix is optional,
// so "36h11" and "tag36h11" are equivalent.
func Lookup(name string) (*Family, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if !strings.HasPrefix(key, "tag") {
		key = "tag" + key
	}
	f, ok := builtins[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q (known: %s)", ErrUnknownFamily, name, strings.Join(Names(), ", "))
	}
	return f, nil
}

// Names lists the built-in family names in sorted order.
func Names() []string {
	names := make([]string, 0, len(builtins))
	for n := range builtins {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Builtins returns the built-in families sorted by name.
func Builtins() []*Family {
	names := Names()
	fams := make([]*Family, len(names))
	for i, n := range names {
		fams[i] = builtins[n]
	}
	return fams
}
