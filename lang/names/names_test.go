// Propgen
// Copyright (C) James Shubin and the project contributors
// Written by James Shubin <james@shubin.ca> and the project contributors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package names

import (
	"fmt"
	"testing"
)

func TestName0(t *testing.T) {
	type test struct {
		name  Name
		lower string
		camel string
		ada   string
	}
	testCases := []test{
		{FromLower("foo_node"), "foo_node", "FooNode", "Foo_Node"},
		{FromCamel("FooNode"), "foo_node", "FooNode", "Foo_Node"},
		{FromCamelWithUnderscores("Foo_Node"), "foo_node", "FooNode", "Foo_Node"},
		{FromLower("item"), "item", "Item", "Item"},
		{FromLower("p").Add(FromLower("is_leaf")), "p_is_leaf", "PIsLeaf", "P_Is_Leaf"},
		{FromLower("result").Suffix(2), "result_2", "Result2", "Result_2"},
		{Name{}.Add(FromLower("map")), "map", "Map", "Map"},
	}

	for index, tc := range testCases {
		t.Run(fmt.Sprintf("test #%d (%s)", index, tc.lower), func(t *testing.T) {
			if s := tc.name.Lower(); s != tc.lower {
				t.Errorf("lower: expected %s, got %s", tc.lower, s)
			}
			if s := tc.name.Camel(); s != tc.camel {
				t.Errorf("camel: expected %s, got %s", tc.camel, s)
			}
			if s := tc.name.CamelWithUnderscores(); s != tc.ada {
				t.Errorf("ada: expected %s, got %s", tc.ada, s)
			}
		})
	}
}

func TestNameCompare0(t *testing.T) {
	if FromLower("f_a") != FromLower("f").Add(FromLower("a")) {
		t.Errorf("names with the same words should be equal")
	}
	if !FromLower("f_abc").HasPrefix(FromLower("f")) {
		t.Errorf("expected prefix to match")
	}
	if FromLower("foo").HasPrefix(FromLower("f")) {
		t.Errorf("prefix must match whole words")
	}
	if !(Name{}).IsEmpty() {
		t.Errorf("zero name should be empty")
	}
}
