package cst

import (
	"testing"

	"github.com/ardnew/pyx/lang/token"
)

func name(lit string) *Node {
	return Leaf(Name, token.Token{Kind: token.Ident, Lit: lit})
}

func TestNode_Child(t *testing.T) {
	n := New(TagName, token.Token{}, name("ui"), name("Card"))

	if got := n.Child(1).Tok.Lit; got != "Card" {
		t.Errorf("Child(1) = %q", got)
	}

	for _, i := range []int{-1, 2} {
		if !n.Child(i).IsEmpty() {
			t.Errorf("Child(%d) is not empty", i)
		}
	}

	var nilNode *Node
	if !nilNode.IsEmpty() || !nilNode.Child(0).IsEmpty() {
		t.Error("nil node is not empty")
	}
}

func TestNode_Dotted(t *testing.T) {
	n := New(TagName, token.Token{}, name("ui"))
	n.Add(name("nav"), name("Bar"))

	if got := n.Dotted(); got != "ui.nav.Bar" {
		t.Errorf("Dotted() = %q", got)
	}
}

func TestKind_String(t *testing.T) {
	tests := map[Kind]string{
		Tag:       "htmltag",
		SingleTag: "singhtmltag",
		Kind(-1):  "Kind(-1)",
	}

	for k, want := range tests {
		if got := k.String(); got != want {
			t.Errorf("String() = %q, want %q", got, want)
		}
	}
}
