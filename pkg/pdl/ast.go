// Package pdl defines the abstract syntax of Propositional Dynamic Logic
// formulas and programs, and a lexer/parser that turns the concrete
// syntax of the model checker's input files into that syntax. The AST
// carries no semantics — pkg/eval interprets it against a model.
package pdl

// Formula is the tagged union of PDL formula forms: atomic proposition,
// the four Boolean connectives, and the two program modalities.
type Formula interface {
	formulaNode()
}

// Atom is an atomic proposition reference.
type Atom struct{ Name string }

// Not is formula negation.
type Not struct{ Inner Formula }

// And is conjunction.
type And struct{ Left, Right Formula }

// Or is disjunction.
type Or struct{ Left, Right Formula }

// Implies is implication, Left -> Right.
type Implies struct{ Left, Right Formula }

// Iff is the biconditional Left <-> Right.
type Iff struct{ Left, Right Formula }

// Diamond is the possibility modality <Prog>Inner.
type Diamond struct {
	Prog  Program
	Inner Formula
}

// Box is the necessity modality [Prog]Inner.
type Box struct {
	Prog  Program
	Inner Formula
}

func (Atom) formulaNode()    {}
func (Not) formulaNode()     {}
func (And) formulaNode()     {}
func (Or) formulaNode()      {}
func (Implies) formulaNode() {}
func (Iff) formulaNode()     {}
func (Diamond) formulaNode() {}
func (Box) formulaNode()     {}

// Program is the tagged union of PDL program forms: atomic program,
// sequence, choice, iteration, and test.
type Program interface {
	programNode()
}

// ProgAtom is an atomic program reference.
type ProgAtom struct{ Name string }

// Seq is program sequencing First;Second.
type Seq struct{ First, Second Program }

// Choice is nondeterministic choice Left U Right.
type Choice struct{ Left, Right Program }

// Star is Kleene iteration Inner*.
type Star struct{ Inner Program }

// Test is the test program Cond?.
type Test struct{ Cond Formula }

func (ProgAtom) programNode() {}
func (Seq) programNode()      {}
func (Choice) programNode()   {}
func (Star) programNode()     {}
func (Test) programNode()     {}
