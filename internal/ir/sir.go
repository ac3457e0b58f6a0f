// Package ir lowers a parsed internal/ast.Program into the statement
// intermediate representation (SIR) described in spec.md §3/§4.3, and
// populates a symtab.FileSymbolTable while doing it.
package ir

import (
	"github.com/dekarrin/dpc/internal/ast"
	"github.com/dekarrin/dpc/internal/exprtree"
)

// StmtKind tags the concrete type of a Stmt.
type StmtKind int

const (
	SIRDialogue StmtKind = iota
	SIRMenu
	SIRJump
	SIRTour
	SIRCall
	SIRAssign
	SIRIf
	// SIRPop is the sentinel scope-cleanup marker spec.md §3 reserves for
	// the runtime collaborator: emitted after every lowered block (if
	// branch, menu item body) so the runtime knows to pop the scope it
	// pushed on entering that block.
	SIRPop
)

// Stmt is one lowered statement, tagged-variant style like internal/ast.
type Stmt interface {
	Kind() StmtKind
	Position() ast.Pos

	AsDialogue() *DialogueStmt
	AsMenu() *MenuStmt
	AsJump() *JumpStmt
	AsTour() *TourStmt
	AsCall() *CallStmt
	AsAssign() *AssignStmt
	AsIf() *IfStmt
	AsPop() *PopStmt
}

type baseStmt struct {
	pos ast.Pos
}

func (b baseStmt) Position() ast.Pos { return b.pos }

func (b baseStmt) AsDialogue() *DialogueStmt { panic("Kind() is not SIRDialogue") }
func (b baseStmt) AsMenu() *MenuStmt         { panic("Kind() is not SIRMenu") }
func (b baseStmt) AsJump() *JumpStmt         { panic("Kind() is not SIRJump") }
func (b baseStmt) AsTour() *TourStmt         { panic("Kind() is not SIRTour") }
func (b baseStmt) AsCall() *CallStmt         { panic("Kind() is not SIRCall") }
func (b baseStmt) AsAssign() *AssignStmt     { panic("Kind() is not SIRAssign") }
func (b baseStmt) AsIf() *IfStmt             { panic("Kind() is not SIRIf") }
func (b baseStmt) AsPop() *PopStmt           { panic("Kind() is not SIRPop") }

// DialogueStmt is a lowered `SPEAKER? "text"` line.
type DialogueStmt struct {
	baseStmt
	Speaker string
	Text    *exprtree.FStringNode
}

func (n *DialogueStmt) Kind() StmtKind           { return SIRDialogue }
func (n *DialogueStmt) AsDialogue() *DialogueStmt { return n }

func NewDialogueStmt(pos ast.Pos, speaker string, text *exprtree.FStringNode) *DialogueStmt {
	return &DialogueStmt{baseStmt: baseStmt{pos}, Speaker: speaker, Text: text}
}

// MenuItem is one lowered `"text": body` entry.
type MenuItem struct {
	Text *exprtree.FStringNode
	Body []Stmt
}

// MenuStmt is a lowered run of menu items.
type MenuStmt struct {
	baseStmt
	Items []MenuItem
}

func (n *MenuStmt) Kind() StmtKind   { return SIRMenu }
func (n *MenuStmt) AsMenu() *MenuStmt { return n }

func NewMenuStmt(pos ast.Pos, items []MenuItem) *MenuStmt {
	return &MenuStmt{baseStmt: baseStmt{pos}, Items: items}
}

// JumpStmt is a lowered tail-transfer.
type JumpStmt struct {
	baseStmt
	Target string
}

func (n *JumpStmt) Kind() StmtKind   { return SIRJump }
func (n *JumpStmt) AsJump() *JumpStmt { return n }

func NewJumpStmt(pos ast.Pos, target string) *JumpStmt {
	return &JumpStmt{baseStmt: baseStmt{pos}, Target: target}
}

// TourStmt is a lowered call-and-return transfer.
type TourStmt struct {
	baseStmt
	Target string
}

func (n *TourStmt) Kind() StmtKind   { return SIRTour }
func (n *TourStmt) AsTour() *TourStmt { return n }

func NewTourStmt(pos ast.Pos, target string) *TourStmt {
	return &TourStmt{baseStmt: baseStmt{pos}, Target: target}
}

// CallStmt is a lowered `call name(args)`.
type CallStmt struct {
	baseStmt
	Name string
	Args []exprtree.Node
}

func (n *CallStmt) Kind() StmtKind   { return SIRCall }
func (n *CallStmt) AsCall() *CallStmt { return n }

func NewCallStmt(pos ast.Pos, name string, args []exprtree.Node) *CallStmt {
	return &CallStmt{baseStmt: baseStmt{pos}, Name: name, Args: args}
}

// AssignStmt is a lowered `$var op= expr`. Value already has any compound
// operator desugared into `BinaryOpNode(op, Variable(var), expr)`
// (spec.md §4.3); a bare `=` keeps Value as the plain lowered expr.
type AssignStmt struct {
	baseStmt
	Var   string
	Value exprtree.Node
}

func (n *AssignStmt) Kind() StmtKind     { return SIRAssign }
func (n *AssignStmt) AsAssign() *AssignStmt { return n }

func NewAssignStmt(pos ast.Pos, varName string, value exprtree.Node) *AssignStmt {
	return &AssignStmt{baseStmt: baseStmt{pos}, Var: varName, Value: value}
}

// IfStmt is a lowered `if/elif/else` (elif chains already folded into
// nested IfStmts inside Else by the parser).
type IfStmt struct {
	baseStmt
	Cond exprtree.Node
	Then []Stmt
	Else []Stmt
}

func (n *IfStmt) Kind() StmtKind { return SIRIf }
func (n *IfStmt) AsIf() *IfStmt   { return n }

func NewIfStmt(pos ast.Pos, cond exprtree.Node, then, els []Stmt) *IfStmt {
	return &IfStmt{baseStmt: baseStmt{pos}, Cond: cond, Then: then, Else: els}
}

// PopStmt is the scope-cleanup sentinel.
type PopStmt struct {
	baseStmt
}

func (n *PopStmt) Kind() StmtKind { return SIRPop }
func (n *PopStmt) AsPop() *PopStmt { return n }

func NewPopStmt(pos ast.Pos) *PopStmt {
	return &PopStmt{baseStmt: baseStmt{pos}}
}

// DefaultEntrance is the reserved name of the synthesized entrance label
// for a root file's top-level statements (spec.md §3/§6).
const DefaultEntrance = "@system/__main__"

// Label is the lowered form of an ast.LabelBlock: the unit of entry.
type Label struct {
	Name       string
	SourceID   string
	Statements []Stmt
}

// LabelSet is a compiled artifact: every label reachable from one file
// (or, after CollectLabels, a whole import closure), plus its entrance.
type LabelSet struct {
	Entrance string
	Labels   map[string]*Label
}

// NewLabelSet returns an empty set with the default entrance name.
func NewLabelSet() *LabelSet {
	return &LabelSet{Entrance: DefaultEntrance, Labels: make(map[string]*Label)}
}

// Merge folds other into ls with first-wins semantics on name collision
// (spec.md §4.4's CollectLabels): a name already present in ls is left
// untouched.
func (ls *LabelSet) Merge(other *LabelSet) {
	for name, label := range other.Labels {
		if _, exists := ls.Labels[name]; !exists {
			ls.Labels[name] = label
		}
	}
}
