package ir

// ByteRange is a half-open [Start,End) byte offset into a Source Unit's
// raw bytes. It is the only authority for source locations downstream of
// the AST decoder.
type ByteRange struct {
	Start int
	End   int
}

// Contains reports whether r fully contains o.
func (r ByteRange) Contains(o ByteRange) bool {
	return r.Start <= o.Start && o.End <= r.End
}

// Len returns the number of bytes spanned by r.
func (r ByteRange) Len() int {
	return r.End - r.Start
}

// Overlap returns the number of bytes r and o have in common.
func (r ByteRange) Overlap(o ByteRange) int {
	start := max(r.Start, o.Start)
	end := min(r.End, o.End)
	if end <= start {
		return 0
	}
	return end - start
}

// Node is implemented by every IR node. Behaviour is dispatched by
// switching on Kind() (see the "dynamic dispatch" design note) rather
// than by open-ended interface methods, so Node itself stays tiny.
type Node interface {
	Kind() Kind
	Range() ByteRange
	Parent() Node
	CU() string
	ID() int

	setParent(Node)
}

// Base is embedded by every concrete node type. It satisfies the bulk of
// the Node interface so concrete types only need to set KindValue in
// their constructor.
type Base struct {
	KindValue Kind
	ByteRange ByteRange
	CUHash    string
	ASTID     int
	parent    Node
}

func (b *Base) Kind() Kind        { return b.KindValue }
func (b *Base) Range() ByteRange  { return b.ByteRange }
func (b *Base) Parent() Node      { return b.parent }
func (b *Base) CU() string        { return b.CUHash }
func (b *Base) ID() int           { return b.ASTID }
func (b *Base) setParent(p Node)  { b.parent = p }

// NodeHandle returns the (ast_id, cu_hash) handle identifying n. Resolving
// the handle through ir/resolve.Resolver returns n back (round-trip,
// Testable Property 4).
func NodeHandle(n Node) Handle {
	return Handle{ASTID: n.ID(), CUHash: n.CU()}
}

// attach sets child's parent to parent and asserts the cu_hash invariant
// (a node's cu_hash equals its parent's). It panics on violation because
// that invariant can only be broken by a bug in the decoder itself, never
// by malformed input (malformed input is rejected earlier as
// MalformedAstError).
func attach(parent, child Node) {
	if child == nil {
		return
	}
	if parent != nil && child.CU() != parent.CU() {
		panic("ir: child cu_hash does not match parent cu_hash")
	}
	child.setParent(parent)
}
